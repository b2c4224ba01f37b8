// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cv

import "fmt"

// Result is a status code returned by images, transfers and effects.
// Zero is success; failures are negative.
//
// Result implements error so that a code can be used as an errors.Is
// target. Use Err to turn a Result into an error value.
type Result int32

const (
	ResultSuccess              Result = 0
	ResultGeneral              Result = -1
	ResultUnimplemented        Result = -2
	ResultMemory               Result = -3
	ResultEffect               Result = -4
	ResultSelector             Result = -5
	ResultBuffer               Result = -6
	ResultParameter            Result = -7
	ResultMismatch             Result = -8
	ResultPixelFormat          Result = -9
	ResultModel                Result = -10
	ResultLibrary              Result = -11
	ResultInitialization       Result = -12
	ResultFile                 Result = -13
	ResultFeatureNotFound      Result = -14
	ResultMissingInput         Result = -15
	ResultResolution           Result = -16
	ResultUnsupportedGPU       Result = -17
	ResultWrongGPU             Result = -18
	ResultUnsupportedDriver    Result = -19
	ResultModelDependencies    Result = -20
	ResultParse                Result = -21
	ResultModelSubstitution    Result = -22
	ResultRead                 Result = -23
	ResultWrite                Result = -24
	ResultParamReadOnly        Result = -25
	ResultDevice               Result = -100
	ResultDeviceNotInitialized Result = -101
)

var resultStrings = map[Result]string{
	ResultSuccess:              "The procedure returned successfully.",
	ResultGeneral:              "An otherwise unspecified error has occurred.",
	ResultUnimplemented:        "The requested feature is not yet implemented.",
	ResultMemory:               "There is not enough memory for the requested operation.",
	ResultEffect:               "An invalid effect handle has been supplied.",
	ResultSelector:             "The given parameter selector is not valid in this effect filter.",
	ResultBuffer:               "An image buffer has not been specified.",
	ResultParameter:            "An invalid parameter value has been supplied for this effect+selector.",
	ResultMismatch:             "Some parameters are not appropriately matched.",
	ResultPixelFormat:          "The specified pixel format is not accommodated.",
	ResultModel:                "Error while loading the model.",
	ResultLibrary:              "Error loading the dynamic library.",
	ResultInitialization:       "The effect has not been properly initialized.",
	ResultFile:                 "The file could not be found.",
	ResultFeatureNotFound:      "The requested feature was not found.",
	ResultMissingInput:         "A required parameter was not set.",
	ResultResolution:           "The specified image resolution is not supported.",
	ResultUnsupportedGPU:       "The GPU is not supported.",
	ResultWrongGPU:             "The current GPU is not the one selected.",
	ResultUnsupportedDriver:    "The currently installed graphics driver is not supported.",
	ResultModelDependencies:    "There is no model with dependencies that match this system.",
	ResultParse:                "There has been a parsing or syntax error while reading a file.",
	ResultModelSubstitution:    "The specified model does not exist and has been substituted.",
	ResultRead:                 "An error occurred while reading a file.",
	ResultWrite:                "An error occurred while writing a file.",
	ResultParamReadOnly:        "The selected parameter is read-only.",
	ResultDevice:               "A GPU device operation failed.",
	ResultDeviceNotInitialized: "The GPU device has not been initialized.",
}

// String returns the human-readable translation of the code.
func (r Result) String() string {
	if s, ok := resultStrings[r]; ok {
		return s
	}
	return fmt.Sprintf("Unknown error code %d.", int32(r))
}

// Error implements error.
func (r Result) Error() string {
	return fmt.Sprintf("cv: %s (%d)", r.String(), int32(r))
}

// OK reports whether r is ResultSuccess.
func (r Result) OK() bool { return r == ResultSuccess }

// Err returns nil for ResultSuccess and an *Error otherwise.
func (r Result) Err() error {
	if r == ResultSuccess {
		return nil
	}
	return &Error{Code: r}
}

// Error is a failed Result annotated with the operation or parameter
// that produced it.
type Error struct {
	Op   string // operation or parameter identifier, may be empty
	Code Result
}

// NewError returns an Error for op failing with code.
func NewError(op string, code Result) *Error {
	return &Error{Op: op, Code: code}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("cv: %s (%d)", e.Code.String(), int32(e.Code))
	}
	return fmt.Sprintf("cv: %s: %s (%d)", e.Op, e.Code.String(), int32(e.Code))
}

// Unwrap returns the underlying Result, so errors.Is matches the code.
func (e *Error) Unwrap() error { return e.Code }

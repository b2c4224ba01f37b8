// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package onnx

import (
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ErrNoLibrary is returned when no onnxruntime library path is configured.
var ErrNoLibrary = errors.New("onnx: onnxruntime library path is empty")

var (
	envOnce sync.Once
	envErr  error
)

// runtimeOptions is the part of Config that configures the runtime.
type runtimeOptions struct {
	OnnxRuntimeLibPath string
	UseCuda            bool
	NumThreads         int

	SessionOptions *ort.SessionOptions
}

// init loads the runtime library once per process and builds session
// options.
func (o *runtimeOptions) init() error {
	if o.OnnxRuntimeLibPath == "" {
		return ErrNoLibrary
	}
	envOnce.Do(func() {
		ort.SetSharedLibraryPath(o.OnnxRuntimeLibPath)
		envErr = ort.InitializeEnvironment()
	})
	if envErr != nil {
		return fmt.Errorf("onnx: initialize environment: %w", envErr)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return fmt.Errorf("onnx: session options: %w", err)
	}
	if o.NumThreads > 0 {
		if err := options.SetIntraOpNumThreads(o.NumThreads); err != nil {
			options.Destroy()
			return fmt.Errorf("onnx: set threads: %w", err)
		}
	}
	if o.UseCuda {
		cudaOptions, err := ort.NewCUDAProviderOptions()
		if err != nil {
			options.Destroy()
			return fmt.Errorf("onnx: CUDA provider options: %w", err)
		}
		defer cudaOptions.Destroy()
		if err := options.AppendExecutionProviderCUDA(cudaOptions); err != nil {
			options.Destroy()
			return fmt.Errorf("onnx: append CUDA provider: %w", err)
		}
	}
	o.SessionOptions = options
	return nil
}

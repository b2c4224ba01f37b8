// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package onnx

import (
	"fmt"
	"runtime"
)

// Config holds the settings of the segmentation effect.
type Config struct {
	ModelPath          string // portrait matting model, .onnx
	OnnxRuntimeLibPath string // onnxruntime shared library

	// Model tensors. The input is NCHW RGB float32, the output a 1x1xHxW
	// foreground matte in 0..1.
	InputName  string
	OutputName string

	// Model input size in quality mode. Performance mode halves both.
	InputWidth  int
	InputHeight int

	// Threshold binarizes the matte when > 0.
	Threshold float32

	UseCuda    bool // run on the CUDA execution provider
	NumThreads int  // intra-op threads, 0 lets the runtime decide
}

// DefaultConfig returns the settings for a MODNet style matting model.
func DefaultConfig() Config {
	return Config{
		ModelPath:          "./models/modnet_photographic_portrait_matting.onnx",
		OnnxRuntimeLibPath: DefaultLibraryPath(),
		InputName:          "input",
		OutputName:         "output",
		InputWidth:         512,
		InputHeight:        288,
	}
}

// DefaultLibraryPath returns the platform name of the onnxruntime library
// under ./lib/.
func DefaultLibraryPath() string {
	const baseDir, libName = "./lib/", "onnxruntime"
	switch runtime.GOOS {
	case "windows":
		return baseDir + libName + ".dll"
	case "darwin":
		return fmt.Sprintf("%s%s_%s.dylib", baseDir, libName, runtime.GOARCH)
	default:
		return fmt.Sprintf("%s%s_%s.so", baseDir, libName, runtime.GOARCH)
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package onnx implements background removal with an ONNX Runtime
// portrait matting model.
//
// The frame is resampled to the model input size, normalized to -1..1 and
// run through the model; the predicted matte is scaled back to the frame
// size and written to the mask image.
//
// Importing the package registers the effect under effect.BackendONNX
// with DefaultConfig.
package onnx

import (
	"fmt"
	"path/filepath"

	"github.com/up-zero/gotool/convertutil"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/gogpu/vfx"
	"github.com/gogpu/vfx/cv"
	"github.com/gogpu/vfx/effect"
)

func init() {
	effect.Register(effect.BackendONNX, func() effect.Effect { return New(DefaultConfig()) })
}

// Effect is the ONNX segmentation effect.
type Effect struct {
	effect.Base
	cfg Config

	session   *ort.DynamicAdvancedSession
	modelPath string // model the session was built from

	prepared bool
	inW, inH int
	src, dst *cv.Image
	input    []float32
}

var _ effect.Effect = (*Effect)(nil)

// New returns an ONNX segmentation effect. The model is loaded by Prepare.
func New(cfg Config) *Effect {
	return &Effect{cfg: cfg}
}

// Prepare implements effect.Effect. It (re)builds the runtime session when
// the model path changed and sizes the input tensor for the current mode.
func (e *Effect) Prepare() cv.Result {
	e.prepared = false
	src, dst, res := e.Images()
	if !res.OK() {
		return res
	}
	w, h, res := inputSize(e.cfg, e.Uint32(effect.Mode, effect.ModeQuality))
	if !res.OK() {
		return res
	}

	path := e.cfg.ModelPath
	if dir := e.String(effect.ModelDir, ""); dir != "" {
		path = filepath.Join(dir, filepath.Base(path))
	}
	if e.session == nil || e.modelPath != path {
		if res := e.load(path); !res.OK() {
			return res
		}
	}

	e.inW, e.inH = w, h
	e.src, e.dst = src, dst
	if n := 3 * w * h; cap(e.input) < n {
		e.input = make([]float32, n)
	} else {
		e.input = e.input[:n]
	}
	e.prepared = true
	return cv.ResultSuccess
}

func (e *Effect) load(path string) cv.Result {
	e.closeSession()

	opts := new(runtimeOptions)
	if err := convertutil.CopyProperties(e.cfg, opts); err != nil {
		vfx.Logger().Error("onnx: copy config", "err", err)
		return cv.ResultParameter
	}
	if err := opts.init(); err != nil {
		vfx.Logger().Error("onnx: runtime unavailable", "err", err)
		return cv.ResultLibrary
	}
	defer opts.SessionOptions.Destroy()

	session, err := ort.NewDynamicAdvancedSession(path,
		[]string{e.cfg.InputName}, []string{e.cfg.OutputName}, opts.SessionOptions)
	if err != nil {
		vfx.Logger().Error("onnx: load model", "path", path, "err", err)
		return cv.ResultModel
	}
	e.session = session
	e.modelPath = path
	vfx.Logger().Info("onnx: model loaded", "path", path, "cuda", e.cfg.UseCuda)
	return cv.ResultSuccess
}

// Execute implements effect.Effect.
func (e *Effect) Execute() cv.Result {
	if !e.prepared {
		return cv.ResultInitialization
	}
	if s := e.Stream(); s != nil {
		if err := s.Synchronize(); err != nil {
			return cv.ResultDevice
		}
	}

	frame, unlock, err := e.src.Lock()
	if err != nil {
		return cv.ResultBuffer
	}
	fillInput(e.input, frame, int(e.src.Pitch()), int(e.src.Width()), int(e.src.Height()), e.inW, e.inH)
	unlock()

	matte, mw, mh, res := e.run()
	if !res.OK() {
		return res
	}

	out, unlock, err := e.dst.Lock()
	if err != nil {
		return cv.ResultBuffer
	}
	defer unlock()
	writeMask(out, int(e.dst.Pitch()), int(e.dst.Width()), int(e.dst.Height()), matte, mw, mh, e.cfg.Threshold)
	return cv.ResultSuccess
}

// run executes the model on e.input and returns a copy of the matte.
func (e *Effect) run() (matte []float32, w, h int, res cv.Result) {
	input, err := ort.NewTensor(ort.NewShape(1, 3, int64(e.inH), int64(e.inW)), e.input)
	if err != nil {
		vfx.Logger().Error("onnx: input tensor", "err", err)
		return nil, 0, 0, cv.ResultMemory
	}
	defer input.Destroy()

	outputs := make([]ort.Value, 1)
	if err := e.session.Run([]ort.Value{input}, outputs); err != nil {
		vfx.Logger().Error("onnx: run", "err", err)
		return nil, 0, 0, cv.ResultEffect
	}
	defer func() {
		for _, o := range outputs {
			if o != nil {
				o.Destroy()
			}
		}
	}()

	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, 0, 0, cv.ResultModel
	}
	shape := out.GetShape()
	if len(shape) != 4 || shape[1] != 1 {
		vfx.Logger().Error("onnx: unexpected output shape", "shape", fmt.Sprint(shape))
		return nil, 0, 0, cv.ResultModel
	}
	h, w = int(shape[2]), int(shape[3])
	return append([]float32(nil), out.GetData()...), w, h, cv.ResultSuccess
}

// Destroy releases the runtime session.
func (e *Effect) Destroy() error {
	e.prepared = false
	return e.closeSession()
}

func (e *Effect) closeSession() error {
	if e.session == nil {
		return nil
	}
	err := e.session.Destroy()
	e.session = nil
	e.modelPath = ""
	if err != nil {
		return fmt.Errorf("onnx: destroy session: %w", err)
	}
	return nil
}

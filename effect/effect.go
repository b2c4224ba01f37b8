// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"fmt"

	"github.com/gogpu/vfx/compute"
	"github.com/gogpu/vfx/cv"
)

// Effect is a configurable effect.
//
// Configure may be called at any time; changes take effect at the next
// Prepare. Execute must not be called before a successful Prepare.
type Effect interface {
	Configure(key Parameter, value any) cv.Result
	Prepare() cv.Result
	Execute() cv.Result
}

// Parameter identifies an effect parameter.
type Parameter uint8

const (
	// Mode selects the processing mode, a uint32.
	Mode Parameter = iota + 1
	// CudaStream is the compute stream work is ordered on, a *compute.Stream.
	CudaStream
	// SrcImage0 is the first input image, a *cv.Image.
	SrcImage0
	// DstImage0 is the first output image, a *cv.Image.
	DstImage0
	// ModelDir is the directory models are loaded from, a string.
	ModelDir
	// Strength is a backend specific float32 in 0..1.
	Strength
)

// Values of the Mode parameter.
const (
	ModeQuality     uint32 = 0
	ModePerformance uint32 = 1
)

var parameterNames = map[Parameter]string{
	Mode:       "Mode",
	CudaStream: "CudaStream",
	SrcImage0:  "SrcImage0",
	DstImage0:  "DstImage0",
	ModelDir:   "ModelDirectory",
	Strength:   "Strength",
}

func (p Parameter) String() string {
	if s, ok := parameterNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Parameter(%d)", uint8(p))
}

// Base stores parameter values and validates their types. Backends embed
// it and read their configuration in Prepare.
type Base struct {
	values map[Parameter]any
}

// Configure implements the Configure method of Effect.
func (b *Base) Configure(key Parameter, value any) cv.Result {
	var ok bool
	switch key {
	case Mode:
		_, ok = value.(uint32)
	case CudaStream:
		_, ok = value.(*compute.Stream)
	case SrcImage0, DstImage0:
		var img *cv.Image
		img, ok = value.(*cv.Image)
		ok = ok && img != nil
	case ModelDir:
		_, ok = value.(string)
	case Strength:
		var v float32
		v, ok = value.(float32)
		ok = ok && v >= 0 && v <= 1
	default:
		return cv.ResultSelector
	}
	if !ok {
		return cv.ResultParameter
	}
	if b.values == nil {
		b.values = make(map[Parameter]any)
	}
	b.values[key] = value
	return cv.ResultSuccess
}

// Uint32 returns the value of key, or def if it was never set.
func (b *Base) Uint32(key Parameter, def uint32) uint32 {
	if v, ok := b.values[key].(uint32); ok {
		return v
	}
	return def
}

// Float32 returns the value of key, or def if it was never set.
func (b *Base) Float32(key Parameter, def float32) float32 {
	if v, ok := b.values[key].(float32); ok {
		return v
	}
	return def
}

// String returns the value of key, or def if it was never set.
func (b *Base) String(key Parameter, def string) string {
	if v, ok := b.values[key].(string); ok {
		return v
	}
	return def
}

// Image returns the image bound to key, or nil.
func (b *Base) Image(key Parameter) *cv.Image {
	img, _ := b.values[key].(*cv.Image)
	return img
}

// Stream returns the bound compute stream, or nil.
func (b *Base) Stream() *compute.Stream {
	s, _ := b.values[CudaStream].(*compute.Stream)
	return s
}

// Images returns the bound frame and mask images. The frame must be BGR
// and the mask A, both interleaved U8 of the same size.
func (b *Base) Images() (src, dst *cv.Image, res cv.Result) {
	src, dst = b.Image(SrcImage0), b.Image(DstImage0)
	if src == nil || dst == nil {
		return nil, nil, cv.ResultMissingInput
	}
	if src.Format() != cv.FormatBGR || dst.Format() != cv.FormatA ||
		src.Type() != cv.U8 || dst.Type() != cv.U8 ||
		src.Layout() != cv.Interleaved || dst.Layout() != cv.Interleaved {
		return nil, nil, cv.ResultPixelFormat
	}
	if src.Width() != dst.Width() || src.Height() != dst.Height() {
		return nil, nil, cv.ResultMismatch
	}
	return src, dst, cv.ResultSuccess
}

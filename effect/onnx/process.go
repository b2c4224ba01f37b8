// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package onnx

import (
	"github.com/gogpu/vfx/cv"
	"github.com/gogpu/vfx/effect"
)

// inputSize returns the model input size for mode.
func inputSize(cfg Config, mode uint32) (w, h int, res cv.Result) {
	if cfg.InputWidth <= 0 || cfg.InputHeight <= 0 {
		return 0, 0, cv.ResultResolution
	}
	switch mode {
	case effect.ModeQuality:
		return cfg.InputWidth, cfg.InputHeight, cv.ResultSuccess
	case effect.ModePerformance:
		return max(cfg.InputWidth/2, 1), max(cfg.InputHeight/2, 1), cv.ResultSuccess
	default:
		return 0, 0, cv.ResultParameter
	}
}

// fillInput samples a BGR frame with nearest-neighbour into an NCHW RGB
// tensor normalized to -1..1.
func fillInput(dst []float32, frame []byte, pitch, w, h, inW, inH int) {
	plane := inW * inH
	xRatio := float32(w) / float32(inW)
	yRatio := float32(h) / float32(inH)
	for y := 0; y < inH; y++ {
		sy := min(int(float32(y)*yRatio), h-1)
		row := frame[sy*pitch:]
		for x := 0; x < inW; x++ {
			sx := min(int(float32(x)*xRatio), w-1)
			b, g, r := row[sx*3], row[sx*3+1], row[sx*3+2]
			i := y*inW + x
			dst[i] = float32(r)/127.5 - 1
			dst[plane+i] = float32(g)/127.5 - 1
			dst[2*plane+i] = float32(b)/127.5 - 1
		}
	}
}

// writeMask scales a matte of mw x mh to the mask size with
// nearest-neighbour. With threshold > 0 the mask is binary.
func writeMask(mask []byte, pitch, w, h int, matte []float32, mw, mh int, threshold float32) {
	xRatio := float32(mw) / float32(w)
	yRatio := float32(mh) / float32(h)
	for y := 0; y < h; y++ {
		sy := min(int(float32(y)*yRatio), mh-1)
		row := mask[y*pitch:]
		for x := 0; x < w; x++ {
			sx := min(int(float32(x)*xRatio), mw-1)
			v := matte[sy*mw+sx]
			switch {
			case threshold > 0 && v > threshold:
				row[x] = 255
			case threshold > 0:
				row[x] = 0
			case v <= 0:
				row[x] = 0
			case v >= 1:
				row[x] = 255
			default:
				row[x] = uint8(v*255 + 0.5)
			}
		}
	}
}

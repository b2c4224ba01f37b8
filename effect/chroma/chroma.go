// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package chroma implements background removal by chroma keying.
//
// The effect compares every pixel against a key color in the CbCr plane.
// In performance mode pixels closer than the threshold are background and
// the mask is binary. In quality mode the mask ramps from background to
// foreground over the softness band and is smoothed with a 3x3 box filter.
//
// Importing the package registers the effect under effect.BackendChroma.
package chroma

import (
	"image/color"
	"math"

	"github.com/gogpu/vfx"
	"github.com/gogpu/vfx/cv"
	"github.com/gogpu/vfx/effect"
)

func init() {
	effect.Register(effect.BackendChroma, func() effect.Effect { return New(DefaultConfig()) })
}

// Config holds chroma key settings.
type Config struct {
	Key       color.RGBA // background color
	Threshold float32    // CbCr distance below which a pixel is background, 0..1
	Softness  float32    // width of the quality mode transition band, 0..1
}

// DefaultConfig returns a key for studio green.
func DefaultConfig() Config {
	return Config{
		Key:       color.RGBA{R: 0, G: 177, B: 64, A: 255},
		Threshold: 0.18,
		Softness:  0.12,
	}
}

// Effect is the chroma key effect.
type Effect struct {
	effect.Base
	cfg Config

	keyCb, keyCr float32

	// Resolved by Prepare.
	prepared  bool
	quality   bool
	threshold float32
	src, dst  *cv.Image
	scratch   []uint8
}

var _ effect.Effect = (*Effect)(nil)

// New returns a chroma key effect.
func New(cfg Config) *Effect {
	_, cb, cr := color.RGBToYCbCr(cfg.Key.R, cfg.Key.G, cfg.Key.B)
	return &Effect{cfg: cfg, keyCb: float32(cb), keyCr: float32(cr)}
}

// Prepare implements effect.Effect. The Strength parameter, when set,
// replaces the configured threshold.
func (e *Effect) Prepare() cv.Result {
	e.prepared = false
	src, dst, res := e.Images()
	if !res.OK() {
		return res
	}
	switch mode := e.Uint32(effect.Mode, effect.ModeQuality); mode {
	case effect.ModeQuality:
		e.quality = true
	case effect.ModePerformance:
		e.quality = false
	default:
		return cv.ResultParameter
	}
	e.threshold = e.Float32(effect.Strength, e.cfg.Threshold)
	e.src, e.dst = src, dst
	e.prepared = true
	vfx.Logger().Debug("chroma: prepared", "quality", e.quality,
		"width", src.Width(), "height", src.Height())
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
	in, unlockIn, err := e.src.Lock()
	if err != nil {
		return cv.ResultBuffer
	}
	defer unlockIn()
	out, unlockOut, err := e.dst.Lock()
	if err != nil {
		return cv.ResultBuffer
	}
	defer unlockOut()

	w, h := int(e.src.Width()), int(e.src.Height())
	srcPitch, dstPitch := int(e.src.Pitch()), int(e.dst.Pitch())
	for y := 0; y < h; y++ {
		row := in[y*srcPitch:]
		mrow := out[y*dstPitch:]
		for x := 0; x < w; x++ {
			b, g, r := row[x*3], row[x*3+1], row[x*3+2]
			mrow[x] = e.alpha(r, g, b)
		}
	}
	if e.quality {
		e.scratch = boxBlur3(out, e.scratch, w, h, dstPitch)
	}
	return cv.ResultSuccess
}

// alpha returns the foreground coverage of a pixel.
func (e *Effect) alpha(r, g, b uint8) uint8 {
	_, cb, cr := color.RGBToYCbCr(r, g, b)
	dcb := (float32(cb) - e.keyCb) / 255
	dcr := (float32(cr) - e.keyCr) / 255
	d := dcb*dcb + dcr*dcr
	t := e.threshold * e.threshold

	if !e.quality || e.cfg.Softness <= 0 {
		if d < t {
			return 0
		}
		return 255
	}
	lo := e.threshold
	hi := e.threshold + e.cfg.Softness
	switch {
	case d <= lo*lo:
		return 0
	case d >= hi*hi:
		return 255
	}
	dist := float32(math.Sqrt(float64(d)))
	return uint8((dist-lo)/(hi-lo)*255 + 0.5)
}

// boxBlur3 smooths an 8-bit plane in place with a 3x3 box filter, clamping
// at the borders. tmp is reused when large enough and returned.
func boxBlur3(plane, tmp []uint8, w, h, pitch int) []uint8 {
	if cap(tmp) < w*h {
		tmp = make([]uint8, w*h)
	}
	tmp = tmp[:w*h]
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum, n := 0, 0
			for dy := -1; dy <= 1; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					sum += int(plane[yy*pitch+xx])
					n++
				}
			}
			tmp[y*w+x] = uint8((sum + n/2) / n)
		}
	}
	for y := 0; y < h; y++ {
		copy(plane[y*pitch:y*pitch+w], tmp[y*w:(y+1)*w])
	}
	return tmp
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package chroma

import (
	"testing"

	"github.com/gogpu/vfx/cv"
	"github.com/gogpu/vfx/effect"
)

func newImages(t *testing.T, w, h uint32) (src, dst *cv.Image) {
	t.Helper()
	var err error
	src, err = cv.NewImage(nil, cv.ImageConfig{Width: w, Height: h, Format: cv.FormatBGR, Location: cv.CPU})
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	dst, err = cv.NewImage(nil, cv.ImageConfig{Width: w, Height: h, Format: cv.FormatA, Location: cv.CPU})
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	return src, dst
}

// paint fills the frame with green and puts a red pixel at (x, y).
func paint(t *testing.T, img *cv.Image, x, y int) {
	t.Helper()
	data, unlock, err := img.Lock()
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	defer unlock()
	for i := 0; i < len(data); i += 3 {
		data[i], data[i+1], data[i+2] = 64, 177, 0 // BGR green
	}
	off := y*int(img.Pitch()) + x*3
	data[off], data[off+1], data[off+2] = 0, 0, 255
}

func mask(t *testing.T, img *cv.Image) []byte {
	t.Helper()
	data, unlock, err := img.Lock()
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	defer unlock()
	return append([]byte(nil), data...)
}

func TestChromaPerformance(t *testing.T) {
	src, dst := newImages(t, 5, 5)
	paint(t, src, 2, 2)

	e := New(DefaultConfig())
	e.Configure(effect.SrcImage0, src)
	e.Configure(effect.DstImage0, dst)
	e.Configure(effect.Mode, effect.ModePerformance)
	if res := e.Prepare(); !res.OK() {
		t.Fatalf("Prepare = %v", res)
	}
	if res := e.Execute(); !res.OK() {
		t.Fatalf("Execute = %v", res)
	}

	m := mask(t, dst)
	for i, v := range m {
		want := byte(0)
		if i == 2*5+2 {
			want = 255
		}
		if v != want {
			t.Errorf("mask[%d] = %d, want %d", i, v, want)
		}
	}
}

func TestChromaQualitySmooths(t *testing.T) {
	src, dst := newImages(t, 5, 5)
	paint(t, src, 2, 2)

	e := New(DefaultConfig())
	e.Configure(effect.SrcImage0, src)
	e.Configure(effect.DstImage0, dst)
	if res := e.Prepare(); !res.OK() {
		t.Fatalf("Prepare = %v", res)
	}
	if res := e.Execute(); !res.OK() {
		t.Fatalf("Execute = %v", res)
	}

	m := mask(t, dst)
	// The lone foreground pixel is spread over its 3x3 neighbourhood.
	if m[2*5+2] != 28 || m[1*5+1] != 28 {
		t.Errorf("center=%d corner=%d, want 28 (255/9)", m[2*5+2], m[1*5+1])
	}
	if m[0] != 0 {
		t.Errorf("mask[0] = %d, want 0", m[0])
	}
}

func TestChromaErrors(t *testing.T) {
	e := New(DefaultConfig())
	if res := e.Execute(); res != cv.ResultInitialization {
		t.Errorf("Execute before Prepare = %v, want ResultInitialization", res)
	}
	if res := e.Prepare(); res != cv.ResultMissingInput {
		t.Errorf("Prepare without images = %v, want ResultMissingInput", res)
	}

	src, _ := newImages(t, 4, 4)
	_, dst := newImages(t, 8, 8)
	e.Configure(effect.SrcImage0, src)
	e.Configure(effect.DstImage0, dst)
	if res := e.Prepare(); res != cv.ResultMismatch {
		t.Errorf("Prepare with mismatched sizes = %v, want ResultMismatch", res)
	}

	e.Configure(effect.DstImage0, src)
	if res := e.Prepare(); res != cv.ResultPixelFormat {
		t.Errorf("Prepare with BGR mask = %v, want ResultPixelFormat", res)
	}

	_, dst = newImages(t, 4, 4)
	e.Configure(effect.DstImage0, dst)
	e.Configure(effect.Mode, uint32(7))
	if res := e.Prepare(); res != cv.ResultParameter {
		t.Errorf("Prepare with unknown mode = %v, want ResultParameter", res)
	}
}

func TestRegistered(t *testing.T) {
	if fx := effect.New(effect.BackendChroma); fx == nil {
		t.Fatal("chroma backend not registered")
	}
}

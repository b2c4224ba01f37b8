// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gs

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func newTestTexture(t *testing.T, d *Device, w, h uint32, format gputypes.TextureFormat) *Texture {
	t.Helper()
	tex, err := d.CreateTexture(TextureConfig{Width: w, Height: h, Format: format, Label: "test"})
	if err != nil {
		t.Fatalf("CreateTexture failed: %v", err)
	}
	t.Cleanup(tex.Destroy)
	return tex
}

func TestCopyTexture(t *testing.T) {
	d := openNoopDevice(t)
	leave := d.Enter()
	defer leave()

	src := newTestTexture(t, d, 64, 32, gputypes.TextureFormatRGBA8Unorm)
	dst := newTestTexture(t, d, 32, 64, gputypes.TextureFormatRGBA8Unorm)

	for i := 0; i < 5; i++ {
		if err := d.CopyTexture(dst, src); err != nil {
			t.Fatalf("CopyTexture #%d failed: %v", i, err)
		}
	}
	if got := d.Stats().Copies; got != 5 {
		t.Errorf("Copies = %d, want 5", got)
	}
	// The noop queue completes work synchronously, so nothing stays in flight.
	if n := len(d.inflight); n != 0 {
		t.Errorf("inflight = %d, want 0", n)
	}
}

func TestCopyTextureErrors(t *testing.T) {
	d := openNoopDevice(t)
	leave := d.Enter()
	defer leave()

	rgba := newTestTexture(t, d, 16, 16, gputypes.TextureFormatRGBA8Unorm)
	mask := newTestTexture(t, d, 16, 16, gputypes.TextureFormatR8Unorm)
	gone, err := d.CreateTexture(TextureConfig{Width: 16, Height: 16, Format: gputypes.TextureFormatRGBA8Unorm, Label: "gone"})
	if err != nil {
		t.Fatalf("CreateTexture failed: %v", err)
	}
	gone.Destroy()

	tests := []struct {
		name     string
		dst, src *Texture
		wantErr  error
	}{
		{"nil dst", nil, rgba, ErrNilTexture},
		{"nil src", rgba, nil, ErrNilTexture},
		{"released", rgba, gone, ErrTextureReleased},
		{"format mismatch", mask, rgba, ErrFormatMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := d.CopyTexture(tt.dst, tt.src); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if got := d.Stats().Copies; got != 0 {
		t.Errorf("Copies = %d after failed copies, want 0", got)
	}
}

func TestTextureBufferRoundTrip(t *testing.T) {
	d := openNoopDevice(t)
	leave := d.Enter()
	defer leave()

	tex := newTestTexture(t, d, 100, 10, gputypes.TextureFormatR8Unorm)
	buf, err := d.HalDevice().CreateBuffer(&hal.BufferDescriptor{
		Label: "staging",
		Size:  256 * 10,
		Usage: gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		t.Fatalf("CreateBuffer failed: %v", err)
	}
	defer d.HalDevice().DestroyBuffer(buf)

	if err := d.CopyTextureToBuffer(tex, buf, 256); err != nil {
		t.Fatalf("CopyTextureToBuffer failed: %v", err)
	}
	if err := d.CopyBufferToTexture(buf, 256, tex); err != nil {
		t.Fatalf("CopyBufferToTexture failed: %v", err)
	}
	if err := d.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if got := d.Stats().Copies; got != 2 {
		t.Errorf("Copies = %d, want 2", got)
	}
}

func TestWriteTexture(t *testing.T) {
	d := openNoopDevice(t)
	leave := d.Enter()
	defer leave()

	tex := newTestTexture(t, d, 4, 4, gputypes.TextureFormatRGBA8Unorm)
	if err := d.WriteTexture(tex, make([]byte, 4*4*4)); err != nil {
		t.Fatalf("WriteTexture failed: %v", err)
	}
	if err := d.WriteTexture(tex, make([]byte, 10)); err == nil {
		t.Error("expected error for short pixel data")
	}
}

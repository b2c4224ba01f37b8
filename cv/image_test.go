// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cv

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	_ "github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/vfx/compute"
	"github.com/gogpu/vfx/gs"
)

// openDevices opens a render device on the noop backend and a compute
// device sharing it.
func openDevices(t *testing.T) (*gs.Device, *compute.Device) {
	t.Helper()
	gfx, err := gs.OpenDevice(gputypes.BackendEmpty)
	if err != nil {
		t.Fatalf("OpenDevice failed: %v", err)
	}
	t.Cleanup(gfx.Close)
	cmp, err := compute.NewDevice(gfx.HalDevice(), gfx.HalQueue())
	if err != nil {
		t.Fatalf("compute.NewDevice failed: %v", err)
	}
	return gfx, cmp
}

func newCPUImage(t *testing.T, w, h uint32, f PixelFormat, ct ComponentType, l Layout) *Image {
	t.Helper()
	img, err := NewImage(nil, ImageConfig{Width: w, Height: h, Format: f, Type: ct, Layout: l, Location: CPU})
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	return img
}

func TestImagePitch(t *testing.T) {
	tests := []struct {
		name      string
		cfg       ImageConfig
		wantPitch uint32
		wantSize  uint64
	}{
		{"bgr packed", ImageConfig{Width: 10, Height: 2, Format: FormatBGR}, 30, 60},
		{"rgba aligned", ImageConfig{Width: 10, Height: 2, Format: FormatRGBA, Alignment: 256}, 256, 512},
		{"mask aligned", ImageConfig{Width: 300, Height: 3, Format: FormatA, Alignment: 256}, 512, 1536},
		{"planar rgba", ImageConfig{Width: 10, Height: 2, Format: FormatRGBA, Layout: Planar}, 10, 80},
		{"planar f32", ImageConfig{Width: 10, Height: 2, Format: FormatRGB, Type: F32, Layout: Planar}, 40, 240},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Location = CPU
			img, err := NewImage(nil, tt.cfg)
			if err != nil {
				t.Fatalf("NewImage failed: %v", err)
			}
			if img.Pitch() != tt.wantPitch || img.Size() != tt.wantSize {
				t.Errorf("pitch=%d size=%d, want %d %d", img.Pitch(), img.Size(), tt.wantPitch, tt.wantSize)
			}
		})
	}
}

func TestNewImageErrors(t *testing.T) {
	if _, err := NewImage(nil, ImageConfig{Width: 0, Height: 4, Format: FormatA, Location: CPU}); !errors.Is(err, ResultResolution) {
		t.Errorf("zero width err = %v, want ResultResolution", err)
	}
	if _, err := NewImage(nil, ImageConfig{Width: 4, Height: 4, Format: PixelFormat(99), Location: CPU}); !errors.Is(err, ResultPixelFormat) {
		t.Errorf("bad format err = %v, want ResultPixelFormat", err)
	}
	if _, err := NewImage(nil, ImageConfig{Width: 4, Height: 4, Format: FormatA, Location: GPU}); !errors.Is(err, ErrNoComputeDevice) {
		t.Errorf("GPU without device err = %v, want ErrNoComputeDevice", err)
	}
}

func TestImageResizeInPlace(t *testing.T) {
	_, cmp := openDevices(t)
	leave := cmp.Enter()
	defer leave()

	img, err := NewImage(cmp, ImageConfig{Width: 64, Height: 64, Format: FormatBGR, Location: GPU, Label: "src"})
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	defer img.Destroy()

	buf := img.Buffer()
	capacity := img.Capacity()

	if err := img.Resize(32, 48); err != nil {
		t.Fatalf("Resize down failed: %v", err)
	}
	if img.Buffer() != buf || img.Capacity() != capacity {
		t.Error("shrinking reallocated the image")
	}
	if img.Width() != 32 || img.Height() != 48 || img.Pitch() != 96 {
		t.Errorf("got %dx%d pitch %d, want 32x48 pitch 96", img.Width(), img.Height(), img.Pitch())
	}

	if err := img.Resize(128, 128); err != nil {
		t.Fatalf("Resize up failed: %v", err)
	}
	if img.Buffer() == buf {
		t.Error("growing past capacity kept the old buffer")
	}
	if img.Capacity() != 128*128*3 {
		t.Errorf("Capacity() = %d, want %d", img.Capacity(), 128*128*3)
	}
	if got := cmp.Stats().Buffers; got != 1 {
		t.Errorf("live buffers = %d, want 1", got)
	}
}

func TestImageLockGPU(t *testing.T) {
	_, cmp := openDevices(t)
	leave := cmp.Enter()
	defer leave()

	img, err := NewImage(cmp, ImageConfig{Width: 4, Height: 4, Format: FormatA, Location: GPU})
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	data, unlock, err := img.Lock()
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	data[5] = 200
	unlock()

	data, unlock, err = img.Lock()
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if data[5] != 200 {
		t.Errorf("data[5] = %d, want 200", data[5])
	}
	unlock()

	img.Destroy()
	img.Destroy()
	if _, _, err := img.Lock(); !errors.Is(err, ErrImageReleased) {
		t.Errorf("Lock after Destroy err = %v, want ErrImageReleased", err)
	}
	if err := img.Resize(8, 8); !errors.Is(err, ErrImageReleased) {
		t.Errorf("Resize after Destroy err = %v, want ErrImageReleased", err)
	}
}

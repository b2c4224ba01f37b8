// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gs

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// openNoopDevice opens a standalone device on the noop backend.
func openNoopDevice(t *testing.T) *Device {
	t.Helper()
	d, err := OpenDevice(gputypes.BackendEmpty)
	if err != nil {
		t.Fatalf("OpenDevice failed: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

// createNoopHAL creates a raw noop HAL device and queue.
func createNoopHAL(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

type fakeProvider struct {
	device any
	queue  any
}

func (p *fakeProvider) Device() gpucontext.Device               { return nil }
func (p *fakeProvider) Queue() gpucontext.Queue                 { return nil }
func (p *fakeProvider) SurfaceFormat() gputypes.TextureFormat   { return gputypes.TextureFormatUndefined }
func (p *fakeProvider) Adapter() gpucontext.Adapter             { return nil }
func (p *fakeProvider) AdapterInfo() gpucontext.AdapterInfo     { return gpucontext.AdapterInfo{Name: "host"} }
func (p *fakeProvider) HalDevice() any                          { return p.device }
func (p *fakeProvider) HalQueue() any                           { return p.queue }

func TestOpenDevice(t *testing.T) {
	d := openNoopDevice(t)
	if d.Name() != "Noop Adapter" {
		t.Errorf("Name() = %q, want %q", d.Name(), "Noop Adapter")
	}
	if d.HalDevice() == nil || d.HalQueue() == nil {
		t.Fatal("expected HAL device and queue")
	}
}

func TestOpenDeviceUnknownBackend(t *testing.T) {
	_, err := OpenDevice(gputypes.Backend(250))
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("err = %v, want ErrBackendUnavailable", err)
	}
}

func TestNewDeviceExternal(t *testing.T) {
	device, queue, cleanup := createNoopHAL(t)
	defer cleanup()

	d := NewDevice(device, queue)
	if d.Name() != "external" {
		t.Errorf("Name() = %q, want external", d.Name())
	}
	// Close must leave the caller's device usable.
	d.Close()
	if _, err := device.CreateTexture(&hal.TextureDescriptor{
		Size:          hal.Extent3D{Width: 4, Height: 4, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
	}); err != nil {
		t.Errorf("external device unusable after Close: %v", err)
	}
}

func TestNewDeviceFromProvider(t *testing.T) {
	device, queue, cleanup := createNoopHAL(t)
	defer cleanup()

	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		wantErr  error
	}{
		{"nil", nil, ErrNilProvider},
		{"wrong types", &fakeProvider{device: 1, queue: 2}, ErrNoHAL},
		{"nil device", &fakeProvider{queue: queue}, ErrNoHAL},
		{"ok", &fakeProvider{device: device, queue: queue}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDeviceFromProvider(tt.provider)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err == nil && d.Name() != "host" {
				t.Errorf("Name() = %q, want host", d.Name())
			}
		})
	}
}

func TestDeviceEnterIsExclusive(t *testing.T) {
	d := openNoopDevice(t)

	leave := d.Enter()
	acquired := make(chan struct{})
	go func() {
		defer close(acquired)
		l := d.Enter()
		l()
	}()

	select {
	case <-acquired:
		t.Fatal("second Enter acquired the context while it was held")
	default:
	}
	leave()
	<-acquired
}

func TestDeviceClosedRejectsWork(t *testing.T) {
	device, queue, cleanup := createNoopHAL(t)
	defer cleanup()

	d := NewDevice(device, queue)
	d.Close()
	d.Close() // idempotent

	if _, err := d.CreateTexture(TextureConfig{Width: 8, Height: 8, Format: gputypes.TextureFormatRGBA8Unorm}); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("CreateTexture err = %v, want ErrDeviceClosed", err)
	}
	if err := d.Sync(); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("Sync err = %v, want ErrDeviceClosed", err)
	}
}

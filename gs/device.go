// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gs

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/vfx"
	"github.com/gogpu/wgpu/hal"
)

// Device errors.
var (
	// ErrNilProvider is returned when a nil provider is passed.
	ErrNilProvider = errors.New("gs: nil device provider")

	// ErrNoHAL is returned when a provider does not expose HAL objects.
	ErrNoHAL = errors.New("gs: provider does not expose HAL device and queue")

	// ErrBackendUnavailable is returned when the requested HAL backend is not registered.
	ErrBackendUnavailable = errors.New("gs: backend not available")

	// ErrNoAdapter is returned when a backend enumerates no adapters.
	ErrNoAdapter = errors.New("gs: no GPU adapters found")

	// ErrDeviceClosed is returned when operating on a closed device.
	ErrDeviceClosed = errors.New("gs: device closed")
)

// halProvider is the optional interface a gpucontext.DeviceProvider
// implements when it can hand out its HAL device and queue.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// Device is the render device: it owns the graphics context and performs
// texture creation and copies on a HAL device.
//
// Device is safe for concurrent use only through Enter; the texture methods
// expect the caller to hold the graphics context.
type Device struct {
	ctx sync.Mutex

	device   hal.Device
	queue    hal.Queue
	instance hal.Instance // non-nil when OpenDevice created the device
	external bool         // true when the device belongs to the host

	name string

	// Submissions whose command buffers can be freed once the queue
	// reports them complete.
	inflight []submission

	textures atomic.Int64
	bytes    atomic.Int64
	copies   atomic.Uint64

	closed bool
}

type submission struct {
	index   uint64
	encoder hal.CommandEncoder
	cmdBuf  hal.CommandBuffer
}

// NewDevice wraps a HAL device and queue owned by the caller.
// Close does not destroy them.
func NewDevice(device hal.Device, queue hal.Queue) *Device {
	return &Device{
		device:   device,
		queue:    queue,
		external: true,
		name:     "external",
	}
}

// NewDeviceFromProvider creates a Device sharing the host's GPU device.
// The provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func NewDeviceFromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}

	d := NewDevice(device, queue)
	d.name = provider.AdapterInfo().Name
	vfx.Logger().Info("gs: using host device", "adapter", d.name, "type", provider.AdapterInfo().Type)
	return d, nil
}

// OpenDevice creates a standalone device on the given HAL backend.
// Discrete and integrated GPUs are preferred over other adapters.
// The backend package must be imported so that it registers itself.
func OpenDevice(backend gputypes.Backend) (*Device, error) {
	b, ok := hal.GetBackend(backend)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, backend)
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gs: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gs: open device: %w", err)
	}

	vfx.Logger().Info("gs: device opened", "backend", backend, "adapter", selected.Info.Name)
	return &Device{
		device:   openDev.Device,
		queue:    openDev.Queue,
		instance: instance,
		name:     selected.Info.Name,
	}, nil
}

// Enter acquires the graphics context and returns the function that
// releases it. Callers should defer the returned function.
func (d *Device) Enter() (leave func()) {
	d.ctx.Lock()
	return d.ctx.Unlock
}

// Name returns the adapter name, or "external" for raw HAL objects.
func (d *Device) Name() string { return d.name }

// HalDevice returns the underlying HAL device.
func (d *Device) HalDevice() hal.Device { return d.device }

// HalQueue returns the underlying HAL queue.
func (d *Device) HalQueue() hal.Queue { return d.queue }

// Stats returns current allocation and copy counters.
func (d *Device) Stats() Stats {
	return Stats{
		Textures: int(d.textures.Load()),
		Bytes:    uint64(d.bytes.Load()), //nolint:gosec // never negative
		Copies:   d.copies.Load(),
	}
}

// Close waits for outstanding GPU work, frees pending command buffers and
// destroys the device if OpenDevice created it. Textures must be destroyed
// by their owners before Close.
func (d *Device) Close() {
	leave := d.Enter()
	defer leave()

	if d.closed {
		return
	}
	d.closed = true

	if err := d.device.WaitIdle(); err != nil {
		vfx.Logger().Warn("gs: wait idle on close", "err", err)
	}
	d.reclaim(^uint64(0))

	if n := d.textures.Load(); n > 0 {
		vfx.Logger().Warn("gs: closing device with live textures", "count", n)
	}
	if !d.external {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
			d.instance = nil
		}
	}
}

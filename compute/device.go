// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gogpu/vfx"
	"github.com/gogpu/wgpu/hal"
)

// Errors returned by compute devices.
var (
	// ErrNilDevice is returned when a nil HAL device or queue is given.
	ErrNilDevice = errors.New("compute: nil device or queue")

	// ErrZeroSize is returned when allocating an empty buffer.
	ErrZeroSize = errors.New("compute: zero buffer size")

	// ErrBufferReleased is returned when using a destroyed buffer.
	ErrBufferReleased = errors.New("compute: buffer has been released")

	// ErrNotMapped is returned by Unmap on a buffer that is not mapped.
	ErrNotMapped = errors.New("compute: buffer is not mapped")
)

// Device is a compute device sharing a HAL device and queue with the
// render side. It never destroys the HAL objects it wraps.
type Device struct {
	ctx sync.Mutex

	device hal.Device
	queue  hal.Queue
	stream *Stream

	buffers atomic.Int64
	bytes   atomic.Int64
	syncs   atomic.Uint64
}

// NewDevice creates a compute device on top of a HAL device and queue.
func NewDevice(device hal.Device, queue hal.Queue) (*Device, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	d := &Device{device: device, queue: queue}
	d.stream = &Stream{device: d, label: "default"}
	return d, nil
}

// Enter acquires the compute context on the calling OS thread and returns
// the function that releases it. Callers should defer the returned function.
func (d *Device) Enter() (leave func()) {
	d.ctx.Lock()
	runtime.LockOSThread()
	return func() {
		runtime.UnlockOSThread()
		d.ctx.Unlock()
	}
}

// HalDevice returns the underlying HAL device.
func (d *Device) HalDevice() hal.Device { return d.device }

// Stream returns the device's default stream.
func (d *Device) Stream() *Stream { return d.stream }

// Stats returns current allocation counters.
func (d *Device) Stats() Stats {
	return Stats{
		Buffers: int(d.buffers.Load()),
		Bytes:   uint64(d.bytes.Load()), //nolint:gosec // never negative
		Syncs:   d.syncs.Load(),
	}
}

// Stream is an ordered queue of compute work. Operations issued on the
// same stream execute in submission order.
type Stream struct {
	device *Device
	label  string
}

// Label returns the stream's debug label.
func (s *Stream) Label() string { return s.label }

// Synchronize blocks until all work submitted to the stream has finished.
func (s *Stream) Synchronize() error {
	s.device.syncs.Add(1)
	if err := s.device.device.WaitIdle(); err != nil {
		return fmt.Errorf("compute: synchronize %s: %w", s.label, err)
	}
	return nil
}

// String returns a string representation of the stream.
func (s *Stream) String() string {
	return fmt.Sprintf("Stream[%s]", s.label)
}

func (d *Device) logAlloc(label string, size uint64) {
	vfx.Logger().Debug("compute: buffer allocated", "label", label, "size", size)
}

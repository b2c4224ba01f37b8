// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// BufferUsage is the usage of buffers allocated by AllocBuffer: storage
// plus host mapping and copies in both directions.
const BufferUsage = gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc |
	gputypes.BufferUsageCopyDst | gputypes.BufferUsageMapRead | gputypes.BufferUsageMapWrite

// Buffer is a linear GPU allocation owned by a compute Device.
type Buffer struct {
	raw    hal.Buffer
	device *Device
	size   uint64
	label  string

	mapped   bool
	released bool
}

// AllocBuffer allocates a buffer of size bytes.
// Must be called inside the compute context.
func (d *Device) AllocBuffer(size uint64, label string) (*Buffer, error) {
	if size == 0 {
		return nil, ErrZeroSize
	}
	raw, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: BufferUsage,
	})
	if err != nil {
		return nil, fmt.Errorf("compute: alloc %q (%d bytes): %w", label, size, err)
	}
	d.buffers.Add(1)
	d.bytes.Add(int64(size)) //nolint:gosec // allocation sizes fit int64
	d.logAlloc(label, size)
	return &Buffer{raw: raw, device: d, size: size, label: label}, nil
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() uint64 { return b.size }

// Label returns the debug label.
func (b *Buffer) Label() string { return b.label }

// HalBuffer returns the underlying HAL buffer, or nil once released.
func (b *Buffer) HalBuffer() hal.Buffer {
	if b.released {
		return nil
	}
	return b.raw
}

// Map maps the whole buffer for host access. The returned slice is valid
// until Unmap. GPU work writing the buffer must be synchronized first.
func (b *Buffer) Map() ([]byte, error) {
	if b.released {
		return nil, ErrBufferReleased
	}
	m, err := b.device.device.MapBuffer(b.raw, 0, b.size)
	if err != nil {
		return nil, fmt.Errorf("compute: map %q: %w", b.label, err)
	}
	b.mapped = true
	return unsafe.Slice((*byte)(m.Ptr), b.size), nil
}

// Unmap releases the host mapping established by Map.
func (b *Buffer) Unmap() error {
	if b.released {
		return ErrBufferReleased
	}
	if !b.mapped {
		return ErrNotMapped
	}
	b.mapped = false
	if err := b.device.device.UnmapBuffer(b.raw); err != nil {
		return fmt.Errorf("compute: unmap %q: %w", b.label, err)
	}
	return nil
}

// Destroy frees the buffer. Safe to call more than once.
func (b *Buffer) Destroy() {
	if b == nil || b.released {
		return
	}
	if b.mapped {
		_ = b.device.device.UnmapBuffer(b.raw)
		b.mapped = false
	}
	b.released = true
	b.device.device.DestroyBuffer(b.raw)
	b.device.buffers.Add(-1)
	b.device.bytes.Add(-int64(b.size)) //nolint:gosec // allocation sizes fit int64
	b.raw = nil
}

// String returns a string representation of the buffer.
func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer[%s %d bytes]", b.label, b.size)
}

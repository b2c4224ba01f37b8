// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cv

import (
	"errors"
	"fmt"

	"github.com/gogpu/vfx"
	"github.com/gogpu/vfx/compute"
)

// ErrNoComputeDevice is returned when a GPU image is created without a
// compute device.
var ErrNoComputeDevice = errors.New("cv: GPU image requires a compute device")

// ErrImageReleased is returned when using a destroyed image.
var ErrImageReleased = errors.New("cv: image has been released")

// ImageConfig describes an image to allocate.
type ImageConfig struct {
	Width, Height uint32
	Format        PixelFormat
	Type          ComponentType
	Layout        Layout
	Location      MemoryLocation

	// Alignment is the row pitch alignment in bytes. 0 and 1 mean packed.
	Alignment uint32

	Label string
}

// Image is a pixel buffer in host or compute memory.
//
// Row pitch is the byte distance between rows. For planar images every
// plane has Height rows of Pitch bytes, planes follow each other.
type Image struct {
	width     uint32
	height    uint32
	pitch     uint32
	format    PixelFormat
	ctype     ComponentType
	layout    Layout
	location  MemoryLocation
	alignment uint32
	label     string

	capacity uint64
	host     []byte          // CPU and CPUPinned
	buffer   *compute.Buffer // GPU
	device   *compute.Device

	released bool
}

// NewImage allocates an image. dev may be nil for CPU images.
// GPU images must be created inside the compute context.
func NewImage(dev *compute.Device, cfg ImageConfig) (*Image, error) {
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("cv: new image %q: %w", cfg.Label, ResultResolution.Err())
	}
	if cfg.Format.Channels() == 0 {
		return nil, fmt.Errorf("cv: new image %q: %w", cfg.Label, ResultPixelFormat.Err())
	}
	if cfg.Location == GPU && dev == nil {
		return nil, ErrNoComputeDevice
	}
	img := &Image{
		format:    cfg.Format,
		ctype:     cfg.Type,
		layout:    cfg.Layout,
		location:  cfg.Location,
		alignment: cfg.Alignment,
		label:     cfg.Label,
		device:    dev,
	}
	if err := img.allocate(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	return img, nil
}

// Width returns the width in pixels.
func (m *Image) Width() uint32 { return m.width }

// Height returns the height in pixels.
func (m *Image) Height() uint32 { return m.height }

// Pitch returns the row pitch in bytes.
func (m *Image) Pitch() uint32 { return m.pitch }

// Format returns the pixel format.
func (m *Image) Format() PixelFormat { return m.format }

// Type returns the component type.
func (m *Image) Type() ComponentType { return m.ctype }

// Layout returns the component layout.
func (m *Image) Layout() Layout { return m.layout }

// Location returns where the pixels live.
func (m *Image) Location() MemoryLocation { return m.location }

// Label returns the debug label.
func (m *Image) Label() string { return m.label }

// Capacity returns the allocated size in bytes. It is at least Size.
func (m *Image) Capacity() uint64 { return m.capacity }

// Size returns the number of bytes used by the current dimensions.
func (m *Image) Size() uint64 {
	return m.sizeFor(m.height, m.pitch)
}

// Buffer returns the compute buffer of a GPU image, or nil.
func (m *Image) Buffer() *compute.Buffer { return m.buffer }

// Resize changes the image dimensions. The allocation is reused when it
// is large enough; otherwise the image is reallocated and its contents are
// lost. GPU images must be resized inside the compute context.
func (m *Image) Resize(width, height uint32) error {
	if m.released {
		return ErrImageReleased
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("cv: resize image %q: %w", m.label, ResultResolution.Err())
	}
	if width == m.width && height == m.height {
		return nil
	}
	pitch := m.pitchFor(width)
	if m.sizeFor(height, pitch) <= m.capacity {
		m.width, m.height, m.pitch = width, height, pitch
		return nil
	}
	m.free()
	return m.allocate(width, height)
}

// Lock gives host access to the image bytes. The returned unlock function
// must be called before the image is used on the GPU again.
func (m *Image) Lock() (data []byte, unlock func(), err error) {
	if m.released {
		return nil, nil, ErrImageReleased
	}
	size := m.Size()
	if m.location != GPU {
		return m.host[:size], func() {}, nil
	}
	mapped, err := m.buffer.Map()
	if err != nil {
		return nil, nil, fmt.Errorf("cv: lock image %q: %w", m.label, err)
	}
	return mapped[:size], func() {
		if err := m.buffer.Unmap(); err != nil {
			vfx.Logger().Warn("cv: unlock image", "label", m.label, "err", err)
		}
	}, nil
}

// Destroy frees the image memory. Safe to call more than once.
func (m *Image) Destroy() {
	if m == nil || m.released {
		return
	}
	m.free()
	m.released = true
}

// String returns a string representation of the image.
func (m *Image) String() string {
	return fmt.Sprintf("Image[%s %dx%d %v %v %v %v]",
		m.label, m.width, m.height, m.format, m.ctype, m.layout, m.location)
}

func (m *Image) allocate(width, height uint32) error {
	pitch := m.pitchFor(width)
	size := m.sizeFor(height, pitch)
	switch m.location {
	case GPU:
		buf, err := m.device.AllocBuffer(size, m.label)
		if err != nil {
			return fmt.Errorf("cv: allocate image %q: %w", m.label, err)
		}
		m.buffer = buf
	default:
		m.host = make([]byte, size)
	}
	m.width, m.height, m.pitch = width, height, pitch
	m.capacity = size
	vfx.Logger().Debug("cv: image allocated", "label", m.label,
		"width", width, "height", height, "bytes", size, "location", m.location)
	return nil
}

func (m *Image) free() {
	if m.buffer != nil {
		m.buffer.Destroy()
		m.buffer = nil
	}
	m.host = nil
	m.capacity = 0
}

func (m *Image) pitchFor(width uint32) uint32 {
	row := width * uint32(m.ctype.Size()) //nolint:gosec // component sizes are 1 or 4
	if m.layout == Interleaved {
		row *= uint32(m.format.Channels()) //nolint:gosec // at most 4 channels
	}
	if a := m.alignment; a > 1 {
		row = (row + a - 1) / a * a
	}
	return row
}

func (m *Image) sizeFor(height, pitch uint32) uint64 {
	planes := uint64(1)
	if m.layout == Planar {
		planes = uint64(m.format.Channels()) //nolint:gosec // at most 4 channels
	}
	return planes * uint64(height) * uint64(pitch)
}

// offset returns the byte offset of channel c of pixel (x, y).
func (m *Image) offset(x, y uint32, c int) int {
	size := m.ctype.Size()
	if m.layout == Planar {
		return (c*int(m.height)+int(y))*int(m.pitch) + int(x)*size
	}
	return int(y)*int(m.pitch) + (int(x)*m.format.Channels()+c)*size
}

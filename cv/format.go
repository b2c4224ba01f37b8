// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cv

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// PixelFormat is the channel arrangement of an image.
type PixelFormat uint8

const (
	FormatRGBA PixelFormat = iota
	FormatBGRA
	FormatRGB
	FormatBGR
	FormatA // single alpha channel
	FormatY // single luminance channel
)

var pixelFormatNames = [...]string{"RGBA", "BGRA", "RGB", "BGR", "A", "Y"}

// Channels returns the number of components per pixel.
func (f PixelFormat) Channels() int {
	switch f {
	case FormatRGBA, FormatBGRA:
		return 4
	case FormatRGB, FormatBGR:
		return 3
	case FormatA, FormatY:
		return 1
	default:
		return 0
	}
}

// String returns the format name.
func (f PixelFormat) String() string {
	if int(f) < len(pixelFormatNames) {
		return pixelFormatNames[f]
	}
	return fmt.Sprintf("PixelFormat(%d)", f)
}

// ComponentType is the storage type of a single channel.
type ComponentType uint8

const (
	U8  ComponentType = iota // unsigned 8-bit, 0..255
	F32                      // 32-bit float, 0..1
)

// Size returns the component size in bytes.
func (c ComponentType) Size() int {
	if c == F32 {
		return 4
	}
	return 1
}

// Max returns the value of a fully saturated component.
func (c ComponentType) Max() float32 {
	if c == F32 {
		return 1
	}
	return 255
}

func (c ComponentType) String() string {
	if c == F32 {
		return "F32"
	}
	return "U8"
}

// Layout is the arrangement of channels in memory.
type Layout uint8

const (
	// Interleaved stores all channels of a pixel together (RGBRGB...).
	Interleaved Layout = iota
	// Planar stores each channel in its own plane (RR..GG..BB..).
	Planar
)

func (l Layout) String() string {
	if l == Planar {
		return "planar"
	}
	return "interleaved"
}

// MemoryLocation is where an image's pixels live.
type MemoryLocation uint8

const (
	GPU MemoryLocation = iota
	CPU
	CPUPinned
)

func (m MemoryLocation) String() string {
	switch m {
	case GPU:
		return "GPU"
	case CPU:
		return "CPU"
	case CPUPinned:
		return "CPUPinned"
	default:
		return fmt.Sprintf("MemoryLocation(%d)", m)
	}
}

// FormatFor returns the image pixel format equivalent to a texture format.
func FormatFor(format gputypes.TextureFormat) (PixelFormat, bool) {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm:
		return FormatRGBA, true
	case gputypes.TextureFormatBGRA8Unorm:
		return FormatBGRA, true
	case gputypes.TextureFormatR8Unorm:
		return FormatA, true
	default:
		return 0, false
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gs

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Texture-related errors.
var (
	// ErrInvalidDimensions is returned when width or height is zero.
	ErrInvalidDimensions = errors.New("gs: invalid dimensions")

	// ErrUnsupportedFormat is returned for formats vfx does not copy.
	ErrUnsupportedFormat = errors.New("gs: unsupported texture format")

	// ErrTextureReleased is returned when operating on a destroyed texture.
	ErrTextureReleased = errors.New("gs: texture has been released")

	// ErrFormatMismatch is returned when a copy mixes texture formats.
	ErrFormatMismatch = errors.New("gs: texture formats differ")
)

// DefaultTextureUsage is the usage given to textures created without
// explicit flags: copy source and destination, sampling and rendering.
const DefaultTextureUsage = gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst |
	gputypes.TextureUsageTextureBinding | gputypes.TextureUsageRenderAttachment

// BytesPerPixel returns the size of one texel of format, or 0 when the
// format is not one vfx works with.
func BytesPerPixel(format gputypes.TextureFormat) int {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4
	case gputypes.TextureFormatR8Unorm:
		return 1
	default:
		return 0
	}
}

// TextureConfig holds configuration for creating a new texture.
type TextureConfig struct {
	// Width is the texture width in pixels.
	Width uint32

	// Height is the texture height in pixels.
	Height uint32

	// Format is the pixel format: RGBA8Unorm, BGRA8Unorm or R8Unorm.
	Format gputypes.TextureFormat

	// Label is an optional debug label.
	Label string

	// Usage flags (default: DefaultTextureUsage).
	Usage gputypes.TextureUsage
}

// Texture is a 2D render texture created on a Device.
type Texture struct {
	raw    hal.Texture
	device *Device

	width  uint32
	height uint32
	format gputypes.TextureFormat
	label  string

	released bool
}

// CreateTexture creates an uninitialized 2D texture.
// Must be called inside the graphics context.
func (d *Device) CreateTexture(config TextureConfig) (*Texture, error) {
	if config.Width == 0 || config.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, config.Width, config.Height)
	}
	bpp := BytesPerPixel(config.Format)
	if bpp == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, config.Format)
	}
	if d.closed {
		return nil, ErrDeviceClosed
	}
	usage := config.Usage
	if usage == 0 {
		usage = DefaultTextureUsage
	}

	raw, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         config.Label,
		Size:          hal.Extent3D{Width: config.Width, Height: config.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        config.Format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("gs: create texture %q: %w", config.Label, err)
	}

	t := &Texture{
		raw:    raw,
		device: d,
		width:  config.Width,
		height: config.Height,
		format: config.Format,
		label:  config.Label,
	}
	d.textures.Add(1)
	d.bytes.Add(int64(t.SizeBytes())) //nolint:gosec // texture sizes fit int64
	return t, nil
}

// Width returns the texture width in pixels.
func (t *Texture) Width() uint32 { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() uint32 { return t.height }

// Format returns the texture format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Label returns the debug label.
func (t *Texture) Label() string { return t.label }

// SizeBytes returns the texture size in bytes.
func (t *Texture) SizeBytes() uint64 {
	return uint64(t.width) * uint64(t.height) * uint64(BytesPerPixel(t.format)) //nolint:gosec // bpp is small and positive
}

// BytesPerRow returns the unpadded size of one texture row.
func (t *Texture) BytesPerRow() uint32 {
	return t.width * uint32(BytesPerPixel(t.format)) //nolint:gosec // bpp is small and positive
}

// HalTexture returns the underlying HAL texture, or nil once released.
func (t *Texture) HalTexture() hal.Texture {
	if t.released {
		return nil
	}
	return t.raw
}

// IsReleased returns true if the texture has been destroyed.
func (t *Texture) IsReleased() bool { return t.released }

// Destroy releases the GPU texture. Safe to call more than once.
// Must be called inside the graphics context.
func (t *Texture) Destroy() {
	if t == nil || t.released {
		return
	}
	t.released = true
	t.device.device.DestroyTexture(t.raw)
	t.device.textures.Add(-1)
	t.device.bytes.Add(-int64(t.SizeBytes())) //nolint:gosec // texture sizes fit int64
	t.raw = nil
}

// String returns a string representation of the texture.
func (t *Texture) String() string {
	status := "active"
	if t.released {
		status = "released"
	}
	return fmt.Sprintf("Texture[%s %dx%d %v %s]", t.label, t.width, t.height, t.format, status)
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gs

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vfx"
	"github.com/gogpu/wgpu/hal"
)

// ErrNilTexture is returned when a copy is given a nil texture.
var ErrNilTexture = errors.New("gs: nil texture")

// CopyTexture copies src into dst. Both textures must share a format.
// When sizes differ only the overlapping top-left region is copied.
// Must be called inside the graphics context.
func (d *Device) CopyTexture(dst, src *Texture) error {
	if err := d.checkTextures(dst, src); err != nil {
		return err
	}
	if dst.format != src.format {
		return fmt.Errorf("%w: %v -> %v", ErrFormatMismatch, src.format, dst.format)
	}
	size := hal.Extent3D{
		Width:              min(dst.width, src.width),
		Height:             min(dst.height, src.height),
		DepthOrArrayLayers: 1,
	}
	err := d.submit("gs.CopyTexture", func(enc hal.CommandEncoder) {
		enc.CopyTextureToTexture(src.raw, dst.raw, []hal.TextureCopy{{
			SrcBase: imageCopy(src),
			DstBase: imageCopy(dst),
			Size:    size,
		}})
	})
	if err != nil {
		return err
	}
	d.copies.Add(1)
	return nil
}

// CopyTextureToBuffer copies the whole texture into buf, one row every
// bytesPerRow bytes. bytesPerRow must be a multiple of 256.
// Must be called inside the graphics context.
func (d *Device) CopyTextureToBuffer(src *Texture, buf hal.Buffer, bytesPerRow uint32) error {
	if err := d.checkTextures(src); err != nil {
		return err
	}
	err := d.submit("gs.CopyTextureToBuffer", func(enc hal.CommandEncoder) {
		enc.CopyTextureToBuffer(src.raw, buf, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{BytesPerRow: bytesPerRow, RowsPerImage: src.height},
			TextureBase:  imageCopy(src),
			Size:         hal.Extent3D{Width: src.width, Height: src.height, DepthOrArrayLayers: 1},
		}})
	})
	if err != nil {
		return err
	}
	d.copies.Add(1)
	return nil
}

// CopyBufferToTexture uploads buf into the whole texture, reading one row
// every bytesPerRow bytes. bytesPerRow must be a multiple of 256.
// Must be called inside the graphics context.
func (d *Device) CopyBufferToTexture(buf hal.Buffer, bytesPerRow uint32, dst *Texture) error {
	if err := d.checkTextures(dst); err != nil {
		return err
	}
	err := d.submit("gs.CopyBufferToTexture", func(enc hal.CommandEncoder) {
		enc.CopyBufferToTexture(buf, dst.raw, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{BytesPerRow: bytesPerRow, RowsPerImage: dst.height},
			TextureBase:  imageCopy(dst),
			Size:         hal.Extent3D{Width: dst.width, Height: dst.height, DepthOrArrayLayers: 1},
		}})
	})
	if err != nil {
		return err
	}
	d.copies.Add(1)
	return nil
}

// WriteTexture uploads tightly packed pixel data into the whole texture.
// Must be called inside the graphics context.
func (d *Device) WriteTexture(dst *Texture, data []byte) error {
	if err := d.checkTextures(dst); err != nil {
		return err
	}
	if want := dst.SizeBytes(); uint64(len(data)) < want {
		return fmt.Errorf("gs: write texture %q: have %d bytes, need %d", dst.label, len(data), want)
	}
	dstCopy := imageCopy(dst)
	err := d.queue.WriteTexture(&dstCopy, data,
		&hal.ImageDataLayout{BytesPerRow: dst.BytesPerRow(), RowsPerImage: dst.height},
		&hal.Extent3D{Width: dst.width, Height: dst.height, DepthOrArrayLayers: 1})
	if err != nil {
		return fmt.Errorf("gs: write texture %q: %w", dst.label, err)
	}
	return nil
}

// Sync blocks until all submitted work has completed and frees the
// command buffers it used.
// Must be called inside the graphics context.
func (d *Device) Sync() error {
	if d.closed {
		return ErrDeviceClosed
	}
	if err := d.device.WaitIdle(); err != nil {
		return fmt.Errorf("gs: wait idle: %w", err)
	}
	d.reclaim(^uint64(0))
	return nil
}

func (d *Device) checkTextures(textures ...*Texture) error {
	if d.closed {
		return ErrDeviceClosed
	}
	for _, t := range textures {
		if t == nil {
			return ErrNilTexture
		}
		if t.released {
			return fmt.Errorf("%w: %s", ErrTextureReleased, t.label)
		}
	}
	return nil
}

// submit records a single command buffer with record and submits it.
// Command buffers of earlier submissions the queue reports complete are
// freed here, so steady-state copying does not grow the in-flight list.
func (d *Device) submit(label string, record func(hal.CommandEncoder)) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("%s: create encoder: %w", label, err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		encoder.Destroy()
		return fmt.Errorf("%s: begin encoding: %w", label, err)
	}

	record(encoder)

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.Destroy()
		return fmt.Errorf("%s: end encoding: %w", label, err)
	}
	index, err := d.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		d.device.FreeCommandBuffer(cmdBuf)
		encoder.Destroy()
		return fmt.Errorf("%s: submit: %w", label, err)
	}

	d.inflight = append(d.inflight, submission{index: index, encoder: encoder, cmdBuf: cmdBuf})
	d.reclaim(d.queue.PollCompleted())
	return nil
}

// reclaim frees command buffers of submissions with index <= completed.
func (d *Device) reclaim(completed uint64) {
	kept := d.inflight[:0]
	for _, s := range d.inflight {
		if s.index > completed {
			kept = append(kept, s)
			continue
		}
		d.device.FreeCommandBuffer(s.cmdBuf)
		s.encoder.Destroy()
	}
	for i := len(kept); i < len(d.inflight); i++ {
		d.inflight[i] = submission{}
	}
	d.inflight = kept
	if n := len(kept); n > 0 {
		vfx.Logger().Debug("gs: submissions in flight", "count", n)
	}
}

func imageCopy(t *Texture) hal.ImageCopyTexture {
	return hal.ImageCopyTexture{
		Texture:  t.raw,
		MipLevel: 0,
		Aspect:   gputypes.TextureAspectAll,
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cv

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vfx/compute"
	"github.com/gogpu/vfx/gs"
)

// TextureRowAlignment is the row pitch alignment required for copies
// between textures and buffers.
const TextureRowAlignment = 256

// ErrUnsupportedTextureFormat is returned for texture formats without an
// image equivalent.
var ErrUnsupportedTextureFormat = errors.New("cv: texture format has no image equivalent")

// Texture is a render texture paired with an equivalent GPU image on the
// same device. The image has the texture's size and pixel format, with
// rows aligned for texture copies.
//
// Both contexts must be held for every method except the accessors.
type Texture struct {
	gfx   *gs.Device
	tex   *gs.Texture
	img   *Image
	label string
}

// NewTexture creates a texture of the given size and format and its
// paired image.
func NewTexture(gfx *gs.Device, cmp *compute.Device, width, height uint32, format gputypes.TextureFormat) (*Texture, error) {
	pf, ok := FormatFor(format)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedTextureFormat, format)
	}
	label := fmt.Sprintf("cv.Texture(%v)", pf)
	tex, err := gfx.CreateTexture(gs.TextureConfig{Width: width, Height: height, Format: format, Label: label})
	if err != nil {
		return nil, err
	}
	img, err := NewImage(cmp, ImageConfig{
		Width:     width,
		Height:    height,
		Format:    pf,
		Type:      U8,
		Layout:    Interleaved,
		Location:  GPU,
		Alignment: TextureRowAlignment,
		Label:     label,
	})
	if err != nil {
		tex.Destroy()
		return nil, err
	}
	return &Texture{gfx: gfx, tex: tex, img: img, label: label}, nil
}

// Texture returns the render texture. It changes when the pair is resized.
func (p *Texture) Texture() *gs.Texture { return p.tex }

// Image returns the paired image.
func (p *Texture) Image() *Image { return p.img }

// Width returns the width in pixels.
func (p *Texture) Width() uint32 { return p.tex.Width() }

// Height returns the height in pixels.
func (p *Texture) Height() uint32 { return p.tex.Height() }

// Resize recreates the texture at the new size and resizes the image in
// place. Contents are undefined afterwards.
func (p *Texture) Resize(width, height uint32) error {
	if width == p.tex.Width() && height == p.tex.Height() {
		return nil
	}
	tex, err := p.gfx.CreateTexture(gs.TextureConfig{
		Width:  width,
		Height: height,
		Format: p.tex.Format(),
		Label:  p.label,
	})
	if err != nil {
		return err
	}
	if err := p.img.Resize(width, height); err != nil {
		tex.Destroy()
		return err
	}
	p.tex.Destroy()
	p.tex = tex
	return nil
}

// SyncToImage copies the texture contents into the image and waits for
// the copy to complete.
func (p *Texture) SyncToImage() error {
	if err := p.gfx.CopyTextureToBuffer(p.tex, p.img.Buffer().HalBuffer(), p.img.Pitch()); err != nil {
		return fmt.Errorf("cv: sync %s to image: %w", p.label, err)
	}
	return p.gfx.Sync()
}

// SyncToTexture copies the image contents into the texture.
func (p *Texture) SyncToTexture() error {
	if err := p.gfx.CopyBufferToTexture(p.img.Buffer().HalBuffer(), p.img.Pitch(), p.tex); err != nil {
		return fmt.Errorf("cv: sync %s to texture: %w", p.label, err)
	}
	return nil
}

// Destroy releases the texture and the image.
func (p *Texture) Destroy() {
	if p == nil {
		return
	}
	p.tex.Destroy()
	p.img.Destroy()
}

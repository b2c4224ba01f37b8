// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cv

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/vfx"
	"github.com/gogpu/vfx/compute"
)

// Transferer copies pixels between images, converting pixel format,
// component type, layout and memory location as needed.
//
// Every component is multiplied by scale. When the conversion cannot be
// done in one pass, tmp supplies working space; implementations may grow
// tmp if it is too small. Work is ordered on stream.
type Transferer interface {
	Transfer(src, dst *Image, scale float32, stream *compute.Stream, tmp *Image) Result
}

// SoftwareTransfer is a Transferer that converts on the host, mapping GPU
// images into host memory after synchronizing the stream.
type SoftwareTransfer struct{}

var _ Transferer = SoftwareTransfer{}

// NeedsStaging reports whether converting src into dst goes through a
// temporary image: when both the layout and the pixel representation
// change, or when memory location changes together with any conversion.
func NeedsStaging(src, dst *Image) bool {
	repr := src.format != dst.format || src.ctype != dst.ctype
	layout := src.layout != dst.layout
	location := (src.location == GPU) != (dst.location == GPU)
	return (repr && layout) || (location && (repr || layout))
}

// Transfer implements Transferer.
func (SoftwareTransfer) Transfer(src, dst *Image, scale float32, stream *compute.Stream, tmp *Image) Result {
	if src == nil || dst == nil {
		return ResultBuffer
	}
	if src.released || dst.released {
		return ResultBuffer
	}
	if src.width != dst.width || src.height != dst.height {
		return ResultMismatch
	}

	if stream != nil && (src.location == GPU || dst.location == GPU) {
		if err := stream.Synchronize(); err != nil {
			vfx.Logger().Error("cv: transfer synchronize", "stream", stream.Label(), "err", err)
			return ResultDevice
		}
	}

	if !NeedsStaging(src, dst) {
		return convert(src, dst, scale)
	}

	if tmp == nil || tmp.released {
		return ResultMissingInput
	}
	if tmp.format.Channels() != 4 {
		return ResultPixelFormat
	}
	if err := tmp.Resize(src.width, src.height); err != nil {
		vfx.Logger().Error("cv: transfer staging resize", "label", tmp.label, "err", err)
		return ResultMemory
	}
	if res := convert(src, tmp, 1); !res.OK() {
		return res
	}
	return convert(tmp, dst, scale)
}

// convert copies src into dst pixel by pixel. Both images must have the
// same dimensions.
func convert(src, dst *Image, scale float32) Result {
	in, unlockIn, err := src.Lock()
	if err != nil {
		vfx.Logger().Error("cv: transfer lock source", "label", src.label, "err", err)
		return ResultBuffer
	}
	defer unlockIn()
	out, unlockOut, err := dst.Lock()
	if err != nil {
		vfx.Logger().Error("cv: transfer lock destination", "label", dst.label, "err", err)
		return ResultBuffer
	}
	defer unlockOut()

	srcMax := src.ctype.Max()
	dstMax := dst.ctype.Max()

	for y := uint32(0); y < src.height; y++ {
		for x := uint32(0); x < src.width; x++ {
			rgba := readPixel(src, in, x, y, srcMax)
			for i := range rgba {
				rgba[i] = rgba[i] * scale * dstMax / srcMax
			}
			writePixel(dst, out, x, y, rgba, dstMax)
		}
	}
	return ResultSuccess
}

func readComponent(m *Image, data []byte, x, y uint32, c int) float32 {
	off := m.offset(x, y, c)
	if m.ctype == F32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	}
	return float32(data[off])
}

func writeComponent(m *Image, data []byte, x, y uint32, c int, v, maxv float32) {
	off := m.offset(x, y, c)
	if m.ctype == F32 {
		binary.LittleEndian.PutUint32(data[off:], math.Float32bits(v))
		return
	}
	switch {
	case v <= 0:
		data[off] = 0
	case v >= maxv:
		data[off] = uint8(maxv)
	default:
		data[off] = uint8(v + 0.5)
	}
}

// readPixel returns the pixel as R, G, B, A. Missing alpha is opaque; a
// single alpha channel is replicated to every component.
func readPixel(m *Image, data []byte, x, y uint32, maxv float32) [4]float32 {
	c := func(i int) float32 { return readComponent(m, data, x, y, i) }
	switch m.format {
	case FormatRGBA:
		return [4]float32{c(0), c(1), c(2), c(3)}
	case FormatBGRA:
		return [4]float32{c(2), c(1), c(0), c(3)}
	case FormatRGB:
		return [4]float32{c(0), c(1), c(2), maxv}
	case FormatBGR:
		return [4]float32{c(2), c(1), c(0), maxv}
	case FormatA:
		v := c(0)
		return [4]float32{v, v, v, v}
	default: // FormatY
		v := c(0)
		return [4]float32{v, v, v, maxv}
	}
}

func writePixel(m *Image, data []byte, x, y uint32, rgba [4]float32, maxv float32) {
	w := func(i int, v float32) { writeComponent(m, data, x, y, i, v, maxv) }
	switch m.format {
	case FormatRGBA:
		w(0, rgba[0])
		w(1, rgba[1])
		w(2, rgba[2])
		w(3, rgba[3])
	case FormatBGRA:
		w(0, rgba[2])
		w(1, rgba[1])
		w(2, rgba[0])
		w(3, rgba[3])
	case FormatRGB:
		w(0, rgba[0])
		w(1, rgba[1])
		w(2, rgba[2])
	case FormatBGR:
		w(0, rgba[2])
		w(1, rgba[1])
		w(2, rgba[0])
	case FormatA:
		w(0, rgba[3])
	default: // FormatY, BT.601 luma
		w(0, 0.299*rgba[0]+0.587*rgba[1]+0.114*rgba[2])
	}
}

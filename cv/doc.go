// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cv provides the compute-side image model used by vfx effects.
//
// An Image describes a pixel buffer by pixel format, component type,
// component layout (interleaved or planar) and memory location. GPU images
// live in compute buffers; CPU images live in host memory. Images resize
// in place when their allocation is large enough.
//
// Texture binds a render texture to an equivalent GPU image so frames can
// move between the render and compute sides:
//
//	pair, err := cv.NewTexture(gfx, cmp, 1280, 720, gputypes.TextureFormatRGBA8Unorm)
//	...
//	err = pair.SyncToImage()   // texture -> image
//	err = pair.SyncToTexture() // image -> texture
//
// Operations that can fail report a Result. Result.String returns the
// human-readable translation of the code; Result.Err converts it into an
// error for use with fmt.Errorf and errors.Is.
package cv

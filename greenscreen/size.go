// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package greenscreen

import "math"

// Minimum processing size.
const (
	MinWidth  = 512
	MinHeight = 288
)

// Size returns the processing size for a frame of width x height.
//
// The dominant axis is raised to its minimum and the other axis follows
// the frame's aspect ratio, rounded to nearest and raised to its own
// minimum. Square frames use the height branch. There is no upper bound.
//
// Both dimensions must be positive; Session.Resize and Session.Process
// reject a zero dimension with cv.ResultResolution.
func Size(width, height uint32) (uint32, uint32) {
	if width > height {
		ar := float64(height) / float64(width)
		w := max(width, MinWidth)
		h := max(uint32(math.Round(float64(w)*ar)), MinHeight)
		return w, h
	}
	ar := float64(width) / float64(height)
	h := max(height, MinHeight)
	w := max(uint32(math.Round(float64(h)*ar)), MinWidth)
	return w, h
}

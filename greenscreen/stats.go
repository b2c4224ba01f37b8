// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package greenscreen

import (
	"fmt"
	"time"
)

// Stats reports session activity. Stage durations are those of the most
// recent successful Process call.
type Stats struct {
	Frames       uint64 // successful Process calls
	Loads        uint64 // successful effect loads
	Reallocs     uint64 // buffers created or resized
	RingRebuilds uint64

	CopyIn      time.Duration // frame to input texture and color ring
	TransferIn  time.Duration // input image to effect source
	Run         time.Duration
	TransferOut time.Duration // effect destination to output texture
	Total       time.Duration
}

// String returns a human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("Frames[%d, loads %d, reallocs %d] Last[copy %v, in %v, run %v, out %v, total %v]",
		s.Frames, s.Loads, s.Reallocs, s.CopyIn, s.TransferIn, s.Run, s.TransferOut, s.Total)
}

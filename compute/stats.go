// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import "fmt"

// Stats contains compute device allocation statistics.
type Stats struct {
	Buffers int    // live buffers
	Bytes   uint64 // bytes held by live buffers
	Syncs   uint64 // stream synchronizations
}

// String returns a human-readable string of the stats.
func (s Stats) String() string {
	return fmt.Sprintf("Buffers[%d live, %.1f MB, %d syncs]",
		s.Buffers, float64(s.Bytes)/(1024*1024), s.Syncs)
}

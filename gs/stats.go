// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gs

import "fmt"

// Stats contains render device allocation statistics.
type Stats struct {
	// Textures is the number of live textures.
	Textures int

	// Bytes is the memory held by live textures.
	Bytes uint64

	// Copies is the number of texture copies submitted since creation.
	Copies uint64
}

// String returns a human-readable string of the stats.
func (s Stats) String() string {
	return fmt.Sprintf("Textures[%d live, %.1f MB, %d copies]",
		s.Textures, float64(s.Bytes)/(1024*1024), s.Copies)
}

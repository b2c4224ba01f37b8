// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package greenscreen

import (
	"fmt"

	"github.com/gogpu/vfx/effect"
)

// Mode trades mask quality for speed.
type Mode uint32

const (
	// Quality produces the most accurate mask. This is the default.
	Quality = Mode(effect.ModeQuality)
	// Fast runs a cheaper model or filter.
	Fast = Mode(effect.ModePerformance)
)

func (m Mode) String() string {
	switch m {
	case Quality:
		return "quality"
	case Fast:
		return "fast"
	default:
		return fmt.Sprintf("Mode(%d)", uint32(m))
	}
}

// State is the reload state of a Session.
type State uint8

const (
	// StateNeedsReload means the effect configuration changed since the
	// last successful load. Process loads before running.
	StateNeedsReload State = iota
	// StateReady means the effect is loaded for the current buffers.
	StateReady
	// StateDisposed means the session has been closed.
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateNeedsReload:
		return "needs-reload"
	case StateReady:
		return "ready"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

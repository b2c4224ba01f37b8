// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package greenscreen

import "github.com/gogpu/vfx/cv"

// DefaultLatency is the number of frames the mask lags behind its input.
const DefaultLatency = 2

// Option configures a Session during creation.
//
// Example:
//
//	s, err := greenscreen.New(gfx, cmp, fx,
//	    greenscreen.WithMode(greenscreen.Fast),
//	    greenscreen.WithLatency(3))
type Option func(*options)

type options struct {
	mode     Mode
	latency  int
	transfer cv.Transferer
	location cv.MemoryLocation
}

func defaultOptions() options {
	return options{
		mode:     Quality,
		latency:  DefaultLatency,
		transfer: cv.SoftwareTransfer{},
		location: cv.GPU,
	}
}

// WithMode sets the initial mode (default Quality).
func WithMode(m Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithLatency sets how many frames the color ring holds, which is the
// delay between a frame entering Process and Color returning it.
// Values below 1 are ignored.
func WithLatency(frames int) Option {
	return func(o *options) {
		if frames >= 1 {
			o.latency = frames
		}
	}
}

// WithTransferer replaces the image transfer implementation.
// The default is cv.SoftwareTransfer. A nil value is ignored.
func WithTransferer(t cv.Transferer) Option {
	return func(o *options) {
		if t != nil {
			o.transfer = t
		}
	}
}

// WithMemoryLocation sets where the effect's source and destination
// images are allocated (default cv.GPU).
func WithMemoryLocation(loc cv.MemoryLocation) Option {
	return func(o *options) {
		o.location = loc
	}
}

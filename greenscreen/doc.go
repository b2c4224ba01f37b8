// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package greenscreen runs a background removal effect over a stream of
// render textures.
//
// A Session owns every buffer the effect needs and keeps them sized to the
// incoming frames. Each call to Process copies the frame in, converts it to
// the effect's input format, runs the effect and converts the mask back to
// a render texture:
//
//	session, err := greenscreen.New(gfx, cmp, chroma.New(chroma.DefaultConfig()))
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	for frame := range frames {
//	    mask, err := session.Process(frame)
//	    if err != nil {
//	        return err
//	    }
//	    composite(session.Color(), mask)
//	}
//
// The effect delivers its mask a fixed number of frames late. Color returns
// the frame the latest mask belongs to, held in a ring of recent frames.
//
// # Sizing
//
// Frames smaller than 512x288 are processed at a larger size chosen by
// Size, keeping the aspect ratio of the dominant axis.
//
// # Concurrency
//
// A Session is not safe for concurrent use. Every method enters the render
// context and then the compute context for its duration.
package greenscreen

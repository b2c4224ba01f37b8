// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package compute provides the compute device used by vfx effects.
//
// A compute Device wraps a HAL device and queue. Work that touches compute
// resources runs inside the compute context:
//
//	leave := dev.Enter()
//	defer leave()
//
// Enter locks the calling goroutine to its OS thread for the duration of
// the context, as native compute runtimes bind their current context per
// thread.
//
// Buffers allocated by a Device are host-mappable storage buffers. They can
// be copied to and from render textures created on the same HAL device.
package compute

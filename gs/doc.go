// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gs is the render side of vfx: the graphics device shared with the
// host application, the textures the host hands frames around in, and the
// copies between them.
//
// # Key Principle
//
// vfx RECEIVES the device from the host, it does NOT need to create one.
// Use [NewDeviceFromProvider] with the host's gpucontext.DeviceProvider, or
// [NewDevice] with raw HAL objects. [OpenDevice] exists for standalone tools
// and tests that have no host.
//
// # Graphics Context
//
// All texture operations must run inside the device's graphics context:
//
//	leave := dev.Enter()
//	defer leave()
//	tex, err := dev.CreateTexture(gs.TextureConfig{Width: 1280, Height: 720, Format: gputypes.TextureFormatRGBA8Unorm})
//
// The context is exclusive and not reentrant.
package gs

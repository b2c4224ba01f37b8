// Package vfx provides GPU video effects for host applications that hand
// frames around as GPU textures.
//
// # Overview
//
// vfx adapts background removal ("green screen") inference effects into a
// texture pipeline. The host owns the GPU device and the frame textures; vfx
// receives the device, keeps the working buffers sized to the incoming
// frames and returns a mask texture together with the color frame the mask
// was computed from.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/vfx/compute"
//	    "github.com/gogpu/vfx/effect/chroma"
//	    "github.com/gogpu/vfx/greenscreen"
//	    "github.com/gogpu/vfx/gs"
//	)
//
//	gfx, _ := gs.NewDeviceFromProvider(provider) // host supplies the device
//	cmp, err := compute.NewDevice(gfx.HalDevice(), gfx.HalQueue())
//	if err != nil {
//	    return err
//	}
//	session, err := greenscreen.New(gfx, cmp, chroma.New(chroma.DefaultConfig()))
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	// Once per frame:
//	mask, err := session.Process(frame)
//	color := session.Color() // frame aligned with mask
//
// # Architecture
//
// The module is organized into:
//   - gs: render device, textures and texture copies
//   - compute: compute device, streams and GPU buffers
//   - cv: compute images, status codes, transfers and texture/image pairs
//   - effect: the configurable effect contract and its backends
//   - greenscreen: the background removal session
//
// # Logging
//
// vfx is silent by default. Call [SetLogger] to route diagnostics from all
// sub-packages to a [log/slog] logger.
package vfx

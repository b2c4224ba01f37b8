// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package effect defines the contract of a configurable GPU effect.
//
// An effect is configured through parameters, prepared once its
// configuration is complete, then executed once per frame:
//
//	fx.Configure(effect.SrcImage0, src)
//	fx.Configure(effect.DstImage0, dst)
//	if res := fx.Prepare(); !res.OK() { ... }
//	if res := fx.Execute(); !res.OK() { ... }
//
// Every call reports a cv.Result. Backends register themselves by name in
// the package registry; Best returns the highest-priority one available.
package effect

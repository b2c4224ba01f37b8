// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"slices"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/vfx"
)

// Backend names in priority order.
const (
	BackendONNX   = "onnx"
	BackendChroma = "chroma"
)

var registry = gpucontext.NewRegistry[Effect](
	gpucontext.WithPriority(BackendONNX, BackendChroma),
)

// Register makes an effect backend available under name. A later
// registration with the same name replaces the earlier one.
func Register(name string, factory func() Effect) {
	registry.Register(name, factory)
}

// Unregister removes the named backend.
func Unregister(name string) {
	registry.Unregister(name)
}

// New creates an effect from the named backend, or returns nil if no such
// backend is registered.
func New(name string) Effect {
	return registry.Get(name)
}

// Best creates an effect from the highest-priority registered backend.
// It returns nil and an empty name if none is registered.
func Best() (Effect, string) {
	name := registry.BestName()
	if name == "" {
		return nil, ""
	}
	vfx.Logger().Info("effect: selected backend", "name", name)
	return registry.Get(name), name
}

// Available returns the sorted names of registered backends.
func Available() []string {
	names := registry.Available()
	slices.Sort(names)
	return names
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"slices"
	"testing"

	"github.com/gogpu/vfx/cv"
)

func TestBaseConfigure(t *testing.T) {
	img, err := cv.NewImage(nil, cv.ImageConfig{Width: 4, Height: 4, Format: cv.FormatBGR, Location: cv.CPU})
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}

	tests := []struct {
		name  string
		key   Parameter
		value any
		want  cv.Result
	}{
		{"mode", Mode, uint32(1), cv.ResultSuccess},
		{"mode wrong type", Mode, 1, cv.ResultParameter},
		{"src image", SrcImage0, img, cv.ResultSuccess},
		{"nil image", DstImage0, (*cv.Image)(nil), cv.ResultParameter},
		{"model dir", ModelDir, "/models", cv.ResultSuccess},
		{"strength", Strength, float32(0.5), cv.ResultSuccess},
		{"strength out of range", Strength, float32(2), cv.ResultParameter},
		{"stream wrong type", CudaStream, 5, cv.ResultParameter},
		{"unknown", Parameter(200), 0, cv.ResultSelector},
	}
	var b Base
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Configure(tt.key, tt.value); got != tt.want {
				t.Errorf("Configure(%v) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}

	if b.Uint32(Mode, 9) != 1 {
		t.Errorf("Uint32(Mode) = %d, want 1", b.Uint32(Mode, 9))
	}
	if b.Image(SrcImage0) != img || b.Image(DstImage0) != nil {
		t.Error("image parameters not stored as expected")
	}
	if b.String(ModelDir, "") != "/models" {
		t.Errorf("String(ModelDir) = %q", b.String(ModelDir, ""))
	}
	if b.Float32(Strength, 0) != 0.5 {
		t.Errorf("Float32(Strength) = %v, want 0.5", b.Float32(Strength, 0))
	}
	if b.Stream() != nil {
		t.Error("Stream() should be nil when unset")
	}
}

func TestParameterString(t *testing.T) {
	if got := SrcImage0.String(); got != "SrcImage0" {
		t.Errorf("String() = %q", got)
	}
	if got := Parameter(99).String(); got != "Parameter(99)" {
		t.Errorf("String() = %q", got)
	}
}

type nopEffect struct{ Base }

func (*nopEffect) Prepare() cv.Result { return cv.ResultSuccess }
func (*nopEffect) Execute() cv.Result { return cv.ResultSuccess }

func TestRegistryPriority(t *testing.T) {
	t.Cleanup(func() {
		Unregister(BackendChroma)
		Unregister(BackendONNX)
		Unregister("custom")
	})

	Register("custom", func() Effect { return &nopEffect{} })
	if _, name := Best(); name != "custom" {
		t.Errorf("Best() = %q, want custom as only backend", name)
	}

	Register(BackendChroma, func() Effect { return &nopEffect{} })
	if _, name := Best(); name != BackendChroma {
		t.Errorf("Best() = %q, want %q", name, BackendChroma)
	}

	Register(BackendONNX, func() Effect { return &nopEffect{} })
	fx, name := Best()
	if name != BackendONNX || fx == nil {
		t.Errorf("Best() = %q, want %q", name, BackendONNX)
	}

	if got := Available(); !slices.Equal(got, []string{"chroma", "custom", "onnx"}) {
		t.Errorf("Available() = %v", got)
	}
	if New("missing") != nil {
		t.Error("New(missing) should be nil")
	}
}

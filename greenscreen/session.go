// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package greenscreen

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vfx"
	"github.com/gogpu/vfx/compute"
	"github.com/gogpu/vfx/cv"
	"github.com/gogpu/vfx/effect"
	"github.com/gogpu/vfx/gs"
	"github.com/gogpu/vfx/internal/ring"
)

// Session errors. Failures carry a *cv.Error with the failing parameter
// or operation and its Result where one exists.
var (
	ErrNilDevice      = errors.New("greenscreen: nil device")
	ErrNilEffect      = errors.New("greenscreen: nil effect")
	ErrNilTexture     = errors.New("greenscreen: nil input texture")
	ErrClosed         = errors.New("greenscreen: session closed")
	ErrParameter      = errors.New("greenscreen: parameter binding failed")
	ErrLoadFailed     = errors.New("greenscreen: load failed")
	ErrAllocFailed    = errors.New("greenscreen: buffer allocation failed")
	ErrCopyFailed     = errors.New("greenscreen: copy failed")
	ErrTransferFailed = errors.New("greenscreen: transfer failed")
	ErrRunFailed      = errors.New("greenscreen: run failed")
)

// Texture formats of the session's render textures.
const (
	colorFormat = gputypes.TextureFormatRGBA8Unorm
	maskFormat  = gputypes.TextureFormatR8Unorm
)

// Session drives a background removal effect frame by frame.
type Session struct {
	gfx      *gs.Device
	cmp      *compute.Device
	fx       effect.Effect
	transfer cv.Transferer
	location cv.MemoryLocation
	latency  int

	mode  Mode
	state State

	input       *cv.Texture // frame at processing size
	source      *cv.Image   // effect input, BGR
	destination *cv.Image   // effect output, A
	output      *cv.Texture // mask at processing size
	tmp         *cv.Image   // transfer scratch, RGBA planar
	ring        *ring.Ring[*gs.Texture]

	stats Stats
}

// New creates a session running fx on the given devices. Both devices must
// share a HAL device. The session starts in StateNeedsReload at 512x288.
func New(gfx *gs.Device, cmp *compute.Device, fx effect.Effect, opts ...Option) (*Session, error) {
	if gfx == nil || cmp == nil {
		return nil, ErrNilDevice
	}
	if fx == nil {
		return nil, ErrNilEffect
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		gfx:      gfx,
		cmp:      cmp,
		fx:       fx,
		transfer: o.transfer,
		location: o.location,
		latency:  o.latency,
		ring:     ring.New[*gs.Texture](),
	}

	leaveGfx := gfx.Enter()
	defer leaveGfx()
	leaveCmp := cmp.Enter()
	defer leaveCmp()

	if err := s.setMode(o.mode); err != nil {
		return nil, err
	}
	if err := s.resize(MinWidth, MinHeight); err != nil {
		s.release()
		return nil, err
	}
	return s, nil
}

// SetMode changes the effect mode. It takes effect at the next Process or
// Load.
func (s *Session) SetMode(m Mode) error {
	if s.state == StateDisposed {
		return ErrClosed
	}
	return s.setMode(m)
}

func (s *Session) setMode(m Mode) error {
	if res := s.fx.Configure(effect.Mode, uint32(m)); !res.OK() {
		vfx.Logger().Error("greenscreen: set mode", "mode", m, "result", res.String())
		return fmt.Errorf("%w: %w", ErrParameter, cv.NewError(effect.Mode.String(), res))
	}
	s.mode = m
	s.state = StateNeedsReload
	return nil
}

// Resize sizes the session for frames of width x height. Buffers are only
// touched when the processing size from Size changes.
func (s *Session) Resize(width, height uint32) error {
	leaveGfx := s.gfx.Enter()
	defer leaveGfx()
	leaveCmp := s.cmp.Enter()
	defer leaveCmp()

	if s.state == StateDisposed {
		return ErrClosed
	}
	return s.resize(width, height)
}

func (s *Session) resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: %dx%d", cv.NewError("resize", cv.ResultResolution), width, height)
	}
	w, h := Size(width, height)
	log := vfx.Logger()

	// Allocated once at the first requested size; SoftwareTransfer grows
	// it when a later frame needs more room.
	if s.tmp == nil {
		tmp, err := cv.NewImage(s.cmp, cv.ImageConfig{
			Width: width, Height: height,
			Format: cv.FormatRGBA, Type: cv.U8, Layout: cv.Planar,
			Location: cv.GPU, Alignment: 1, Label: "greenscreen.tmp",
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrAllocFailed, err)
		}
		s.tmp = tmp
		s.stats.Reallocs++
	}

	if s.input == nil || s.input.Width() != w || s.input.Height() != h {
		if err := s.rebuildRing(width, height); err != nil {
			return err
		}
		var err error
		if s.input != nil {
			err = s.input.Resize(w, h)
		} else {
			s.input, err = cv.NewTexture(s.gfx, s.cmp, w, h, colorFormat)
		}
		if err != nil {
			return fmt.Errorf("%w: input: %w", ErrAllocFailed, err)
		}
		s.realloc("input", w, h)
	}

	if s.source == nil || s.source.Width() != w || s.source.Height() != h {
		var err error
		s.source, err = s.image(s.source, w, h, cv.FormatBGR, "greenscreen.source")
		if err != nil {
			return err
		}
		if err := s.bind(effect.SrcImage0, s.source); err != nil {
			return err
		}
		s.realloc("source", w, h)
	}

	if s.destination == nil || s.destination.Width() != w || s.destination.Height() != h {
		var err error
		s.destination, err = s.image(s.destination, w, h, cv.FormatA, "greenscreen.destination")
		if err != nil {
			return err
		}
		if err := s.bind(effect.DstImage0, s.destination); err != nil {
			return err
		}
		s.realloc("destination", w, h)
	}

	if s.output == nil || s.output.Width() != w || s.output.Height() != h {
		var err error
		if s.output != nil {
			err = s.output.Resize(w, h)
		} else {
			s.output, err = cv.NewTexture(s.gfx, s.cmp, w, h, maskFormat)
		}
		if err != nil {
			return fmt.Errorf("%w: output: %w", ErrAllocFailed, err)
		}
		s.realloc("output", w, h)
	}

	log.Debug("greenscreen: resized", "requested", fmt.Sprintf("%dx%d", width, height),
		"size", fmt.Sprintf("%dx%d", w, h), "state", s.state)
	return nil
}

// image resizes img, or creates it when nil.
func (s *Session) image(img *cv.Image, w, h uint32, format cv.PixelFormat, label string) (*cv.Image, error) {
	if img != nil {
		if err := img.Resize(w, h); err != nil {
			return img, fmt.Errorf("%w: %s: %w", ErrAllocFailed, label, err)
		}
		return img, nil
	}
	img, err := cv.NewImage(s.cmp, cv.ImageConfig{
		Width: w, Height: h,
		Format: format, Type: cv.U8, Layout: cv.Interleaved,
		Location: s.location, Alignment: 1, Label: label,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAllocFailed, label, err)
	}
	return img, nil
}

func (s *Session) bind(key effect.Parameter, img *cv.Image) error {
	if res := s.fx.Configure(key, img); !res.OK() {
		vfx.Logger().Error("greenscreen: bind image", "parameter", key, "result", res.String())
		return fmt.Errorf("%w: %w", ErrParameter, cv.NewError(key.String(), res))
	}
	return nil
}

func (s *Session) realloc(name string, w, h uint32) {
	s.stats.Reallocs++
	s.state = StateNeedsReload
	vfx.Logger().Debug("greenscreen: buffer sized", "buffer", name, "width", w, "height", h)
}

// rebuildRing replaces the color ring with latency textures of the
// requested, unclamped frame size.
func (s *Session) rebuildRing(width, height uint32) error {
	s.clearRing()
	textures := make([]*gs.Texture, 0, s.latency)
	for i := 0; i < s.latency; i++ {
		tex, err := s.gfx.CreateTexture(gs.TextureConfig{
			Width:  width,
			Height: height,
			Format: colorFormat,
			Label:  fmt.Sprintf("greenscreen.color[%d]", i),
		})
		if err != nil {
			for _, t := range textures {
				t.Destroy()
			}
			return fmt.Errorf("%w: color ring: %w", ErrAllocFailed, err)
		}
		textures = append(textures, tex)
	}
	s.ring.Reset(textures...)
	s.stats.RingRebuilds++
	vfx.Logger().Debug("greenscreen: color ring rebuilt", "latency", s.latency, "width", width, "height", height)
	return nil
}

func (s *Session) clearRing() {
	s.ring.Each(func(t *gs.Texture) { t.Destroy() })
	s.ring.Clear()
}

// Load binds the compute stream and prepares the effect. On success the
// session is StateReady.
func (s *Session) Load() error {
	leaveGfx := s.gfx.Enter()
	defer leaveGfx()
	leaveCmp := s.cmp.Enter()
	defer leaveCmp()

	if s.state == StateDisposed {
		return ErrClosed
	}
	return s.load()
}

func (s *Session) load() error {
	if res := s.fx.Configure(effect.CudaStream, s.cmp.Stream()); !res.OK() {
		vfx.Logger().Error("greenscreen: bind stream", "result", res.String())
		return fmt.Errorf("%w: %w", ErrParameter, cv.NewError(effect.CudaStream.String(), res))
	}
	if res := s.fx.Prepare(); !res.OK() {
		vfx.Logger().Error("greenscreen: load effect", "result", res.String())
		return fmt.Errorf("%w: %w", ErrLoadFailed, cv.NewError("load", res))
	}
	s.state = StateReady
	s.stats.Loads++
	vfx.Logger().Debug("greenscreen: effect loaded", "mode", s.mode)
	return nil
}

// Process runs the effect on in and returns the mask texture. The mask is
// owned by the session and overwritten by the next call.
//
// in must be RGBA8Unorm. A failed call leaves the session needing a
// reload; buffers are kept.
func (s *Session) Process(in *gs.Texture) (*gs.Texture, error) {
	if in == nil {
		return nil, ErrNilTexture
	}
	leaveGfx := s.gfx.Enter()
	defer leaveGfx()
	leaveCmp := s.cmp.Enter()
	defer leaveCmp()

	if s.state == StateDisposed {
		return nil, ErrClosed
	}
	log := vfx.Logger()
	start := time.Now()

	if err := s.resize(in.Width(), in.Height()); err != nil {
		return nil, err
	}
	if s.state == StateNeedsReload {
		if err := s.load(); err != nil {
			return nil, err
		}
	}

	t := time.Now()
	if err := s.gfx.CopyTexture(s.input.Texture(), in); err != nil {
		log.Error("greenscreen: copy frame to input", "err", err)
		return nil, s.fail(fmt.Errorf("%w: input: %w", ErrCopyFailed, err))
	}
	// Front is the oldest frame; refill it and make it the newest.
	if err := s.gfx.CopyTexture(s.ring.Front(), in); err != nil {
		log.Error("greenscreen: copy frame to color ring", "err", err)
		return nil, s.fail(fmt.Errorf("%w: color ring: %w", ErrCopyFailed, err))
	}
	s.ring.Rotate()
	copyIn := time.Since(t)

	t = time.Now()
	if err := s.input.SyncToImage(); err != nil {
		log.Error("greenscreen: sync input image", "err", err)
		return nil, s.fail(fmt.Errorf("%w: %w", ErrCopyFailed, err))
	}
	if res := s.transfer.Transfer(s.input.Image(), s.source, 1, s.cmp.Stream(), s.tmp); !res.OK() {
		log.Error("greenscreen: failed to transfer input to processing source", "result", res.String())
		return nil, s.fail(fmt.Errorf("%w: %w", ErrTransferFailed, cv.NewError("input to source", res)))
	}
	transferIn := time.Since(t)

	t = time.Now()
	if res := s.fx.Execute(); !res.OK() {
		log.Error("greenscreen: failed to process", "result", res.String())
		return nil, s.fail(fmt.Errorf("%w: %w", ErrRunFailed, cv.NewError("run", res)))
	}
	run := time.Since(t)

	t = time.Now()
	if res := s.transfer.Transfer(s.destination, s.output.Image(), 1, s.cmp.Stream(), s.tmp); !res.OK() {
		log.Error("greenscreen: failed to transfer processing result to output", "result", res.String())
		return nil, s.fail(fmt.Errorf("%w: %w", ErrTransferFailed, cv.NewError("destination to output", res)))
	}
	if err := s.output.SyncToTexture(); err != nil {
		log.Error("greenscreen: sync output texture", "err", err)
		return nil, s.fail(fmt.Errorf("%w: %w", ErrCopyFailed, err))
	}
	transferOut := time.Since(t)

	s.stats.Frames++
	s.stats.CopyIn = copyIn
	s.stats.TransferIn = transferIn
	s.stats.Run = run
	s.stats.TransferOut = transferOut
	s.stats.Total = time.Since(start)
	return s.output.Texture(), nil
}

// fail marks the session for reload after a failed frame.
func (s *Session) fail(err error) error {
	s.state = StateNeedsReload
	return err
}

// Color returns the frame the current mask was computed from: the oldest
// entry of the color ring. It returns nil after Close.
func (s *Session) Color() *gs.Texture {
	if s.ring.Len() == 0 {
		return nil
	}
	return s.ring.Front()
}

// Mask returns the mask texture of the most recent Process call, or nil
// after Close.
func (s *Session) Mask() *gs.Texture {
	if s.output == nil {
		return nil
	}
	return s.output.Texture()
}

// Mode returns the current mode.
func (s *Session) Mode() Mode { return s.mode }

// State returns the reload state.
func (s *Session) State() State { return s.state }

// Dirty reports whether the effect must be reloaded before it runs.
func (s *Session) Dirty() bool { return s.state == StateNeedsReload }

// Latency returns the number of frames Color lags behind Process input.
func (s *Session) Latency() int { return s.latency }

// Size returns the current processing size.
func (s *Session) Size() (width, height uint32) {
	if s.input == nil {
		return 0, 0
	}
	return s.input.Width(), s.input.Height()
}

// Stats returns session counters and the stage timings of the last frame.
func (s *Session) Stats() Stats { return s.stats }

// Close releases every buffer the session owns. Later calls return
// ErrClosed. Close is idempotent.
func (s *Session) Close() {
	leaveGfx := s.gfx.Enter()
	defer leaveGfx()
	leaveCmp := s.cmp.Enter()
	defer leaveCmp()

	if s.state == StateDisposed {
		return
	}
	s.release()
	s.state = StateDisposed
}

func (s *Session) release() {
	s.tmp.Destroy()
	s.output.Destroy()
	s.destination.Destroy()
	s.source.Destroy()
	s.input.Destroy()
	s.clearRing()
	s.tmp, s.output, s.destination, s.source, s.input = nil, nil, nil, nil, nil
}

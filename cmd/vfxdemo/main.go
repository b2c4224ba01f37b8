// Command vfxdemo runs a still image through a background removal session
// and writes the resulting mask and the color frame it belongs to.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/up-zero/gotool/imageutil"
	"golang.org/x/image/draw"

	_ "github.com/gogpu/wgpu/hal/noop"
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/vfx"
	"github.com/gogpu/vfx/compute"
	"github.com/gogpu/vfx/cv"
	"github.com/gogpu/vfx/effect"
	"github.com/gogpu/vfx/effect/chroma"
	"github.com/gogpu/vfx/effect/onnx"
	"github.com/gogpu/vfx/greenscreen"
	"github.com/gogpu/vfx/gs"
)

func main() {
	var (
		backend = flag.String("backend", "vulkan", "HAL backend: vulkan or noop")
		input   = flag.String("in", "input.png", "input image")
		width   = flag.Int("width", 0, "scale the input to this width, 0 keeps it")
		frames  = flag.Int("frames", 4, "number of frames to process")
		mode    = flag.String("mode", "quality", "effect mode: quality or fast")
		name    = flag.String("effect", effect.BackendChroma, "effect backend, empty picks the best one")
		models  = flag.String("models", "", "model directory for the onnx effect")
		ortLib  = flag.String("ort", onnx.DefaultLibraryPath(), "onnxruntime shared library")
		latency = flag.Int("latency", greenscreen.DefaultLatency, "color ring depth")
		output  = flag.String("out", "mask.png", "mask output file")
		color   = flag.String("color", "", "color frame output file, empty skips it")
		verbose = flag.Bool("v", false, "log diagnostics")
	)
	flag.Parse()

	if *verbose {
		vfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	frame, err := loadFrame(*input, *width)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *input, err)
	}

	gfx, err := gs.OpenDevice(parseBackend(*backend))
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	defer gfx.Close()
	cmp, err := compute.NewDevice(gfx.HalDevice(), gfx.HalQueue())
	if err != nil {
		log.Fatalf("Failed to create compute device: %v", err)
	}

	fx, err := newEffect(*name, *ortLib, *models)
	if err != nil {
		log.Fatal(err)
	}
	m := greenscreen.Quality
	if *mode == "fast" {
		m = greenscreen.Fast
	}
	session, err := greenscreen.New(gfx, cmp, fx, greenscreen.WithMode(m), greenscreen.WithLatency(*latency))
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	defer session.Close()

	in, err := upload(gfx, frame)
	if err != nil {
		log.Fatalf("Failed to upload frame: %v", err)
	}
	defer func() {
		leave := gfx.Enter()
		defer leave()
		in.Destroy()
	}()

	for i := 0; i < *frames; i++ {
		if _, err := session.Process(in); err != nil {
			log.Fatalf("Frame %d: %v", i, err)
		}
	}
	log.Printf("%s on %s: %v", *name, gfx.Name(), session.Stats())
	log.Printf("%v, %v", gfx.Stats(), cmp.Stats())

	mask, err := readBack(gfx, cmp, session.Mask())
	if err != nil {
		log.Fatalf("Failed to read mask: %v", err)
	}
	if err := imageutil.Save(*output, mask, 100); err != nil {
		log.Fatalf("Failed to save mask: %v", err)
	}
	log.Printf("Mask saved to %s (%dx%d)", *output, mask.Bounds().Dx(), mask.Bounds().Dy())

	if *color != "" {
		img, err := readBack(gfx, cmp, session.Color())
		if err != nil {
			log.Fatalf("Failed to read color frame: %v", err)
		}
		if err := imageutil.Save(*color, img, 100); err != nil {
			log.Fatalf("Failed to save color frame: %v", err)
		}
		log.Printf("Color frame saved to %s", *color)
	}
}

func parseBackend(name string) gputypes.Backend {
	switch strings.ToLower(name) {
	case "noop", "empty":
		return gputypes.BackendEmpty
	default:
		return gputypes.BackendVulkan
	}
}

func newEffect(name, ortLib, models string) (effect.Effect, error) {
	var fx effect.Effect
	switch name {
	case "":
		fx, name = effect.Best()
	case effect.BackendONNX:
		cfg := onnx.DefaultConfig()
		cfg.OnnxRuntimeLibPath = ortLib
		fx = onnx.New(cfg)
	case effect.BackendChroma:
		fx = chroma.New(chroma.DefaultConfig())
	default:
		fx = effect.New(name)
	}
	if fx == nil {
		return nil, fmt.Errorf("unknown effect %q, available: %v", name, effect.Available())
	}
	if models != "" {
		if res := fx.Configure(effect.ModelDir, models); !res.OK() {
			return nil, fmt.Errorf("model directory: %w", res.Err())
		}
	}
	return fx, nil
}

// loadFrame decodes path into RGBA, scaled to width when it is non-zero.
func loadFrame(path string, width int) (*image.RGBA, error) {
	src, err := imageutil.Open(path)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if width > 0 && width != w {
		h = h * width / w
		w = width
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, nil
}

func upload(gfx *gs.Device, frame *image.RGBA) (*gs.Texture, error) {
	leave := gfx.Enter()
	defer leave()

	b := frame.Bounds()
	tex, err := gfx.CreateTexture(gs.TextureConfig{
		Width:  uint32(b.Dx()), //nolint:gosec // image sizes fit uint32
		Height: uint32(b.Dy()), //nolint:gosec // image sizes fit uint32
		Format: gputypes.TextureFormatRGBA8Unorm,
		Label:  "vfxdemo.frame",
	})
	if err != nil {
		return nil, err
	}
	if err := gfx.WriteTexture(tex, frame.Pix); err != nil {
		tex.Destroy()
		return nil, err
	}
	return tex, nil
}

// readBack copies a session texture into host memory.
func readBack(gfx *gs.Device, cmp *compute.Device, tex *gs.Texture) (image.Image, error) {
	leaveGfx := gfx.Enter()
	defer leaveGfx()
	leaveCmp := cmp.Enter()
	defer leaveCmp()

	pair, err := cv.NewTexture(gfx, cmp, tex.Width(), tex.Height(), tex.Format())
	if err != nil {
		return nil, err
	}
	defer pair.Destroy()
	if err := gfx.CopyTexture(pair.Texture(), tex); err != nil {
		return nil, err
	}
	if err := pair.SyncToImage(); err != nil {
		return nil, err
	}
	img := pair.Image()
	data, unlock, err := img.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	w, h := int(img.Width()), int(img.Height())
	pitch := int(img.Pitch())
	rect := image.Rect(0, 0, w, h)
	if img.Format() == cv.FormatA {
		out := image.NewGray(rect)
		for y := 0; y < h; y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+w], data[y*pitch:])
		}
		return out, nil
	}
	out := image.NewRGBA(rect)
	for y := 0; y < h; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+4*w], data[y*pitch:])
	}
	return out, nil
}

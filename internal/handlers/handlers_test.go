package handlers

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/koios/mockup-renderer/internal/compositor"
	"github.com/koios/mockup-renderer/internal/framestore"
	"github.com/koios/mockup-renderer/internal/resolver"
	"github.com/koios/mockup-renderer/pkg/models"
	"go.uber.org/zap"
)

type testEnv struct {
	catalog *models.Catalog
	store   *framestore.MemoryStore
	render  *RenderHandler
	frames  *FrameHandler
}

// setupTestHandlers wires both handlers over one in-memory frame store
func setupTestHandlers(t *testing.T) *testEnv {
	t.Helper()

	catalog, err := models.LoadCatalog()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	logger := zap.NewNop()
	store := framestore.NewMemoryStore()

	return &testEnv{
		catalog: catalog,
		store:   store,
		render:  NewRenderHandler(catalog, resolver.New(catalog, store, logger), compositor.New(logger), logger),
		frames:  NewFrameHandler(catalog, store, logger),
	}
}

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestRenderHandler_Handle(t *testing.T) {
	env := setupTestHandlers(t)

	res, err := env.render.Handle(context.Background(), &models.MockupRequest{
		DeviceID:   "iphone-17",
		Screenshot: pngBytes(t, 4, 4, color.NRGBA{R: 0xff, A: 0xff}),
		Background: "#ffffff",
		Scale:      0.25,
	})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if res.ColorName != "Black" {
		t.Errorf("ColorName = %q, want default Black", res.ColorName)
	}
	if res.FrameSource != models.FrameGenerated {
		t.Errorf("FrameSource = %q, want generated", res.FrameSource)
	}
	if res.Width != 378 || res.Height != 730 {
		t.Errorf("size = %dx%d, want 378x730", res.Width, res.Height)
	}
}

func TestRenderHandler_InvalidRequest(t *testing.T) {
	env := setupTestHandlers(t)

	_, err := env.render.Handle(context.Background(), &models.MockupRequest{
		DeviceID:   "iphone-17",
		ColorName:  "Gold",
		Background: "#ffffff",
	})
	var invalid *InvalidRequestError
	if !errors.As(err, &invalid) {
		t.Fatalf("Handle() error = %v, want *InvalidRequestError", err)
	}
	if invalid.Errors[0].Field != "color_name" {
		t.Errorf("field = %q, want color_name", invalid.Errors[0].Field)
	}
}

func TestRenderHandler_BadScreenshot(t *testing.T) {
	env := setupTestHandlers(t)

	_, err := env.render.Handle(context.Background(), &models.MockupRequest{
		DeviceID:   "iphone-17",
		Screenshot: []byte("definitely not a png"),
		Background: "#ffffff",
		Scale:      0.25,
	})
	if !errors.Is(err, models.ErrDecode) {
		t.Errorf("Handle() error = %v, want ErrDecode", err)
	}
}

func TestFrameHandler_ImportThenRender(t *testing.T) {
	env := setupTestHandlers(t)
	ctx := context.Background()

	frame := pngBytes(t, 1350, 2760, color.NRGBA{G: 0xff, A: 0xff})
	imported, err := env.frames.Import(ctx, "iphone-17", "Mist Blue", frame)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if imported.Key != "iphone-17/mist-blue" || imported.Stretched {
		t.Errorf("Import() = %+v", imported)
	}

	res, err := env.render.Handle(ctx, &models.MockupRequest{
		DeviceID:   "iphone-17",
		ColorName:  "Mist Blue",
		Background: "#ffffff",
		Scale:      0.25,
	})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if res.FrameSource != models.FrameImported {
		t.Errorf("FrameSource = %q, want imported", res.FrameSource)
	}
	if got := res.Image.RGBAAt(188, 365); got.G < 250 || got.R > 5 {
		t.Errorf("pixel = %v, want the opaque green import", got)
	}

	if err := env.frames.Remove(ctx, "iphone-17", "mist-blue"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	res, err = env.render.Handle(ctx, &models.MockupRequest{DeviceID: "iphone-17", ColorName: "Mist Blue", Background: "#ffffff", Scale: 0.25})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if res.FrameSource != models.FrameGenerated {
		t.Errorf("FrameSource after Remove = %q, want generated", res.FrameSource)
	}
}

func TestFrameHandler_Import(t *testing.T) {
	env := setupTestHandlers(t)
	ctx := context.Background()

	t.Run("stretched", func(t *testing.T) {
		res, err := env.frames.Import(ctx, "iphone-air", "", pngBytes(t, 100, 200, color.Black))
		if err != nil {
			t.Fatalf("Import() error: %v", err)
		}
		if !res.Stretched || res.Key != "iphone-air/space-black" {
			t.Errorf("Import() = %+v", res)
		}
	})

	t.Run("not an image", func(t *testing.T) {
		if _, err := env.frames.Import(ctx, "iphone-air", "", []byte("text")); !errors.Is(err, models.ErrDecode) {
			t.Errorf("Import() error = %v, want ErrDecode", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		full := pngBytes(t, 1380, 2880, color.Black)
		if _, err := env.frames.Import(ctx, "iphone-air", "Sky Blue", full[:len(full)/2]); !errors.Is(err, models.ErrDecode) {
			t.Fatalf("Import() error = %v, want ErrDecode", err)
		}
		found, err := env.store.Exists(ctx, "iphone-air/sky-blue")
		if err != nil || found {
			t.Errorf("Exists() = %v, %v, want nothing stored", found, err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := env.frames.Import(ctx, "iphone-air", "", nil); err == nil {
			t.Error("expected error for empty frame")
		}
	})

	t.Run("unknown color", func(t *testing.T) {
		if _, err := env.frames.Import(ctx, "iphone-air", "Gold", pngBytes(t, 1, 1, color.Black)); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Import() error = %v, want ErrNotFound", err)
		}
	})
}

func TestFrameHandler_List(t *testing.T) {
	env := setupTestHandlers(t)
	ctx := context.Background()
	frame := pngBytes(t, 2, 2, color.Black)

	for _, c := range []string{"Sage", "Black"} {
		if _, err := env.frames.Import(ctx, "iphone-17", c, frame); err != nil {
			t.Fatalf("Import(%s) error: %v", c, err)
		}
	}
	// a slug no catalog color maps to
	if err := env.store.Save(ctx, "iphone-17/retired", frame); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	frames, err := env.frames.List(ctx, "iphone-17")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	want := []FrameInfo{
		{Key: "iphone-17/black", ColorName: "Black"},
		{Key: "iphone-17/sage", ColorName: "Sage"},
		{Key: "iphone-17/retired"},
	}
	if len(frames) != len(want) {
		t.Fatalf("List() = %+v, want %+v", frames, want)
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("frames[%d] = %+v, want %+v", i, frames[i], want[i])
		}
	}

	if _, err := env.frames.List(ctx, "pixel-9"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("List(pixel-9) error = %v, want ErrNotFound", err)
	}
}

func TestFrameHandler_ExportSVG(t *testing.T) {
	env := setupTestHandlers(t)

	doc, err := env.frames.ExportSVG("iphone-17-pro", "Cosmic Orange")
	if err != nil {
		t.Fatalf("ExportSVG() error: %v", err)
	}
	s := string(doc)
	if !strings.HasPrefix(s, "<svg") || !strings.Contains(s, `fill="#c47a3c"`) {
		t.Errorf("unexpected SVG: %.200s", s)
	}

	// the export imports cleanly as a frame
	res, err := env.frames.Import(context.Background(), "iphone-17-pro", "Cosmic Orange", doc)
	if err != nil {
		t.Fatalf("Import(svg) error: %v", err)
	}
	if res.Width != 1350 || res.Height != 2760 || res.Stretched {
		t.Errorf("Import(svg) = %+v", res)
	}
}

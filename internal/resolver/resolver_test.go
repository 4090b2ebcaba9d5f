package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/koios/mockup-renderer/internal/framestore"
	"github.com/koios/mockup-renderer/pkg/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// failingStore reports every call as a backend failure
type failingStore struct {
	framestore.MemoryStore
}

var errBackend = errors.New("connection refused")

func (*failingStore) Exists(ctx context.Context, key string) (bool, error) {
	return false, errBackend
}

func loadCatalog(t *testing.T) *models.Catalog {
	t.Helper()
	c, err := models.LoadCatalog()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	return c
}

func TestResolve_DefaultsToGenerated(t *testing.T) {
	r := New(loadCatalog(t), framestore.NewMemoryStore(), zap.NewNop())

	src, err := r.Resolve(context.Background(), "iphone-17", "Black")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if src.Kind != models.FrameGenerated {
		t.Fatalf("Kind = %q, want generated", src.Kind)
	}
	if models.HexColor(src.Accent) != "#1a1a1a" {
		t.Errorf("Accent = %s, want #1a1a1a", models.HexColor(src.Accent))
	}
}

func TestResolve_EmptyColorUsesDefault(t *testing.T) {
	r := New(loadCatalog(t), nil, zap.NewNop())

	src, err := r.Resolve(context.Background(), "iphone-air", "")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if models.HexColor(src.Accent) != "#1a1a1a" {
		t.Errorf("Accent = %s, want Space Black #1a1a1a", models.HexColor(src.Accent))
	}
}

func TestResolve_AfterImport(t *testing.T) {
	ctx := context.Background()
	store := framestore.NewMemoryStore()
	r := New(loadCatalog(t), store, zap.NewNop())

	if err := store.Save(ctx, "iphone-17/mist-blue", []byte("frame")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	src, err := r.Resolve(ctx, "iphone-17", "Mist Blue")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if src.Kind != models.FrameImported || string(src.Asset.Data) != "frame" {
		t.Fatalf("Resolve() = %+v, want imported frame", src)
	}

	// other colors of the same device keep the generated frame
	other, _ := r.Resolve(ctx, "iphone-17", "Sage")
	if other.Kind != models.FrameGenerated {
		t.Errorf("Sage Kind = %q, want generated", other.Kind)
	}

	// removal is visible on the next call
	if err := store.Delete(ctx, "iphone-17/mist-blue"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	src, _ = r.Resolve(ctx, "iphone-17", "Mist Blue")
	if src.Kind != models.FrameGenerated {
		t.Errorf("Kind after delete = %q, want generated", src.Kind)
	}
}

func TestResolve_NotFound(t *testing.T) {
	r := New(loadCatalog(t), framestore.NewMemoryStore(), zap.NewNop())

	tests := []struct {
		name, device, color string
	}{
		{"unknown device", "galaxy-s25", "Black"},
		{"unknown color", "iphone-17", "Gold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), tt.device, tt.color)
			if !errors.Is(err, models.ErrNotFound) {
				t.Errorf("Resolve() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestResolve_StoreFailureFallsBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := New(loadCatalog(t), &failingStore{}, zap.New(core))

	src, err := r.Resolve(context.Background(), "iphone-17-pro", "Deep Blue")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if src.Kind != models.FrameGenerated {
		t.Errorf("Kind = %q, want generated", src.Kind)
	}
	if logs.Len() != 1 {
		t.Fatalf("warn logs = %d, want 1", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "frame store unavailable, using generated frame" {
		t.Errorf("log message = %q", entry.Message)
	}
	if entry.ContextMap()["device_id"] != "iphone-17-pro" {
		t.Errorf("device_id field = %v", entry.ContextMap()["device_id"])
	}
}

func TestResolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(loadCatalog(t), &failingStore{}, zap.NewNop())
	if _, err := r.Resolve(ctx, "iphone-17", "Black"); !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
}

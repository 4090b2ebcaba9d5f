package framestore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/koios/mockup-renderer/pkg/models"
)

// MemoryStore keeps frames in process memory. Data is copied in and out.
type MemoryStore struct {
	mu     sync.RWMutex
	frames map[string]models.FrameAsset
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{frames: make(map[string]models.FrameAsset)}
}

func (m *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	if _, _, err := splitKey(key); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.frames[key]
	return ok, nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) (*models.FrameAsset, bool, error) {
	if _, _, err := splitKey(key); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.frames[key]
	if !ok {
		return nil, false, nil
	}
	a.Data = append([]byte(nil), a.Data...)
	return &a, true, nil
}

func (m *MemoryStore) Save(ctx context.Context, key string, data []byte) error {
	if _, _, err := splitKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.frames[key] = models.FrameAsset{
		Key:       key,
		Data:      append([]byte(nil), data...),
		UpdatedAt: time.Now().UTC(),
	}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if _, _, err := splitKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.frames, key)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, deviceID string) ([]string, error) {
	if err := validateDeviceID(deviceID); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := deviceID + "/"
	var slugs []string
	for key := range m.frames {
		if slug, ok := strings.CutPrefix(key, prefix); ok {
			slugs = append(slugs, slug)
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

func (m *MemoryStore) Close() error { return nil }

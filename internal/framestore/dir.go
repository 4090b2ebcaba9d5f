package framestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/koios/mockup-renderer/pkg/models"
	"go.uber.org/zap"
)

const tempPrefix = ".tmp-"

// DirStore keeps one file per frame under root/<deviceID>/<slug>
type DirStore struct {
	root   string
	logger *zap.Logger
}

// NewDirStore creates the root directory if needed
func NewDirStore(root string, logger *zap.Logger) (*DirStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create frame directory: %w", err)
	}
	return &DirStore{root: root, logger: logger}, nil
}

func (d *DirStore) path(key string) (string, error) {
	deviceID, slug, err := splitKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.root, deviceID, slug), nil
}

func (d *DirStore) Exists(ctx context.Context, key string) (bool, error) {
	p, err := d.path(key)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat frame %s: %w", key, err)
	}
	return info.Mode().IsRegular(), nil
}

func (d *DirStore) Get(ctx context.Context, key string) (*models.FrameAsset, bool, error) {
	p, err := d.path(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read frame %s: %w", key, err)
	}

	asset := &models.FrameAsset{Key: key, Data: data}
	if info, err := os.Stat(p); err == nil {
		asset.UpdatedAt = info.ModTime().UTC()
	}
	return asset, true, nil
}

// Save writes through a temp file and renames it into place so readers
// never see a partial frame
func (d *DirStore) Save(ctx context.Context, key string, data []byte) error {
	p, err := d.path(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create device directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write frame %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write frame %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("failed to store frame %s: %w", key, err)
	}

	d.logger.Debug("Saved frame",
		zap.String("key", key),
		zap.Int("bytes", len(data)))
	return nil
}

func (d *DirStore) Delete(ctx context.Context, key string) error {
	p, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete frame %s: %w", key, err)
	}
	d.logger.Debug("Deleted frame", zap.String("key", key))
	return nil
}

func (d *DirStore) List(ctx context.Context, deviceID string) ([]string, error) {
	if err := validateDeviceID(deviceID); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(d.root, deviceID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list frames for %s: %w", deviceID, err)
	}

	var slugs []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}
		slugs = append(slugs, e.Name())
	}
	sort.Strings(slugs)
	return slugs, nil
}

func (d *DirStore) Close() error { return nil }

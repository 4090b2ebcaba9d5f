// Package framestore persists imported frame images keyed by device and color.
package framestore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/koios/mockup-renderer/internal/config"
	"github.com/koios/mockup-renderer/pkg/models"
	"go.uber.org/zap"
)

// Store holds imported frames. Keys have the form models.FrameKey returns.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (*models.FrameAsset, bool, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	// List returns the color slugs with a stored frame for deviceID, sorted
	List(ctx context.Context, deviceID string) ([]string, error)
	Close() error
}

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ErrInvalidKey is returned for keys that are not deviceID/slug
var ErrInvalidKey = errors.New("invalid frame key")

// splitKey validates key and returns its device and slug parts
func splitKey(key string) (deviceID, slug string, err error) {
	deviceID, slug, ok := strings.Cut(key, "/")
	if !ok {
		return "", "", fmt.Errorf("%w %q: missing separator", ErrInvalidKey, key)
	}
	if err := validateDeviceID(deviceID); err != nil {
		return "", "", fmt.Errorf("%w %q: %v", ErrInvalidKey, key, err)
	}
	if slug == "" || slug == "." || slug == ".." || strings.ContainsAny(slug, `/\`) || strings.ContainsRune(slug, 0) {
		return "", "", fmt.Errorf("%w %q: bad color slug", ErrInvalidKey, key)
	}
	return deviceID, slug, nil
}

func validateDeviceID(id string) error {
	if !deviceIDPattern.MatchString(id) {
		return fmt.Errorf("bad device id %q", id)
	}
	return nil
}

// Open builds the store selected by cfg. A Redis store that cannot be
// reached is still returned so renders fall back to generated frames.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.Frames.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "dir":
		return NewDirStore(cfg.Frames.Dir, logger)
	case "redis":
		s := NewRedisStore(&cfg.Redis)
		if err := s.Ping(ctx); err != nil {
			logger.Warn("Redis frame store unreachable",
				zap.String("addr", cfg.Redis.Addr),
				zap.Error(err))
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown frame store backend %q", cfg.Frames.Backend)
}

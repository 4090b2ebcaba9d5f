// Package resolver picks the frame artwork for a device color: an imported
// frame when the store has one, the generated frame otherwise.
package resolver

import (
	"context"
	"fmt"

	"github.com/koios/mockup-renderer/internal/framestore"
	"github.com/koios/mockup-renderer/pkg/models"
	"go.uber.org/zap"
)

// Resolver looks up frames on every call. Nothing is cached, so an import or
// removal takes effect on the next render.
type Resolver struct {
	catalog *models.Catalog
	store   framestore.Store
	logger  *zap.Logger
}

// New creates a resolver. store may be nil, in which case every frame is
// generated.
func New(catalog *models.Catalog, store framestore.Store, logger *zap.Logger) *Resolver {
	return &Resolver{
		catalog: catalog,
		store:   store,
		logger:  logger,
	}
}

// Resolve returns the frame source for deviceID in colorName. An empty
// colorName selects the device's default color. Unknown devices and colors
// fail with models.ErrNotFound; store failures fall back to the generated
// frame.
func (r *Resolver) Resolve(ctx context.Context, deviceID, colorName string) (models.FrameSource, error) {
	device, variant, err := r.lookup(deviceID, colorName)
	if err != nil {
		return models.FrameSource{}, err
	}

	generated := models.Generated(variant.Accent())
	if r.store == nil {
		return generated, nil
	}

	key := models.FrameKey(device.ID, variant.Name)
	asset, err := r.fetch(ctx, key)
	if err != nil {
		if ctx.Err() != nil {
			return models.FrameSource{}, ctx.Err()
		}
		r.logger.Warn("frame store unavailable, using generated frame",
			zap.String("device_id", device.ID),
			zap.String("color", variant.Name),
			zap.Error(err))
		return generated, nil
	}
	if asset == nil {
		return generated, nil
	}

	r.logger.Debug("Using imported frame",
		zap.String("key", key),
		zap.Int("bytes", len(asset.Data)))
	return models.Imported(asset), nil
}

func (r *Resolver) lookup(deviceID, colorName string) (*models.DeviceSpec, models.ColorVariant, error) {
	device, err := r.catalog.Get(deviceID)
	if err != nil {
		return nil, models.ColorVariant{}, err
	}
	if colorName == "" {
		return device, device.DefaultColor(), nil
	}
	variant, err := device.Color(colorName)
	if err != nil {
		return nil, models.ColorVariant{}, err
	}
	return device, variant, nil
}

// fetch returns nil without error when no usable frame is stored
func (r *Resolver) fetch(ctx context.Context, key string) (*models.FrameAsset, error) {
	ok, err := r.store.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check frame %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}

	asset, found, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load frame %s: %w", key, err)
	}
	if !found || len(asset.Data) == 0 {
		// removed between Exists and Get, or an empty record
		return nil, nil
	}
	return asset, nil
}

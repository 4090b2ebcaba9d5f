package handlers

import (
	"context"
	"fmt"

	"github.com/koios/mockup-renderer/internal/compositor"
	"github.com/koios/mockup-renderer/internal/framestore"
	"github.com/koios/mockup-renderer/internal/geometry"
	"github.com/koios/mockup-renderer/pkg/models"
	"go.uber.org/zap"
)

// FrameHandler manages imported frames and exports generated ones
type FrameHandler struct {
	catalog *models.Catalog
	store   framestore.Store
	logger  *zap.Logger
}

// NewFrameHandler creates a new frame handler
func NewFrameHandler(catalog *models.Catalog, store framestore.Store, logger *zap.Logger) *FrameHandler {
	return &FrameHandler{
		catalog: catalog,
		store:   store,
		logger:  logger,
	}
}

// ImportResult describes a stored frame
type ImportResult struct {
	Key    string `json:"key"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	// Stretched is set when the frame will be resized to the device frame
	Stretched bool `json:"stretched"`
}

// FrameInfo is one stored frame of a device
type FrameInfo struct {
	Key       string `json:"key"`
	ColorName string `json:"color_name"`
}

// Import stores data as the frame for a device color. The bytes must decode
// as an image; a size other than the device frame is accepted with a warning
// since renders stretch it.
func (h *FrameHandler) Import(ctx context.Context, deviceID, colorName string, data []byte) (*ImportResult, error) {
	device, variant, err := h.lookup(deviceID, colorName)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("frame for %s is empty", models.FrameKey(device.ID, variant.Name))
	}

	fw, fh, err := compositor.FrameSize(data)
	if err != nil {
		return nil, err
	}

	key := models.FrameKey(device.ID, variant.Name)
	result := &ImportResult{
		Key:       key,
		Width:     fw,
		Height:    fh,
		Stretched: fw != int(device.FrameWidth) || fh != int(device.FrameHeight),
	}
	if result.Stretched {
		h.logger.Warn("Imported frame size differs from device frame, it will be stretched",
			zap.String("key", key),
			zap.Int("width", fw),
			zap.Int("height", fh),
			zap.Float64("frame_width", device.FrameWidth),
			zap.Float64("frame_height", device.FrameHeight))
	}

	if err := h.store.Save(ctx, key, data); err != nil {
		return nil, fmt.Errorf("failed to save frame: %w", err)
	}

	h.logger.Info("Imported frame",
		zap.String("key", key),
		zap.Int("bytes", len(data)))
	return result, nil
}

// Remove deletes the imported frame of a device color. Removing a frame
// that was never imported is not an error.
func (h *FrameHandler) Remove(ctx context.Context, deviceID, colorName string) error {
	device, variant, err := h.lookup(deviceID, colorName)
	if err != nil {
		return err
	}
	key := models.FrameKey(device.ID, variant.Name)
	if err := h.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to remove frame: %w", err)
	}
	h.logger.Info("Removed frame", zap.String("key", key))
	return nil
}

// List returns the imported frames of a device in color order. Stored slugs
// that match no catalog color are listed with an empty color name.
func (h *FrameHandler) List(ctx context.Context, deviceID string) ([]FrameInfo, error) {
	device, err := h.catalog.Get(deviceID)
	if err != nil {
		return nil, err
	}

	slugs, err := h.store.List(ctx, device.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list frames: %w", err)
	}
	stored := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		stored[s] = true
	}

	frames := make([]FrameInfo, 0, len(slugs))
	for _, c := range device.Colors {
		if stored[c.Slug()] {
			frames = append(frames, FrameInfo{Key: models.FrameKey(device.ID, c.Name), ColorName: c.Name})
			delete(stored, c.Slug())
		}
	}
	for _, s := range slugs {
		if stored[s] {
			frames = append(frames, FrameInfo{Key: device.ID + "/" + s})
		}
	}
	return frames, nil
}

// ExportSVG returns the generated frame of a device color as an SVG document
func (h *FrameHandler) ExportSVG(deviceID, colorName string) ([]byte, error) {
	device, variant, err := h.lookup(deviceID, colorName)
	if err != nil {
		return nil, err
	}
	return geometry.SVG(geometry.Generate(device, variant.Accent())), nil
}

func (h *FrameHandler) lookup(deviceID, colorName string) (*models.DeviceSpec, models.ColorVariant, error) {
	device, err := h.catalog.Get(deviceID)
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

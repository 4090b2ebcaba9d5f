package handlers

import (
	"context"
	"fmt"

	"github.com/koios/mockup-renderer/internal/compositor"
	"github.com/koios/mockup-renderer/internal/resolver"
	"github.com/koios/mockup-renderer/pkg/models"
	"go.uber.org/zap"
)

// RenderHandler turns a mockup request into a finished render
type RenderHandler struct {
	catalog    *models.Catalog
	resolver   *resolver.Resolver
	compositor *compositor.Compositor
	logger     *zap.Logger
}

// NewRenderHandler creates a new render handler
func NewRenderHandler(catalog *models.Catalog, res *resolver.Resolver, comp *compositor.Compositor, logger *zap.Logger) *RenderHandler {
	return &RenderHandler{
		catalog:    catalog,
		resolver:   res,
		compositor: comp,
		logger:     logger,
	}
}

// Handle validates the request, resolves the device, color and frame, and
// renders. Validation failures are returned as *InvalidRequestError.
func (h *RenderHandler) Handle(ctx context.Context, request *models.MockupRequest) (*models.RenderResult, error) {
	h.logger.Info("Processing render request",
		zap.String("device_id", request.DeviceID),
		zap.String("color", request.ColorName),
		zap.Bool("screenshot", len(request.Screenshot) > 0))

	if errs := ValidateRequest(h.catalog, request); len(errs) > 0 {
		h.logger.Error("Invalid render request", zap.Any("errors", errs))
		return nil, &InvalidRequestError{Errors: errs}
	}

	device, err := h.catalog.Get(request.DeviceID)
	if err != nil {
		return nil, err
	}
	variant := device.DefaultColor()
	if request.ColorName != "" {
		if variant, err = device.Color(request.ColorName); err != nil {
			return nil, err
		}
	}

	background, err := parseBackground(request.Background)
	if err != nil {
		return nil, fmt.Errorf("invalid background: %w", err)
	}

	frame, err := h.resolver.Resolve(ctx, device.ID, variant.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve frame: %w", err)
	}

	scale := request.Scale
	if scale == 0 {
		scale = 1
	}

	result, err := h.compositor.Render(ctx, &models.RenderRequest{
		Screenshot: request.Screenshot,
		Device:     device,
		Color:      variant,
		Background: background,
		Frame:      frame,
		Scale:      scale,
	})
	if err != nil {
		h.logger.Error("Render request failed",
			zap.Error(err),
			zap.String("device_id", device.ID),
			zap.String("color", variant.Name))
		return nil, err
	}

	h.logger.Info("Render request completed successfully",
		zap.String("device_id", device.ID),
		zap.String("color", variant.Name),
		zap.String("frame_source", string(result.FrameSource)),
		zap.Int("width", result.Width),
		zap.Int("height", result.Height))

	return result, nil
}

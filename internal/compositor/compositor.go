// Package compositor flattens a screenshot and a device frame into a single
// raster mockup.
package compositor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/koios/mockup-renderer/internal/cover"
	"github.com/koios/mockup-renderer/internal/geometry"
	"github.com/koios/mockup-renderer/pkg/models"
	"go.uber.org/zap"
)

// Compositor renders mockups. It holds no per-render state.
type Compositor struct {
	logger *zap.Logger
	now    func() time.Time
}

// New creates a compositor
func New(logger *zap.Logger) *Compositor {
	return &Compositor{
		logger: logger,
		now:    time.Now,
	}
}

// Render draws the background, the cover-fitted screenshot clipped to the
// screen, and the frame artwork on top. Inputs are decoded before anything
// is drawn, so a bad screenshot or frame returns an error and no image.
func (c *Compositor) Render(ctx context.Context, req *models.RenderRequest) (*models.RenderResult, error) {
	if req == nil || req.Device == nil {
		return nil, errors.New("render request has no device")
	}
	if !req.Frame.Valid() {
		return nil, models.ErrMissingFrameSource
	}
	scale := req.Scale
	if scale == 0 {
		scale = 1
	}
	if scale < 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("invalid render scale %v", req.Scale)
	}

	start := c.now()
	spec := req.Device

	var shot image.Image
	if len(req.Screenshot) > 0 {
		img, err := decodeRaster(sourceScreenshot, req.Screenshot)
		if err != nil {
			return nil, err
		}
		shot = img
	}

	fw, fh := req.Frame.RasterSize(spec, scale)
	if fw < 1 || fh < 1 {
		return nil, fmt.Errorf("render scale %v too small for %s", scale, spec.ID)
	}
	frame, err := c.frameLayer(req, scale, fw, fh)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w, h := models.OutputSize(spec, scale)
	surface := NewSurface(w, h)
	if !req.Background.IsTransparent() {
		surface.Fill(req.Background.Color())
	}

	pad := float64(models.PaddingAt(scale))
	if shot != nil {
		b := shot.Bounds()
		crop := cover.Fit(float64(b.Dx()), float64(b.Dy()), spec.Screen.Width, spec.Screen.Height)
		screen := models.Rect{
			X:      spec.Screen.X*scale + pad,
			Y:      spec.Screen.Y*scale + pad,
			Width:  spec.Screen.Width * scale,
			Height: spec.Screen.Height * scale,
		}
		clip := surface.Clip(geometry.SquircleRect(spec.Screen, spec.ScreenRadius).Transform(scale, pad, pad))
		surface.DrawImage(shot, crop, screen, clip)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	surface.Composite(frame, image.Pt(int(pad), int(pad)))

	c.logger.Debug("Rendered mockup",
		zap.String("device_id", spec.ID),
		zap.String("color", req.Color.Name),
		zap.String("frame_source", string(req.Frame.Kind)),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Duration("duration", c.now().Sub(start)))

	return &models.RenderResult{
		Image:       surface.Image(),
		DeviceID:    spec.ID,
		ColorName:   req.Color.Name,
		FrameSource: req.Frame.Kind,
		Width:       w,
		Height:      h,
		RenderedAt:  c.now().UTC(),
	}, nil
}

func (c *Compositor) frameLayer(req *models.RenderRequest, scale float64, w, h int) (image.Image, error) {
	switch req.Frame.Kind {
	case models.FrameGenerated:
		geo := geometry.Generate(req.Device, req.Frame.Accent)
		if scale != 1 {
			geo = geo.Scaled(scale)
		}
		layer, err := paintFrame(geo, w, h)
		if err != nil {
			return nil, fmt.Errorf("failed to paint frame: %w", err)
		}
		return layer, nil
	case models.FrameImported:
		return decodeFrame(req.Frame.Asset.Data, w, h)
	}
	return nil, models.ErrMissingFrameSource
}

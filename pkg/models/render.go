package models

import (
	"image"
	"image/color"
	"math"
	"time"
)

// Padding is the margin around the frame on every side of the output
const Padding = 80

// Background is either an opaque fill or fully transparent
type Background struct {
	transparent bool
	color       color.NRGBA
}

// Opaque returns a background filled with c
func Opaque(c color.NRGBA) Background {
	return Background{color: c}
}

// Transparent returns a background that leaves the surface at zero alpha
func Transparent() Background {
	return Background{transparent: true}
}

// IsTransparent reports whether nothing is painted behind the mockup
func (b Background) IsTransparent() bool { return b.transparent }

// Color returns the fill color. Undefined for transparent backgrounds.
func (b Background) Color() color.NRGBA { return b.color }

func (b Background) String() string {
	if b.transparent {
		return "transparent"
	}
	return HexColor(b.color)
}

// FrameSourceKind tells which artwork a frame source carries
type FrameSourceKind string

const (
	FrameGenerated FrameSourceKind = "generated"
	FrameImported  FrameSourceKind = "imported"
)

// FrameAsset is a user-imported frame image for one device color
type FrameAsset struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FrameSource is the artwork drawn over the screenshot. Exactly one of the
// generated accent or the imported asset is set.
type FrameSource struct {
	Kind   FrameSourceKind
	Accent color.NRGBA
	Asset  *FrameAsset
}

// Generated returns a source that renders the parametric frame in accent
func Generated(accent color.NRGBA) FrameSource {
	return FrameSource{Kind: FrameGenerated, Accent: accent}
}

// Imported returns a source backed by a stored asset
func Imported(asset *FrameAsset) FrameSource {
	return FrameSource{Kind: FrameImported, Asset: asset}
}

// Valid reports whether the source carries exactly one kind of artwork
func (f FrameSource) Valid() bool {
	switch f.Kind {
	case FrameGenerated:
		return f.Asset == nil
	case FrameImported:
		return f.Asset != nil && len(f.Asset.Data) > 0
	}
	return false
}

// RasterSize is the pixel size the frame layer is rasterized at. Imported
// frames are stretched to the frame size, so both kinds share it.
func (f FrameSource) RasterSize(spec *DeviceSpec, scale float64) (int, int) {
	return scaled(spec.FrameWidth, scale), scaled(spec.FrameHeight, scale)
}

// PaddingAt is the padding in pixels on each side of the frame at scale
func PaddingAt(scale float64) int {
	return scaled(Padding, scale)
}

// OutputSize is the size of the rendered surface for spec at scale. It is
// built from the rounded padding and frame sizes so both sides get the same
// padding at any scale.
func OutputSize(spec *DeviceSpec, scale float64) (int, int) {
	pad := PaddingAt(scale)
	return 2*pad + scaled(spec.FrameWidth, scale), 2*pad + scaled(spec.FrameHeight, scale)
}

func scaled(v, scale float64) int {
	return int(math.Round(v * scale))
}

// RenderRequest is everything the compositor needs for one render
type RenderRequest struct {
	Screenshot []byte
	Device     *DeviceSpec
	Color      ColorVariant
	Background Background
	Frame      FrameSource
	Scale      float64 // 1 for export, below 1 for previews
}

// RenderResult is a finished mockup. The caller owns Image.
type RenderResult struct {
	Image       *image.RGBA     `json:"-"`
	DeviceID    string          `json:"device_id"`
	ColorName   string          `json:"color_name"`
	FrameSource FrameSourceKind `json:"frame_source"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	RenderedAt  time.Time       `json:"rendered_at"`
}

// MockupRequest is the caller-facing request before device and frame
// resolution
type MockupRequest struct {
	DeviceID   string  `json:"device_id"`
	ColorName  string  `json:"color_name,omitempty"`
	Screenshot []byte  `json:"-"`
	Background string  `json:"background"` // hex color or "transparent"
	Scale      float64 `json:"scale,omitempty"`
	Format     string  `json:"format,omitempty"`
}

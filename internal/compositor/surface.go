package compositor

import (
	"image"
	"image/color"

	"github.com/koios/mockup-renderer/internal/geometry"
	"github.com/koios/mockup-renderer/pkg/models"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Surface is the RGBA canvas a mockup is composited on
type Surface struct {
	img *image.RGBA
}

// NewSurface allocates a fully transparent w×h surface
func NewSurface(w, h int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Image returns the backing image
func (s *Surface) Image() *image.RGBA { return s.img }

// Fill replaces every pixel with c
func (s *Surface) Fill(c color.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Clip rasterizes p into a mask covering the surface
func (s *Surface) Clip(p geometry.Path) *image.Alpha {
	b := s.img.Bounds()
	return geometry.Rasterize(p, b.Dx(), b.Dy())
}

// DrawImage draws the sr region of src into dr with Catmull-Rom resampling.
// Both rectangles may be fractional. Only pixels allowed by clip are touched;
// a nil clip draws the whole destination rectangle.
func (s *Surface) DrawImage(src image.Image, sr, dr models.Rect, clip image.Image) {
	if sr.Width <= 0 || sr.Height <= 0 || dr.Width <= 0 || dr.Height <= 0 {
		return
	}

	b := src.Bounds()
	sx := dr.Width / sr.Width
	sy := dr.Height / sr.Height
	ox := sr.X + float64(b.Min.X)
	oy := sr.Y + float64(b.Min.Y)

	// maps source pixel space onto the destination rectangle
	s2d := f64.Aff3{
		sx, 0, dr.X - ox*sx,
		0, sy, dr.Y - oy*sy,
	}

	opts := &draw.Options{}
	if clip != nil {
		opts.DstMask = clip
	}
	draw.CatmullRom.Transform(s.img, s2d, src, b, draw.Over, opts)
}

// Composite draws layer over the surface with its origin at `at`. Parts of
// the layer outside its own bounds are never drawn.
func (s *Surface) Composite(layer image.Image, at image.Point) {
	lb := layer.Bounds()
	dr := image.Rectangle{Min: at, Max: at.Add(lb.Size())}
	draw.Draw(s.img, dr, layer, lb.Min, draw.Over)
}

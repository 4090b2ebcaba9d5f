package geometry

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"
)

// Rasterize fills p into a w×h alpha mask with anti-aliased edges
func Rasterize(p Path, w, h int) *image.Alpha {
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 {
		return dst
	}

	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Src
	for _, seg := range p.Segments {
		switch seg.Op {
		case OpMove:
			z.MoveTo(float32(seg.Pts[0].X), float32(seg.Pts[0].Y))
		case OpLine:
			z.LineTo(float32(seg.Pts[0].X), float32(seg.Pts[0].Y))
		case OpCube:
			z.CubeTo(
				float32(seg.Pts[0].X), float32(seg.Pts[0].Y),
				float32(seg.Pts[1].X), float32(seg.Pts[1].Y),
				float32(seg.Pts[2].X), float32(seg.Pts[2].Y),
			)
		case OpClose:
			z.ClosePath()
		}
	}
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}

// CompoundMask is the frame body region: the outer silhouette opaque and the
// screen cutout removed. Both layers are rasterized separately and combined
// as outer*(1-cutout) so edge anti-aliasing is kept on both contours.
func CompoundMask(outer, cutout Path, w, h int) *image.Alpha {
	m := Rasterize(outer, w, h)
	hole := Rasterize(cutout, w, h)
	for i, a := range hole.Pix {
		if a == 0 {
			continue
		}
		m.Pix[i] = uint8(uint32(m.Pix[i]) * uint32(255-a) / 255)
	}
	return m
}

// BodyMask rasterizes the compound region of g at its own size
func (g FrameGeometry) BodyMask(w, h int) *image.Alpha {
	return CompoundMask(g.Outer, g.Cutout, w, h)
}

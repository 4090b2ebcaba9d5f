package compositor

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/koios/mockup-renderer/internal/geometry"
	"golang.org/x/image/draw"
)

// paintFrame rasterizes already scaled geometry onto a transparent w×h
// layer. Paint order: body, materials, bezel ring, island with its shadow,
// highlights, buttons.
func paintFrame(geo geometry.FrameGeometry, w, h int) (*image.RGBA, error) {
	layer := image.NewRGBA(image.Rect(0, 0, w, h))
	dc := gg.NewContextForRGBA(layer)
	dc.SetLineCapButt()
	dc.SetLineJoinRound()

	// body and materials only cover the compound region
	if err := dc.SetMask(geo.BodyMask(w, h)); err != nil {
		return nil, err
	}
	tracePath(dc, geo.Outer)
	dc.SetColor(geo.Body)
	dc.Fill()
	for _, m := range geo.Materials {
		tracePath(dc, geo.Outer)
		dc.SetFillStyle(gradient(m))
		dc.Fill()
	}
	dc.ResetClip()

	strokePath(dc, geo.Ring)

	if sh := geo.Island.Shadow; sh != nil {
		shadow, at := dropShadow(geo.Island.Shape, *sh)
		sb := shadow.Bounds()
		draw.Draw(layer, image.Rectangle{Min: at, Max: at.Add(sb.Size())}, shadow, sb.Min, draw.Over)
	}
	fillAccent(dc, geo.Island)

	for _, s := range geo.Highlights {
		strokePath(dc, s)
	}
	for _, b := range geo.Buttons {
		fillAccent(dc, b)
	}

	return layer, nil
}

func tracePath(dc *gg.Context, p geometry.Path) {
	dc.NewSubPath()
	for _, seg := range p.Segments {
		switch seg.Op {
		case geometry.OpMove:
			dc.MoveTo(seg.Pts[0].X, seg.Pts[0].Y)
		case geometry.OpLine:
			dc.LineTo(seg.Pts[0].X, seg.Pts[0].Y)
		case geometry.OpCube:
			dc.CubicTo(seg.Pts[0].X, seg.Pts[0].Y, seg.Pts[1].X, seg.Pts[1].Y, seg.Pts[2].X, seg.Pts[2].Y)
		case geometry.OpClose:
			dc.ClosePath()
		}
	}
}

func gradient(g geometry.LinearGradient) gg.Gradient {
	grad := gg.NewLinearGradient(g.X0, g.Y0, g.X1, g.Y1)
	for _, s := range g.Stops {
		grad.AddColorStop(s.Offset, s.Color)
	}
	return grad
}

func strokePath(dc *gg.Context, s geometry.Stroke) {
	if s.Width <= 0 || len(s.Path.Segments) == 0 {
		return
	}
	tracePath(dc, s.Path)
	if s.Gradient != nil {
		dc.SetStrokeStyle(gradient(*s.Gradient))
	} else {
		dc.SetColor(s.Color)
	}
	dc.SetLineWidth(s.Width)
	dc.Stroke()
}

func fillShape(dc *gg.Context, s geometry.Shape) {
	tracePath(dc, s.Path())
	dc.SetColor(s.Fill)
	dc.Fill()
}

func fillAccent(dc *gg.Context, a geometry.Accent) {
	fillShape(dc, a.Shape)
	if a.Sheen != nil {
		fillShape(dc, *a.Sheen)
	}
}

// dropShadow paints shape offset by (DX, DY) in the shadow color and blurs
// it with a gaussian of the given sigma. The result covers the shape plus
// three sigma on each side; at is its position on the frame layer.
func dropShadow(shape geometry.Shape, sh geometry.DropShadow) (image.Image, image.Point) {
	margin := int(math.Ceil(3*sh.Sigma)) + 1
	x0 := int(math.Floor(shape.Rect.X+sh.DX)) - margin
	y0 := int(math.Floor(shape.Rect.Y+sh.DY)) - margin
	x1 := int(math.Ceil(shape.Rect.X+sh.DX+shape.Rect.Width)) + margin
	y1 := int(math.Ceil(shape.Rect.Y+sh.DY+shape.Rect.Height)) + margin

	layer := image.NewRGBA(image.Rect(0, 0, x1-x0, y1-y0))
	dc := gg.NewContextForRGBA(layer)

	shape.Rect.X += sh.DX - float64(x0)
	shape.Rect.Y += sh.DY - float64(y0)
	shape.Fill = sh.Color
	fillShape(dc, shape)

	at := image.Pt(x0, y0)
	if sh.Sigma <= 0 {
		return layer, at
	}
	return imaging.Blur(layer, sh.Sigma), at
}

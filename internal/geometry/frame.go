package geometry

import (
	"image/color"

	"github.com/koios/mockup-renderer/pkg/models"
)

// ColorStop is a gradient stop with opacity folded into the color's alpha
type ColorStop struct {
	Offset float64
	Color  color.NRGBA
}

// LinearGradient runs from (X0, Y0) to (X1, Y1) in frame space
type LinearGradient struct {
	ID     string
	X0, Y0 float64
	X1, Y1 float64
	Stops  []ColorStop
}

// Stroke is a stroked outline or line. Gradient overrides Color when set.
type Stroke struct {
	Name     string
	Path     Path
	Width    float64
	Color    color.NRGBA
	Gradient *LinearGradient
}

// Shape is a filled rounded rectangle
type Shape struct {
	Rect   models.Rect
	Radius float64
	Fill   color.NRGBA
}

// Path returns the outline of s
func (s Shape) Path() Path {
	return SquircleRect(s.Rect, s.Radius)
}

// DropShadow is a blurred, offset copy of a shape in Color
type DropShadow struct {
	DX, DY float64
	Sigma  float64
	Color  color.NRGBA
}

// Accent is a pill or button drawn on top of the body
type Accent struct {
	Name   string
	Shape  Shape
	Sheen  *Shape
	Shadow *DropShadow
}

// FrameGeometry is the full vector description of one frame
type FrameGeometry struct {
	DeviceID     string
	Width        float64
	Height       float64
	Outer        Path
	OuterRadius  float64
	Cutout       Path
	Screen       models.Rect
	ScreenRadius float64
	Body         color.NRGBA
	Materials    []LinearGradient // filled over the body in order
	Ring         Stroke
	Island       Accent
	Highlights   []Stroke // painted over the island, under the buttons
	Buttons      []Accent
}

// Generate builds the frame geometry of spec painted in accent
func Generate(spec *models.DeviceSpec, accent color.NRGBA) FrameGeometry {
	t := spec.Trim
	w, h := spec.FrameWidth, spec.FrameHeight
	body := models.Rect{Width: w, Height: h}

	geo := FrameGeometry{
		DeviceID:     spec.ID,
		Width:        w,
		Height:       h,
		Outer:        Squircle(0, 0, w, h, t.OuterRadius),
		OuterRadius:  t.OuterRadius,
		Cutout:       SquircleRect(spec.Screen, spec.ScreenRadius),
		Screen:       spec.Screen,
		ScreenRadius: spec.ScreenRadius,
		Body:         opaque(accent),
	}

	if len(t.EdgeSheen) > 0 {
		geo.Materials = append(geo.Materials, boxGradient("edge", body, 0, 0, 1, 0, t.EdgeSheen, 1))
	}
	if len(t.FaceShade) > 0 {
		geo.Materials = append(geo.Materials, boxGradient("face", body, 0, 0, 0, 1, t.FaceShade, 1))
	}
	if len(t.Brushed) > 0 {
		geo.Materials = append(geo.Materials, boxGradient("brushed", body, 0, 0, 1, 1, t.Brushed, 1))
	}

	s, in := spec.Screen, t.BezelRing.Inset
	geo.Ring = Stroke{
		Name:  "bezel-ring",
		Path:  Squircle(s.X-in, s.Y-in, s.Width+2*in, s.Height+2*in, spec.ScreenRadius+in),
		Width: t.BezelRing.Width,
		Color: white(t.BezelRing.Opacity),
	}

	if hl := t.TopHighlight; hl.Width > 0 {
		y := hl.Offset
		top := Stroke{
			Name:  "top-highlight",
			Path:  Line(t.OuterRadius, y, w-t.OuterRadius, y),
			Width: hl.Width,
			Color: white(hl.Opacity),
		}
		if len(hl.Stops) > 0 {
			span := models.Rect{X: t.OuterRadius, Y: y, Width: w - 2*t.OuterRadius}
			g := boxGradient("top-highlight", span, 0, 0, 1, 0, hl.Stops, hl.Opacity)
			top.Gradient = &g
		}
		geo.Highlights = append(geo.Highlights, top)
	}

	if rail := t.RailHighlight; rail != nil && rail.Width > 0 {
		y0, y1 := t.OuterRadius, h-t.OuterRadius
		geo.Highlights = append(geo.Highlights,
			Stroke{Name: "rail-left", Path: Line(rail.Offset, y0, rail.Offset, y1), Width: rail.Width, Color: white(rail.Opacity)},
			Stroke{Name: "rail-right", Path: Line(w-rail.Offset, y0, w-rail.Offset, y1), Width: rail.Width, Color: white(rail.Opacity)},
		)
	}

	geo.Island = island(spec)
	for _, b := range t.Buttons {
		geo.Buttons = append(geo.Buttons, button(spec, b, geo.Body))
	}

	return geo
}

func island(spec *models.DeviceSpec) Accent {
	is := spec.Trim.Island
	fill, _ := models.ParseHexColor(is.Fill)
	r := models.Rect{X: (spec.FrameWidth - is.Width) / 2, Y: is.Top, Width: is.Width, Height: is.Height}

	a := Accent{
		Name:  "island",
		Shape: Shape{Rect: r, Radius: is.Radius, Fill: fill},
	}
	if is.Sheen > 0 {
		a.Sheen = &Shape{
			Rect:   models.Rect{X: r.X + 2, Y: r.Y + 2, Width: r.Width - 4, Height: r.Height/2 - 2},
			Radius: is.Radius - 1,
			Fill:   white(is.Sheen),
		}
	}
	if sh := is.Shadow; sh.Opacity > 0 {
		a.Shadow = &DropShadow{DX: sh.DX, DY: sh.DY, Sigma: sh.Blur, Color: color.NRGBA{A: alpha(sh.Opacity)}}
	}
	return a
}

func button(spec *models.DeviceSpec, b models.Button, body color.NRGBA) Accent {
	x := -b.Protrude
	if b.Side == models.SideRight {
		x = spec.FrameWidth - (b.Width - b.Protrude)
	}
	r := models.Rect{X: x, Y: b.Y, Width: b.Width, Height: b.Height}

	a := Accent{
		Name:  b.Name,
		Shape: Shape{Rect: r, Radius: b.Radius, Fill: body},
	}
	if b.Sheen > 0 {
		a.Sheen = &Shape{Rect: r, Radius: b.Radius, Fill: white(b.Sheen)}
	}
	return a
}

// boxGradient maps a gradient vector given in box units (0..1 across box)
// to frame space. Isolines stay perpendicular in box space, so diagonal
// gradients over non-square boxes are skewed the same way an SVG
// objectBoundingBox gradient is.
func boxGradient(id string, box models.Rect, u0, v0, u1, v1 float64, stops []models.Stop, opacity float64) LinearGradient {
	du, dv := u1-u0, v1-v0
	x0, y0 := box.X+u0*box.Width, box.Y+v0*box.Height

	g := LinearGradient{ID: id, X0: x0, Y0: y0, X1: x0, Y1: y0}
	l := du*du + dv*dv
	if l > 0 {
		var a, b float64
		if box.Width > 0 {
			a = du / (box.Width * l)
		}
		if box.Height > 0 {
			b = dv / (box.Height * l)
		}
		if n := a*a + b*b; n > 0 {
			g.X1, g.Y1 = x0+a/n, y0+b/n
		}
	}

	for _, s := range stops {
		c, _ := models.ParseHexColor(s.Color)
		c.A = alpha(s.Opacity * opacity)
		g.Stops = append(g.Stops, ColorStop{Offset: s.Offset, Color: c})
	}
	return g
}

// Scaled returns a copy of g with every coordinate, width and blur radius
// multiplied by s
func (g FrameGeometry) Scaled(s float64) FrameGeometry {
	out := g
	out.Width, out.Height = g.Width*s, g.Height*s
	out.Outer = g.Outer.Transform(s, 0, 0)
	out.OuterRadius = g.OuterRadius * s
	out.Cutout = g.Cutout.Transform(s, 0, 0)
	out.Screen = scaleRect(g.Screen, s)
	out.ScreenRadius = g.ScreenRadius * s

	out.Materials = make([]LinearGradient, len(g.Materials))
	for i, m := range g.Materials {
		out.Materials[i] = m.scaled(s)
	}

	out.Ring = g.Ring.scaled(s)
	out.Highlights = make([]Stroke, len(g.Highlights))
	for i, h := range g.Highlights {
		out.Highlights[i] = h.scaled(s)
	}

	out.Island = g.Island.scaled(s)
	out.Buttons = make([]Accent, len(g.Buttons))
	for i, b := range g.Buttons {
		out.Buttons[i] = b.scaled(s)
	}
	return out
}

func (a Accent) scaled(s float64) Accent {
	out := Accent{Name: a.Name, Shape: a.Shape.scaled(s)}
	if a.Sheen != nil {
		sh := a.Sheen.scaled(s)
		out.Sheen = &sh
	}
	if a.Shadow != nil {
		out.Shadow = &DropShadow{DX: a.Shadow.DX * s, DY: a.Shadow.DY * s, Sigma: a.Shadow.Sigma * s, Color: a.Shadow.Color}
	}
	return out
}

func (m LinearGradient) scaled(s float64) LinearGradient {
	m.X0, m.Y0, m.X1, m.Y1 = m.X0*s, m.Y0*s, m.X1*s, m.Y1*s
	return m
}

func (st Stroke) scaled(s float64) Stroke {
	st.Path = st.Path.Transform(s, 0, 0)
	st.Width *= s
	if st.Gradient != nil {
		g := st.Gradient.scaled(s)
		st.Gradient = &g
	}
	return st
}

func (sh Shape) scaled(s float64) Shape {
	sh.Rect = scaleRect(sh.Rect, s)
	sh.Radius *= s
	return sh
}

func scaleRect(r models.Rect, s float64) models.Rect {
	return models.Rect{X: r.X * s, Y: r.Y * s, Width: r.Width * s, Height: r.Height * s}
}

func white(opacity float64) color.NRGBA {
	return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: alpha(opacity)}
}

func opaque(c color.NRGBA) color.NRGBA {
	c.A = 0xff
	return c
}

func alpha(opacity float64) uint8 {
	switch {
	case opacity <= 0:
		return 0
	case opacity >= 1:
		return 0xff
	}
	return uint8(opacity*255 + 0.5)
}

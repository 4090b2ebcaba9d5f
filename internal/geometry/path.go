// Package geometry builds the vector description of a device frame and
// rasterizes its masks.
package geometry

import (
	"math"
	"strconv"
	"strings"

	"github.com/koios/mockup-renderer/pkg/models"
)

// SquircleK is the cubic handle ratio used for every rounded corner
const SquircleK = 0.552

// Op is a path command
type Op uint8

const (
	OpMove Op = iota
	OpLine
	OpCube
	OpClose
)

// Point is a position in frame space
type Point struct {
	X, Y float64
}

// Segment is one path command. Cubic segments use all three points,
// move and line use Pts[0] only.
type Segment struct {
	Op  Op
	Pts [3]Point
}

// Path is an ordered list of segments
type Path struct {
	Segments []Segment
}

func (p *Path) MoveTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Op: OpMove, Pts: [3]Point{{x, y}}})
}

func (p *Path) LineTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Op: OpLine, Pts: [3]Point{{x, y}}})
}

func (p *Path) CubeTo(x1, y1, x2, y2, x, y float64) {
	p.Segments = append(p.Segments, Segment{Op: OpCube, Pts: [3]Point{{x1, y1}, {x2, y2}, {x, y}}})
}

func (p *Path) Close() {
	p.Segments = append(p.Segments, Segment{Op: OpClose})
}

// Squircle returns a rounded rectangle whose corners are single cubics with
// handles SquircleK*r from the corner point.
func Squircle(x, y, w, h, r float64) Path {
	k := SquircleK * r
	var p Path
	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.CubeTo(x+w-k, y, x+w, y+k, x+w, y+r)
	p.LineTo(x+w, y+h-r)
	p.CubeTo(x+w, y+h-k, x+w-k, y+h, x+w-r, y+h)
	p.LineTo(x+r, y+h)
	p.CubeTo(x+k, y+h, x, y+h-k, x, y+h-r)
	p.LineTo(x, y+r)
	p.CubeTo(x, y+k, x+k, y, x+r, y)
	p.Close()
	return p
}

// SquircleRect is Squircle over r
func SquircleRect(r models.Rect, radius float64) Path {
	return Squircle(r.X, r.Y, r.Width, r.Height, radius)
}

// Line is an open two-point path
func Line(x1, y1, x2, y2 float64) Path {
	var p Path
	p.MoveTo(x1, y1)
	p.LineTo(x2, y2)
	return p
}

// Transform returns a copy of p scaled by s and then offset by (dx, dy)
func (p Path) Transform(s, dx, dy float64) Path {
	out := Path{Segments: make([]Segment, len(p.Segments))}
	for i, seg := range p.Segments {
		out.Segments[i].Op = seg.Op
		for j, pt := range seg.Pts {
			out.Segments[i].Pts[j] = Point{pt.X*s + dx, pt.Y*s + dy}
		}
	}
	return out
}

// Append returns the concatenation of p and q as one compound path
func (p Path) Append(q Path) Path {
	segs := make([]Segment, 0, len(p.Segments)+len(q.Segments))
	segs = append(segs, p.Segments...)
	segs = append(segs, q.Segments...)
	return Path{Segments: segs}
}

// Bounds returns the bounding box of every point of p, control points included
func (p Path) Bounds() models.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, seg := range p.Segments {
		n := 1
		switch seg.Op {
		case OpClose:
			continue
		case OpCube:
			n = 3
		}
		for _, pt := range seg.Pts[:n] {
			minX, minY = math.Min(minX, pt.X), math.Min(minY, pt.Y)
			maxX, maxY = math.Max(maxX, pt.X), math.Max(maxY, pt.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return models.Rect{}
	}
	return models.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// SVG returns p in SVG path data syntax
func (p Path) SVG() string {
	var b strings.Builder
	for i, seg := range p.Segments {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch seg.Op {
		case OpMove:
			b.WriteString("M ")
			writePoints(&b, seg.Pts[:1])
		case OpLine:
			b.WriteString("L ")
			writePoints(&b, seg.Pts[:1])
		case OpCube:
			b.WriteString("C ")
			writePoints(&b, seg.Pts[:])
		case OpClose:
			b.WriteString("Z")
		}
	}
	return b.String()
}

func writePoints(b *strings.Builder, pts []Point) {
	for i, pt := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatFloat(pt.X))
		b.WriteByte(' ')
		b.WriteString(formatFloat(pt.Y))
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

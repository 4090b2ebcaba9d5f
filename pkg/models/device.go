package models

import (
	"fmt"
	"image/color"
	"math"
)

// Rect is an axis-aligned rectangle in frame pixel space
type Rect struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// ColorVariant is one finish of a device
type ColorVariant struct {
	Name string `yaml:"name" json:"name"`
	Hex  string `yaml:"hex" json:"hex"`
}

// Accent returns the variant's accent color. Catalog validation guarantees
// the hex value parses, so a malformed value only shows up for hand-built specs.
func (c ColorVariant) Accent() color.NRGBA {
	rgba, err := ParseHexColor(c.Hex)
	if err != nil {
		return color.NRGBA{A: 255}
	}
	return rgba
}

// Slug returns the normalized color name used in keys and filenames
func (c ColorVariant) Slug() string {
	return Slug(c.Name)
}

// DeviceSpec describes one phone body and its screen
type DeviceSpec struct {
	ID           string         `yaml:"id" json:"id"`
	Name         string         `yaml:"name" json:"name"`
	FrameWidth   float64        `yaml:"frame_width" json:"frame_width"`
	FrameHeight  float64        `yaml:"frame_height" json:"frame_height"`
	Screen       Rect           `yaml:"screen" json:"screen"`
	ScreenRadius float64        `yaml:"screen_radius" json:"screen_radius"`
	Colors       []ColorVariant `yaml:"colors" json:"colors"`
	Trim         Trim           `yaml:"trim" json:"-"`
}

// DefaultColor returns the first color variant
func (d *DeviceSpec) DefaultColor() ColorVariant {
	if len(d.Colors) == 0 {
		return ColorVariant{}
	}
	return d.Colors[0]
}

// Color looks up a variant by name. Names are compared by slug, so
// "Mist Blue" and "mist-blue" select the same variant.
func (d *DeviceSpec) Color(name string) (ColorVariant, error) {
	slug := Slug(name)
	for _, c := range d.Colors {
		if c.Slug() == slug {
			return c, nil
		}
	}
	return ColorVariant{}, fmt.Errorf("color %q for device %s: %w", name, d.ID, ErrNotFound)
}

// Clone returns a deep copy of d
func (d *DeviceSpec) Clone() *DeviceSpec {
	out := *d
	out.Colors = append([]ColorVariant(nil), d.Colors...)
	out.Trim = d.Trim.clone()
	return &out
}

// Validate checks the geometric invariants of the spec
func (d *DeviceSpec) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("device id is required")
	}
	if d.FrameWidth <= 0 || d.FrameHeight <= 0 {
		return fmt.Errorf("device %s: frame size must be positive", d.ID)
	}

	s := d.Screen
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("device %s: screen size must be positive", d.ID)
	}
	if s.X < 0 || s.Y < 0 || s.X+s.Width > d.FrameWidth || s.Y+s.Height > d.FrameHeight {
		return fmt.Errorf("device %s: screen rect %+v exceeds frame %vx%v", d.ID, s, d.FrameWidth, d.FrameHeight)
	}
	if d.ScreenRadius < 0 || d.ScreenRadius > math.Min(s.Width, s.Height)/2 {
		return fmt.Errorf("device %s: screen radius %v out of range", d.ID, d.ScreenRadius)
	}

	outer := d.Trim.OuterRadius
	if outer <= d.ScreenRadius || outer > math.Min(d.FrameWidth, d.FrameHeight)/2 {
		return fmt.Errorf("device %s: outer radius %v must exceed screen radius and fit the frame", d.ID, outer)
	}

	if len(d.Colors) == 0 {
		return fmt.Errorf("device %s: at least one color is required", d.ID)
	}
	seen := make(map[string]bool)
	for _, c := range d.Colors {
		if c.Name == "" {
			return fmt.Errorf("device %s: color name is required", d.ID)
		}
		if seen[c.Slug()] {
			return fmt.Errorf("device %s: duplicate color %q", d.ID, c.Name)
		}
		seen[c.Slug()] = true
		if _, err := ParseHexColor(c.Hex); err != nil {
			return fmt.Errorf("device %s: color %q: %w", d.ID, c.Name, err)
		}
	}

	return d.Trim.validate(d)
}

// Trim holds the per-device tuning used by the frame generator
type Trim struct {
	OuterRadius   float64    `yaml:"outer_radius"`
	EdgeSheen     []Stop     `yaml:"edge_sheen"`
	FaceShade     []Stop     `yaml:"face_shade"`
	Brushed       []Stop     `yaml:"brushed,omitempty"`
	BezelRing     Ring       `yaml:"bezel_ring"`
	Island        Island     `yaml:"island"`
	TopHighlight  Highlight  `yaml:"top_highlight"`
	RailHighlight *Highlight `yaml:"rail_highlight,omitempty"`
	Buttons       []Button   `yaml:"buttons"`
}

// Stop is a gradient color stop
type Stop struct {
	Offset  float64 `yaml:"offset"`
	Color   string  `yaml:"color"`
	Opacity float64 `yaml:"opacity"`
}

// Ring is the thin highlight stroked just outside the screen edge
type Ring struct {
	Inset   float64 `yaml:"inset"`
	Width   float64 `yaml:"width"`
	Opacity float64 `yaml:"opacity"`
}

// Island is the camera/sensor pill at the top of the screen
type Island struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Radius float64 `yaml:"radius"`
	Top    float64 `yaml:"top"`
	Fill   string  `yaml:"fill"`
	Sheen  float64 `yaml:"sheen"`
	Shadow Shadow  `yaml:"shadow"`
}

// Shadow is a drop shadow: offset, gaussian blur and black flood opacity
type Shadow struct {
	DX      float64 `yaml:"dx"`
	DY      float64 `yaml:"dy"`
	Blur    float64 `yaml:"blur"`
	Opacity float64 `yaml:"opacity"`
}

// Highlight is a straight stroked line along the frame edge. Offset is the
// distance from the edge; when Stops is set the line fades along its length.
type Highlight struct {
	Offset  float64 `yaml:"offset"`
	Width   float64 `yaml:"width"`
	Opacity float64 `yaml:"opacity"`
	Stops   []Stop  `yaml:"stops,omitempty"`
}

// Side of the frame a button sits on
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Button is a physical side button. Protrude is how far it sticks out past
// the frame edge.
type Button struct {
	Name     string  `yaml:"name"`
	Side     Side    `yaml:"side"`
	Y        float64 `yaml:"y"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Radius   float64 `yaml:"radius"`
	Protrude float64 `yaml:"protrude"`
	Sheen    float64 `yaml:"sheen"`
}

func (t Trim) clone() Trim {
	out := t
	out.EdgeSheen = cloneStops(t.EdgeSheen)
	out.FaceShade = cloneStops(t.FaceShade)
	out.Brushed = cloneStops(t.Brushed)
	out.TopHighlight.Stops = cloneStops(t.TopHighlight.Stops)
	if t.RailHighlight != nil {
		rail := *t.RailHighlight
		rail.Stops = cloneStops(rail.Stops)
		out.RailHighlight = &rail
	}
	out.Buttons = append([]Button(nil), t.Buttons...)
	return out
}

func cloneStops(stops []Stop) []Stop {
	if stops == nil {
		return nil
	}
	return append([]Stop(nil), stops...)
}

func (t *Trim) validate(d *DeviceSpec) error {
	for _, stops := range [][]Stop{t.EdgeSheen, t.FaceShade, t.Brushed, t.TopHighlight.Stops} {
		for _, s := range stops {
			if s.Offset < 0 || s.Offset > 1 {
				return fmt.Errorf("device %s: gradient offset %v out of [0,1]", d.ID, s.Offset)
			}
			if _, err := ParseHexColor(s.Color); err != nil {
				return fmt.Errorf("device %s: gradient stop: %w", d.ID, err)
			}
		}
	}

	is := t.Island
	if is.Width <= 0 || is.Height <= 0 || is.Width > d.FrameWidth {
		return fmt.Errorf("device %s: island size out of range", d.ID)
	}
	if is.Radius > math.Min(is.Width, is.Height)/2 {
		return fmt.Errorf("device %s: island radius %v too large", d.ID, is.Radius)
	}
	if _, err := ParseHexColor(is.Fill); err != nil {
		return fmt.Errorf("device %s: island fill: %w", d.ID, err)
	}

	for _, b := range t.Buttons {
		if b.Side != SideLeft && b.Side != SideRight {
			return fmt.Errorf("device %s: button %q has unknown side %q", d.ID, b.Name, b.Side)
		}
		if b.Width <= 0 || b.Height <= 0 || b.Y < 0 || b.Y+b.Height > d.FrameHeight {
			return fmt.Errorf("device %s: button %q out of range", d.ID, b.Name)
		}
		if b.Radius > math.Min(b.Width, b.Height)/2 {
			return fmt.Errorf("device %s: button %q radius too large", d.ID, b.Name)
		}
	}

	return nil
}

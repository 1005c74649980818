package canopy

import "github.com/gogpu/gg"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
	A float64 `yaml:"a"`
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// ColorTransparent is fully transparent black; sprites with this fill draw nothing.
var ColorTransparent = Color{}

// lerp returns the component-wise interpolation c + d*f.
func (c Color) lerp(d Color, f float64) Color {
	return Color{c.R + d.R*f, c.G + d.G*f, c.B + d.B*f, c.A + d.A*f}
}

func (c Color) sub(o Color) Color {
	return Color{c.R - o.R, c.G - o.G, c.B - o.B, c.A - o.A}
}

// Rect is an axis-aligned rectangle in surface coordinates. The origin is at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Normalize returns an equivalent rectangle with non-negative width and
// height. A negative extent is folded into the origin, so the same four
// corner points describe the result.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Contains reports whether (x, y) lies strictly inside the rectangle.
// Points on an edge are outside, so neighbouring rectangles never both
// contain a shared boundary point.
func (r Rect) Contains(x, y float64) bool {
	return x > r.X && x < r.X+r.Width &&
		y > r.Y && y < r.Y+r.Height
}

// TopLeft returns the rectangle origin.
func (r Rect) TopLeft() gg.Point {
	return gg.Pt(r.X, r.Y)
}

// Corners returns the four corner points clockwise from the top-left.
func (r Rect) Corners() [4]gg.Point {
	return [4]gg.Point{
		gg.Pt(r.X, r.Y),
		gg.Pt(r.X+r.Width, r.Y),
		gg.Pt(r.X+r.Width, r.Y+r.Height),
		gg.Pt(r.X, r.Y+r.Height),
	}
}

// Area returns the (unsigned) area of the rectangle.
func (r Rect) Area() float64 {
	n := r.Normalize()
	return n.Width * n.Height
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Has reports whether all bits of mod are set.
func (m KeyModifiers) Has(mod KeyModifiers) bool {
	return m&mod == mod
}

// SpriteType selects what a Sprite draws when it has no OnRender hook.
type SpriteType uint8

const (
	SpriteTypeShape  SpriteType = iota // filled and/or stroked rectangle
	SpriteTypeImage                    // draws Texture scaled to the rectangle
	SpriteTypeText                     // draws Text with Face
	SpriteTypeCustom                   // draws only through OnRender
)

func (t SpriteType) String() string {
	switch t {
	case SpriteTypeShape:
		return "shape"
	case SpriteTypeImage:
		return "image"
	case SpriteTypeText:
		return "text"
	case SpriteTypeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

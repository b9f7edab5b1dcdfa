// Package core defines the value types shared across the layout
// pipeline: Terminal (a topology-row node), Rectangle (a mask-layer
// shape) and Pin (a named, layered terminal exposed for routing).
//
// Unlike this module's teacher (lvlath/core), these types carry no
// locks: the system model is single-threaded end to end (spec §5) and
// a Terminal is immutable once built, so concurrent mutation is not a
// concern this package needs to defend against.
package core

// Kind distinguishes the two terminal roles a topology-row position
// can hold.
type Kind int

const (
	// Diff marks a diffusion (source/drain) terminal.
	Diff Kind = iota
	// Gate marks a gate terminal.
	Gate
)

// String renders Kind for diagnostics and golden-file output.
func (k Kind) String() string {
	switch k {
	case Diff:
		return "diff"
	case Gate:
		return "gate"
	default:
		return "unknown"
	}
}

// Terminal is a node in a topology row: either a diffusion endpoint or
// a gate. Net is empty for a dummy-gate terminal. Terminal is built
// once by the topology builder and never mutated afterward; the same
// *Terminal is shared by reference between its row slot and the
// multigraph half-edges that reference it (see package euler) — never
// deep-copy a Terminal.
type Terminal struct {
	Kind   Kind
	Net    string
	Length float64
	Width  float64
}

// NewDiff constructs a diffusion terminal.
func NewDiff(net string, length, width float64) *Terminal {
	return &Terminal{Kind: Diff, Net: net, Length: length, Width: width}
}

// NewGate constructs a gate terminal.
func NewGate(net string, length, width float64) *Terminal {
	return &Terminal{Kind: Gate, Net: net, Length: length, Width: width}
}

// Point is a 2D coordinate in database units.
type Point struct {
	X, Y float64
}

// Rectangle is an axis-aligned mask-layer shape with lower-left P0 and
// upper-right P1. NewRectangle normalizes corner order; callers
// constructing a Rectangle literal directly are expected to keep
// P0.X <= P1.X and P0.Y <= P1.Y.
type Rectangle struct {
	Layer string
	P0    Point
	P1    Point
}

// NewRectangle builds a Rectangle, normalizing so P0 is always the
// lower-left corner regardless of the argument order.
func NewRectangle(layer string, x0, y0, x1, y1 float64) Rectangle {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rectangle{Layer: layer, P0: Point{x0, y0}, P1: Point{x1, y1}}
}

// Width returns the rectangle's x-extent.
func (r Rectangle) Width() float64 { return r.P1.X - r.P0.X }

// Height returns the rectangle's y-extent.
func (r Rectangle) Height() float64 { return r.P1.Y - r.P0.Y }

// Area returns width x height.
func (r Rectangle) Area() float64 { return r.Width() * r.Height() }

// Center returns the rectangle's geometric center.
func (r Rectangle) Center() Point {
	return Point{(r.P0.X + r.P1.X) / 2, (r.P0.Y + r.P1.Y) / 2}
}

// Translate returns a copy of r shifted by (dx, dy).
func (r Rectangle) Translate(dx, dy float64) Rectangle {
	return Rectangle{
		Layer: r.Layer,
		P0:    Point{r.P0.X + dx, r.P0.Y + dy},
		P1:    Point{r.P1.X + dx, r.P1.Y + dy},
	}
}

// Pin is a named, layered connection point exposed for routing: a net
// name, the layer it lives on, and the rectangle it occupies.
type Pin struct {
	Net   string
	Layer string
	Rect  Rectangle
}

// Translate returns a copy of p shifted by (dx, dy).
func (p Pin) Translate(dx, dy float64) Pin {
	return Pin{Net: p.Net, Layer: p.Layer, Rect: p.Rect.Translate(dx, dy)}
}

// BoundingBox returns the smallest Rectangle enclosing every rectangle
// in rs. ok is false if rs is empty.
func BoundingBox(layer string, rs []Rectangle) (box Rectangle, ok bool) {
	if len(rs) == 0 {
		return Rectangle{}, false
	}
	x0, y0 := rs[0].P0.X, rs[0].P0.Y
	x1, y1 := rs[0].P1.X, rs[0].P1.Y
	for _, r := range rs[1:] {
		if r.P0.X < x0 {
			x0 = r.P0.X
		}
		if r.P0.Y < y0 {
			y0 = r.P0.Y
		}
		if r.P1.X > x1 {
			x1 = r.P1.X
		}
		if r.P1.Y > y1 {
			y1 = r.P1.Y
		}
	}
	return NewRectangle(layer, x0, y0, x1, y1), true
}

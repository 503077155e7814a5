package medusa

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Intersection returns the overlapping area of r and other. The result has
// zero size when the rectangles are disjoint or only share an edge.
func (r Rect) Intersection(other Rect) Rect {
	minX := math.Max(r.X, other.X)
	minY := math.Max(r.Y, other.Y)
	maxX := math.Min(r.X+r.Width, other.X+other.Width)
	maxY := math.Min(r.Y+r.Height, other.Y+other.Height)
	if maxX < minX || maxY < minY {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Area returns Width*Height.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Inset grows the rectangle outward by the given edge amounts. Negative
// values shrink it. The size never goes below zero.
func (r Rect) Inset(top, right, bottom, left float64) Rect {
	out := Rect{
		X:      r.X - left,
		Y:      r.Y - top,
		Width:  r.Width + left + right,
		Height: r.Height + top + bottom,
	}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Mode selects how a target reacts to visibility changes.
type Mode uint8

const (
	ModeDefault  Mode = iota // elements stay observed; every change is reported
	ModeOnce                 // an element is dropped after its first visible transition
	ModeByPixels             // thresholds come from ThresholdsByPixels
)

var modeNames = [...]string{"default", "once", "bypixels"}

// String returns the lowercase name used in configuration files.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if int(m) >= len(modeNames) {
		return nil, errors.Errorf("medusa: unknown mode %d", m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value is
// ModeDefault.
func (m *Mode) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	if s == "" {
		*m = ModeDefault
		return nil
	}
	for i, name := range modeNames {
		if s == name {
			*m = Mode(i)
			return nil
		}
	}
	return errors.Errorf("medusa: unknown mode %q", s)
}

// TargetState is the lifecycle stage of a Target.
type TargetState uint8

const (
	StateUninitialized TargetState = iota // registered, no elements, no detector
	StateDetecting                        // detector attached to at least one element
	StateEmpty                            // released and removed from the registry
)

func (s TargetState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateDetecting:
		return "detecting"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

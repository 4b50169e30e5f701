// Package core provides the rendering primitives shared by the scene and the
// terminal platform. It has no external dependencies so the scene drawing
// stays pure and testable.
package core

// Rect is an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Centered returns a w×h rectangle centered inside r.
func (r Rect) Centered(w, h int) Rect {
	return NewRect(r.X+(r.W-w)/2, r.Y+(r.H-h)/2, w, h)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

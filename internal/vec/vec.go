// Package vec provides the 2D vector type shared by the simulation kernel
// and its hosts.
package vec

import (
	"fmt"
	"math"
)

type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64   { return a.X*b.X + a.Y*b.Y }

func (a Vec2) Len() float64   { return math.Hypot(a.X, a.Y) }
func (a Vec2) LenSq() float64 { return a.X*a.X + a.Y*a.Y }

// Normalize returns the unit vector of a. The zero vector has no direction,
// so ok is false and the zero vector is returned.
func (a Vec2) Normalize() (Vec2, bool) {
	l := a.Len()
	if l == 0 {
		return Vec2{}, false
	}
	return Vec2{a.X / l, a.Y / l}, true
}

func (a Vec2) Distance(b Vec2) float64 { return a.Sub(b).Len() }

func (a Vec2) Midpoint(b Vec2) Vec2 { return a.Add(b).Scale(0.5) }

func (a Vec2) Lerp(b Vec2, t float64) Vec2 { return a.Add(b.Sub(a).Scale(t)) }

// IsValid reports whether both components are finite.
func (a Vec2) IsValid() bool {
	return !math.IsNaN(a.X) && !math.IsInf(a.X, 0) && !math.IsNaN(a.Y) && !math.IsInf(a.Y, 0)
}

// ApproxEqual compares componentwise within an absolute tolerance.
func (a Vec2) ApproxEqual(b Vec2, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func (a Vec2) String() string { return fmt.Sprintf("(%.4f, %.4f)", a.X, a.Y) }

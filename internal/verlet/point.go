package verlet

import "github.com/san-kum/ropesim/internal/vec"

// Handle addresses a point inside a Simulation. Handles are stable for the
// lifetime of the simulation since points are never removed.
type Handle int

// Point is a particle with implicit velocity (Position - Previous).
type Point struct {
	Position vec.Vec2
	Previous vec.Vec2
	Locked   bool
}

// NewPoint creates a point at rest at pos.
func NewPoint(pos vec.Vec2, locked bool) Point {
	return Point{Position: pos, Previous: pos, Locked: locked}
}

// Integrate advances the point by one Verlet step under constant
// acceleration. Locked points are left untouched.
func (p *Point) Integrate(dt float64, gravity vec.Vec2) {
	if p.Locked {
		return
	}

	pre := p.Position
	p.Position = p.Position.Add(p.Position.Sub(p.Previous))
	p.Position = p.Position.Add(gravity.Scale(dt * dt))
	p.Previous = pre
}

// Displacement is the movement over the last step, i.e. velocity * dt.
func (p Point) Displacement() vec.Vec2 {
	return p.Position.Sub(p.Previous)
}

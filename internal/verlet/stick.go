package verlet

import "github.com/san-kum/ropesim/internal/vec"

// FallbackDirection is used when both endpoints of a stick coincide and the
// direction between them is undefined. The pair is pushed apart along x.
var FallbackDirection = vec.V(1, 0)

// Stick keeps two points at a fixed distance. It refers to its endpoints by
// handle and does not own them.
type Stick struct {
	A, B       Handle
	restLength float64
}

func (s Stick) RestLength() float64 { return s.restLength }

// Length is the current distance between the endpoints.
func (s Stick) Length(points []Point) float64 {
	return points[s.A].Position.Distance(points[s.B].Position)
}

// Strain is the relative deviation of the current length from the rest
// length. Zero-length sticks report the absolute deviation.
func (s Stick) Strain(points []Point) float64 {
	d := s.Length(points) - s.restLength
	if d < 0 {
		d = -d
	}
	if s.restLength == 0 {
		return d
	}
	return d / s.restLength
}

// Relax performs one relaxation pass on the stick, moving unlocked
// endpoints so that they sit exactly restLength apart.
func (s Stick) Relax(points []Point) {
	a, b := &points[s.A], &points[s.B]
	if a.Locked && b.Locked {
		return
	}

	dir, ok := a.Position.Sub(b.Position).Normalize()
	if !ok {
		dir = FallbackDirection
	}

	switch {
	case a.Locked:
		b.Position = a.Position.Sub(dir.Scale(s.restLength))
	case b.Locked:
		a.Position = b.Position.Add(dir.Scale(s.restLength))
	default:
		center := a.Position.Midpoint(b.Position)
		half := dir.Scale(s.restLength / 2)
		a.Position = center.Add(half)
		b.Position = center.Sub(half)
	}
}

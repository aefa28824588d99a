// Package verlet implements a 2D point/stick constraint simulation.
//
// Points are position-based particles whose velocity is implicit in the
// difference between their current and previous positions. Sticks hold two
// points at a fixed rest length and are enforced by iterative relaxation:
//
//   - [Point]: a particle, optionally locked in place
//   - [Stick]: a distance constraint between two points
//   - [Simulation]: owns points and sticks and advances them frame by frame
//
// # Example
//
//	s := verlet.New(verlet.DefaultConfig())
//	a := s.AddPoint(vec.V(0, 0), true)
//	b := s.AddPoint(vec.V(50, 0), false)
//	s.AddStick(a, b)
//	for range 60 {
//	    s.Step(1.0 / 60)
//	}
//
// # Thread Safety
//
// A Simulation is NOT thread-safe. Step, AddPoint and TogglePause must be
// called from a single goroutine, typically the host's frame loop; points
// added from input handlers take effect on the next Step.
package verlet

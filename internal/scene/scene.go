// Package scene turns a scene description into a populated simulation.
package scene

import (
	"fmt"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/vec"
	"github.com/san-kum/ropesim/internal/verlet"
)

// Build creates a simulation for sc using the given kernel settings.
func Build(sc config.SceneConfig, cfg verlet.Config) (*verlet.Simulation, error) {
	s := verlet.New(cfg)

	var err error
	switch sc.Kind {
	case config.SceneRope:
		err = buildRope(s, sc)
	case config.SceneCloth:
		err = buildCloth(s, sc)
	case config.SceneCustom:
		err = buildCustom(s, sc)
	default:
		err = fmt.Errorf("unknown scene kind: %s", sc.Kind)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// FromConfig builds the scene described by a full run configuration.
func FromConfig(cfg *config.Config) (*verlet.Simulation, error) {
	return Build(cfg.Scene, cfg.SimConfig())
}

func spacing(sc config.SceneConfig) float64 {
	if sc.Spacing > 0 {
		return sc.Spacing
	}
	return config.DefaultSpacing
}

// buildRope lays the rope out horizontally to the right of the anchor.
func buildRope(s *verlet.Simulation, sc config.SceneConfig) error {
	n := sc.Segments
	if n == 0 {
		n = config.DefaultSegments
	}
	if n < 2 {
		return fmt.Errorf("rope needs at least 2 points, got %d", n)
	}
	gap := spacing(sc)

	prev := s.AddPoint(sc.Anchor, true)
	for i := 1; i < n; i++ {
		locked := sc.PinEnd && i == n-1
		h := s.AddPoint(sc.Anchor.Add(vec.V(float64(i)*gap, 0)), locked)
		if _, err := s.AddStick(prev, h); err != nil {
			return fmt.Errorf("rope segment %d: %w", i, err)
		}
		prev = h
	}
	return nil
}

// buildCloth lays out a grid hanging down from the anchor. Every
// PinStride-th point of the top row is pinned, as is the last one.
func buildCloth(s *verlet.Simulation, sc config.SceneConfig) error {
	if sc.Cols < 2 || sc.Rows < 2 {
		return fmt.Errorf("cloth needs at least 2x2 points, got %dx%d", sc.Cols, sc.Rows)
	}
	gap := spacing(sc)
	stride := sc.PinStride
	if stride <= 0 {
		stride = sc.Cols - 1
	}

	at := func(col, row int) verlet.Handle { return verlet.Handle(row*sc.Cols + col) }

	for row := range sc.Rows {
		for col := range sc.Cols {
			pinned := row == 0 && (col%stride == 0 || col == sc.Cols-1)
			s.AddPoint(sc.Anchor.Add(vec.V(float64(col)*gap, -float64(row)*gap)), pinned)
		}
	}

	for row := range sc.Rows {
		for col := range sc.Cols {
			if col > 0 {
				if _, err := s.AddStick(at(col-1, row), at(col, row)); err != nil {
					return err
				}
			}
			if row > 0 {
				if _, err := s.AddStick(at(col, row-1), at(col, row)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func buildCustom(s *verlet.Simulation, sc config.SceneConfig) error {
	for _, p := range sc.Points {
		s.AddPoint(vec.V(p.X, p.Y), p.Locked)
	}
	for i, st := range sc.Sticks {
		a, b := verlet.Handle(st.A), verlet.Handle(st.B)
		var err error
		if st.Length != nil {
			_, err = s.AddStickWithLength(a, b, *st.Length)
		} else {
			_, err = s.AddStick(a, b)
		}
		if err != nil {
			return fmt.Errorf("stick %d (%d-%d): %w", i, st.A, st.B, err)
		}
	}
	return nil
}

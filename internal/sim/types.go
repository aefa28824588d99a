package sim

import (
	"fmt"

	"github.com/san-kum/ropesim/internal/vec"
	"github.com/san-kum/ropesim/internal/verlet"
)

type Metric interface {
	Name() string
	Observe(s *verlet.Simulation, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s *verlet.Simulation, t float64)
}

// Spawn inserts a point just before step Step is taken.
type Spawn struct {
	Step   int
	Pos    vec.Vec2
	Locked bool
}

type Config struct {
	Dt       float64
	Duration float64
	// Steps overrides Duration/Dt when positive.
	Steps int
	// CaptureEvery keeps one frame out of every n steps; 0 keeps none
	// beyond the first and last.
	CaptureEvery  int
	ValidateState bool
	Spawns        []Spawn
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60,
		Duration:      10.0,
		CaptureEvery:  1,
		ValidateState: true,
	}
}

// Frame is the position of every point at one instant.
type Frame struct {
	Step   int
	Time   float64
	Points []vec.Vec2
	Locked []bool
}

// LastFree returns the highest index of an unlocked point.
func (f Frame) LastFree() (int, bool) {
	for i := len(f.Locked) - 1; i >= 0; i-- {
		if !f.Locked[i] {
			return i, true
		}
	}
	return -1, false
}

type Result struct {
	Frames     []Frame
	Sticks     [][2]int
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
	// Skipped holds the spawns the run ended before reaching.
	Skipped []Spawn
}

// Last returns the final captured frame.
func (r *Result) Last() (Frame, bool) {
	if len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// Track extracts the path of one point from frames captured at a fixed
// cadence. A trailing frame off the cadence is dropped. interval is the
// time between kept samples.
func Track(frames []Frame, point int) (xs, ys []float64, interval float64, err error) {
	if len(frames) < 2 {
		return nil, nil, 0, fmt.Errorf("need at least 2 frames, got %d", len(frames))
	}
	if point < 0 || point >= len(frames[0].Points) {
		return nil, nil, 0, fmt.Errorf("point %d out of range (first frame has %d points)", point, len(frames[0].Points))
	}

	stride := frames[1].Step - frames[0].Step
	if stride <= 0 {
		return nil, nil, 0, fmt.Errorf("frame steps must increase, got %d then %d", frames[0].Step, frames[1].Step)
	}

	for _, f := range frames {
		if (f.Step-frames[0].Step)%stride != 0 {
			continue
		}
		xs = append(xs, f.Points[point].X)
		ys = append(ys, f.Points[point].Y)
	}
	return xs, ys, frames[1].Time - frames[0].Time, nil
}

func capture(s *verlet.Simulation) Frame {
	points := s.Points()
	f := Frame{
		Step:   s.Steps(),
		Time:   s.Time(),
		Points: make([]vec.Vec2, len(points)),
		Locked: make([]bool, len(points)),
	}
	for i, p := range points {
		f.Points[i] = p.Position
		f.Locked[i] = p.Locked
	}
	return f
}

func stickPairs(s *verlet.Simulation) [][2]int {
	sticks := s.Sticks()
	pairs := make([][2]int, len(sticks))
	for i, st := range sticks {
		pairs[i] = [2]int{int(st.A), int(st.B)}
	}
	return pairs
}

func (c Config) validate() error {
	if c.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", c.Steps)
	}
	if c.Steps == 0 {
		if c.Dt <= 0 {
			return fmt.Errorf("dt must be positive to derive steps from duration, got %f", c.Dt)
		}
		if c.Duration <= 0 {
			return fmt.Errorf("duration must be positive, got %f", c.Duration)
		}
	}
	if c.CaptureEvery < 0 {
		return fmt.Errorf("capture interval must not be negative, got %d", c.CaptureEvery)
	}
	return nil
}

func (c Config) steps() int {
	if c.Steps > 0 {
		return c.Steps
	}
	return int(c.Duration/c.Dt + 0.5)
}

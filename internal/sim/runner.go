package sim

import (
	"context"
	"sort"

	"github.com/san-kum/ropesim/internal/verlet"
)

// Runner drives a simulation headlessly at a fixed step size.
type Runner struct {
	metrics   []Metric
	observers []Observer
}

func New() *Runner {
	return &Runner{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func sortedSpawns(spawns []Spawn) []Spawn {
	out := append([]Spawn(nil), spawns...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Step < out[j].Step })
	return out
}

// Run steps s for the configured number of steps and returns the captured
// frames and metric values. Cancelling ctx stops the run and returns the
// partial result together with ctx.Err().
func (r *Runner) Run(ctx context.Context, s *verlet.Simulation, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	steps := cfg.steps()
	result := &Result{
		Frames:  make([]Frame, 0, frameCap(steps, cfg.CaptureEvery)),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	spawns := sortedSpawns(cfg.Spawns)
	result.Frames = append(result.Frames, capture(s))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			result.Sticks = stickPairs(s)
			return result, ctx.Err()
		default:
		}

		for len(spawns) > 0 && spawns[0].Step <= i {
			s.AddPoint(spawns[0].Pos, spawns[0].Locked)
			spawns = spawns[1:]
		}

		s.Step(cfg.Dt)
		result.StepsTaken++

		if cfg.ValidateState {
			if err := s.Validate(); err != nil {
				result.Errors = append(result.Errors, err)
				break
			}
		}

		t := s.Time()
		for _, m := range r.metrics {
			m.Observe(s, t)
		}
		for _, obs := range r.observers {
			obs.OnStep(s, t)
		}

		if cfg.CaptureEvery > 0 && (i+1)%cfg.CaptureEvery == 0 {
			result.Frames = append(result.Frames, capture(s))
		}
	}

	if last, _ := result.Last(); last.Step != s.Steps() {
		result.Frames = append(result.Frames, capture(s))
	}

	result.Sticks = stickPairs(s)
	result.Skipped = spawns
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps s until the configured number of steps is reached
// or callback returns false. No frames are captured.
func (r *Runner) RunWithCallback(ctx context.Context, s *verlet.Simulation, cfg Config, callback func(*verlet.Simulation) bool) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	spawns := sortedSpawns(cfg.Spawns)
	steps := cfg.steps()
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s) {
			return nil
		}

		for len(spawns) > 0 && spawns[0].Step <= i {
			s.AddPoint(spawns[0].Pos, spawns[0].Locked)
			spawns = spawns[1:]
		}
		s.Step(cfg.Dt)

		if cfg.ValidateState {
			if err := s.Validate(); err != nil {
				return err
			}
		}
	}

	return nil
}

func frameCap(steps, every int) int {
	if every <= 0 {
		return 2
	}
	return steps/every + 2
}

package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ropesim/internal/verlet"
)

// Variant is one independently simulated member of a sweep.
type Variant struct {
	Label string
	Build func() (*verlet.Simulation, error)
}

// Sweep runs every variant on its own simulation concurrently. Each run
// gets fresh metrics from newMetrics; simulations are never shared between
// goroutines.
type Sweep struct {
	newMetrics func() []Metric
	limit      int
}

func NewSweep(newMetrics func() []Metric, limit int) *Sweep {
	return &Sweep{newMetrics: newMetrics, limit: limit}
}

func (sw *Sweep) Run(ctx context.Context, variants []Variant, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(variants))

	g, ctx := errgroup.WithContext(ctx)
	if sw.limit > 0 {
		g.SetLimit(sw.limit)
	}

	for i, v := range variants {
		g.Go(func() error {
			s, err := v.Build()
			if err != nil {
				return err
			}

			r := New()
			if sw.newMetrics != nil {
				for _, m := range sw.newMetrics() {
					r.AddMetric(m)
				}
			}

			res, err := r.Run(ctx, s, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

package bufferph

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SolvePHsParallel is SolvePHs with the doses spread over up to workers
// goroutines. workers <= 0 uses GOMAXPROCS. Results keep the input order.
//
// Each dose is independent, so the output matches SolvePHs exactly. The batch
// stops at the first cancellation of ctx and returns ctx's error.
func SolvePHsParallel(ctx context.Context, doses []float64, o Overrides, cfg SolverConfig, workers int) ([]Solution, error) {
	p, err := Resolve(o.WithoutPH())
	if err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]Solution, len(doses))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, dose := range doses {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = cfg.solve(p, dose) // Disjoint index per goroutine
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("solving %d doses: %w", len(doses), err)
	}
	return out, nil
}

package bufferph

import (
	"iter"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

// SolverConfig controls the inverse (pH from dose) root finder. Zero or
// negative fields take their DefaultSolverConfig value, so the zero
// SolverConfig seeds at pH 7. A seed of exactly pH 0 cannot be requested.
type SolverConfig struct {
	InitialPH float64      // Starting guess
	MaxIter   int          // Iteration budget per dose
	XTol      float64      // Relative step tolerance for convergence
	MaxStep   float64      // Largest Newton step in pH units
	DerivStep float64      // Finite-difference step for dg/dpH
	Logger    *slog.Logger // Receives non-convergence warnings (nil = slog.Default())
}

// DefaultSolverConfig returns the settings used by SolvePH when none are
// given: start at neutral pH, MINPACK-like tolerance.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		InitialPH: 7.0,
		MaxIter:   200,
		XTol:      1.49012e-8,
		MaxStep:   1.0,
		DerivStep: 1e-6,
	}
}

// withDefaults fills unset fields from DefaultSolverConfig.
func (c SolverConfig) withDefaults() SolverConfig {
	d := DefaultSolverConfig()
	if c.InitialPH == 0 {
		c.InitialPH = d.InitialPH
	}
	if c.MaxIter <= 0 {
		c.MaxIter = d.MaxIter
	}
	if c.XTol <= 0 {
		c.XTol = d.XTol
	}
	if c.MaxStep <= 0 {
		c.MaxStep = d.MaxStep
	}
	if c.DerivStep <= 0 {
		c.DerivStep = d.DerivStep
	}
	return c
}

func (c SolverConfig) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Solution is the outcome of one inverse solve.
type Solution struct {
	PH         float64 // Recovered pH, or the best estimate if not converged
	Residual   float64 // NetCharge(PH) - dose
	Iterations int     // Newton iterations used
	Converged  bool
}

// SolvePH recovers the pH reached after adding dose [mol/L HCl] to the buffer
// described by o. Any pH in o is ignored since it is the unknown.
//
// The solver never fails on a bad point: if it runs out of iterations or hits
// a degenerate derivative it logs a warning and returns the estimate with the
// smallest residual seen, with Converged set to false. Callers should check
// the result against physical bounds. The only errors come from resolving o.
func SolvePH(dose float64, o Overrides, cfg SolverConfig) (Solution, error) {
	p, err := Resolve(o.WithoutPH())
	if err != nil {
		return Solution{}, err
	}
	return cfg.solve(p, dose), nil
}

// SolvePHs solves each dose independently. The result has the same length
// as doses.
func SolvePHs(doses []float64, o Overrides, cfg SolverConfig) ([]Solution, error) {
	seq, err := Solutions(doses, o, cfg)
	if err != nil {
		return nil, err
	}

	out := make([]Solution, 0, len(doses))
	for _, s := range seq {
		out = append(out, s)
	}
	return out, nil
}

// Solutions returns a lazy sequence of (index, Solution) pairs, one per
// dose. Each solve happens as the sequence is consumed; ranging over it
// again solves again.
func Solutions(doses []float64, o Overrides, cfg SolverConfig) (iter.Seq2[int, Solution], error) {
	p, err := Resolve(o.WithoutPH())
	if err != nil {
		return nil, err
	}

	return func(yield func(int, Solution) bool) {
		for i, dose := range doses {
			if !yield(i, cfg.solve(p, dose)) {
				return
			}
		}
	}, nil
}

// solve runs a safeguarded Newton iteration on g(pH) = NetCharge(pH) - dose.
//
// g is strictly decreasing in pH, so the sign of g tells which side of the
// root an iterate is on. Once the root is bracketed, steps that leave the
// bracket are replaced by bisection.
func (c SolverConfig) solve(p Params, dose float64) Solution {
	c = c.withDefaults()
	g := func(pH float64) float64 { return p.NetCharge(pH) - dose }
	settings := &fd.Settings{Formula: fd.Central, Step: c.DerivStep}

	lo, hi := math.Inf(-1), math.Inf(1) // g(lo) > 0 > g(hi)
	x := c.InitialPH
	gx := g(x)
	best := Solution{PH: x, Residual: gx}
	reason := "iteration budget exhausted"
	iters := 0

	for i := 1; i <= c.MaxIter; i++ {
		if math.IsNaN(gx) || math.IsInf(gx, 0) {
			reason = "non-finite residual"
			break
		}
		if gx == 0 {
			return Solution{PH: x, Residual: 0, Iterations: i - 1, Converged: true}
		}
		if gx > 0 {
			lo = math.Max(lo, x)
		} else {
			hi = math.Min(hi, x)
		}

		d := fd.Derivative(g, x, settings)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			reason = "degenerate derivative"
			break
		}

		step := -gx / d
		if math.Abs(step) > c.MaxStep {
			step = math.Copysign(c.MaxStep, step)
		}
		next := x + step
		if !math.IsInf(lo, 0) && !math.IsInf(hi, 0) && (next <= lo || next >= hi) {
			next = (lo + hi) / 2
			step = next - x
		}

		x = next
		gx = g(x)
		iters = i
		if math.Abs(gx) < math.Abs(best.Residual) || math.IsNaN(best.Residual) {
			best = Solution{PH: x, Residual: gx}
		}

		if math.Abs(step) <= c.XTol*(1+math.Abs(x)) {
			return Solution{PH: x, Residual: gx, Iterations: i, Converged: true}
		}
	}

	best.Iterations = iters
	c.logger().Warn("pH solver did not converge",
		"dose", dose,
		"reason", reason,
		"iterations", iters,
		"ph", best.PH,
		"residual", best.Residual,
	)
	return best
}

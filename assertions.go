package bufferph

import (
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

// AssertionConfig contains the grid and tolerances for buffer-model checks.
type AssertionConfig struct {
	// pH grid swept by the checks (exclusive of 0 and 14)
	MinPH, MaxPH float64
	Points       int

	// Largest |recovered pH - pH| accepted by the round trip
	RoundTripTolerance float64

	// Solver used for the inverse direction
	Solver SolverConfig
}

// DefaultAssertionConfig sweeps pH 0.5–13.5 and accepts 1e-4 pH units of
// round-trip error.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		MinPH:              0.5,
		MaxPH:              13.5,
		Points:             27,
		RoundTripTolerance: 1e-4,
		Solver:             DefaultSolverConfig(),
	}
}

func (c AssertionConfig) grid() []float64 {
	if c.Points < 2 {
		return []float64{c.MinPH}
	}
	return floats.Span(make([]float64, c.Points), c.MinPH, c.MaxPH)
}

// AssertRoundTrip verifies that solving the forward dose at each grid pH
// gives the pH back.
//
// Property:
//
//	SolvePH(NetCharge(pH)) ≈ pH for 0 < pH < 14
func AssertRoundTrip(t *testing.T, o Overrides, cfg AssertionConfig) {
	t.Helper()

	pHs := cfg.grid()
	doses, err := HClAddedCurve(pHs, o)
	if err != nil {
		t.Fatalf("Failed to evaluate forward balance: %v", err)
	}
	sols, err := SolvePHs(doses, o, cfg.Solver)
	if err != nil {
		t.Fatalf("Failed to solve pH: %v", err)
	}

	var failures []string
	worst := 0.0
	for i, s := range sols {
		diff := math.Abs(s.PH - pHs[i])
		worst = math.Max(worst, diff)
		if !s.Converged || diff > cfg.RoundTripTolerance {
			failures = append(failures, fmt.Sprintf(
				"  pH=%.3f: dose=%.6g → pH=%.6f (converged=%v, iterations=%d)",
				pHs[i], doses[i], s.PH, s.Converged, s.Iterations))
		}
	}

	if len(failures) > 0 {
		t.Errorf("Round trip failed for %s:\n%s", o, failures)
	}

	t.Logf("✓ Round trip: %d points, worst |ΔpH| = %.2e (tolerance %.0e)",
		len(pHs), worst, cfg.RoundTripTolerance)
}

// AssertMonotonic verifies the forward balance strictly decreases as pH
// rises (more acid is needed to reach a lower pH).
//
// Property:
//
//	NetCharge(pH₁) > NetCharge(pH₂) for pH₁ < pH₂
func AssertMonotonic(t *testing.T, o Overrides, cfg AssertionConfig) {
	t.Helper()

	pHs := cfg.grid()
	doses, err := HClAddedCurve(pHs, o)
	if err != nil {
		t.Fatalf("Failed to evaluate forward balance: %v", err)
	}

	var failures []string
	for i := 1; i < len(doses); i++ {
		if doses[i] >= doses[i-1] {
			failures = append(failures, fmt.Sprintf(
				"  pH %.3f→%.3f: %.6g → %.6g (not decreasing)",
				pHs[i-1], pHs[i], doses[i-1], doses[i]))
		}
	}

	if len(failures) > 0 {
		t.Errorf("Forward balance not monotonic for %s:\n%s", o, failures)
	}

	t.Logf("✓ Monotonic: dose decreases over pH %.1f–%.1f", cfg.MinPH, cfg.MaxPH)
}

// AssertBufferModel runs all buffer-model assertions with default config.
func AssertBufferModel(t *testing.T, o Overrides) {
	t.Helper()

	cfg := DefaultAssertionConfig()

	t.Run("RoundTrip", func(t *testing.T) {
		AssertRoundTrip(t, o, cfg)
	})

	t.Run("Monotonic", func(t *testing.T) {
		AssertMonotonic(t, o, cfg)
	})
}

// PrintTitrationCurve outputs the forward balance over the grid to the test log.
func PrintTitrationCurve(t *testing.T, o Overrides, cfg AssertionConfig) {
	t.Helper()

	p, err := Resolve(o)
	if err != nil {
		t.Fatalf("Failed to resolve %s: %v", o, err)
	}

	t.Logf("\n=== Titration Curve ===")
	t.Logf("Composition [M]: HPO4=%.3g H2PO4=%.3g Tris=%.3g NH4=%.3g",
		p.HPO4, p.H2PO4, p.Tris, p.NH4)
	t.Logf("  pH      HCl [M]")
	t.Logf("  ------  ------------")
	for _, pH := range cfg.grid() {
		t.Logf("  %6.2f  %12.4e", pH, p.NetCharge(pH))
	}
}

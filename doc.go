// Package bufferph models acid/base equilibrium in a phosphate / Tris /
// ammonium growth-media buffer.
//
// # Overview
//
// bufferph answers two questions about a medium of known composition:
//
//   - Forward: how much strong acid (HCl) must be added to reach a given pH?
//   - Inverse: what pH results from a given acid dose?
//
// The forward answer is a closed-form charge balance. The inverse is found by
// root finding on that balance. A higher-level routine predicts the initial
// pH of media prepared from the lab's standard stock solutions, optionally
// corrected by a line fitted to measured titrations.
//
// # Architecture
//
// The package components:
//
//   - params.go      - Overrides, Params and Resolve (defaults, additive merge)
//   - equilibrium.go - Forward charge balance (NetCharge, HClAdded, HClAddedCurve)
//   - solver.go      - Inverse solve (SolvePH, SolvePHs, Solutions)
//   - batch.go       - Parallel inverse solve over many doses
//   - condition.go   - "k=v;..." condition strings and mappings
//   - predict.go     - Initial pH of media made from stock solutions
//   - correction.go  - Titration dataset loading and linear correction
//   - assertions.go  - Test helpers for buffer-model properties
//
// # Quick Start
//
// Compute the acid needed to bring a medium to pH 8:
//
//	cond, err := bufferph.ParseCondition("sol_C=False;Tris=5;NH4=0.85;P_mix=4")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dose, err := bufferph.HClAdded(cond.WithPH(8.0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("HCl: %.4g M\n", dose) // 0.001213 M
//
// And back again:
//
//	sol, err := bufferph.SolvePH(dose, cond, bufferph.DefaultSolverConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("pH: %.4f (converged=%v)\n", sol.PH, sol.Converged)
//
// # The Charge Balance
//
// With H = 10^-pH and k = 10^-pKa for each pair,
//
//	HCl = H/(k₁+H)·HPO4 − k₁/(H+k₁)·H2PO4
//	    + H/(kₜ+H)·Tris − kₙ/(H+kₙ)·NH4
//	    + H − k_w/H
//
// Each fraction is the share of a species that has taken up (or given up) a
// proton at that pH; the last two terms are free H+ and OH- from water
// (k_w = 1e-14). pKa values are fixed: H2PO4 7.21, TrisH 8.07, NH4 9.25.
//
// The balance strictly decreases with pH, so every dose has exactly one pH.
//
// # Merge Semantics
//
// Concentrations in Overrides are molar and additive: P_mix is split evenly
// between HPO4 and H2PO4, sol_C adds 0.1 mM H2PO4, and several Overrides
// passed to Resolve add up field by field. pH overwrites.
//
// Condition strings use millimolar:
//
//	sol_C=False;Tris=5;C=10;NH4=0.85;P_mix=4
//	  → SolC=false, Tris=5e-3, C=1e-2, NH4=8.5e-4, PMix=4e-3
//
// # Solver Behavior
//
// The inverse solve is a damped Newton iteration from pH 7, falling back to
// bisection once the root is bracketed. If it fails to converge it logs a
// warning on SolverConfig.Logger and returns its best estimate instead of an
// error, so one bad point never aborts a batch. Check Solution.Converged or
// the 0–14 range yourself.
//
// # Testing
//
// Use assertions to validate a composition:
//
//	func TestMyMedium(t *testing.T) {
//	    cond, _ := bufferph.ParseCondition("sol_C=True;Tris=10;P_mix=2")
//
//	    // Round trip and monotonicity over pH 0.5–13.5
//	    bufferph.AssertBufferModel(t, cond)
//	}
//
// # See Also
//
//   - cmd/bufferph - command-line interface
//   - examples/    - Working code samples
package bufferph

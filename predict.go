package bufferph

import "fmt"

// SolCBaseDose is the strong-acid equivalent [mol/L] already present from
// solution C. It is negative because solution C carries NaOH.
const SolCBaseDose = -8e-5

// Flag names for the Tris stock, used in MissingParameterError.
const (
	ParamTrisStockConc = "Tris_stock_conc_M"
	ParamTrisStockPH   = "Tris_stock_pH"
)

// Corrector maps a model pH onto an observed pH.
type Corrector interface {
	Correct(pH float64) float64
}

// PredictOptions configures PredictInitialPH.
//
// The Tris stock is made by titrating Tris with HCl to TrisStockPH, and that
// HCl is carried into the medium. Both fields are required when the medium
// contains Tris.
type PredictOptions struct {
	TrisStockConcM *float64
	TrisStockPH    *float64
	Correction     Corrector // nil skips the empirical correction
	Solver         SolverConfig
}

// DefaultPredictOptions returns options without a Tris stock or correction.
func DefaultPredictOptions() PredictOptions {
	return PredictOptions{Solver: DefaultSolverConfig()}
}

// Prediction is the predicted initial pH of a medium.
type Prediction struct {
	Dose      float64 // Pre-added strong acid [mol/L], negative for base
	RawPH     float64 // Equilibrium model result
	PH        float64 // RawPH after correction, if any
	Converged bool
}

// PredictInitialPH predicts the pH of a medium mixed from 1/2x Taub without
// solution C, solution C, a Tris stock, P_mix, NH4 and C.
func PredictInitialPH(cond Overrides, opts PredictOptions) (Prediction, error) {
	dose, err := PreAddedDose(cond, opts)
	if err != nil {
		return Prediction{}, err
	}

	sol, err := SolvePH(dose, cond, opts.Solver)
	if err != nil {
		return Prediction{}, err
	}

	pred := Prediction{
		Dose:      dose,
		RawPH:     sol.PH,
		PH:        sol.PH,
		Converged: sol.Converged,
	}
	if opts.Correction != nil {
		pred.PH = opts.Correction.Correct(sol.PH)
	}
	return pred, nil
}

// PreAddedDose returns the acid already in the medium before any titration:
// the NaOH of solution C plus the HCl carried over by the Tris stock.
func PreAddedDose(cond Overrides, opts PredictOptions) (float64, error) {
	dose := 0.0
	if cond.SolC {
		dose = SolCBaseDose
	}

	if cond.Tris > 0 {
		if opts.TrisStockConcM == nil {
			return 0, &MissingParameterError{Name: ParamTrisStockConc, Reason: "medium contains Tris"}
		}
		if opts.TrisStockPH == nil {
			return 0, &MissingParameterError{Name: ParamTrisStockPH, Reason: "medium contains Tris"}
		}

		stockConc := *opts.TrisStockConcM
		if stockConc <= 0 {
			return 0, fmt.Errorf("%s=%g: must be positive", ParamTrisStockConc, stockConc)
		}
		inStock, err := HClAdded(Overrides{Tris: stockConc}.WithPH(*opts.TrisStockPH))
		if err != nil {
			return 0, err
		}
		dose += inStock * cond.Tris / stockConc
	}

	return dose, nil
}

// Float returns a pointer to v, for optional fields.
func Float(v float64) *float64 {
	return &v
}

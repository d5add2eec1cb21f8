package cli

import (
	"fmt"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/alexshd/bufferph"
)

const (
	optPH             = "ph"
	optFrom           = "from"
	optTo             = "to"
	optPoints         = "points"
	optDose           = "dose"
	optWorkers        = "workers"
	optTrisStockConc  = "tris-stock-conc"
	optTrisStockPH    = "tris-stock-ph"
	optCorrectionData = "correction-data"
)

// hclCmd computes the acid dose that brings a medium to a pH.
func (a *app) hclCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hcl",
		Short: "HCl dose [M] needed to reach a pH",
		Example: `  bufferph hcl --cond "sol_C=False;Tris=5;NH4=0.85;P_mix=4" --ph 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cond, err := a.condition()
			if err != nil {
				return err
			}
			if err := a.require(optPH); err != nil {
				return err
			}

			pH := a.v.GetFloat64(optPH)
			dose, p, err := bufferph.HClAddedWithParams(cond.WithPH(pH))
			if err != nil {
				return err
			}

			return a.write(cmd, doseReport{
				Condition: cond.String(),
				Species:   speciesOf(p),
				Points:    []dosePoint{{PH: pH, HCl: dose}},
			})
		},
	}
	addCondFlag(cmd.Flags())
	cmd.Flags().Float64(optPH, 0, "target pH")
	return cmd
}

// curveCmd sweeps the forward balance over a pH range.
func (a *app) curveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "HCl dose over an evenly spaced pH range",
		Example: `  bufferph curve --cond "sol_C=True;Tris=10" --from 6 --to 9 --points 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cond, err := a.condition()
			if err != nil {
				return err
			}

			n := a.v.GetInt(optPoints)
			if n < 2 {
				return fmt.Errorf("--%s=%d: need at least 2 points", optPoints, n)
			}
			pHs := floats.Span(make([]float64, n), a.v.GetFloat64(optFrom), a.v.GetFloat64(optTo))

			doses, err := bufferph.HClAddedCurve(pHs, cond)
			if err != nil {
				return err
			}
			p, err := bufferph.Resolve(cond)
			if err != nil {
				return err
			}

			report := doseReport{Condition: cond.String(), Species: speciesOf(p)}
			for i, pH := range pHs {
				report.Points = append(report.Points, dosePoint{PH: pH, HCl: doses[i]})
			}
			return a.write(cmd, report)
		},
	}
	addCondFlag(cmd.Flags())
	cmd.Flags().Float64(optFrom, 4, "first pH")
	cmd.Flags().Float64(optTo, 10, "last pH")
	cmd.Flags().Int(optPoints, 13, "number of pH values")
	return cmd
}

// phCmd solves for the pH reached after each dose.
func (a *app) phCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ph",
		Short: "pH reached after adding HCl doses [M] (negative for base)",
		Example: `  bufferph ph --cond "sol_C=False;P_mix=4" --dose 1e-3 --dose -5e-4
  bufferph ph --cond "sol_C=False;P_mix=4" --dose 1e-4,2e-4,3e-4 --workers 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cond, err := a.condition()
			if err != nil {
				return err
			}
			if err := a.require(optDose); err != nil {
				return err
			}

			var doses []float64
			for _, s := range a.v.GetStringSlice(optDose) {
				d, err := cast.ToFloat64E(s)
				if err != nil {
					return fmt.Errorf("--%s %q: %w", optDose, s, err)
				}
				doses = append(doses, d)
			}

			cfg := a.solverConfig()
			var sols []bufferph.Solution
			if w := a.v.GetInt(optWorkers); w > 1 {
				sols, err = bufferph.SolvePHsParallel(cmd.Context(), doses, cond, cfg, w)
			} else {
				sols, err = bufferph.SolvePHs(doses, cond, cfg)
			}
			if err != nil {
				return err
			}

			report := phReport{Condition: cond.String()}
			for i, s := range sols {
				report.Points = append(report.Points, phPoint{
					HCl:        doses[i],
					PH:         s.PH,
					Converged:  s.Converged,
					Iterations: s.Iterations,
				})
			}
			return a.write(cmd, report)
		},
	}
	addCondFlag(cmd.Flags())
	cmd.Flags().StringSlice(optDose, nil, "HCl dose in M; repeat or comma-separate for several")
	cmd.Flags().Int(optWorkers, 1, "solve doses in parallel on this many goroutines")
	return cmd
}

// predictCmd predicts the initial pH of a medium made from stock solutions.
func (a *app) predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Initial pH of a medium mixed from the standard stock solutions",
		Long: `Predicts the initial pH of a medium made from 1/2x Taub without solution C,
solution C, a Tris stock, P_mix, NH4 and C.

The Tris stock is titrated with HCl to --tris-stock-ph; that acid is carried
into the medium, so both stock flags are required when Tris is present.

With --correction-data the model pH is mapped through a line fitted to a
titration dataset (columns pred_initial_pH and initial_pH).`,
		Example: `  bufferph predict --cond "sol_C=False;Tris=5;NH4=0.85;P_mix=4" \
      --tris-stock-conc 1 --tris-stock-ph 8 \
      --correction-data ` + bufferph.DefaultTitrationDataFile,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cond, err := a.condition()
			if err != nil {
				return err
			}

			opts := bufferph.DefaultPredictOptions()
			opts.Solver = a.solverConfig()
			if a.v.IsSet(optTrisStockConc) {
				opts.TrisStockConcM = bufferph.Float(a.v.GetFloat64(optTrisStockConc))
			}
			if a.v.IsSet(optTrisStockPH) {
				opts.TrisStockPH = bufferph.Float(a.v.GetFloat64(optTrisStockPH))
			}

			report := predictReport{Condition: cond.String()}
			if path := a.v.GetString(optCorrectionData); path != "" {
				c, err := bufferph.LoadLinearCorrection(path)
				if err != nil {
					return err
				}
				a.logger.Info("fitted linear correction",
					"file", path,
					"intercept", c.Intercept,
					"slope", c.Slope,
					"r2", c.RSquared,
				)
				opts.Correction = c
				report.Correction = &correctionReport{
					Intercept: c.Intercept,
					Slope:     c.Slope,
					RSquared:  c.RSquared,
				}
			}

			pred, err := bufferph.PredictInitialPH(cond, opts)
			if err != nil {
				return err
			}

			report.Dose = pred.Dose
			report.RawPH = pred.RawPH
			report.PH = pred.PH
			report.Converged = pred.Converged
			return a.write(cmd, report)
		},
	}
	addCondFlag(cmd.Flags())
	cmd.Flags().Float64(optTrisStockConc, 0, "Tris stock concentration [M]")
	cmd.Flags().Float64(optTrisStockPH, 0, "pH the Tris stock was titrated to")
	cmd.Flags().String(optCorrectionData, "", "titration CSV used to fit the linear correction")
	return cmd
}

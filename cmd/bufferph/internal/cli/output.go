package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexshd/bufferph"
)

type species struct {
	HPO4  float64 `json:"HPO4" yaml:"HPO4"`
	H2PO4 float64 `json:"H2PO4" yaml:"H2PO4"`
	Tris  float64 `json:"Tris" yaml:"Tris"`
	NH4   float64 `json:"NH4" yaml:"NH4"`
}

func speciesOf(p bufferph.Params) species {
	return species{HPO4: p.HPO4, H2PO4: p.H2PO4, Tris: p.Tris, NH4: p.NH4}
}

type dosePoint struct {
	PH  float64 `json:"pH" yaml:"pH"`
	HCl float64 `json:"HCl" yaml:"HCl"`
}

type doseReport struct {
	Condition string      `json:"condition" yaml:"condition"`
	Species   species     `json:"species_M" yaml:"species_M"`
	Points    []dosePoint `json:"points" yaml:"points"`
}

func (r doseReport) text(w io.Writer) {
	fmt.Fprintf(w, "condition: %s\n", r.Condition)
	fmt.Fprintf(w, "species [M]: HPO4=%.4g H2PO4=%.4g Tris=%.4g NH4=%.4g\n",
		r.Species.HPO4, r.Species.H2PO4, r.Species.Tris, r.Species.NH4)
	fmt.Fprintf(w, "%8s  %14s\n", "pH", "HCl [M]")
	for _, p := range r.Points {
		fmt.Fprintf(w, "%8.3f  %14.6e\n", p.PH, p.HCl)
	}
}

type phPoint struct {
	HCl        float64 `json:"HCl" yaml:"HCl"`
	PH         float64 `json:"pH" yaml:"pH"`
	Converged  bool    `json:"converged" yaml:"converged"`
	Iterations int     `json:"iterations" yaml:"iterations"`
}

type phReport struct {
	Condition string    `json:"condition" yaml:"condition"`
	Points    []phPoint `json:"points" yaml:"points"`
}

func (r phReport) text(w io.Writer) {
	fmt.Fprintf(w, "condition: %s\n", r.Condition)
	fmt.Fprintf(w, "%14s  %8s  %s\n", "HCl [M]", "pH", "converged")
	for _, p := range r.Points {
		fmt.Fprintf(w, "%14.6e  %8.4f  %v\n", p.HCl, p.PH, p.Converged)
	}
}

type correctionReport struct {
	Intercept float64 `json:"intercept" yaml:"intercept"`
	Slope     float64 `json:"slope" yaml:"slope"`
	RSquared  float64 `json:"r_squared" yaml:"r_squared"`
}

type predictReport struct {
	Condition  string            `json:"condition" yaml:"condition"`
	Dose       float64           `json:"pre_added_HCl" yaml:"pre_added_HCl"`
	RawPH      float64           `json:"model_pH" yaml:"model_pH"`
	PH         float64           `json:"pH" yaml:"pH"`
	Converged  bool              `json:"converged" yaml:"converged"`
	Correction *correctionReport `json:"correction,omitempty" yaml:"correction,omitempty"`
}

func (r predictReport) text(w io.Writer) {
	fmt.Fprintf(w, "condition: %s\n", r.Condition)
	fmt.Fprintf(w, "pre-added HCl: %.6e M\n", r.Dose)
	fmt.Fprintf(w, "model pH: %.4f\n", r.RawPH)
	if r.Correction != nil {
		fmt.Fprintf(w, "correction: pH = %.4f + %.4f·model (R²=%.4f)\n",
			r.Correction.Intercept, r.Correction.Slope, r.Correction.RSquared)
	}
	fmt.Fprintf(w, "predicted pH: %.4f\n", r.PH)
	if !r.Converged {
		fmt.Fprintln(w, "warning: solver did not converge")
	}
}

type textReport interface {
	text(w io.Writer)
}

// write renders r in the format selected by --output.
func (a *app) write(cmd *cobra.Command, r textReport) error {
	w := cmd.OutOrStdout()

	switch format := a.v.GetString(optOutput); format {
	case "text", "":
		r.text(w)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(r)
	default:
		return fmt.Errorf("--%s=%q: want text, json or yaml", optOutput, format)
	}
}

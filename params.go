package bufferph

import (
	"fmt"

	"github.com/spf13/cast"
)

// SolCPhosphate is the H2PO4 contribution of solution C [mol/L]:
// 0.5 mL of a 0.1 M H2PO4 stock per 500 mL of 1/2x Taub.
const SolCPhosphate = 1e-4

// Constants holds the dissociation constants (pKa) used by the model.
type Constants struct {
	H2PO4     float64 // H2PO4- <-> HPO4(2-)
	TrisH     float64 // TrisH+ <-> Tris
	NH4       float64 // NH4+ <-> NH3
	CO2First  float64 // CO2 first dissociation, carried but unused
	CO2Second float64 // CO2 second dissociation, carried but unused
}

// DefaultConstants are the fixed pKa values at laboratory temperature.
var DefaultConstants = Constants{
	H2PO4:     7.21,
	TrisH:     8.07,
	NH4:       9.25,
	CO2First:  6.351,
	CO2Second: 10.329,
}

// Overrides is one contribution to a buffer condition.
//
// Concentrations are molar. PMix is split evenly between HPO4 and H2PO4,
// SolC adds SolCPhosphate to H2PO4, and the four species fields add directly
// to their totals. PH overwrites instead of accumulating. C is the total
// buffer concentration carried by condition strings; the model ignores it.
type Overrides struct {
	SolC  bool
	PMix  float64
	HPO4  float64
	H2PO4 float64
	Tris  float64
	NH4   float64
	C     float64
	PH    *float64
}

// Recognized parameter keys.
const (
	KeySolC  = "sol_C"
	KeyPMix  = "P_mix"
	KeyHPO4  = "HPO4"
	KeyH2PO4 = "H2PO4"
	KeyTris  = "Tris"
	KeyNH4   = "NH4"
	KeyC     = "C"
	KeyPH    = "pH"
)

// Set applies a single string-keyed value. Concentration keys accumulate
// across calls, pH and sol_C overwrite. Unknown keys fail with
// *UnsupportedParameterError and leave o untouched.
func (o *Overrides) Set(key string, value any) error {
	if key == KeySolC {
		b, err := cast.ToBoolE(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		o.SolC = b
		return nil
	}

	var dst *float64
	switch key {
	case KeyPMix:
		dst = &o.PMix
	case KeyHPO4:
		dst = &o.HPO4
	case KeyH2PO4:
		dst = &o.H2PO4
	case KeyTris:
		dst = &o.Tris
	case KeyNH4:
		dst = &o.NH4
	case KeyC:
		dst = &o.C
	case KeyPH:
	default:
		return &UnsupportedParameterError{Key: key, Value: value}
	}

	v, err := cast.ToFloat64E(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if dst == nil {
		o.PH = &v
		return nil
	}
	*dst += v
	return nil
}

// WithPH returns a copy of o with pH set.
func (o Overrides) WithPH(pH float64) Overrides {
	o.PH = &pH
	return o
}

// WithoutPH returns a copy of o with pH cleared.
func (o Overrides) WithoutPH() Overrides {
	o.PH = nil
	return o
}

// Params is a fully resolved buffer condition. It is a value and is never
// mutated by the model.
type Params struct {
	PH    float64
	HasPH bool

	HPO4  float64
	H2PO4 float64
	Tris  float64
	NH4   float64

	PKa Constants
}

// Resolve merges overrides onto the defaults: zero concentrations, pH unset
// and DefaultConstants. Contributions to the same concentration add up in
// order; the last pH set wins.
func Resolve(overrides ...Overrides) (Params, error) {
	p := Params{PKa: DefaultConstants}

	for _, o := range overrides {
		if o.SolC {
			p.H2PO4 += SolCPhosphate
		}
		p.HPO4 += o.PMix / 2
		p.H2PO4 += o.PMix / 2
		p.HPO4 += o.HPO4
		p.H2PO4 += o.H2PO4
		p.Tris += o.Tris
		p.NH4 += o.NH4
		if o.PH != nil {
			p.PH = *o.PH
			p.HasPH = true
		}
	}

	for _, c := range []struct {
		name  string
		value float64
	}{
		{KeyHPO4, p.HPO4},
		{KeyH2PO4, p.H2PO4},
		{KeyTris, p.Tris},
		{KeyNH4, p.NH4},
	} {
		if c.value < 0 {
			return Params{}, fmt.Errorf("%s=%g: %w", c.name, c.value, ErrNegativeConcentration)
		}
	}

	return p, nil
}

// ResolveMap resolves a string-keyed parameter mapping (molar values).
// The first unrecognized key fails the whole call.
func ResolveMap(m map[string]any) (Params, error) {
	o, err := ConditionFromMap(m)
	if err != nil {
		return Params{}, err
	}
	return Resolve(o)
}

package bufferph

import "math"

// KWater is the ion product of water at 25 °C.
const KWater = 1e-14

// NetCharge returns the strong-acid equivalent [mol/L of HCl] that has to be
// added to the buffer described by p to bring it to pH. p.PH is not read.
//
// Each weak pair contributes its protonated (or deprotonated) fraction of the
// total by Henderson–Hasselbalch, plus the free H+ / OH- terms of water:
//
//	H/(k1+H)·HPO4 − k1/(H+k1)·H2PO4 + H/(kt+H)·Tris − kn/(H+kn)·NH4 + H − kw/H
func (p Params) NetCharge(pH float64) float64 {
	h := math.Pow(10, -pH)
	kH2PO4 := math.Pow(10, -p.PKa.H2PO4)
	kTrisH := math.Pow(10, -p.PKa.TrisH)
	kNH4 := math.Pow(10, -p.PKa.NH4)

	return h/(kH2PO4+h)*p.HPO4 -
		kH2PO4/(h+kH2PO4)*p.H2PO4 +
		h/(kTrisH+h)*p.Tris -
		kNH4/(h+kNH4)*p.NH4 +
		h - KWater/h
}

// NetChargeBalance evaluates the forward problem at p.PH.
func NetChargeBalance(p Params) (float64, error) {
	if !p.HasPH {
		return 0, &MissingParameterError{Name: KeyPH, Reason: "required for the forward balance"}
	}
	return p.NetCharge(p.PH), nil
}

// HClAdded resolves overrides and returns the HCl dose [mol/L] needed to
// reach the pH they carry.
func HClAdded(overrides ...Overrides) (float64, error) {
	dose, _, err := HClAddedWithParams(overrides...)
	return dose, err
}

// HClAddedWithParams is HClAdded that also returns the resolved parameters.
func HClAddedWithParams(overrides ...Overrides) (float64, Params, error) {
	p, err := Resolve(overrides...)
	if err != nil {
		return 0, Params{}, err
	}
	dose, err := NetChargeBalance(p)
	if err != nil {
		return 0, p, err
	}
	return dose, p, nil
}

// HClAddedCurve evaluates the forward problem elementwise over pHs. Any pH
// carried by overrides is ignored. The result has the same length as pHs.
func HClAddedCurve(pHs []float64, overrides ...Overrides) ([]float64, error) {
	p, err := Resolve(overrides...)
	if err != nil {
		return nil, err
	}

	doses := make([]float64, len(pHs))
	for i, pH := range pHs {
		doses[i] = p.NetCharge(pH)
	}
	return doses, nil
}

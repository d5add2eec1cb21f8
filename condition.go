package bufferph

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// MillimolarToMolar converts condition-string units to resolver units.
const MillimolarToMolar = 1e-3

// ParseCondition parses a media condition such as
//
//	sol_C=False;Tris=5;C=10;NH4=0.85;P_mix=4
//
// Values are millimolar and come back molar. sol_C is a flag: the token
// "False" is false and anything else is true. For the other keys "False"
// means zero. pH is dimensionless and is kept as written, and may not be
// "False". A repeated key replaces its earlier value.
func ParseCondition(s string) (Overrides, error) {
	var keys []string
	values := make(map[string]any)

	for _, seg := range strings.Split(s, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		k, v, ok := strings.Cut(seg, "=")
		if !ok || strings.Contains(v, "=") {
			return Overrides{}, fmt.Errorf("segment %q: %w", seg, ErrInvalidCondition)
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)

		var value any
		switch {
		case k == KeySolC:
			value = v != "False"
		case k == KeyPH && v == "False":
			return Overrides{}, fmt.Errorf("segment %q: %w", seg, ErrInvalidCondition)
		case v == "False":
			value = 0.0
		default:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return Overrides{}, fmt.Errorf("segment %q: %w", seg, ErrInvalidCondition)
			}
			if k != KeyPH {
				f *= MillimolarToMolar
			}
			value = f
		}

		if _, seen := values[k]; !seen {
			keys = append(keys, k)
		}
		values[k] = value
	}

	var o Overrides
	for _, k := range keys {
		if err := o.Set(k, values[k]); err != nil {
			return Overrides{}, err
		}
	}
	return o, nil
}

// ConditionFromMap builds Overrides from a mapping with molar values. Keys
// are applied in sorted order; the first unrecognized key fails the call.
func ConditionFromMap(m map[string]any) (Overrides, error) {
	var o Overrides
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if err := o.Set(k, m[k]); err != nil {
			return Overrides{}, err
		}
	}
	return o, nil
}

// String renders o in the millimolar condition-string form accepted by
// ParseCondition. Zero concentrations are omitted.
func (o Overrides) String() string {
	parts := []string{KeySolC + "=" + flagToken(o.SolC)}

	for _, f := range []struct {
		key   string
		value float64
	}{
		{KeyTris, o.Tris},
		{KeyC, o.C},
		{KeyNH4, o.NH4},
		{KeyPMix, o.PMix},
		{KeyHPO4, o.HPO4},
		{KeyH2PO4, o.H2PO4},
	} {
		if f.value != 0 {
			parts = append(parts, f.key+"="+strconv.FormatFloat(f.value/MillimolarToMolar, 'g', -1, 64))
		}
	}
	if o.PH != nil {
		parts = append(parts, KeyPH+"="+strconv.FormatFloat(*o.PH, 'g', -1, 64))
	}

	return strings.Join(parts, ";")
}

func flagToken(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

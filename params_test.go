package bufferph

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(1e-12, 1e-18)

// TestResolve_Defaults verifies the starting point of every resolution.
func TestResolve_Defaults(t *testing.T) {
	p, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := Params{
		PKa: Constants{H2PO4: 7.21, TrisH: 8.07, NH4: 9.25, CO2First: 6.351, CO2Second: 10.329},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
	if p.HasPH {
		t.Error("pH should be unset by default")
	}
}

// TestResolve_Merge covers the additive and overwrite rules.
func TestResolve_Merge(t *testing.T) {
	tests := []struct {
		name      string
		overrides []Overrides
		want      Params
	}{
		{
			name:      "P_mix splits evenly",
			overrides: []Overrides{{PMix: 4e-3}},
			want:      Params{HPO4: 2e-3, H2PO4: 2e-3},
		},
		{
			name:      "successive HPO4 accumulate",
			overrides: []Overrides{{HPO4: 1e-3}, {HPO4: 2e-3}},
			want:      Params{HPO4: 3e-3},
		},
		{
			name:      "sol_C adds solution C phosphate",
			overrides: []Overrides{{SolC: true}},
			want:      Params{H2PO4: 1e-4},
		},
		{
			name:      "sol_C false adds nothing",
			overrides: []Overrides{{SolC: false, Tris: 5e-3}},
			want:      Params{Tris: 5e-3},
		},
		{
			name:      "P_mix and explicit phosphate add",
			overrides: []Overrides{{PMix: 2e-3, H2PO4: 1e-3, SolC: true}},
			want:      Params{HPO4: 1e-3, H2PO4: 2.1e-3},
		},
		{
			name:      "C is ignored",
			overrides: []Overrides{{C: 1e-2, NH4: 8.5e-4}},
			want:      Params{NH4: 8.5e-4},
		},
		{
			name:      "last pH wins",
			overrides: []Overrides{Overrides{}.WithPH(6.5), Overrides{}.WithPH(8.0)},
			want:      Params{PH: 8.0, HasPH: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Resolve(tt.overrides...)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}

			tt.want.PKa = DefaultConstants
			if diff := cmp.Diff(tt.want, p, approx); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestResolve_NegativeConcentration verifies totals must stay non-negative.
func TestResolve_NegativeConcentration(t *testing.T) {
	_, err := Resolve(Overrides{Tris: 1e-3}, Overrides{Tris: -2e-3})
	if !errors.Is(err, ErrNegativeConcentration) {
		t.Fatalf("expected ErrNegativeConcentration, got %v", err)
	}
	t.Logf("✓ Rejected: %v", err)

	// A negative contribution that keeps the total positive is fine.
	p, err := Resolve(Overrides{Tris: 3e-3}, Overrides{Tris: -1e-3})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if diff := cmp.Diff(2e-3, p.Tris, approx); diff != "" {
		t.Errorf("Tris mismatch (-want +got):\n%s", diff)
	}
}

// TestResolveMap_UnsupportedKey verifies the closed vocabulary.
func TestResolveMap_UnsupportedKey(t *testing.T) {
	_, err := ResolveMap(map[string]any{"Tris": 5e-3, "foo": 1})

	var unsupported *UnsupportedParameterError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *UnsupportedParameterError, got %v", err)
	}
	if unsupported.Key != "foo" {
		t.Errorf("Key = %q, want %q", unsupported.Key, "foo")
	}
}

// TestResolveMap_Keys verifies every recognized key maps to its field.
func TestResolveMap_Keys(t *testing.T) {
	p, err := ResolveMap(map[string]any{
		"sol_C": true,
		"P_mix": 4e-3,
		"HPO4":  1e-3,
		"H2PO4": "1e-3", // Strings are coerced
		"Tris":  5e-3,
		"NH4":   8.5e-4,
		"C":     1e-2,
		"pH":    7,
	})
	if err != nil {
		t.Fatalf("ResolveMap failed: %v", err)
	}

	want := Params{
		PH:    7,
		HasPH: true,
		HPO4:  3e-3,
		H2PO4: 3.1e-3,
		Tris:  5e-3,
		NH4:   8.5e-4,
		PKa:   DefaultConstants,
	}
	if diff := cmp.Diff(want, p, approx); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// TestOverrides_Set verifies accumulation through the string-keyed path.
func TestOverrides_Set(t *testing.T) {
	var o Overrides
	for _, v := range []any{1e-3, 2e-3} {
		if err := o.Set(KeyHPO4, v); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if diff := cmp.Diff(3e-3, o.HPO4, approx); diff != "" {
		t.Errorf("HPO4 mismatch (-want +got):\n%s", diff)
	}

	if err := o.Set(KeyTris, "not a number"); err == nil {
		t.Error("expected an error for a non-numeric value")
	}

	before := o
	if err := o.Set("pKa_H2PO4", 7.0); err == nil {
		t.Error("pKa constants must not be settable")
	}
	if diff := cmp.Diff(before, o); diff != "" {
		t.Errorf("failed Set modified overrides:\n%s", diff)
	}
}

// TestOverrides_WithoutPH verifies pH helpers return copies.
func TestOverrides_WithoutPH(t *testing.T) {
	o := Overrides{Tris: 5e-3}.WithPH(8)
	stripped := o.WithoutPH()

	if o.PH == nil || *o.PH != 8 {
		t.Fatalf("WithPH did not set pH: %+v", o)
	}
	if stripped.PH != nil {
		t.Errorf("WithoutPH kept pH=%v", *stripped.PH)
	}
	if stripped.Tris != o.Tris {
		t.Errorf("WithoutPH changed Tris: %g != %g", stripped.Tris, o.Tris)
	}
}

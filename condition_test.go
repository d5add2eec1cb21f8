package bufferph

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestParseCondition covers the condition-string format.
func TestParseCondition(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Overrides
	}{
		{
			name: "reference medium",
			in:   goldenCondition,
			want: Overrides{SolC: false, Tris: 5e-3, NH4: 8.5e-4, PMix: 4e-3},
		},
		{
			name: "with total buffer field",
			in:   "sol_C=False;Tris=5;C=10;NH4=0.85;P_mix=4",
			want: Overrides{Tris: 5e-3, C: 1e-2, NH4: 8.5e-4, PMix: 4e-3},
		},
		{
			name: "sol_C any other token is true",
			in:   "sol_C=0",
			want: Overrides{SolC: true},
		},
		{
			name: "False means zero for concentrations",
			in:   "sol_C=True;Tris=False;NH4=1",
			want: Overrides{SolC: true, NH4: 1e-3},
		},
		{
			name: "repeated key keeps last value",
			in:   "Tris=5;Tris=3",
			want: Overrides{Tris: 3e-3},
		},
		{
			name: "repeated pH keeps last value",
			in:   "pH=7;sol_C=True;pH=8",
			want: Overrides{SolC: true}.WithPH(8),
		},
		{
			name: "pH is not scaled",
			in:   "P_mix=4;pH=7.5",
			want: Overrides{PMix: 4e-3}.WithPH(7.5),
		},
		{
			name: "blank segments and spaces",
			in:   " sol_C = False ; Tris=5 ;; ",
			want: Overrides{Tris: 5e-3},
		},
		{
			name: "empty",
			in:   "",
			want: Overrides{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCondition(tt.in)
			if err != nil {
				t.Fatalf("ParseCondition(%q) failed: %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("ParseCondition(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

// TestParseCondition_Errors covers malformed and unknown input.
func TestParseCondition_Errors(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		unsupported bool
	}{
		{"no equals", "sol_C", false},
		{"two equals", "Tris=5=6", false},
		{"not a number", "Tris=five", false},
		{"pH False", "sol_C=True;pH=False", false},
		{"unknown key", "sol_C=False;MgSO4=1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCondition(tt.in)
			if err == nil {
				t.Fatalf("ParseCondition(%q) succeeded, want error", tt.in)
			}

			var unsupported *UnsupportedParameterError
			if got := errors.As(err, &unsupported); got != tt.unsupported {
				t.Errorf("UnsupportedParameterError = %v, want %v (err: %v)", got, tt.unsupported, err)
			}
			if !tt.unsupported && !errors.Is(err, ErrInvalidCondition) {
				t.Errorf("expected ErrInvalidCondition, got %v", err)
			}
		})
	}
}

// TestConditionFromMap verifies mapping input in molar units.
func TestConditionFromMap(t *testing.T) {
	got, err := ConditionFromMap(map[string]any{
		"sol_C": "False",
		"Tris":  5e-3,
		"NH4":   "8.5e-4",
		"P_mix": 4e-3,
	})
	if err != nil {
		t.Fatalf("ConditionFromMap failed: %v", err)
	}

	want := Overrides{Tris: 5e-3, NH4: 8.5e-4, PMix: 4e-3}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	_, err = ConditionFromMap(map[string]any{"zeta": 1, "alpha": 2})
	var unsupported *UnsupportedParameterError
	if !errors.As(err, &unsupported) || unsupported.Key != "alpha" {
		t.Errorf("expected first sorted unknown key %q, got %v", "alpha", err)
	}
}

// TestOverrides_String verifies the rendered form parses back.
func TestOverrides_String(t *testing.T) {
	for _, in := range []string{
		goldenCondition,
		"sol_C=True;Tris=10;C=10;HPO4=1;H2PO4=2",
		"sol_C=False;P_mix=4;pH=7.5",
	} {
		cond, err := ParseCondition(in)
		if err != nil {
			t.Fatalf("ParseCondition(%q) failed: %v", in, err)
		}

		s := cond.String()
		back, err := ParseCondition(s)
		if err != nil {
			t.Fatalf("ParseCondition(%q) failed: %v", s, err)
		}
		if diff := cmp.Diff(cond, back, approx); diff != "" {
			t.Errorf("%q → %q mismatch (-want +got):\n%s", in, s, diff)
		}
	}

	if got, want := (Overrides{Tris: 5e-3, NH4: 8.5e-4, PMix: 4e-3}).String(), "sol_C=False;Tris=5;NH4=0.85;P_mix=4"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

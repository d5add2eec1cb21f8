package bufferph

import (
	"errors"
	"fmt"
)

// ErrNegativeConcentration is returned when a resolved total concentration
// drops below zero.
var ErrNegativeConcentration = errors.New("negative concentration")

// ErrInvalidCondition is returned for condition strings that are not a
// sequence of key=value segments.
var ErrInvalidCondition = errors.New("invalid media condition")

// UnsupportedParameterError reports a parameter name outside the recognized
// vocabulary (sol_C, P_mix, HPO4, H2PO4, Tris, NH4, C, pH).
type UnsupportedParameterError struct {
	Key   string
	Value any
}

func (e *UnsupportedParameterError) Error() string {
	return fmt.Sprintf("unsupported parameter %s=%v", e.Key, e.Value)
}

// MissingParameterError reports a required input that was not supplied.
type MissingParameterError struct {
	Name   string // Parameter name as it appears in condition strings and flags
	Reason string // Optional context
}

func (e *MissingParameterError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("missing parameter %s", e.Name)
	}
	return fmt.Sprintf("missing parameter %s: %s", e.Name, e.Reason)
}

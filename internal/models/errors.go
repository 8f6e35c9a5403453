package models

import "errors"

var (
	// ErrInvalidInput reports malformed fit input or an out-of-range query.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIncompatibleCurves reports a comparison between curves that were not
	// fit on the same units with the same paired resample draws.
	ErrIncompatibleCurves = errors.New("incompatible curves")

	// ErrDegenerateResample reports a bootstrap draw without any admissible action.
	ErrDegenerateResample = errors.New("degenerate resample")
)

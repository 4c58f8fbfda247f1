package estimator

import "errors"

var (
	// ErrEmptyInput is returned when there are no observations to fit
	ErrEmptyInput = errors.New("empty input: no observations to fit")

	// ErrDegenerateInput is returned when the design matrix is rank deficient
	// and some coefficient cannot be identified. It is wrapped with the reason.
	ErrDegenerateInput = errors.New("degenerate input")
)

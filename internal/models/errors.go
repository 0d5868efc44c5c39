package models

import "errors"

// Fatal analysis errors. Everything else the pipeline encounters becomes a
// warning on the result; only conditions that make the output numerically
// meaningless surface as errors to the caller.
var (
	// ErrMalformedInput is returned when the input blob is empty or
	// whitespace-only, before parsing begins.
	ErrMalformedInput = errors.New("portfolio input is empty")

	// ErrEmptyPortfolio is returned when zero holdings end up priced, so no
	// meaningful totals or weights can be computed.
	ErrEmptyPortfolio = errors.New("no holdings could be priced")
)

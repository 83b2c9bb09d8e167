// Package intake loads the whitepaper intake bundle. Every loader returns an
// explicit error so callers can substitute their own default; no loader
// panics on bad input.
package intake

import "errors"

// Intake errors. Loaders wrap these with the offending path.
var (
	// ErrMissing is returned when an input file does not exist.
	ErrMissing = errors.New("input missing")

	// ErrMalformed is returned when an input exists but cannot be parsed,
	// or parses into an unexpected shape.
	ErrMalformed = errors.New("input malformed")
)

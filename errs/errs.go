// Package errs defines the sentinel error kinds shared across the engine, so
// callers can branch with errors.Is instead of parsing messages.
package errs

import "errors"

var (
	// ErrNotFound marks an unknown node name, value name, or dense ID.
	ErrNotFound = errors.New("causaltrail: not found")

	// ErrParse marks malformed topology, sample, JSON, or query input.
	ErrParse = errors.New("causaltrail: parse error")

	// ErrCycleDetected marks a DAG invariant violation discovered after load.
	ErrCycleDetected = errors.New("causaltrail: cycle detected")

	// ErrShapeMismatch marks an observation matrix whose dimensions disagree
	// with its node's alphabets.
	ErrShapeMismatch = errors.New("causaltrail: shape mismatch")

	// ErrDegenerateCondition marks a conditional-probability query whose
	// denominator has zero mass.
	ErrDegenerateCondition = errors.New("causaltrail: degenerate condition")

	// ErrOutOfDomain marks a value index outside a node's alphabet.
	ErrOutOfDomain = errors.New("causaltrail: value out of domain")
)

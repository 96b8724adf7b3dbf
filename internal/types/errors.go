package types

import (
	"cosmossdk.io/errors"
)

const codespace = "returncast"

// Registered error taxonomy. Callers distinguish categories with
// errors.Is; wrapped causes stay available through Unwrap.
var (
	// ErrValidation is raised for malformed input before any iteration.
	ErrValidation = errors.Register(codespace, 2, "invalid input")

	// ErrConvergence is raised when the return solver exhausts its
	// iteration budget or stalls without meeting tolerance.
	ErrConvergence = errors.Register(codespace, 3, "solver failed to converge")

	// ErrOracle wraps any failure surfaced by a position oracle.
	ErrOracle = errors.Register(codespace, 4, "position oracle failure")

	// ErrChart is raised when chart geometry derivation fails for a
	// reason other than the solver, preserving the original cause.
	ErrChart = errors.Register(codespace, 5, "chart derivation failed")
)

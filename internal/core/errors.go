package core

import "errors"

// Error taxonomy. Everything except ErrConsistency is recoverable: the caller
// re-prompts or reports and no state has been mutated. ErrConsistency means a
// staged batch could not be fully applied and must be surfaced, never
// swallowed.
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDate       = errors.New("invalid date")
	ErrZeroAmount        = errors.New("zero amount")
	ErrOutOfRange        = errors.New("selection out of range")
	ErrDuplicateName     = errors.New("duplicate category name")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameCategory      = errors.New("source and destination are the same category")
	ErrEmptyName         = errors.New("empty name")
	ErrConsistency       = errors.New("budget state inconsistent")
)

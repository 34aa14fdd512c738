package ledger

import "errors"

// Rejection kinds returned by engine operations. Every rejection is
// all-or-nothing: the engine state after a non-nil error is identical
// to the state before the call. Callers match them with errors.Is.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidID           = errors.New("invalid article id")
	ErrRetracted           = errors.New("article retracted")
	ErrAlreadyRetracted    = errors.New("article already retracted")
	ErrEmptyTitle          = errors.New("empty title")
	ErrEmptyContentRef     = errors.New("empty content ref")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrOverflow            = errors.New("balance overflow")
	ErrInsufficientBalance = errors.New("insufficient hash balance")
	ErrAlreadyVoted        = errors.New("already voted")
)

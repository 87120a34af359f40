package ledger

import "errors"

var (
	// ErrInvalidInput marks a rejected argument: an empty task name or a
	// non-positive duration or limit.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIllegalState marks an operation that the current state forbids,
	// such as completing when no task is current.
	ErrIllegalState = errors.New("illegal state")
)

package session

import "errors"

// ErrMissingTask is returned by RequestStart in work mode without a current task.
var ErrMissingTask = errors.New("no current task")

package timer

import "errors"

// ErrInvalidDuration is returned when a countdown length is not positive.
var ErrInvalidDuration = errors.New("duration must be positive")

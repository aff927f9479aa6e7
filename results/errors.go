package results

import "errors"

// ErrNotFound is returned when a requested result does not exist.
var ErrNotFound = errors.New("result not found")

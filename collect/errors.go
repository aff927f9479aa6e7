package collect

import "errors"

var (
	// ErrRunNotFound is returned when a run id is not present in a store.
	ErrRunNotFound = errors.New("run not found")
)

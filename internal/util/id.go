// Package util contains small internal helpers shared across packages.
package util

import "github.com/google/uuid"

// NewID generates a new unique run identifier.
//
// Uses UUID v4 for simplicity; identifiers only need uniqueness within a
// store, not ordering.
func NewID() string { return uuid.NewString() }

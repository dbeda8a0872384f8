// internal/app/store/storeerr/storeerr.go

// Package storeerr holds error values shared by every store
// implementation. Core packages match on these with errors.Is instead of
// depending on driver error types.
package storeerr

import "errors"

// ErrNotFound is returned by store lookups when no document matches.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write violates a uniqueness index,
// e.g. two active groups with the same folded name.
var ErrDuplicate = errors.New("duplicate record")

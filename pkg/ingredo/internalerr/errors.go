// Package internalerr holds the sentinel errors shared by the ingredo packages.
package internalerr

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnknownPreference = errors.New("unknown dietary preference")
	ErrUnknownTag        = errors.New("unknown dietary tag")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrDuplicate         = errors.New("duplicate")
)

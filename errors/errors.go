// Package errors defines all exported error sentinels for the labelring library.
//
// This is the single source of truth for error values. The root labelring
// package and the binding package both import from here, so errors.Is checks
// work across package boundaries, including on values recovered from panics.
package errors

import "errors"

// Binding policy errors. These never escape binding.Load; they are logged
// and the documented default is used instead.
var (
	ErrInvalidPolicy  = errors.New("labelring: unknown binding policy")
	ErrInvalidInteger = errors.New("labelring: value is not an unsigned integer")
	ErrNonPositive    = errors.New("labelring: value must be positive")
)

// Memory errors. These are carried by panics, not returned: a ring buffer that
// cannot be allocated or has an impossible shape is a fatal condition.
var (
	ErrAllocation      = errors.New("labelring: ring buffer allocation failed")
	ErrInvalidGeometry = errors.New("labelring: invalid ring buffer geometry")
)

// Package services contains stateless domain services for the joke bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond stdlib and the domain layer.
package services

const (
	// DefaultTopLimit is used when the caller supplies no usable limit.
	DefaultTopLimit = 10
	// MaxTopLimit caps how many jokes a single top-list request may return.
	MaxTopLimit = 50
)

// ClampTopLimit normalizes a caller-supplied top-list limit to the closed
// range [1, MaxTopLimit]. Non-positive values (including the zero produced by
// an unparsable query parameter) fall back to DefaultTopLimit; values above
// the cap are silently reduced to MaxTopLimit.
func ClampTopLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultTopLimit
	case n > MaxTopLimit:
		return MaxTopLimit
	default:
		return n
	}
}

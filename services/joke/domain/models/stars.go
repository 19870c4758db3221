package models

import "fmt"

// Stars is a value object for a single rating value.
// Valid range is the closed interval [MinStars, MaxStars].
type Stars int

const (
	MinStars = 1
	MaxStars = 5
)

// NewStars constructs a valid Stars value or returns an error when the value
// is outside [1,5]. Validation happens here, before any store write is
// attempted.
func NewStars(n int) (Stars, error) {
	if n < MinStars || n > MaxStars {
		return 0, fmt.Errorf("got %d, want %d-%d", n, MinStars, MaxStars)
	}
	return Stars(n), nil
}

// Int returns the underlying integer value.
func (s Stars) Int() int {
	return int(s)
}

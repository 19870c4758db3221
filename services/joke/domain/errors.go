package domain

import "errors"

// Sentinel errors for the joke domain. Use errors.Is() to check these.
var (
	// ErrJokeNotFound indicates the referenced joke does not exist.
	ErrJokeNotFound = errors.New("joke not found")

	// ErrNoJokes indicates no jokes have been submitted yet.
	ErrNoJokes = errors.New("no jokes exist yet")

	// ErrInvalidJokeText indicates the joke text violates domain constraints.
	ErrInvalidJokeText = errors.New("invalid joke text")

	// ErrInvalidStars indicates a rating outside the allowed 1-5 range.
	ErrInvalidStars = errors.New("stars must be between 1 and 5")
)

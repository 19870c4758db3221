package models

import (
	"fmt"
	"strings"
)

// JokeText is a value object representing valid joke text.
// Encapsulates validation rules: non-empty after trimming, at most 2000 runes.
type JokeText string

const maxJokeTextLength = 2000

// NewJokeText trims leading and trailing whitespace and constructs a valid
// JokeText, or returns an error if the result is empty or too long.
func NewJokeText(s string) (JokeText, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("joke text must not be empty")
	}
	if len([]rune(trimmed)) > maxJokeTextLength {
		return "", fmt.Errorf("joke text must not exceed %d characters", maxJokeTextLength)
	}
	return JokeText(trimmed), nil
}

// String returns the underlying string value.
func (t JokeText) String() string {
	return string(t)
}

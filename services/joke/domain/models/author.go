package models

import "strings"

// Author is a value object for the submitter's display name.
type Author string

// AnonymousAuthor is substituted when no author name is supplied.
const AnonymousAuthor Author = "Anonymous"

// NewAuthor trims the given name and falls back to AnonymousAuthor when the
// result is empty. Author normalization never fails.
func NewAuthor(s string) Author {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return AnonymousAuthor
	}
	return Author(trimmed)
}

// String returns the underlying string value.
func (a Author) String() string {
	return string(a)
}

// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/jokebox/jokebox/pkg/httpx"
	jokedomain "github.com/jokebox/jokebox/services/joke/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors; the error
// text of a 500 is replaced with a generic message so store internals never
// reach the client.
func WriteError(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	httpx.JSONError(w, status, msg)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, jokedomain.ErrJokeNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, jokedomain.ErrNoJokes):
		return http.StatusNotFound // 404
	case errors.Is(err, jokedomain.ErrInvalidJokeText):
		return http.StatusBadRequest // 400
	case errors.Is(err, jokedomain.ErrInvalidStars):
		return http.StatusBadRequest // 400
	default:
		return http.StatusInternalServerError // 500
	}
}

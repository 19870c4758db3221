package handlers

import (
	"net/http"

	"github.com/jokebox/jokebox/pkg/errhttp"
	"github.com/jokebox/jokebox/pkg/httpx"
	appsvcs "github.com/jokebox/jokebox/services/joke/application/services"
)

// ListJokesHandler handles GET /jokes requests.
type ListJokesHandler struct {
	svc *appsvcs.Services
}

// NewListJokesHandler returns a ListJokesHandler backed by the given services.
func NewListJokesHandler(svc *appsvcs.Services) *ListJokesHandler {
	return &ListJokesHandler{svc: svc}
}

// Execute lists every joke, newest first.
//
//	@Summary		All jokes
//	@Description	Lists all jokes newest first, including unrated ones
//	@Tags			jokes
//	@Produce		json
//	@Success		200	{array}		JokeResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/jokes [get]
func (h *ListJokesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	jokes, err := h.svc.Joke.All(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toJokeResponses(jokes))
}

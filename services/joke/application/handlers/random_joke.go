package handlers

import (
	"net/http"

	"github.com/jokebox/jokebox/pkg/errhttp"
	"github.com/jokebox/jokebox/pkg/httpx"
	appsvcs "github.com/jokebox/jokebox/services/joke/application/services"
)

// RandomJokeHandler handles GET /jokes/random requests.
type RandomJokeHandler struct {
	svc *appsvcs.Services
}

// NewRandomJokeHandler returns a RandomJokeHandler backed by the given services.
func NewRandomJokeHandler(svc *appsvcs.Services) *RandomJokeHandler {
	return &RandomJokeHandler{svc: svc}
}

// Execute returns one uniformly chosen joke.
//
//	@Summary		Random joke
//	@Description	Returns one joke chosen uniformly across all stored jokes
//	@Tags			jokes
//	@Produce		json
//	@Success		200	{object}	JokeResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/jokes/random [get]
func (h *RandomJokeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	joke, err := h.svc.Joke.Random(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toJokeResponse(joke))
}

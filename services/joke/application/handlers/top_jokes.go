package handlers

import (
	"net/http"
	"strconv"

	"github.com/jokebox/jokebox/pkg/errhttp"
	"github.com/jokebox/jokebox/pkg/httpx"
	appsvcs "github.com/jokebox/jokebox/services/joke/application/services"
)

// TopJokesHandler handles GET /jokes/top requests.
type TopJokesHandler struct {
	svc *appsvcs.Services
}

// NewTopJokesHandler returns a TopJokesHandler backed by the given services.
func NewTopJokesHandler(svc *appsvcs.Services) *TopJokesHandler {
	return &TopJokesHandler{svc: svc}
}

// Execute lists the best-rated jokes.
//
//	@Summary		Top jokes
//	@Description	Lists rated jokes by average rating; limit is clamped to 1-50 (default 10)
//	@Tags			jokes
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum entries to return"
//	@Success		200		{array}		JokeResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/jokes/top [get]
func (h *TopJokesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	// An absent or unparsable limit becomes zero, which the domain clamps to
	// its default. This endpoint never rejects a bad limit.
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	jokes, err := h.svc.Joke.Top(r.Context(), limit)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toJokeResponses(jokes))
}

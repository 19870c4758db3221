package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jokebox/jokebox/pkg/errhttp"
	"github.com/jokebox/jokebox/pkg/httpx"
	pkgvalidator "github.com/jokebox/jokebox/pkg/validator"
	appsvcs "github.com/jokebox/jokebox/services/joke/application/services"
	jokedomain "github.com/jokebox/jokebox/services/joke/domain"
)

// RateJokeRequest is the request body for POST /jokes/{jokeID}/rate.
// Stars range validation is owned by the domain layer so the error message is
// consistent with the store's CHECK constraint.
type RateJokeRequest struct {
	Stars int `json:"stars" example:"4"`
}

// RateJokeHandler handles POST /jokes/{jokeID}/rate requests.
type RateJokeHandler struct {
	svc *appsvcs.Services
}

// NewRateJokeHandler returns a RateJokeHandler backed by the given services.
func NewRateJokeHandler(svc *appsvcs.Services) *RateJokeHandler {
	return &RateJokeHandler{svc: svc}
}

// Execute submits a rating and returns the joke with its updated aggregate.
//
//	@Summary		Rate joke
//	@Description	Submits a 1-5 star rating and returns the fresh aggregate
//	@Tags			jokes
//	@Accept			json
//	@Produce		json
//	@Param			jokeID	path		int				true	"Joke ID"
//	@Param			request	body		RateJokeRequest	true	"Rating submission"
//	@Success		200		{object}	JokeResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/jokes/{jokeID}/rate [post]
func (h *RateJokeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	jokeID, err := strconv.ParseInt(chi.URLParam(r, "jokeID"), 10, 64)
	if err != nil {
		// A non-numeric id can never reference an existing joke.
		errhttp.WriteError(w, jokedomain.ErrJokeNotFound)
		return
	}

	req, ok := pkgvalidator.ValidateRequest[RateJokeRequest](w, r)
	if !ok {
		return
	}

	joke, err := h.svc.Joke.Rate(r.Context(), jokeID, req.Stars)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toJokeResponse(joke))
}

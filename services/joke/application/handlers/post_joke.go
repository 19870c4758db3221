package handlers

import (
	"net/http"

	"github.com/jokebox/jokebox/pkg/errhttp"
	"github.com/jokebox/jokebox/pkg/httpx"
	pkgvalidator "github.com/jokebox/jokebox/pkg/validator"
	appsvcs "github.com/jokebox/jokebox/services/joke/application/services"
)

// CreateJokeRequest is the request body for POST /jokes.
// Text is additionally trimmed and re-checked by the domain layer, so a
// whitespace-only value is rejected even though it satisfies the tag.
type CreateJokeRequest struct {
	Text   string `json:"text" validate:"required,max=2000" example:"Why did the chicken cross the road?"`
	Author string `json:"author" validate:"omitempty,max=120" example:"Ann"`
}

// PostJokeHandler handles POST /jokes requests.
type PostJokeHandler struct {
	svc *appsvcs.Services
}

// NewPostJokeHandler returns a PostJokeHandler backed by the given services.
func NewPostJokeHandler(svc *appsvcs.Services) *PostJokeHandler {
	return &PostJokeHandler{svc: svc}
}

// Execute creates a new joke.
//
//	@Summary		Submit joke
//	@Description	Stores a new joke; a missing author is recorded as Anonymous
//	@Tags			jokes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateJokeRequest	true	"Joke submission"
//	@Success		201		{object}	JokeResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/jokes [post]
func (h *PostJokeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateJokeRequest](w, r)
	if !ok {
		return
	}

	joke, err := h.svc.Joke.Create(r.Context(), req.Text, req.Author)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toJokeResponse(joke))
}

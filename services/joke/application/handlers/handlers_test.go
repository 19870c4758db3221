package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jokebox/jokebox/services/joke/application/handlers"
	appsvcs "github.com/jokebox/jokebox/services/joke/application/services"
	"github.com/jokebox/jokebox/services/joke/infrastructure/persistence/memory"
)

// newTestRouter mounts the five joke endpoints over an in-memory repository,
// mirroring the wiring in application/api.
func newTestRouter() *chi.Mux {
	svcs := &appsvcs.Services{Joke: appsvcs.NewJokeService(memory.NewJokeRepository())}

	r := chi.NewRouter()
	r.Route("/api/jokes", func(r chi.Router) {
		r.Get("/", handlers.NewListJokesHandler(svcs).Execute)
		r.Post("/", handlers.NewPostJokeHandler(svcs).Execute)
		r.Get("/random", handlers.NewRandomJokeHandler(svcs).Execute)
		r.Get("/top", handlers.NewTopJokesHandler(svcs).Execute)
		r.Post("/{jokeID}/rate", handlers.NewRateJokeHandler(svcs).Execute)
	})
	return r
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJoke(t *testing.T, w *httptest.ResponseRecorder) handlers.JokeResponse {
	t.Helper()
	var jr handlers.JokeResponse
	if err := json.NewDecoder(w.Body).Decode(&jr); err != nil {
		t.Fatalf("decode joke response: %v (body %q)", err, w.Body.String())
	}
	return jr
}

func decodeJokes(t *testing.T, w *httptest.ResponseRecorder) []handlers.JokeResponse {
	t.Helper()
	var jrs []handlers.JokeResponse
	if err := json.NewDecoder(w.Body).Decode(&jrs); err != nil {
		t.Fatalf("decode joke list: %v (body %q)", err, w.Body.String())
	}
	return jrs
}

func TestPostJoke_Created(t *testing.T) {
	router := newTestRouter()

	w := do(t, router, http.MethodPost, "/api/jokes", `{"text":"Why did the chicken cross the road?","author":"Ann"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	joke := decodeJoke(t, w)
	if joke.ID != 1 {
		t.Errorf("expected id 1, got %d", joke.ID)
	}
	if joke.Author != "Ann" {
		t.Errorf("expected author Ann, got %q", joke.Author)
	}
	if joke.AvgRating != 0 || joke.RatingCount != 0 {
		t.Errorf("new joke aggregate: avg=%v count=%d", joke.AvgRating, joke.RatingCount)
	}
}

func TestPostJoke_MissingAuthorBecomesAnonymous(t *testing.T) {
	router := newTestRouter()

	w := do(t, router, http.MethodPost, "/api/jokes", `{"text":"Why did..."}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if joke := decodeJoke(t, w); joke.Author != "Anonymous" {
		t.Errorf("expected Anonymous, got %q", joke.Author)
	}
}

func TestPostJoke_EmptyTextRejected(t *testing.T) {
	router := newTestRouter()

	for name, body := range map[string]string{
		"missing text":    `{"author":"Ann"}`,
		"empty text":      `{"text":""}`,
		"whitespace text": `{"text":"   "}`,
		"malformed json":  `{"text": `,
	} {
		t.Run(name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/jokes", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}

	// Nothing may have been stored by the rejected submissions.
	w := do(t, router, http.MethodGet, "/api/jokes", "")
	if jokes := decodeJokes(t, w); len(jokes) != 0 {
		t.Fatalf("expected empty store, got %d jokes", len(jokes))
	}
}

func TestRandomJoke_EmptyStoreIs404(t *testing.T) {
	router := newTestRouter()

	w := do(t, router, http.MethodGet, "/api/jokes/random", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRandomJoke_ReturnsOne(t *testing.T) {
	router := newTestRouter()
	do(t, router, http.MethodPost, "/api/jokes", `{"text":"one"}`)
	do(t, router, http.MethodPost, "/api/jokes", `{"text":"two"}`)

	w := do(t, router, http.MethodGet, "/api/jokes/random", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	joke := decodeJoke(t, w)
	if joke.ID != 1 && joke.ID != 2 {
		t.Errorf("unexpected joke id %d", joke.ID)
	}
}

func TestRateJoke_StatusCodes(t *testing.T) {
	router := newTestRouter()
	do(t, router, http.MethodPost, "/api/jokes", `{"text":"a joke"}`)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"valid rating", "/api/jokes/1/rate", `{"stars":4}`, http.StatusOK},
		{"stars too low", "/api/jokes/1/rate", `{"stars":0}`, http.StatusBadRequest},
		{"stars too high", "/api/jokes/1/rate", `{"stars":6}`, http.StatusBadRequest},
		{"missing joke", "/api/jokes/99/rate", `{"stars":4}`, http.StatusNotFound},
		{"non-numeric id", "/api/jokes/abc/rate", `{"stars":4}`, http.StatusNotFound},
		{"malformed body", "/api/jokes/1/rate", `{"stars":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, tt.path, tt.body)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestTopJokes_NeverErrors(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{
		"/api/jokes/top",
		"/api/jokes/top?limit=0",
		"/api/jokes/top?limit=-5",
		"/api/jokes/top?limit=banana",
		"/api/jokes/top?limit=100",
	} {
		w := do(t, router, http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
		if jokes := decodeJokes(t, w); len(jokes) != 0 {
			t.Fatalf("%s: expected empty list, got %d", path, len(jokes))
		}
	}
}

func TestEndToEnd_SubmitRateAndRank(t *testing.T) {
	router := newTestRouter()

	w := do(t, router, http.MethodPost, "/api/jokes", `{"text":"Why did the chicken cross the road?","author":"Ann"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", w.Code)
	}
	created := decodeJoke(t, w)
	if created.ID != 1 || created.AvgRating != 0 || created.RatingCount != 0 {
		t.Fatalf("create: unexpected %+v", created)
	}

	w = do(t, router, http.MethodPost, "/api/jokes/1/rate", `{"stars":4}`)
	if w.Code != http.StatusOK {
		t.Fatalf("first rating: expected 200, got %d", w.Code)
	}
	rated := decodeJoke(t, w)
	if rated.AvgRating != 4 || rated.RatingCount != 1 {
		t.Fatalf("first rating: avg=%v count=%d", rated.AvgRating, rated.RatingCount)
	}

	w = do(t, router, http.MethodPost, "/api/jokes/1/rate", `{"stars":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("second rating: expected 200, got %d", w.Code)
	}
	rated = decodeJoke(t, w)
	if rated.AvgRating != 3 || rated.RatingCount != 2 {
		t.Fatalf("second rating: avg=%v count=%d", rated.AvgRating, rated.RatingCount)
	}

	w = do(t, router, http.MethodGet, "/api/jokes/top?limit=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("top: expected 200, got %d", w.Code)
	}
	top := decodeJokes(t, w)
	if len(top) != 1 || top[0].ID != 1 {
		t.Fatalf("top: expected only joke 1, got %+v", top)
	}
}

func TestAllJokes_NewestFirst(t *testing.T) {
	router := newTestRouter()
	do(t, router, http.MethodPost, "/api/jokes", `{"text":"first"}`)
	do(t, router, http.MethodPost, "/api/jokes", `{"text":"second"}`)
	do(t, router, http.MethodPost, "/api/jokes/1/rate", `{"stars":5}`)

	w := do(t, router, http.MethodGet, "/api/jokes", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	jokes := decodeJokes(t, w)
	if len(jokes) != 2 {
		t.Fatalf("expected 2 jokes, got %d", len(jokes))
	}
	if jokes[0].ID != 2 || jokes[1].ID != 1 {
		t.Fatalf("expected order [2 1], got [%d %d]", jokes[0].ID, jokes[1].ID)
	}
	if jokes[0].AvgRating != 0 {
		t.Errorf("unrated joke must report avg 0, got %v", jokes[0].AvgRating)
	}
}

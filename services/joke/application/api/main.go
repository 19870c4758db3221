package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/jokebox/jokebox/pkg/app"
	"github.com/jokebox/jokebox/services/joke/application/handlers"
	appsvcs "github.com/jokebox/jokebox/services/joke/application/services"
)

// JokeRoutes registers joke endpoints on the provided chi router.
func JokeRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Group(func(r chi.Router) {
		r.Route("/jokes", func(r chi.Router) {
			r.Get("/", handlers.NewListJokesHandler(svcs).Execute)
			r.Post("/", handlers.NewPostJokeHandler(svcs).Execute)
			r.Get("/random", handlers.NewRandomJokeHandler(svcs).Execute)
			r.Get("/top", handlers.NewTopJokesHandler(svcs).Execute)
			r.Post("/{jokeID}/rate", handlers.NewRateJokeHandler(svcs).Execute)
		})
	})
}

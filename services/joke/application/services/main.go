package services

import (
	"github.com/jokebox/jokebox/pkg/app"
	"github.com/jokebox/jokebox/services/joke/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Joke *JokeService
}

// New wires all joke application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewJokeRepository(a.Db, a.EventBus)
	return &Services{
		Joke: NewJokeService(repo),
	}
}

package services

import (
	"context"
	"fmt"

	jokedomain "github.com/jokebox/jokebox/services/joke/domain"
	"github.com/jokebox/jokebox/services/joke/domain/models"
	"github.com/jokebox/jokebox/services/joke/domain/repositories"
	domainsvcs "github.com/jokebox/jokebox/services/joke/domain/services"
)

// JokeService orchestrates the five joke operations over the repository.
// It holds no state between requests; aggregates are recomputed by the store
// on every read, so nothing here can go stale. Event publishing is handled by
// the repository layer (outbox pattern).
type JokeService struct {
	repo repositories.JokeRepository
}

// NewJokeService returns a JokeService wired with the given repository.
func NewJokeService(repo repositories.JokeRepository) *JokeService {
	return &JokeService{repo: repo}
}

// Create validates and persists a new joke. Text must be non-empty after
// trimming; a missing or blank author becomes "Anonymous". The returned view
// carries the zero aggregate a brand-new joke necessarily has.
func (s *JokeService) Create(ctx context.Context, text, author string) (*models.RatedJoke, error) {
	jokeText, err := models.NewJokeText(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", jokedomain.ErrInvalidJokeText, err)
	}

	joke := models.NewJoke(jokeText, models.NewAuthor(author))
	if err := s.repo.Create(ctx, joke); err != nil {
		return nil, fmt.Errorf("create joke: %w", err)
	}

	return models.Unrated(joke), nil
}

// Random returns one joke chosen uniformly across all stored jokes,
// regardless of how they are rated. Returns ErrNoJokes when none exist.
func (s *JokeService) Random(ctx context.Context) (*models.RatedJoke, error) {
	jokes, err := s.repo.List(ctx, repositories.ListQuery{
		Order:  repositories.OrderRandom,
		Filter: repositories.FilterNone,
		Limit:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("pick random joke: %w", err)
	}
	if len(jokes) == 0 {
		return nil, jokedomain.ErrNoJokes
	}
	return jokes[0], nil
}

// Top returns the best-rated jokes: average rating descending, ties broken by
// rating count descending. Jokes with no ratings never appear. The limit is
// clamped to [1,50], defaulting to 10 for non-positive input.
func (s *JokeService) Top(ctx context.Context, limit int) ([]*models.RatedJoke, error) {
	jokes, err := s.repo.List(ctx, repositories.ListQuery{
		Order:  repositories.OrderTopRated,
		Filter: repositories.FilterRatedOnly,
		Limit:  domainsvcs.ClampTopLimit(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list top jokes: %w", err)
	}
	return jokes, nil
}

// All returns every joke, newest first, including unrated ones with a zero
// aggregate.
func (s *JokeService) All(ctx context.Context) ([]*models.RatedJoke, error) {
	jokes, err := s.repo.List(ctx, repositories.ListQuery{
		Order:  repositories.OrderNewestFirst,
		Filter: repositories.FilterNone,
	})
	if err != nil {
		return nil, fmt.Errorf("list jokes: %w", err)
	}
	return jokes, nil
}

// Rate validates and persists a rating, then re-reads the joke so the caller
// sees the aggregate including the rating just added. Validation and the
// existence check both happen before the insert, so a rejected submission
// writes nothing. The store's foreign key remains the authority if the joke
// disappears between the check and the insert.
func (s *JokeService) Rate(ctx context.Context, jokeID int64, stars int) (*models.RatedJoke, error) {
	starsVal, err := models.NewStars(stars)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", jokedomain.ErrInvalidStars, err)
	}

	exists, err := s.repo.Exists(ctx, jokeID)
	if err != nil {
		return nil, fmt.Errorf("check joke: %w", err)
	}
	if !exists {
		return nil, jokedomain.ErrJokeNotFound
	}

	rating := &models.Rating{JokeID: jokeID, Stars: starsVal}
	if err := s.repo.CreateRating(ctx, rating); err != nil {
		return nil, fmt.Errorf("save rating: %w", err)
	}

	rated, err := s.repo.GetByID(ctx, jokeID)
	if err != nil {
		return nil, fmt.Errorf("reload joke: %w", err)
	}
	return rated, nil
}

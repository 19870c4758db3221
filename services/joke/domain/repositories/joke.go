package repositories

import (
	"context"

	"github.com/jokebox/jokebox/services/joke/domain/models"
)

// ListOrder selects the ordering of a joke list query.
type ListOrder int

const (
	// OrderNewestFirst orders by insertion, newest joke first.
	OrderNewestFirst ListOrder = iota
	// OrderTopRated orders by average rating descending, ties broken by
	// rating count descending, then id descending for determinism.
	OrderTopRated
	// OrderRandom shuffles uniformly: every stored joke has equal
	// probability of any position regardless of its ratings.
	OrderRandom
)

// ListFilter restricts which jokes a list query returns.
type ListFilter int

const (
	// FilterNone includes every joke, rated or not.
	FilterNone ListFilter = iota
	// FilterRatedOnly excludes jokes with zero ratings.
	FilterRatedOnly
)

// ListQuery parameterizes a single aggregate-bearing list query.
// Limit <= 0 means no cap.
type ListQuery struct {
	Order  ListOrder
	Filter ListFilter
	Limit  int
}

// JokeRepository is the persistence interface for the Joke aggregate.
// The domain layer owns this interface; infrastructure implements it.
//
// Every read recomputes the rating aggregate from the ratings rows within a
// single query, so a returned RatedJoke is always internally consistent.
type JokeRepository interface {
	// Create persists a new Joke, filling in its store-assigned ID and
	// CreatedAt timestamp.
	Create(ctx context.Context, joke *models.Joke) error

	// GetByID retrieves one joke with its current aggregate.
	// Returns domain.ErrJokeNotFound if no such joke exists.
	GetByID(ctx context.Context, id int64) (*models.RatedJoke, error)

	// Exists reports whether a joke with the given ID exists.
	Exists(ctx context.Context, id int64) (bool, error)

	// CreateRating persists a rating event, filling in its store-assigned ID
	// and CreatedAt. Returns domain.ErrJokeNotFound when the referenced joke
	// is missing (the store's foreign key is authoritative under concurrent
	// deletes) and domain.ErrInvalidStars if the stars check fails.
	CreateRating(ctx context.Context, rating *models.Rating) error

	// List retrieves jokes with aggregates according to q.
	List(ctx context.Context, q ListQuery) ([]*models.RatedJoke, error)
}

// Package memory implements the joke repository in process memory.
// It mirrors the observable semantics of the Postgres implementation —
// aggregates recomputed per read, two-decimal mean, referential rejection of
// orphan ratings — and backs handler tests and local development without a
// database.
package memory

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	jokedomain "github.com/jokebox/jokebox/services/joke/domain"
	"github.com/jokebox/jokebox/services/joke/domain/models"
	"github.com/jokebox/jokebox/services/joke/domain/repositories"
)

// JokeRepository implements repositories.JokeRepository in memory.
// Safe for concurrent use.
type JokeRepository struct {
	mu         sync.RWMutex
	jokes      []*models.Joke
	ratings    []*models.Rating
	nextJoke   int64
	nextRating int64
}

// NewJokeRepository returns an empty in-memory repository.
func NewJokeRepository() *JokeRepository {
	return &JokeRepository{nextJoke: 1, nextRating: 1}
}

// Create assigns the next id and timestamp to joke and stores it.
func (r *JokeRepository) Create(_ context.Context, joke *models.Joke) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	joke.ID = r.nextJoke
	r.nextJoke++
	joke.CreatedAt = time.Now().UTC()
	r.jokes = append(r.jokes, joke)
	return nil
}

// GetByID returns the joke with a freshly computed aggregate.
func (r *JokeRepository) GetByID(_ context.Context, id int64) (*models.RatedJoke, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, j := range r.jokes {
		if j.ID == id {
			return r.aggregate(j), nil
		}
	}
	return nil, jokedomain.ErrJokeNotFound
}

// Exists reports whether a joke with the given ID is stored.
func (r *JokeRepository) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.exists(id), nil
}

// CreateRating stores a rating after re-checking the parent joke under the
// write lock, matching the foreign-key behavior of the Postgres store.
func (r *JokeRepository) CreateRating(_ context.Context, rating *models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.exists(rating.JokeID) {
		return jokedomain.ErrJokeNotFound
	}
	rating.ID = r.nextRating
	r.nextRating++
	rating.CreatedAt = time.Now().UTC()
	r.ratings = append(r.ratings, rating)
	return nil
}

// List returns jokes with aggregates per q.
func (r *JokeRepository) List(_ context.Context, q repositories.ListQuery) ([]*models.RatedJoke, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.RatedJoke, 0, len(r.jokes))
	for _, j := range r.jokes {
		rj := r.aggregate(j)
		if q.Filter == repositories.FilterRatedOnly && rj.RatingCount == 0 {
			continue
		}
		out = append(out, rj)
	}

	switch q.Order {
	case repositories.OrderTopRated:
		sort.Slice(out, func(i, k int) bool {
			if out[i].AvgRating != out[k].AvgRating {
				return out[i].AvgRating > out[k].AvgRating
			}
			if out[i].RatingCount != out[k].RatingCount {
				return out[i].RatingCount > out[k].RatingCount
			}
			return out[i].ID > out[k].ID
		})
	case repositories.OrderRandom:
		rand.Shuffle(len(out), func(i, k int) { out[i], out[k] = out[k], out[i] })
	default:
		sort.Slice(out, func(i, k int) bool { return out[i].ID > out[k].ID })
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *JokeRepository) exists(id int64) bool {
	for _, j := range r.jokes {
		if j.ID == id {
			return true
		}
	}
	return false
}

func (r *JokeRepository) aggregate(j *models.Joke) *models.RatedJoke {
	rj := &models.RatedJoke{Joke: *j}
	var sum int
	for _, rt := range r.ratings {
		if rt.JokeID == j.ID {
			sum += rt.Stars.Int()
			rj.RatingCount++
		}
	}
	if rj.RatingCount > 0 {
		rj.AvgRating = math.Round(float64(sum)/float64(rj.RatingCount)*100) / 100
	}
	return rj
}

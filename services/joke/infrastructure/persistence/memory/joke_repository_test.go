package memory

import (
	"context"
	"errors"
	"testing"

	jokedomain "github.com/jokebox/jokebox/services/joke/domain"
	"github.com/jokebox/jokebox/services/joke/domain/models"
	"github.com/jokebox/jokebox/services/joke/domain/repositories"
)

func mustJoke(t *testing.T, r *JokeRepository, text string) *models.Joke {
	t.Helper()
	j := models.NewJoke(models.JokeText(text), models.AnonymousAuthor)
	if err := r.Create(context.Background(), j); err != nil {
		t.Fatalf("create: %v", err)
	}
	return j
}

func mustRating(t *testing.T, r *JokeRepository, jokeID int64, stars int) {
	t.Helper()
	s, err := models.NewStars(stars)
	if err != nil {
		t.Fatalf("stars: %v", err)
	}
	if err := r.CreateRating(context.Background(), &models.Rating{JokeID: jokeID, Stars: s}); err != nil {
		t.Fatalf("rate: %v", err)
	}
}

func TestCreate_AssignsMonotonicIDs(t *testing.T) {
	r := NewJokeRepository()
	first := mustJoke(t, r, "one")
	second := mustJoke(t, r, "two")

	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1,2 got %d,%d", first.ID, second.ID)
	}
	if first.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestCreateRating_RejectsOrphans(t *testing.T) {
	r := NewJokeRepository()
	s, _ := models.NewStars(3)

	err := r.CreateRating(context.Background(), &models.Rating{JokeID: 7, Stars: s})
	if !errors.Is(err, jokedomain.ErrJokeNotFound) {
		t.Fatalf("expected ErrJokeNotFound, got %v", err)
	}
}

func TestGetByID_RecomputesAggregate(t *testing.T) {
	r := NewJokeRepository()
	j := mustJoke(t, r, "a joke")

	rj, err := r.GetByID(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rj.AvgRating != 0 || rj.RatingCount != 0 {
		t.Fatalf("fresh joke aggregate: avg=%v count=%d", rj.AvgRating, rj.RatingCount)
	}

	mustRating(t, r, j.ID, 5)
	mustRating(t, r, j.ID, 4)

	rj, err = r.GetByID(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rj.AvgRating != 4.5 || rj.RatingCount != 2 {
		t.Fatalf("after ratings: avg=%v count=%d", rj.AvgRating, rj.RatingCount)
	}
}

func TestGetByID_Missing(t *testing.T) {
	r := NewJokeRepository()
	if _, err := r.GetByID(context.Background(), 99); !errors.Is(err, jokedomain.ErrJokeNotFound) {
		t.Fatalf("expected ErrJokeNotFound, got %v", err)
	}
}

func TestList_RatedOnlyFilterAndRanking(t *testing.T) {
	r := NewJokeRepository()
	mustJoke(t, r, "unrated")
	a := mustJoke(t, r, "avg 3")
	b := mustJoke(t, r, "avg 5")
	mustRating(t, r, a.ID, 3)
	mustRating(t, r, b.ID, 5)

	out, err := r.List(context.Background(), repositories.ListQuery{
		Order:  repositories.OrderTopRated,
		Filter: repositories.FilterRatedOnly,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rated jokes, got %d", len(out))
	}
	if out[0].ID != b.ID || out[1].ID != a.ID {
		t.Fatalf("expected order [%d %d], got [%d %d]", b.ID, a.ID, out[0].ID, out[1].ID)
	}
}

// TestList_RandomIsRoughlyUniform submits a fixed set of jokes and samples
// the random view many times; every joke must be drawn a plausible share of
// the time. Bounds are loose on purpose — this guards against systematic bias
// (e.g. rating-weighted selection), not statistical noise.
func TestList_RandomIsRoughlyUniform(t *testing.T) {
	r := NewJokeRepository()
	const jokes = 5
	for i := 0; i < jokes; i++ {
		mustJoke(t, r, "a joke")
	}
	// Skew ratings heavily toward joke 1; selection must not care.
	for i := 0; i < 10; i++ {
		mustRating(t, r, 1, 5)
	}

	const samples = 5000
	counts := make(map[int64]int, jokes)
	for i := 0; i < samples; i++ {
		out, err := r.List(context.Background(), repositories.ListQuery{
			Order: repositories.OrderRandom,
			Limit: 1,
		})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(out) != 1 {
			t.Fatalf("expected exactly one joke, got %d", len(out))
		}
		counts[out[0].ID]++
	}

	expected := samples / jokes
	for id := int64(1); id <= jokes; id++ {
		got := counts[id]
		if got < expected/2 || got > expected*2 {
			t.Errorf("joke %d drawn %d times, expected around %d", id, got, expected)
		}
	}
}

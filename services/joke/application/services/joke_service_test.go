package services_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"
	"time"

	appsvcs "github.com/jokebox/jokebox/services/joke/application/services"
	jokedomain "github.com/jokebox/jokebox/services/joke/domain"
	"github.com/jokebox/jokebox/services/joke/domain/models"
	"github.com/jokebox/jokebox/services/joke/domain/repositories"
)

// fakeRepo implements repositories.JokeRepository in memory with the same
// observable semantics as the Postgres implementation: aggregates recomputed
// on every read, mean rounded to two decimals, FK-style rejection of ratings
// for missing jokes.
type fakeRepo struct {
	jokes      []*models.Joke
	ratings    []*models.Rating
	nextJoke   int64
	nextRating int64
	lastQuery  repositories.ListQuery
	failWith   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextJoke: 1, nextRating: 1}
}

func (f *fakeRepo) Create(_ context.Context, joke *models.Joke) error {
	if f.failWith != nil {
		return f.failWith
	}
	joke.ID = f.nextJoke
	f.nextJoke++
	joke.CreatedAt = time.Now().UTC()
	f.jokes = append(f.jokes, joke)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*models.RatedJoke, error) {
	for _, j := range f.jokes {
		if j.ID == id {
			return f.aggregate(j), nil
		}
	}
	return nil, jokedomain.ErrJokeNotFound
}

func (f *fakeRepo) Exists(_ context.Context, id int64) (bool, error) {
	for _, j := range f.jokes {
		if j.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CreateRating(_ context.Context, rating *models.Rating) error {
	if ok, _ := f.Exists(context.Background(), rating.JokeID); !ok {
		return jokedomain.ErrJokeNotFound
	}
	rating.ID = f.nextRating
	f.nextRating++
	rating.CreatedAt = time.Now().UTC()
	f.ratings = append(f.ratings, rating)
	return nil
}

func (f *fakeRepo) List(_ context.Context, q repositories.ListQuery) ([]*models.RatedJoke, error) {
	f.lastQuery = q

	out := make([]*models.RatedJoke, 0, len(f.jokes))
	for _, j := range f.jokes {
		rj := f.aggregate(j)
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

func (f *fakeRepo) aggregate(j *models.Joke) *models.RatedJoke {
	rj := &models.RatedJoke{Joke: *j}
	var sum int
	for _, r := range f.ratings {
		if r.JokeID == j.ID {
			sum += r.Stars.Int()
			rj.RatingCount++
		}
	}
	if rj.RatingCount > 0 {
		rj.AvgRating = math.Round(float64(sum)/float64(rj.RatingCount)*100) / 100
	}
	return rj
}

func TestCreate_DefaultsAuthorToAnonymous(t *testing.T) {
	svc := appsvcs.NewJokeService(newFakeRepo())

	rj, err := svc.Create(context.Background(), "Why did the chicken cross the road?", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rj.Author != models.AnonymousAuthor {
		t.Errorf("expected Anonymous, got %q", rj.Author)
	}
	if rj.AvgRating != 0 || rj.RatingCount != 0 {
		t.Errorf("new joke must have zero aggregate, got avg=%v count=%d", rj.AvgRating, rj.RatingCount)
	}
	if rj.ID == 0 {
		t.Error("expected store-assigned id")
	}
}

func TestCreate_WhitespaceTextRejectedWithoutWrite(t *testing.T) {
	repo := newFakeRepo()
	svc := appsvcs.NewJokeService(repo)

	_, err := svc.Create(context.Background(), "   \t  ", "Ann")
	if !errors.Is(err, jokedomain.ErrInvalidJokeText) {
		t.Fatalf("expected ErrInvalidJokeText, got %v", err)
	}
	if len(repo.jokes) != 0 {
		t.Fatal("store must not be mutated on validation failure")
	}
}

func TestRate_OutOfRangeRejectedWithoutWrite(t *testing.T) {
	repo := newFakeRepo()
	svc := appsvcs.NewJokeService(repo)
	mustCreate(t, svc, "a joke")

	for _, stars := range []int{0, 6} {
		_, err := svc.Rate(context.Background(), 1, stars)
		if !errors.Is(err, jokedomain.ErrInvalidStars) {
			t.Fatalf("stars=%d: expected ErrInvalidStars, got %v", stars, err)
		}
	}
	if len(repo.ratings) != 0 {
		t.Fatal("no rating rows may be written for out-of-range stars")
	}
}

func TestRate_MissingJokeRejectedWithoutWrite(t *testing.T) {
	repo := newFakeRepo()
	svc := appsvcs.NewJokeService(repo)

	_, err := svc.Rate(context.Background(), 99, 3)
	if !errors.Is(err, jokedomain.ErrJokeNotFound) {
		t.Fatalf("expected ErrJokeNotFound, got %v", err)
	}
	if len(repo.ratings) != 0 {
		t.Fatal("no rating rows may be written for a missing joke")
	}
}

func TestRate_AggregateReflectsNewRatingImmediately(t *testing.T) {
	svc := appsvcs.NewJokeService(newFakeRepo())
	mustCreate(t, svc, "a joke")

	rj, err := svc.Rate(context.Background(), 1, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rj.AvgRating != 4 || rj.RatingCount != 1 {
		t.Fatalf("after one rating: avg=%v count=%d", rj.AvgRating, rj.RatingCount)
	}

	rj, err = svc.Rate(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rj.AvgRating != 3 || rj.RatingCount != 2 {
		t.Fatalf("after two ratings: avg=%v count=%d", rj.AvgRating, rj.RatingCount)
	}
}

func TestRate_FixedPrecisionMean(t *testing.T) {
	svc := appsvcs.NewJokeService(newFakeRepo())
	mustCreate(t, svc, "a joke")

	for _, stars := range []int{5, 5, 4} {
		if _, err := svc.Rate(context.Background(), 1, stars); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	rj, err := svc.Rate(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// mean of 5,5,4,3 is 4.25 exactly at two decimals
	if rj.AvgRating != 4.25 {
		t.Fatalf("expected 4.25, got %v", rj.AvgRating)
	}
	if rj.RatingCount != 4 {
		t.Fatalf("expected count 4, got %d", rj.RatingCount)
	}
}

func TestTop_ExcludesUnratedAndOrders(t *testing.T) {
	repo := newFakeRepo()
	svc := appsvcs.NewJokeService(repo)

	mustCreate(t, svc, "unrated")               // id 1, never rated
	mustCreate(t, svc, "high avg, few votes")   // id 2: avg 5, count 1
	mustCreate(t, svc, "same avg, more votes")  // id 3: avg 4, count 2
	mustCreate(t, svc, "same avg, fewer votes") // id 4: avg 4, count 1

	mustRate(t, svc, 2, 5)
	mustRate(t, svc, 3, 4)
	mustRate(t, svc, 3, 4)
	mustRate(t, svc, 4, 4)

	top, err := svc.Top(context.Background(), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOrder := []int64{2, 3, 4}
	if len(top) != len(wantOrder) {
		t.Fatalf("expected %d entries, got %d", len(wantOrder), len(top))
	}
	for i, want := range wantOrder {
		if top[i].ID != want {
			t.Errorf("position %d: expected joke %d, got %d", i, want, top[i].ID)
		}
		if top[i].RatingCount == 0 {
			t.Errorf("joke %d: unrated jokes must never appear in top", top[i].ID)
		}
	}
}

func TestTop_LimitClamping(t *testing.T) {
	repo := newFakeRepo()
	svc := appsvcs.NewJokeService(repo)

	if _, err := svc.Top(context.Background(), 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastQuery.Limit != 50 {
		t.Errorf("limit=100 should clamp to 50, repo saw %d", repo.lastQuery.Limit)
	}

	if _, err := svc.Top(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastQuery.Limit != 10 {
		t.Errorf("limit=0 should default to 10, repo saw %d", repo.lastQuery.Limit)
	}
}

func TestRandom_EmptyStore(t *testing.T) {
	svc := appsvcs.NewJokeService(newFakeRepo())

	_, err := svc.Random(context.Background())
	if !errors.Is(err, jokedomain.ErrNoJokes) {
		t.Fatalf("expected ErrNoJokes, got %v", err)
	}
}

func TestRandom_SingleJokeRequested(t *testing.T) {
	repo := newFakeRepo()
	svc := appsvcs.NewJokeService(repo)
	mustCreate(t, svc, "one")
	mustCreate(t, svc, "two")

	rj, err := svc.Random(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rj == nil {
		t.Fatal("expected a joke")
	}
	if repo.lastQuery.Order != repositories.OrderRandom || repo.lastQuery.Limit != 1 {
		t.Errorf("expected random order with limit 1, got %+v", repo.lastQuery)
	}
}

func TestAll_NewestFirstIncludesUnrated(t *testing.T) {
	svc := appsvcs.NewJokeService(newFakeRepo())
	mustCreate(t, svc, "first")
	mustCreate(t, svc, "second")
	mustCreate(t, svc, "third")
	mustRate(t, svc, 2, 5)

	all, err := svc.All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 jokes, got %d", len(all))
	}
	for i, want := range []int64{3, 2, 1} {
		if all[i].ID != want {
			t.Errorf("position %d: expected joke %d, got %d", i, want, all[i].ID)
		}
	}
	if all[0].AvgRating != 0 || all[0].RatingCount != 0 {
		t.Error("unrated joke must report a zero aggregate")
	}
}

func mustCreate(t *testing.T, svc *appsvcs.JokeService, text string) {
	t.Helper()
	if _, err := svc.Create(context.Background(), text, "Ann"); err != nil {
		t.Fatalf("create joke %q: %v", text, err)
	}
}

func mustRate(t *testing.T, svc *appsvcs.JokeService, id int64, stars int) {
	t.Helper()
	if _, err := svc.Rate(context.Background(), id, stars); err != nil {
		t.Fatalf("rate joke %d: %v", id, err)
	}
}

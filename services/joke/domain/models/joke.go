package models

import "time"

// Joke is the core aggregate for this bounded context. ID and CreatedAt are
// assigned by the store on insert; neither field is ever updated afterwards.
type Joke struct {
	ID        int64
	Text      JokeText
	Author    Author
	CreatedAt time.Time
}

// NewJoke constructs a valid Joke ready for persistence. The store fills in
// ID and CreatedAt when the row is inserted.
func NewJoke(text JokeText, author Author) *Joke {
	return &Joke{
		Text:   text,
		Author: author,
	}
}

// RatedJoke is the read view of a Joke with its derived rating aggregate.
// AvgRating and RatingCount are recomputed from the ratings table on every
// read, never stored, so they can never go stale.
type RatedJoke struct {
	Joke
	// AvgRating is the mean of all star ratings, rounded to two decimal
	// places. Zero when the joke has no ratings. Always within [0,5].
	AvgRating float64
	// RatingCount is the number of ratings submitted for the joke.
	RatingCount int64
}

// Unrated wraps a freshly created Joke as a RatedJoke with a zero aggregate.
func Unrated(j *Joke) *RatedJoke {
	return &RatedJoke{Joke: *j}
}

// Rating is a single 1-5 star rating event against one Joke.
// Ratings are insert-only; they are removed only by the store's cascade when
// the parent joke is deleted.
type Rating struct {
	ID        int64
	JokeID    int64
	Stars     Stars
	CreatedAt time.Time
}

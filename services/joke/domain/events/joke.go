package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics for the joke bounded context.
const (
	// TopicJokeCreated is published when a new joke is persisted.
	TopicJokeCreated = "joke.created"
	// TopicJokeRated is published when a rating is persisted.
	TopicJokeRated = "joke.rated"
)

// JokeCreatedEvent is published after a new Joke is persisted, within the
// same transaction as the insert.
type JokeCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	JokeID     int64     `json:"joke_id"`
	Author     string    `json:"author"`
	OccurredAt time.Time `json:"occurred_at"`
}

// JokeRatedEvent is published after a rating is persisted, within the same
// transaction as the insert.
type JokeRatedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	JokeID     int64     `json:"joke_id"`
	Stars      int       `json:"stars"`
	OccurredAt time.Time `json:"occurred_at"`
}

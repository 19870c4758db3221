package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jokebox/jokebox/pkg/database"
	"github.com/jokebox/jokebox/pkg/events"
	jokedomain "github.com/jokebox/jokebox/services/joke/domain"
	domainevents "github.com/jokebox/jokebox/services/joke/domain/events"
	"github.com/jokebox/jokebox/services/joke/domain/models"
	"github.com/jokebox/jokebox/services/joke/domain/repositories"
)

// Postgres error codes mapped to domain errors.
const (
	pgFKViolation    = "23503" // rating inserted against a missing/deleted joke
	pgCheckViolation = "23514" // stars outside the table's CHECK range
)

// ratedJokeSelect is the single aggregate-bearing query shape every read view
// is built from. The mean is rounded to two decimal places in SQL before it
// leaves the database, so repeated reads of an unchanged joke are byte-stable,
// and aggregate plus joke row come from one statement, one snapshot.
const ratedJokeSelect = `
SELECT j.id, j.text, j.author, j.created_at,
       COALESCE(ROUND(AVG(r.stars)::numeric, 2), 0)::float8 AS avg_rating,
       COUNT(r.id) AS rating_count
FROM jokes j
LEFT JOIN ratings r ON r.joke_id = j.id`

// JokeRepository implements repositories.JokeRepository against PostgreSQL.
type JokeRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewJokeRepository returns a JokeRepository backed by the given connection
// pools and event bus. The bus is used to publish joke.created and joke.rated
// events in the same transaction as the write; pass nil to disable publishing.
func NewJokeRepository(db *database.Database, bus *events.EventBus) *JokeRepository {
	return &JokeRepository{db: db, bus: bus}
}

// Create persists a new Joke and publishes a JokeCreatedEvent within the same
// transaction. The store assigns ID and CreatedAt, which are written back
// into joke.
func (r *JokeRepository) Create(ctx context.Context, joke *models.Joke) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO jokes (text, author) VALUES ($1, $2) RETURNING id, created_at`,
			joke.Text.String(), joke.Author.String(),
		).Scan(&joke.ID, &joke.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert joke: %w", err)
		}

		if r.bus != nil {
			if err := r.publishCreated(tx, joke); err != nil {
				return fmt.Errorf("publish joke created: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves one joke with its freshly computed aggregate.
// Returns ErrJokeNotFound if no such joke exists.
func (r *JokeRepository) GetByID(ctx context.Context, id int64) (*models.RatedJoke, error) {
	row := r.db.Pool().QueryRow(ctx, ratedJokeSelect+` WHERE j.id = $1 GROUP BY j.id`, id)
	rj, err := scanRatedJoke(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, jokedomain.ErrJokeNotFound
		}
		return nil, fmt.Errorf("query joke: %w", err)
	}
	return rj, nil
}

// Exists reports whether a joke with the given ID exists.
func (r *JokeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.Pool().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM jokes WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check joke exists: %w", err)
	}
	return exists, nil
}

// CreateRating persists a rating event and publishes a JokeRatedEvent within
// the same transaction. Constraint violations are translated to domain
// errors: the foreign key catches a joke deleted between the caller's
// existence check and this insert, the CHECK constraint backstops the stars
// range. Either way nothing is written.
func (r *JokeRepository) CreateRating(ctx context.Context, rating *models.Rating) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO ratings (joke_id, stars) VALUES ($1, $2) RETURNING id, created_at`,
			rating.JokeID, rating.Stars.Int(),
		).Scan(&rating.ID, &rating.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case pgFKViolation:
					return jokedomain.ErrJokeNotFound
				case pgCheckViolation:
					return jokedomain.ErrInvalidStars
				}
			}
			return fmt.Errorf("insert rating: %w", err)
		}

		if r.bus != nil {
			if err := r.publishRated(tx, rating); err != nil {
				return fmt.Errorf("publish joke rated: %w", err)
			}
		}
		return nil
	})
}

// List retrieves jokes with aggregates according to q. Ordering and filtering
// happen in SQL so the result reflects a single snapshot of both tables.
func (r *JokeRepository) List(ctx context.Context, q repositories.ListQuery) ([]*models.RatedJoke, error) {
	query := ratedJokeSelect + ` GROUP BY j.id`

	if q.Filter == repositories.FilterRatedOnly {
		query += ` HAVING COUNT(r.id) > 0`
	}

	switch q.Order {
	case repositories.OrderTopRated:
		query += ` ORDER BY avg_rating DESC, rating_count DESC, j.id DESC`
	case repositories.OrderRandom:
		// Uniform over all rows. Scans the table, which is fine at this
		// service's scale; swap in TABLESAMPLE-based selection if it stops being so.
		query += ` ORDER BY random()`
	default:
		query += ` ORDER BY j.id DESC`
	}

	if q.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, q.Limit)
	}

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query jokes: %w", err)
	}
	defer rows.Close()

	jokes := make([]*models.RatedJoke, 0)
	for rows.Next() {
		rj, err := scanRatedJoke(rows)
		if err != nil {
			return nil, fmt.Errorf("scan joke: %w", err)
		}
		jokes = append(jokes, rj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jokes: %w", err)
	}
	return jokes, nil
}

func (r *JokeRepository) publishCreated(tx *sql.Tx, joke *models.Joke) error {
	event := domainevents.JokeCreatedEvent{
		EventID:    uuid.New(),
		Version:    1,
		JokeID:     joke.ID,
		Author:     joke.Author.String(),
		OccurredAt: joke.CreatedAt,
	}
	return r.publish(tx, domainevents.TopicJokeCreated, event.EventID, event)
}

func (r *JokeRepository) publishRated(tx *sql.Tx, rating *models.Rating) error {
	event := domainevents.JokeRatedEvent{
		EventID:    uuid.New(),
		Version:    1,
		JokeID:     rating.JokeID,
		Stars:      rating.Stars.Int(),
		OccurredAt: rating.CreatedAt,
	}
	return r.publish(tx, domainevents.TopicJokeRated, event.EventID, event)
}

func (r *JokeRepository) publish(tx *sql.Tx, topic string, eventID uuid.UUID, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", eventID.String())
	msg.Metadata.Set("event_version", "1")
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(topic, msg)
}

// scanRatedJoke maps one aggregate row to a domain RatedJoke.
func scanRatedJoke(row pgx.Row) (*models.RatedJoke, error) {
	var (
		rj        models.RatedJoke
		text      string
		author    string
		createdAt time.Time
	)
	if err := row.Scan(&rj.ID, &text, &author, &createdAt, &rj.AvgRating, &rj.RatingCount); err != nil {
		return nil, err
	}
	rj.Text = models.JokeText(text)
	rj.Author = models.Author(author)
	rj.CreatedAt = createdAt
	return &rj, nil
}

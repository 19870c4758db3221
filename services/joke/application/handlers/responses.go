package handlers

import (
	"time"

	"github.com/jokebox/jokebox/services/joke/domain/models"
)

// JokeResponse is the wire representation of a joke with its rating aggregate.
type JokeResponse struct {
	ID          int64     `json:"id"           example:"1"`
	Text        string    `json:"text"         example:"Why did the chicken cross the road?"`
	Author      string    `json:"author"       example:"Anonymous"`
	CreatedAt   time.Time `json:"created_at"   example:"2026-01-15T10:30:00Z"`
	AvgRating   float64   `json:"avg_rating"   example:"4.25"`
	RatingCount int64     `json:"rating_count" example:"4"`
}

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"joke not found"`
}

func toJokeResponse(rj *models.RatedJoke) JokeResponse {
	return JokeResponse{
		ID:          rj.ID,
		Text:        rj.Text.String(),
		Author:      rj.Author.String(),
		CreatedAt:   rj.CreatedAt,
		AvgRating:   rj.AvgRating,
		RatingCount: rj.RatingCount,
	}
}

func toJokeResponses(jokes []*models.RatedJoke) []JokeResponse {
	out := make([]JokeResponse, len(jokes))
	for i, rj := range jokes {
		out[i] = toJokeResponse(rj)
	}
	return out
}

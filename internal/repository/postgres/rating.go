package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/skillswap/internal/models"
)

type RatingStore struct {
	db DBTX
}

func NewRatingStore(db DBTX) *RatingStore {
	return &RatingStore{db: db}
}

// Create relies on UNIQUE (swap_request_id, rater_id). ON CONFLICT DO NOTHING
// keeps the transaction usable when a concurrent call got there first; the
// missing RETURNING row tells us which case we are in.
func (s *RatingStore) Create(ctx context.Context, r *models.Rating) (bool, error) {
	query := `
		INSERT INTO ratings (swap_request_id, rater_id, rated_id, score, feedback, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (swap_request_id, rater_id) DO NOTHING
		RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query, r.SwapRequestID, r.RaterID, r.RatedID, r.Score, r.Feedback).
		Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("insert rating: %w", err)
	}
	return true, nil
}

func (s *RatingStore) Exists(ctx context.Context, swapID int64, raterID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM ratings
			WHERE swap_request_id = $1 AND rater_id = $2
		)`

	var exists bool
	if err := s.db.QueryRow(ctx, query, swapID, raterID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check rating: %w", err)
	}
	return exists, nil
}

func (s *RatingStore) SummaryFor(ctx context.Context, userID uuid.UUID) (models.RatingSummary, error) {
	query := `
		SELECT COALESCE(AVG(score), 0)::float8, COUNT(*)
		FROM ratings
		WHERE rated_id = $1`

	sum := models.RatingSummary{UserID: userID}
	if err := s.db.QueryRow(ctx, query, userID).Scan(&sum.Average, &sum.Count); err != nil {
		return sum, fmt.Errorf("rating summary: %w", err)
	}
	return sum, nil
}

func (s *RatingStore) ListReceived(ctx context.Context, userID uuid.UUID) ([]models.Rating, error) {
	query := `
		SELECT id, swap_request_id, rater_id, rated_id, score, feedback, created_at
		FROM ratings
		WHERE rated_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]models.Rating, 0)
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(
			&r.ID,
			&r.SwapRequestID,
			&r.RaterID,
			&r.RatedID,
			&r.Score,
			&r.Feedback,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, nil
}

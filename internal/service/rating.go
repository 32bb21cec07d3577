package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/apperr"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/repository"
	"go.uber.org/zap"
)

// RatingService is the rating ledger: one rating per (swap, rater).
type RatingService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewRatingService(store repository.Store, logger *zap.Logger) *RatingService {
	return &RatingService{store: store, logger: logger}
}

// Rate records the actor's score of the other party of an accepted swap.
//
// Failure order: out-of-range score, missing swap, actor not allowed to rate
// (not a party, or swap not accepted), then an existing rating, which is
// reported as the soft ErrAlreadyRated.
func (s *RatingService) Rate(ctx context.Context, actorID uuid.UUID, swapID int64, score int, feedback string) (*models.Rating, error) {
	if !validScore(score) {
		return nil, apperr.ErrInvalidScore
	}

	var rating *models.Rating
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		sw, err := tx.Swaps().GetByID(ctx, swapID)
		if err != nil {
			return err
		}
		if sw == nil {
			return apperr.ErrSwapNotFound
		}
		if !canRate(sw, actorID) {
			return apperr.ErrNotRateable
		}

		rated, err := tx.Ratings().Exists(ctx, swapID, actorID)
		if err != nil {
			return err
		}
		if rated {
			return apperr.ErrAlreadyRated
		}

		r := &models.Rating{
			SwapRequestID: swapID,
			RaterID:       actorID,
			RatedID:       counterpart(sw, actorID),
			Score:         score,
			Feedback:      feedback,
		}
		// The unique constraint settles a race between two Rate calls that
		// both passed the Exists check.
		inserted, err := tx.Ratings().Create(ctx, r)
		if err != nil {
			return err
		}
		if !inserted {
			return apperr.ErrAlreadyRated
		}
		rating = r
		return nil
	})
	if err != nil {
		if apperr.IsSoft(err) {
			s.logger.Debug("rating skipped", zap.Int64("swap_id", swapID), zap.String("reason", err.Error()))
		}
		return nil, err
	}

	s.logger.Info("swap rated",
		zap.Int64("swap_id", swapID),
		zap.String("rater_id", actorID.String()),
		zap.String("rated_id", rating.RatedID.String()),
		zap.Int("score", score),
	)
	return rating, nil
}

func (s *RatingService) Summary(ctx context.Context, userID uuid.UUID) (models.RatingSummary, error) {
	var sum models.RatingSummary
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		sum, err = tx.Ratings().SummaryFor(ctx, userID)
		return err
	})
	return sum, err
}

func (s *RatingService) ListReceived(ctx context.Context, userID uuid.UUID) ([]models.Rating, error) {
	var ratings []models.Rating
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		ratings, err = tx.Ratings().ListReceived(ctx, userID)
		return err
	})
	return ratings, err
}

package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/apperr"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/repository"
	"go.uber.org/zap"
)

// Decision is what a provider does with a pending request.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

func (d Decision) status() (models.SwapStatus, bool) {
	switch d {
	case DecisionAccept:
		return models.SwapAccepted, true
	case DecisionReject:
		return models.SwapRejected, true
	}
	return "", false
}

// SwapService is the swap request lifecycle:
//
//	pending -> accepted
//	pending -> rejected
//	pending -> (deleted)
//
// accepted and rejected are terminal. Every mutation locks the request row
// and re-checks ownership inside the same transaction.
type SwapService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewSwapService(store repository.Store, logger *zap.Logger) *SwapService {
	return &SwapService{store: store, logger: logger}
}

// CreateRequest opens a pending request against another user's offered
// skill. The provider is whoever owns the skill right now. Duplicate
// requests for the same skill are allowed.
func (s *SwapService) CreateRequest(ctx context.Context, requesterID uuid.UUID, offeredSkillID int64, wantedSkill, message string) (*models.SwapRequest, error) {
	var created *models.SwapRequest

	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		skill, err := tx.Skills().GetOffered(ctx, offeredSkillID)
		if err != nil {
			return err
		}
		if skill == nil || skill.OwnerID == requesterID {
			return apperr.ErrInvalidTarget
		}

		skillID := skill.ID
		req := &models.SwapRequest{
			RequesterID:     requesterID,
			ProviderID:      skill.OwnerID,
			OfferedSkillID:  &skillID,
			WantedSkillText: strings.TrimSpace(wantedSkill),
			Message:         message,
			Status:          models.SwapPending,
		}
		if err := tx.Swaps().Create(ctx, req); err != nil {
			return err
		}
		created = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("swap request created",
		zap.Int64("swap_id", created.ID),
		zap.String("requester_id", requesterID.String()),
		zap.String("provider_id", created.ProviderID.String()),
	)
	return created, nil
}

// Decide accepts or rejects a request. Anyone other than the provider gets
// ErrSwapNotFound, the same answer as for a request that does not exist.
// A request that already left pending cannot be decided again.
func (s *SwapService) Decide(ctx context.Context, actorID uuid.UUID, requestID int64, action Decision) (*models.SwapRequest, error) {
	status, ok := action.status()
	if !ok {
		return nil, apperr.ErrInvalidAction
	}

	var updated *models.SwapRequest
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		sw, err := tx.Swaps().LockByID(ctx, requestID)
		if err != nil {
			return err
		}
		if sw == nil || !canDecide(sw, actorID) {
			return apperr.ErrSwapNotFound
		}
		if sw.Status.Terminal() {
			return apperr.ErrSwapAlreadyDecided
		}

		updated, err = tx.Swaps().UpdateStatus(ctx, requestID, status)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("swap request decided",
		zap.Int64("swap_id", requestID),
		zap.String("status", string(status)),
	)
	return updated, nil
}

// Delete withdraws a pending request. Only its requester may do that.
func (s *SwapService) Delete(ctx context.Context, actorID uuid.UUID, requestID int64) error {
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		sw, err := tx.Swaps().LockByID(ctx, requestID)
		if err != nil {
			return err
		}
		if sw == nil || !canDeleteSwap(sw, actorID) {
			return apperr.ErrSwapNotDeletable
		}
		return tx.Swaps().Delete(ctx, requestID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("swap request deleted", zap.Int64("swap_id", requestID))
	return nil
}

// Get returns a request to one of its two parties.
func (s *SwapService) Get(ctx context.Context, actorID uuid.UUID, requestID int64) (*models.SwapRequest, error) {
	var sw *models.SwapRequest
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		sw, err = tx.Swaps().GetByID(ctx, requestID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if sw == nil || !isSwapParty(sw, actorID) {
		return nil, apperr.ErrSwapNotFound
	}
	return sw, nil
}

// ListForUser backs the dashboard: requests received (incoming), sent
// (outgoing) or both, optionally narrowed to one status.
func (s *SwapService) ListForUser(ctx context.Context, actorID uuid.UUID, filter repository.SwapFilter) ([]models.SwapRequest, error) {
	switch filter.Direction {
	case repository.SwapIncoming, repository.SwapOutgoing, repository.SwapAll:
	case "":
		filter.Direction = repository.SwapAll
	default:
		return nil, apperr.InvalidArg("direction must be incoming, outgoing or all")
	}
	switch filter.Status {
	case "", models.SwapPending, models.SwapAccepted, models.SwapRejected:
	default:
		return nil, apperr.InvalidArg("unknown swap status")
	}

	var swaps []models.SwapRequest
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		swaps, err = tx.Swaps().ListForUser(ctx, actorID, filter)
		return err
	})
	return swaps, err
}

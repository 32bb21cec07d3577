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

const defaultBroadcastLimit = 20

// ModerationService holds the admin-only operations. Each one re-reads the
// acting user inside its transaction, so an admin banned a moment ago is
// already refused.
type ModerationService struct {
	store     repository.Store
	publisher EventPublisher
	logger    *zap.Logger
}

func NewModerationService(store repository.Store, publisher EventPublisher, logger *zap.Logger) *ModerationService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &ModerationService{store: store, publisher: publisher, logger: logger}
}

func requireAdmin(ctx context.Context, tx repository.Tx, adminID uuid.UUID) error {
	u, err := tx.Users().GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if !isActiveAdmin(u) {
		return apperr.ErrAdminRequired
	}
	return nil
}

// ToggleBan flips a user's ban flag and returns the new value. A ban also
// closes every realtime stream the user has open.
func (s *ModerationService) ToggleBan(ctx context.Context, adminID, userID uuid.UUID) (bool, error) {
	var banned bool
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		if err := requireAdmin(ctx, tx, adminID); err != nil {
			return err
		}
		u, err := tx.Users().LockByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return apperr.ErrUserNotFound
		}
		if u.IsAdmin {
			return apperr.ErrCannotBanAdmin
		}
		banned = !u.IsBanned
		return tx.Users().SetBanned(ctx, userID, banned)
	})
	if err != nil {
		return false, err
	}
	s.logger.Info("user ban toggled",
		zap.String("admin_id", adminID.String()),
		zap.String("user_id", userID.String()),
		zap.Bool("banned", banned),
	)
	if banned {
		s.publisher.PublishRevocation(ctx, models.AccessRevocation{UserID: userID})
	}
	return banned, nil
}

func (s *ModerationService) ApproveSkill(ctx context.Context, adminID uuid.UUID, skillID int64) error {
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		if err := requireAdmin(ctx, tx, adminID); err != nil {
			return err
		}
		found, err := tx.Skills().SetApproved(ctx, skillID, true)
		if err != nil {
			return err
		}
		if !found {
			return apperr.ErrSkillNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("skill approved", zap.Int64("skill_id", skillID), zap.String("admin_id", adminID.String()))
	return nil
}

// RejectSkill deletes the skill. Swap requests that pointed at it keep
// their history with an empty skill reference.
func (s *ModerationService) RejectSkill(ctx context.Context, adminID uuid.UUID, skillID int64) error {
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		if err := requireAdmin(ctx, tx, adminID); err != nil {
			return err
		}
		found, err := tx.Skills().DeleteOffered(ctx, skillID)
		if err != nil {
			return err
		}
		if !found {
			return apperr.ErrSkillNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("skill rejected", zap.Int64("skill_id", skillID), zap.String("admin_id", adminID.String()))
	return nil
}

func (s *ModerationService) ListPendingSkills(ctx context.Context, adminID uuid.UUID) ([]models.OfferedSkill, error) {
	var skills []models.OfferedSkill
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		if err := requireAdmin(ctx, tx, adminID); err != nil {
			return err
		}
		var err error
		skills, err = tx.Skills().ListUnapproved(ctx)
		return err
	})
	return skills, err
}

// ListUsers is the moderation roster: every non-admin account, including
// private and banned ones, with its rating summary.
func (s *ModerationService) ListUsers(ctx context.Context, adminID uuid.UUID) ([]models.UserOverview, error) {
	var users []models.UserOverview
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		if err := requireAdmin(ctx, tx, adminID); err != nil {
			return err
		}
		var err error
		users, err = tx.Users().ListOverview(ctx)
		return err
	})
	return users, err
}

// Broadcast stores a platform-wide message and pushes it to every
// connected client after commit.
func (s *ModerationService) Broadcast(ctx context.Context, adminID uuid.UUID, title, body string) (*models.PlatformMessage, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" {
		return nil, apperr.ErrBroadcastFields
	}

	var msg *models.PlatformMessage
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		if err := requireAdmin(ctx, tx, adminID); err != nil {
			return err
		}
		var err error
		msg, err = tx.Broadcasts().Create(ctx, adminID, title, body)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishBroadcast(ctx, *msg)
	s.logger.Info("platform message sent", zap.Int64("message_id", msg.ID), zap.String("admin_id", adminID.String()))
	return msg, nil
}

// ListBroadcasts is public: latest first.
func (s *ModerationService) ListBroadcasts(ctx context.Context, limit int) ([]models.PlatformMessage, error) {
	if limit <= 0 || limit > maxMessageLimit {
		limit = defaultBroadcastLimit
	}
	var msgs []models.PlatformMessage
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		msgs, err = tx.Broadcasts().List(ctx, limit)
		return err
	})
	return msgs, err
}

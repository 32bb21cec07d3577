package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/apperr"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100
	roomViewMessages    = 50
)

// roomCodeAlphabet leaves out 0/O and 1/I so codes survive being read aloud.
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// EventPublisher pushes committed events to realtime subscribers.
// Implementations must not block for long and never fail the caller.
type EventPublisher interface {
	PublishRoomMessage(ctx context.Context, msg models.RoomMessage)
	PublishBroadcast(ctx context.Context, msg models.PlatformMessage)
	// PublishRevocation disconnects subscribers that lost access.
	PublishRevocation(ctx context.Context, rev models.AccessRevocation)
}

type nopPublisher struct{}

func (nopPublisher) PublishRoomMessage(context.Context, models.RoomMessage)     {}
func (nopPublisher) PublishBroadcast(context.Context, models.PlatformMessage)   {}
func (nopPublisher) PublishRevocation(context.Context, models.AccessRevocation) {}

// RoomConfig tunes room code generation. Zero values fall back to defaults.
type RoomConfig struct {
	CodeLength      int
	MaxCodeAttempts int
	// CodeGenerator replaces the random generator, mostly for tests.
	CodeGenerator func() (string, error)
}

// RoomView is what a permitted viewer sees when opening a room.
type RoomView struct {
	Room     models.Room          `json:"room"`
	Members  []models.RoomMember  `json:"members"`
	Messages []models.RoomMessage `json:"messages"`
	IsMember bool                 `json:"is_member"`
}

// RoomService is the room membership engine. Per (room, user) a membership
// is absent or present; the creator's membership is present for the whole
// life of the room.
type RoomService struct {
	store       repository.Store
	publisher   EventPublisher
	logger      *zap.Logger
	maxAttempts int
	genCode     func() (string, error)
}

func NewRoomService(store repository.Store, publisher EventPublisher, cfg RoomConfig, logger *zap.Logger) *RoomService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = 8
	}
	if cfg.MaxCodeAttempts <= 0 {
		cfg.MaxCodeAttempts = 10
	}
	gen := cfg.CodeGenerator
	if gen == nil {
		length := cfg.CodeLength
		gen = func() (string, error) { return randomRoomCode(length) }
	}
	return &RoomService{
		store:       store,
		publisher:   publisher,
		logger:      logger,
		maxAttempts: cfg.MaxCodeAttempts,
		genCode:     gen,
	}
}

func randomRoomCode(length int) (string, error) {
	base := big.NewInt(int64(len(roomCodeAlphabet)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", fmt.Errorf("generate room code: %w", err)
		}
		b.WriteByte(roomCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// CreateRoom inserts the room and the creator's membership together.
// A code collision re-rolls the code, up to the configured number of
// attempts.
func (s *RoomService) CreateRoom(ctx context.Context, actorID uuid.UUID, name, description string, isPublic bool) (*models.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.ErrRoomNameRequired
	}

	var room *models.Room
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		for attempt := 1; attempt <= s.maxAttempts; attempt++ {
			code, err := s.genCode()
			if err != nil {
				return err
			}
			r := &models.Room{
				Name:        name,
				Description: description,
				CreatorID:   actorID,
				IsPublic:    isPublic,
				Code:        NormalizeRoomCode(code),
			}
			inserted, err := tx.Rooms().Create(ctx, r)
			if err != nil {
				return err
			}
			if !inserted {
				s.logger.Debug("room code collision", zap.Int("attempt", attempt))
				continue
			}
			if _, err := tx.Memberships().Add(ctx, r.ID, actorID); err != nil {
				return err
			}
			room = r
			return nil
		}
		return apperr.ErrRoomCodesExhausted
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("room created",
		zap.String("room_id", room.ID.String()),
		zap.String("creator_id", actorID.String()),
		zap.Bool("public", isPublic),
	)
	return room, nil
}

// JoinPublic joins a room from the public listing. Private rooms look
// missing on this path.
func (s *RoomService) JoinPublic(ctx context.Context, actorID, roomID uuid.UUID) (*models.Room, error) {
	var room *models.Room
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		r, err := tx.Rooms().GetByID(ctx, roomID)
		if err != nil {
			return err
		}
		if r == nil || !canJoinPublic(r) {
			return apperr.ErrRoomNotFound
		}
		room = r
		return s.addMember(ctx, tx, roomID, actorID)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("joined room", zap.String("room_id", roomID.String()), zap.String("user_id", actorID.String()))
	return room, nil
}

// JoinByCode joins any room, public or private, whose code matches.
func (s *RoomService) JoinByCode(ctx context.Context, actorID uuid.UUID, code string) (*models.Room, error) {
	code = NormalizeRoomCode(code)
	if code == "" {
		return nil, apperr.ErrRoomNotFound
	}

	var room *models.Room
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		r, err := tx.Rooms().GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if r == nil {
			return apperr.ErrRoomNotFound
		}
		room = r
		return s.addMember(ctx, tx, r.ID, actorID)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("joined room by code", zap.String("room_id", room.ID.String()), zap.String("user_id", actorID.String()))
	return room, nil
}

// Invite adds another user to a room the actor created.
func (s *RoomService) Invite(ctx context.Context, actorID, roomID uuid.UUID, username string) (*models.User, error) {
	var invitee *models.User
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		r, err := tx.Rooms().GetByID(ctx, roomID)
		if err != nil {
			return err
		}
		if r == nil {
			return apperr.ErrRoomNotFound
		}
		if !isRoomCreator(r, actorID) {
			return apperr.ErrNotRoomCreator
		}

		u, err := tx.Users().GetByUsername(ctx, strings.TrimSpace(username))
		if err != nil {
			return err
		}
		if !canBeInvited(u) {
			return apperr.ErrInviteeNotFound
		}
		invitee = u
		return s.addMember(ctx, tx, roomID, u.ID)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user invited to room",
		zap.String("room_id", roomID.String()),
		zap.String("invitee_id", invitee.ID.String()),
	)
	return invitee, nil
}

func (s *RoomService) addMember(ctx context.Context, tx repository.Tx, roomID, userID uuid.UUID) error {
	added, err := tx.Memberships().Add(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if !added {
		return apperr.ErrAlreadyMember
	}
	return nil
}

// Leave drops the actor's membership. The creator cannot leave. Watchers
// of a private room lose their stream with the membership.
func (s *RoomService) Leave(ctx context.Context, actorID, roomID uuid.UUID) error {
	var private bool
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		r, err := tx.Rooms().LockByID(ctx, roomID)
		if err != nil {
			return err
		}
		if r == nil {
			return apperr.ErrRoomNotFound
		}
		if isRoomCreator(r, actorID) {
			return apperr.ErrCreatorCannotLeave
		}
		removed, err := tx.Memberships().Remove(ctx, roomID, actorID)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.ErrNotMember
		}
		private = !r.IsPublic
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("left room", zap.String("room_id", roomID.String()), zap.String("user_id", actorID.String()))
	if private {
		s.publisher.PublishRevocation(ctx, models.AccessRevocation{RoomID: roomID, UserID: actorID})
	}
	return nil
}

// Delete removes the room with its messages and memberships.
func (s *RoomService) Delete(ctx context.Context, actorID, roomID uuid.UUID) error {
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		r, err := tx.Rooms().LockByID(ctx, roomID)
		if err != nil {
			return err
		}
		if r == nil {
			return apperr.ErrRoomNotFound
		}
		if !isRoomCreator(r, actorID) {
			return apperr.ErrNotRoomCreator
		}
		if err := tx.Messages().DeleteByRoom(ctx, roomID); err != nil {
			return err
		}
		if err := tx.Memberships().DeleteByRoom(ctx, roomID); err != nil {
			return err
		}
		return tx.Rooms().Delete(ctx, roomID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("room deleted", zap.String("room_id", roomID.String()))
	s.publisher.PublishRevocation(ctx, models.AccessRevocation{RoomID: roomID})
	return nil
}

// PostMessage stores a chat message and fans it out after commit.
// Posting to a missing room, or to a room the actor is not in, does nothing
// and returns nil, nil.
func (s *RoomService) PostMessage(ctx context.Context, actorID, roomID uuid.UUID, text string) (*models.RoomMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.ErrMessageEmpty
	}

	var msg *models.RoomMessage
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		member, err := tx.Memberships().IsMember(ctx, roomID, actorID)
		if err != nil {
			return err
		}
		if !member {
			return nil
		}
		msg, err = tx.Messages().Create(ctx, roomID, actorID, text)
		return err
	})
	if err != nil {
		return nil, err
	}
	if msg == nil {
		s.logger.Debug("message dropped, not a member",
			zap.String("room_id", roomID.String()),
			zap.String("user_id", actorID.String()),
		)
		return nil, nil
	}

	s.publisher.PublishRoomMessage(ctx, *msg)
	return msg, nil
}

// ViewRoom returns the room with its members and latest messages.
func (s *RoomService) ViewRoom(ctx context.Context, actorID, roomID uuid.UUID) (*RoomView, error) {
	var view *RoomView
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		r, member, err := s.checkAccess(ctx, tx, actorID, roomID)
		if err != nil {
			return err
		}
		members, err := tx.Memberships().ListMembers(ctx, roomID)
		if err != nil {
			return err
		}
		msgs, err := tx.Messages().ListByRoom(ctx, roomID, 0, roomViewMessages)
		if err != nil {
			return err
		}
		view = &RoomView{Room: *r, Members: members, Messages: msgs, IsMember: member}
		return nil
	})
	return view, err
}

// CheckAccess applies the ViewRoom rule without loading the room contents.
// The websocket endpoint uses it before subscribing a client.
func (s *RoomService) CheckAccess(ctx context.Context, actorID, roomID uuid.UUID) (*models.Room, error) {
	var room *models.Room
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		r, _, err := s.checkAccess(ctx, tx, actorID, roomID)
		room = r
		return err
	})
	return room, err
}

func (s *RoomService) checkAccess(ctx context.Context, tx repository.Tx, actorID, roomID uuid.UUID) (*models.Room, bool, error) {
	r, err := tx.Rooms().GetByID(ctx, roomID)
	if err != nil {
		return nil, false, err
	}
	if r == nil {
		return nil, false, apperr.ErrRoomNotFound
	}
	member, err := tx.Memberships().IsMember(ctx, roomID, actorID)
	if err != nil {
		return nil, false, err
	}
	if !canViewRoom(r, member) {
		return nil, false, apperr.ErrRoomForbidden
	}
	return r, member, nil
}

// ListMessages pages through a room's history, newest first. before is the
// id of the oldest message already seen, 0 for the latest page.
func (s *RoomService) ListMessages(ctx context.Context, actorID, roomID uuid.UUID, before int64, limit int) ([]models.RoomMessage, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}
	if before < 0 {
		return nil, apperr.InvalidArg("before must not be negative")
	}

	var msgs []models.RoomMessage
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		if _, _, err := s.checkAccess(ctx, tx, actorID, roomID); err != nil {
			return err
		}
		var err error
		msgs, err = tx.Messages().ListByRoom(ctx, roomID, before, limit)
		return err
	})
	return msgs, err
}

func (s *RoomService) ListPublic(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		rooms, err = tx.Rooms().ListPublic(ctx)
		return err
	})
	return rooms, err
}

// ListMine returns every room the actor belongs to, created or joined.
func (s *RoomService) ListMine(ctx context.Context, actorID uuid.UUID) ([]models.Room, error) {
	var rooms []models.Room
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		rooms, err = tx.Rooms().ListForMember(ctx, actorID)
		return err
	})
	return rooms, err
}

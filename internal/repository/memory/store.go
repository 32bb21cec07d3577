// Package memory is an in-process implementation of repository.Store.
//
// Transactions are serialised by one mutex. Each WithTx call works on a copy
// of the data and swaps it in only when fn succeeds, so a failed operation
// leaves nothing behind. The same unique and foreign-key rules as the
// Postgres schema are enforced.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/repository"
)

// ErrConstraint mirrors a Postgres foreign-key or check violation.
var ErrConstraint = errors.New("constraint violation")

type memberKey struct {
	roomID uuid.UUID
	userID uuid.UUID
}

type ratingKey struct {
	swapID  int64
	raterID uuid.UUID
}

type state struct {
	users      map[uuid.UUID]models.User
	offered    map[int64]models.OfferedSkill
	wanted     map[int64]models.WantedSkill
	swaps      map[int64]models.SwapRequest
	ratings    map[int64]models.Rating
	rooms      map[uuid.UUID]models.Room
	members    map[memberKey]models.RoomMember
	messages   map[int64]models.RoomMessage
	broadcasts map[int64]models.PlatformMessage

	// bigserial counters, one per table.
	seqOffered, seqWanted, seqSwap, seqRating, seqMessage, seqBroadcast int64
}

func newState() *state {
	return &state{
		users:      make(map[uuid.UUID]models.User),
		offered:    make(map[int64]models.OfferedSkill),
		wanted:     make(map[int64]models.WantedSkill),
		swaps:      make(map[int64]models.SwapRequest),
		ratings:    make(map[int64]models.Rating),
		rooms:      make(map[uuid.UUID]models.Room),
		members:    make(map[memberKey]models.RoomMember),
		messages:   make(map[int64]models.RoomMessage),
		broadcasts: make(map[int64]models.PlatformMessage),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	c := *s
	c.users = cloneMap(s.users)
	c.offered = cloneMap(s.offered)
	c.wanted = cloneMap(s.wanted)
	c.swaps = cloneMap(s.swaps)
	c.ratings = cloneMap(s.ratings)
	c.rooms = cloneMap(s.rooms)
	c.members = cloneMap(s.members)
	c.messages = cloneMap(s.messages)
	c.broadcasts = cloneMap(s.broadcasts)
	return &c
}

// Store implements repository.Store in memory.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock stamps created_at, updated_at and joined_at from now.
// It is only called while the store's lock is held.
func NewWithClock(now func() time.Time) *Store {
	return &Store{st: newState(), now: now}
}

// WithTx must not be called again from inside fn: the mutex is not reentrant.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.st.clone()
	if err := fn(&txScope{st: work, now: s.now}); err != nil {
		return err
	}
	s.st = work
	return nil
}

type txScope struct {
	st  *state
	now func() time.Time
}

func (t *txScope) Users() repository.UserRepository             { return userRepo{t} }
func (t *txScope) Skills() repository.SkillRepository           { return skillRepo{t} }
func (t *txScope) Swaps() repository.SwapRepository             { return swapRepo{t} }
func (t *txScope) Ratings() repository.RatingRepository         { return ratingRepo{t} }
func (t *txScope) Rooms() repository.RoomRepository             { return roomRepo{t} }
func (t *txScope) Memberships() repository.MembershipRepository { return membershipRepo{t} }
func (t *txScope) Messages() repository.MessageRepository       { return messageRepo{t} }
func (t *txScope) Broadcasts() repository.BroadcastRepository   { return broadcastRepo{t} }

var _ repository.Store = (*Store)(nil)

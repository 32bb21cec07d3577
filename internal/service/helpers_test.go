package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/repository"
	"github.com/lalith-99/skillswap/internal/repository/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu          sync.Mutex
	messages    []models.RoomMessage
	broadcasts  []models.PlatformMessage
	revocations []models.AccessRevocation
}

func (p *recordingPublisher) PublishRoomMessage(_ context.Context, msg models.RoomMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *recordingPublisher) PublishBroadcast(_ context.Context, msg models.PlatformMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.broadcasts = append(p.broadcasts, msg)
}

func (p *recordingPublisher) PublishRevocation(_ context.Context, rev models.AccessRevocation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revocations = append(p.revocations, rev)
}

func (p *recordingPublisher) revoked() []models.AccessRevocation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.AccessRevocation(nil), p.revocations...)
}

type testEnv struct {
	store      *memory.Store
	pub        *recordingPublisher
	swaps      *SwapService
	ratings    *RatingService
	rooms      *RoomService
	identity   *IdentityService
	catalog    *CatalogService
	moderation *ModerationService
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithRooms(t, RoomConfig{})
}

func newTestEnvWithRooms(t *testing.T, roomCfg RoomConfig) *testEnv {
	t.Helper()
	store := memory.NewWithClock(steppingClock())
	pub := &recordingPublisher{}
	logger := zap.NewNop()

	identity := NewIdentityService(store, logger)
	identity.hashCost = 4 // bcrypt.MinCost

	return &testEnv{
		store:      store,
		pub:        pub,
		swaps:      NewSwapService(store, logger),
		ratings:    NewRatingService(store, logger),
		rooms:      NewRoomService(store, pub, roomCfg, logger),
		identity:   identity,
		catalog:    NewCatalogService(store, false, logger),
		moderation: NewModerationService(store, pub, logger),
	}
}

// steppingClock returns a clock that moves one second forward on every
// reading, so every stored timestamp is distinct and ordered.
func steppingClock() func() time.Time {
	t := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

// addUser inserts a user row directly, skipping password hashing.
func (e *testEnv) addUser(t *testing.T, username string, mods ...func(*models.User)) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Name:     username,
		IsPublic: true,
	}
	for _, m := range mods {
		m(u)
	}
	err := e.store.WithTx(context.Background(), func(tx repository.Tx) error {
		return tx.Users().Create(context.Background(), u)
	})
	require.NoError(t, err)
	return u
}

func asAdmin(u *models.User)   { u.IsAdmin = true }
func asBanned(u *models.User)  { u.IsBanned = true }
func asPrivate(u *models.User) { u.IsPublic = false }

func (e *testEnv) getUser(t *testing.T, id uuid.UUID) *models.User {
	t.Helper()
	var u *models.User
	err := e.store.WithTx(context.Background(), func(tx repository.Tx) error {
		var err error
		u, err = tx.Users().GetByID(context.Background(), id)
		return err
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) offer(t *testing.T, owner *models.User, name string) *models.OfferedSkill {
	t.Helper()
	sk, err := e.catalog.AddOffered(context.Background(), owner.ID, name, "")
	require.NoError(t, err)
	return sk
}

func (e *testEnv) members(t *testing.T, roomID uuid.UUID) []models.RoomMember {
	t.Helper()
	var ms []models.RoomMember
	err := e.store.WithTx(context.Background(), func(tx repository.Tx) error {
		var err error
		ms, err = tx.Memberships().ListMembers(context.Background(), roomID)
		return err
	})
	require.NoError(t, err)
	return ms
}

func (e *testEnv) messages(t *testing.T, roomID uuid.UUID) []models.RoomMessage {
	t.Helper()
	var msgs []models.RoomMessage
	err := e.store.WithTx(context.Background(), func(tx repository.Tx) error {
		var err error
		msgs, err = tx.Messages().ListByRoom(context.Background(), roomID, 0, 0)
		return err
	})
	require.NoError(t, err)
	return msgs
}

package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSwapGuards(t *testing.T) {
	requester, provider, outsider := uuid.New(), uuid.New(), uuid.New()
	sw := func(status models.SwapStatus) *models.SwapRequest {
		return &models.SwapRequest{RequesterID: requester, ProviderID: provider, Status: status}
	}

	assert.True(t, canDecide(sw(models.SwapPending), provider))
	assert.False(t, canDecide(sw(models.SwapPending), requester))

	assert.True(t, canDeleteSwap(sw(models.SwapPending), requester))
	assert.False(t, canDeleteSwap(sw(models.SwapPending), provider))
	assert.False(t, canDeleteSwap(sw(models.SwapAccepted), requester))
	assert.False(t, canDeleteSwap(sw(models.SwapRejected), requester))

	assert.True(t, canRate(sw(models.SwapAccepted), requester))
	assert.True(t, canRate(sw(models.SwapAccepted), provider))
	assert.False(t, canRate(sw(models.SwapAccepted), outsider))
	assert.False(t, canRate(sw(models.SwapPending), requester))
	assert.False(t, canRate(sw(models.SwapRejected), provider))

	assert.Equal(t, provider, counterpart(sw(models.SwapAccepted), requester))
	assert.Equal(t, requester, counterpart(sw(models.SwapAccepted), provider))
}

func TestValidScore(t *testing.T) {
	for score, want := range map[int]bool{0: false, 1: true, 3: true, 5: true, 6: false, -2: false} {
		assert.Equal(t, want, validScore(score), "score %d", score)
	}
}

func TestRoomGuards(t *testing.T) {
	creator := uuid.New()
	public := &models.Room{CreatorID: creator, IsPublic: true}
	private := &models.Room{CreatorID: creator}

	assert.True(t, isRoomCreator(public, creator))
	assert.False(t, isRoomCreator(public, uuid.New()))

	assert.True(t, canViewRoom(public, false))
	assert.True(t, canViewRoom(private, true))
	assert.False(t, canViewRoom(private, false))

	assert.True(t, canJoinPublic(public))
	assert.False(t, canJoinPublic(private))

	assert.False(t, canBeInvited(nil))
	assert.False(t, canBeInvited(&models.User{IsBanned: true}))
	assert.True(t, canBeInvited(&models.User{}))
}

func TestProfileAndAdminGuards(t *testing.T) {
	self := uuid.New()
	private := &models.User{ID: self}
	banned := &models.User{ID: uuid.New(), IsPublic: true, IsBanned: true}

	assert.True(t, canSeeProfile(private, self, false))
	assert.False(t, canSeeProfile(private, uuid.New(), false))
	assert.True(t, canSeeProfile(private, uuid.New(), true))
	assert.False(t, canSeeProfile(banned, uuid.New(), false))

	assert.True(t, isActiveAdmin(&models.User{IsAdmin: true}))
	assert.False(t, isActiveAdmin(&models.User{IsAdmin: true, IsBanned: true}))
	assert.False(t, isActiveAdmin(&models.User{}))
	assert.False(t, isActiveAdmin(nil))
}

func TestNormalizeRoomCode(t *testing.T) {
	assert.Equal(t, "X7K2PQ9A", NormalizeRoomCode("  x7k2pq9a\n"))
	assert.Equal(t, "", NormalizeRoomCode("   "))
}

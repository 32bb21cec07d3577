package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lalith-99/skillswap/internal/apperr"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleBan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", asAdmin)
	otherAdmin := env.addUser(t, "admin2", asAdmin)
	u := env.addUser(t, "alice")

	banned, err := env.moderation.ToggleBan(ctx, admin.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, banned)
	assert.True(t, env.getUser(t, u.ID).IsBanned)
	assert.Equal(t, []models.AccessRevocation{{UserID: u.ID}}, env.pub.revoked())

	banned, err = env.moderation.ToggleBan(ctx, admin.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, banned)
	assert.Len(t, env.pub.revoked(), 1, "unban revokes nothing")

	_, err = env.moderation.ToggleBan(ctx, admin.ID, otherAdmin.ID)
	assert.ErrorIs(t, err, apperr.ErrCannotBanAdmin)

	_, err = env.moderation.ToggleBan(ctx, admin.ID, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)

	_, err = env.moderation.ToggleBan(ctx, u.ID, admin.ID)
	assert.ErrorIs(t, err, apperr.ErrAdminRequired)
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", asAdmin)
	requester, provider, sw := acceptedSwap(t, env)
	hidden := env.addUser(t, "hidden", asPrivate)
	outcast := env.addUser(t, "outcast", asBanned)

	_, err := env.ratings.Rate(ctx, requester.ID, sw.ID, 4, "")
	require.NoError(t, err)

	users, err := env.moderation.ListUsers(ctx, admin.ID)
	require.NoError(t, err)

	byName := make(map[string]models.UserOverview, len(users))
	for _, u := range users {
		byName[u.User.Username] = u
	}
	assert.Len(t, byName, 4)
	assert.NotContains(t, byName, admin.Username)
	assert.Contains(t, byName, hidden.Username)
	assert.True(t, byName[outcast.Username].User.IsBanned)

	rated := byName[provider.Username].Rating
	assert.Equal(t, provider.ID, rated.UserID)
	assert.Equal(t, 1, rated.Count)
	assert.InDelta(t, 4.0, rated.Average, 0.001)
	assert.Zero(t, byName[requester.Username].Rating.Count)

	_, err = env.moderation.ListUsers(ctx, requester.ID)
	assert.ErrorIs(t, err, apperr.ErrAdminRequired)
	_, err = env.moderation.ListUsers(ctx, env.addUser(t, "fallen", asAdmin, asBanned).ID)
	assert.ErrorIs(t, err, apperr.ErrAdminRequired)
}

func TestModeration_RequiresActiveAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	regular := env.addUser(t, "alice")
	bannedAdmin := env.addUser(t, "fallen", asAdmin, asBanned)
	sk := env.offer(t, regular, "Guitar")

	for name, actorID := range map[string]uuid.UUID{
		"regular user": regular.ID,
		"banned admin": bannedAdmin.ID,
		"unknown user": uuid.New(),
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, env.moderation.ApproveSkill(ctx, actorID, sk.ID), apperr.ErrAdminRequired)
			assert.ErrorIs(t, env.moderation.RejectSkill(ctx, actorID, sk.ID), apperr.ErrAdminRequired)
			_, err := env.moderation.ListPendingSkills(ctx, actorID)
			assert.ErrorIs(t, err, apperr.ErrAdminRequired)
			_, err = env.moderation.Broadcast(ctx, actorID, "t", "b")
			assert.ErrorIs(t, err, apperr.ErrAdminRequired)
			_, err = env.moderation.ToggleBan(ctx, actorID, regular.ID)
			assert.ErrorIs(t, err, apperr.ErrAdminRequired)
		})
	}

	_, err := env.catalog.GetOffered(ctx, sk.ID)
	assert.NoError(t, err, "skill must survive refused moderation")
}

func TestAdminBannedMidSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", asAdmin)
	u := env.addUser(t, "alice")
	sk := env.offer(t, u, "Guitar")

	// Flip the flag directly: admins cannot ban each other.
	err := env.store.WithTx(ctx, func(tx repository.Tx) error {
		return tx.Users().SetBanned(ctx, admin.ID, true)
	})
	require.NoError(t, err)

	assert.ErrorIs(t, env.moderation.ApproveSkill(ctx, admin.ID, sk.ID), apperr.ErrAdminRequired)
}

func TestApproveRejectSkill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", asAdmin)
	a := env.addUser(t, "alice")
	b := env.addUser(t, "bob")
	sk := env.offer(t, a, "Guitar")
	sw, err := env.swaps.CreateRequest(ctx, b.ID, sk.ID, "Piano", "")
	require.NoError(t, err)

	assert.ErrorIs(t, env.moderation.ApproveSkill(ctx, admin.ID, 999), apperr.ErrSkillNotFound)
	assert.ErrorIs(t, env.moderation.RejectSkill(ctx, admin.ID, 999), apperr.ErrSkillNotFound)
	require.NoError(t, env.moderation.ApproveSkill(ctx, admin.ID, sk.ID))

	require.NoError(t, env.moderation.RejectSkill(ctx, admin.ID, sk.ID))
	_, err = env.catalog.GetOffered(ctx, sk.ID)
	assert.ErrorIs(t, err, apperr.ErrSkillNotFound)

	kept, err := env.swaps.Get(ctx, b.ID, sw.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.OfferedSkillID)
	assert.Equal(t, "Piano", kept.WantedSkillText)
}

func TestBroadcast(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", asAdmin)

	_, err := env.moderation.Broadcast(ctx, admin.ID, "", "body")
	assert.ErrorIs(t, err, apperr.ErrBroadcastFields)

	first, err := env.moderation.Broadcast(ctx, admin.ID, "Maintenance", "Down at 2am")
	require.NoError(t, err)
	second, err := env.moderation.Broadcast(ctx, admin.ID, "Back", "All good")
	require.NoError(t, err)

	require.Len(t, env.pub.broadcasts, 2)
	assert.Equal(t, first.ID, env.pub.broadcasts[0].ID)

	list, err := env.moderation.ListBroadcasts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	list, err = env.moderation.ListBroadcasts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

package service

import (
	"context"
	"testing"

	"github.com/lalith-99/skillswap/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBrowse_VisibilityRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	public := env.addUser(t, "public")
	private := env.addUser(t, "private", asPrivate)
	banned := env.addUser(t, "banned", asBanned)

	env.offer(t, public, "Guitar")
	env.offer(t, private, "Guitar lessons")
	env.offer(t, banned, "Guitar repair")

	entries, err := env.catalog.Browse(ctx, "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, public.ID, entries[0].OwnerID)
	assert.Equal(t, "public", entries[0].OwnerName)
}

func TestBrowse_Search(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.addUser(t, "alice")
	env.offer(t, u, "Guitar")
	_, err := env.catalog.AddOffered(ctx, u.ID, "Cooking", "Portuguese GUITAR-free recipes")
	require.NoError(t, err)
	env.offer(t, u, "Chess")

	entries, err := env.catalog.Browse(ctx, "guitar")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = env.catalog.Browse(ctx, "chess")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Chess", entries[0].Name)

	env.offer(t, u, "100% Python")
	env.offer(t, u, "1000 words")
	entries, err = env.catalog.Browse(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, entries, 1, "wildcards match literally")
	assert.Equal(t, "100% Python", entries[0].Name)
}

func TestAddOffered_ApprovalRequired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	catalog := NewCatalogService(env.store, true, zap.NewNop())
	u := env.addUser(t, "alice")
	admin := env.addUser(t, "admin", asAdmin)

	sk, err := catalog.AddOffered(ctx, u.ID, "Guitar", "")
	require.NoError(t, err)
	assert.False(t, sk.IsApproved)

	entries, err := catalog.Browse(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, entries)

	pending, err := env.moderation.ListPendingSkills(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, env.moderation.ApproveSkill(ctx, admin.ID, sk.ID))
	entries, err = catalog.Browse(ctx, "")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCatalog_OwnListings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.addUser(t, "alice", asPrivate)

	_, err := env.catalog.AddOffered(ctx, u.ID, "", "no name")
	assert.ErrorIs(t, err, apperr.ErrSkillNameRequired)
	_, err = env.catalog.AddWanted(ctx, u.ID, " ", "")
	assert.ErrorIs(t, err, apperr.ErrSkillNameRequired)

	offered := env.offer(t, u, "Guitar")
	_, err = env.catalog.AddWanted(ctx, u.ID, "Piano", "beginner")
	require.NoError(t, err)

	mine, err := env.catalog.ListMine(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, mine.Offered, 1)
	require.Len(t, mine.Wanted, 1)
	assert.Equal(t, "Piano", mine.Wanted[0].Name)

	got, err := env.catalog.GetOffered(ctx, offered.ID)
	require.NoError(t, err)
	assert.Equal(t, "Guitar", got.Name)

	_, err = env.catalog.GetOffered(ctx, 12345)
	assert.ErrorIs(t, err, apperr.ErrSkillNotFound)
}

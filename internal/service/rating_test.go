package service

import (
	"context"
	"testing"

	"github.com/lalith-99/skillswap/internal/apperr"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acceptedSwap(t *testing.T, env *testEnv) (requester, provider *models.User, sw *models.SwapRequest) {
	t.Helper()
	ctx := context.Background()
	provider = env.addUser(t, "provider")
	requester = env.addUser(t, "requester")
	sk := env.offer(t, provider, "Guitar")
	sw, err := env.swaps.CreateRequest(ctx, requester.ID, sk.ID, "Piano", "")
	require.NoError(t, err)
	sw, err = env.swaps.Decide(ctx, provider.ID, sw.ID, DecisionAccept)
	require.NoError(t, err)
	return requester, provider, sw
}

func TestRate_BothDirections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, sw := acceptedSwap(t, env)

	byA, err := env.ratings.Rate(ctx, a.ID, sw.ID, 4, "")
	require.NoError(t, err)
	assert.Equal(t, b.ID, byA.RatedID)

	byB, err := env.ratings.Rate(ctx, b.ID, sw.ID, 2, "late")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byB.RatedID)

	sumA, err := env.ratings.Summary(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sumA.Count)
	assert.InDelta(t, 2.0, sumA.Average, 0.001)
}

func TestRate_ScoreRange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, _, sw := acceptedSwap(t, env)

	for _, score := range []int{0, -1, 6, 100} {
		_, err := env.ratings.Rate(ctx, a.ID, sw.ID, score, "")
		assert.ErrorIs(t, err, apperr.ErrInvalidScore, "score %d", score)
	}
	for _, score := range []int{1, 5} {
		fresh := newTestEnv(t)
		ra, _, fsw := acceptedSwap(t, fresh)
		_, err := fresh.ratings.Rate(ctx, ra.ID, fsw.ID, score, "")
		assert.NoError(t, err, "score %d", score)
	}
}

func TestRate_Preconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("missing swap", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.addUser(t, "alice")
		_, err := env.ratings.Rate(ctx, a.ID, 99, 5, "")
		assert.ErrorIs(t, err, apperr.ErrSwapNotFound)
	})

	t.Run("outsider", func(t *testing.T) {
		env := newTestEnv(t)
		_, _, sw := acceptedSwap(t, env)
		outsider := env.addUser(t, "outsider")
		_, err := env.ratings.Rate(ctx, outsider.ID, sw.ID, 5, "")
		assert.ErrorIs(t, err, apperr.ErrNotRateable)
	})

	for _, tc := range []struct {
		name     string
		decision Decision
	}{
		{"pending", ""},
		{"rejected", DecisionReject},
	} {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			p := env.addUser(t, "p")
			r := env.addUser(t, "r")
			sk := env.offer(t, p, "Guitar")
			sw, err := env.swaps.CreateRequest(ctx, r.ID, sk.ID, "", "")
			require.NoError(t, err)
			if tc.decision != "" {
				_, err = env.swaps.Decide(ctx, p.ID, sw.ID, tc.decision)
				require.NoError(t, err)
			}
			_, err = env.ratings.Rate(ctx, r.ID, sw.ID, 5, "")
			assert.ErrorIs(t, err, apperr.ErrNotRateable)
		})
	}
}

func TestRate_AtMostOncePerRater(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, sw := acceptedSwap(t, env)

	_, err := env.ratings.Rate(ctx, a.ID, sw.ID, 5, "")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = env.ratings.Rate(ctx, a.ID, sw.ID, 3, "")
		assert.ErrorIs(t, err, apperr.ErrAlreadyRated)
	}

	received, err := env.ratings.ListReceived(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, received, 1)
	assert.Equal(t, 5, received[0].Score)
}

func TestRate_SkillRemovedAfterAccept(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "admin", asAdmin)
	a, _, sw := acceptedSwap(t, env)

	require.NoError(t, env.moderation.RejectSkill(ctx, admin.ID, *sw.OfferedSkillID))

	got, err := env.swaps.Get(ctx, a.ID, sw.ID)
	require.NoError(t, err)
	assert.Nil(t, got.OfferedSkillID)

	_, err = env.ratings.Rate(ctx, a.ID, sw.ID, 5, "")
	assert.NoError(t, err)
}

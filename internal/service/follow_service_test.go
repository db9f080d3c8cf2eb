package service

import (
	"context"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowService(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	t.Run("FollowNotifiesTarget", func(t *testing.T) {
		err := env.follows.Follow(ctx, alice.ID, bob.ID)
		require.NoError(t, err)

		following, err := env.follows.IsFollowing(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, following)

		assert.Equal(t, int64(1), env.countNotifications(t, bob.ID, models.VerbFollowed))
	})

	t.Run("SelfFollowIsValidationError", func(t *testing.T) {
		err := env.follows.Follow(ctx, alice.ID, alice.ID)
		require.Error(t, err)

		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})

	t.Run("RefollowIsConflict", func(t *testing.T) {
		err := env.follows.Follow(ctx, alice.ID, bob.ID)
		require.Error(t, err)

		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "CONFLICT", appErr.Code)

		// The failed attempt must not have produced a second notification.
		assert.Equal(t, int64(1), env.countNotifications(t, bob.ID, models.VerbFollowed))
	})

	t.Run("FollowMissingUserIsNotFound", func(t *testing.T) {
		err := env.follows.Follow(ctx, alice.ID, 99999)
		require.Error(t, err)

		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("UnfollowRemovesEdgeSilently", func(t *testing.T) {
		require.NoError(t, env.follows.Unfollow(ctx, alice.ID, bob.ID))

		following, _ := env.follows.IsFollowing(ctx, alice.ID, bob.ID)
		assert.False(t, following)

		// Unfollow emits no notification; bob keeps only the original one.
		assert.Equal(t, int64(1), env.countNotifications(t, bob.ID, models.VerbFollowed))
	})

	t.Run("UnfollowAbsentEdgeIsNotFound", func(t *testing.T) {
		err := env.follows.Unfollow(ctx, alice.ID, bob.ID)
		require.Error(t, err)

		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}

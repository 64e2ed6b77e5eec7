package actions_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/lumina/backend/internal/actions"
	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/repositories"
	"github.com/anonto42/lumina/backend/internal/services"
	"github.com/anonto42/lumina/backend/internal/testutil"
)

func newActions(t *testing.T) (*actions.Actions, *repositories.Store) {
	t.Helper()
	db := testutil.NewTestDB(t)
	store := repositories.NewStore(db)
	return actions.New(
		services.NewEngagementService(store, nil, nil),
		services.NewGraphService(store, nil, nil),
	), store
}

func TestToggleLikeRoundTrip(t *testing.T) {
	a, store := newActions(t)
	db := store.DB()
	alice := testutil.SeedUser(t, db, "alice")
	post := testutil.SeedPost(t, db, alice.ID, testutil.BaseTime)
	actor := &models.Identity{ID: alice.ID}
	ctx := context.Background()

	res := a.ToggleLike(ctx, actor, models.LikeablePost, post.ID)
	require.True(t, res.Success, res.Error)
	assert.True(t, res.Liked)

	res = a.ToggleLike(ctx, actor, models.LikeablePost, post.ID)
	require.True(t, res.Success, res.Error)
	assert.False(t, res.Liked)

	var n int64
	require.NoError(t, db.Model(&models.Like{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestFailuresBecomeResults(t *testing.T) {
	a, store := newActions(t)
	db := store.DB()
	alice := testutil.SeedUser(t, db, "alice")
	bob := testutil.SeedUser(t, db, "bob")
	ctx := context.Background()

	res := a.ToggleLike(ctx, nil, models.LikeablePost, "x")
	assert.False(t, res.Success)
	assert.Equal(t, models.KindUnauthenticated, res.Kind)
	assert.Equal(t, "not authenticated", res.Error)

	r := a.FollowUser(ctx, &models.Identity{ID: alice.ID}, alice.ID)
	assert.Equal(t, actions.Result{Error: "cannot follow yourself", Kind: models.KindSelfFollow}, r)

	require.True(t, a.FollowUser(ctx, &models.Identity{ID: alice.ID}, bob.ID).Success)
	r = a.FollowUser(ctx, &models.Identity{ID: alice.ID}, bob.ID)
	assert.Equal(t, models.KindAlreadyFollowing, r.Kind)
	assert.Equal(t, "already following this user", r.Error)

	assert.True(t, a.UnfollowUser(ctx, &models.Identity{ID: alice.ID}, bob.ID).Success)
	assert.True(t, a.UnfollowUser(ctx, &models.Identity{ID: alice.ID}, bob.ID).Success)

	c := a.AddComment(ctx, &models.Identity{ID: alice.ID}, models.ContentPost, "missing", "hi", nil)
	assert.False(t, c.Success)
	assert.Equal(t, models.KindNotFound, c.Kind)

	d := a.DeleteComment(ctx, &models.Identity{ID: alice.ID}, "missing")
	assert.Equal(t, models.KindNotFound, d.Kind)
}

func TestCommentFlow(t *testing.T) {
	a, store := newActions(t)
	db := store.DB()
	alice := testutil.SeedUser(t, db, "alice")
	bob := testutil.SeedUser(t, db, "bob")
	post := testutil.SeedPost(t, db, alice.ID, testutil.BaseTime)
	ctx := context.Background()

	c := a.AddComment(ctx, &models.Identity{ID: bob.ID}, models.ContentPost, post.ID, "nice", nil)
	require.True(t, c.Success, c.Error)
	require.NotEmpty(t, c.CommentID)

	r := a.DeleteComment(ctx, &models.Identity{ID: alice.ID}, c.CommentID)
	assert.Equal(t, models.KindForbidden, r.Kind)

	assert.True(t, a.DeleteComment(ctx, &models.Identity{ID: bob.ID}, c.CommentID).Success)
}

func TestStoreErrorMessagePassesThrough(t *testing.T) {
	err := &models.StoreError{Op: "x", Err: errors.New("connection reset by peer")}
	r := actions.From(context.Background(), "op", err)
	assert.Equal(t, "connection reset by peer", r.Error)
	assert.Equal(t, models.KindStore, r.Kind)
}

package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/lumina/backend/internal/cache"
	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/services"
	"github.com/anonto42/lumina/backend/internal/testutil"
)

func TestFollowUser(t *testing.T) {
	e := newEnv(t)
	svc := services.NewGraphService(e.store, e.pages, e.notifier)
	ctx := context.Background()
	alice := testutil.SeedUser(t, e.db, "alice")
	bob := testutil.SeedUser(t, e.db, "bob")

	require.NoError(t, svc.FollowUser(ctx, as(alice), bob.ID))

	assert.Equal(t, int64(1), testutil.ReloadUser(t, e.db, alice.ID).FollowingCount)
	assert.Equal(t, int64(1), testutil.ReloadUser(t, e.db, bob.ID).FollowerCount)
	following, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	notes := notificationsFor(t, e.db, bob.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, "alice started following you", notes[0].Message)

	// Not idempotent.
	assert.ErrorIs(t, svc.FollowUser(ctx, as(alice), bob.ID), models.ErrAlreadyFollowing)
	assert.Equal(t, int64(1), testutil.ReloadUser(t, e.db, bob.ID).FollowerCount)
}

func TestFollowUser_Errors(t *testing.T) {
	e := newEnv(t)
	svc := services.NewGraphService(e.store, e.pages, e.notifier)
	ctx := context.Background()
	alice := testutil.SeedUser(t, e.db, "alice")

	err := svc.FollowUser(ctx, as(alice), alice.ID)
	require.ErrorIs(t, err, models.ErrSelfFollow)
	assert.Equal(t, "cannot follow yourself", err.Error())

	assert.ErrorIs(t, svc.FollowUser(ctx, as(alice), "ghost"), models.ErrNotFound)
	assert.ErrorIs(t, svc.FollowUser(ctx, nil, alice.ID), models.ErrUnauthenticated)
	assert.Equal(t, int64(0), testutil.ReloadUser(t, e.db, alice.ID).FollowingCount)
}

func TestUnfollowUser_IdempotentCounters(t *testing.T) {
	e := newEnv(t)
	svc := services.NewGraphService(e.store, e.pages, e.notifier)
	ctx := context.Background()
	alice := testutil.SeedUser(t, e.db, "alice")
	bob := testutil.SeedUser(t, e.db, "bob")

	require.NoError(t, svc.FollowUser(ctx, as(alice), bob.ID))
	require.NoError(t, svc.UnfollowUser(ctx, as(alice), bob.ID))
	require.NoError(t, svc.UnfollowUser(ctx, as(alice), bob.ID))

	assert.Equal(t, int64(0), testutil.ReloadUser(t, e.db, alice.ID).FollowingCount)
	assert.Equal(t, int64(0), testutil.ReloadUser(t, e.db, bob.ID).FollowerCount)

	// Unfollowing someone never followed is not an error either.
	require.NoError(t, svc.UnfollowUser(ctx, as(bob), alice.ID))
	assert.Equal(t, int64(0), testutil.ReloadUser(t, e.db, alice.ID).FollowerCount)
}

func TestFollowUser_InvalidatesBothProfiles(t *testing.T) {
	e := newEnv(t)
	svc := services.NewGraphService(e.store, e.pages, e.notifier)
	ctx := context.Background()
	alice := testutil.SeedUser(t, e.db, "alice")
	bob := testutil.SeedUser(t, e.db, "bob")

	cacheProfiles := func() {
		require.NoError(t, e.redis.Set(cache.ProfileKey("alice"), "{}"))
		require.NoError(t, e.redis.Set(cache.ProfileKey("bob"), "{}"))
	}

	cacheProfiles()
	require.NoError(t, svc.FollowUser(ctx, as(alice), bob.ID))
	assert.False(t, e.redis.Exists(cache.ProfileKey("bob")), "follower_count changed")
	assert.False(t, e.redis.Exists(cache.ProfileKey("alice")), "following_count changed")

	cacheProfiles()
	require.NoError(t, svc.UnfollowUser(ctx, as(alice), bob.ID))
	assert.False(t, e.redis.Exists(cache.ProfileKey("bob")))
	assert.False(t, e.redis.Exists(cache.ProfileKey("alice")))

	cacheProfiles()
	require.NoError(t, svc.UnfollowUser(ctx, as(alice), bob.ID))
	assert.True(t, e.redis.Exists(cache.ProfileKey("alice")), "no edge removed")
}

func TestFollowUser_Milestone(t *testing.T) {
	e := newEnv(t)
	svc := services.NewGraphService(e.store, e.pages, e.notifier)
	ctx := context.Background()
	star := testutil.SeedUser(t, e.db, "star")

	for i := 0; i < 10; i++ {
		fan := testutil.SeedUser(t, e.db, fmt.Sprintf("fan%02d", i))
		require.NoError(t, svc.FollowUser(ctx, as(fan), star.ID))
	}

	var milestones []models.Notification
	require.NoError(t, e.db.Where("user_id = ? AND type = ?", star.ID, models.NotificationMilestone).Find(&milestones).Error)
	require.Len(t, milestones, 1)
	assert.Equal(t, "You reached 10 followers", milestones[0].Message)
}

func TestListFollowers(t *testing.T) {
	e := newEnv(t)
	svc := services.NewGraphService(e.store, e.pages, e.notifier)
	ctx := context.Background()
	star := testutil.SeedUser(t, e.db, "star")
	zed := testutil.SeedUser(t, e.db, "zed")
	amy := testutil.SeedUser(t, e.db, "amy")
	require.NoError(t, svc.FollowUser(ctx, as(zed), star.ID))
	require.NoError(t, svc.FollowUser(ctx, as(amy), star.ID))

	followers, err := svc.ListFollowers(ctx, star.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, "amy", followers[0].Username)

	following, err := svc.ListFollowing(ctx, zed.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, star.ID, following[0].ID)
}

func TestFollowUser_MilestoneUsesStoredCount(t *testing.T) {
	e := newEnv(t)
	svc := services.NewGraphService(e.store, e.pages, e.notifier)
	ctx := context.Background()
	star := testutil.SeedUser(t, e.db, "star")
	fan := testutil.SeedUser(t, e.db, "fan")
	require.NoError(t, e.db.Model(&models.User{}).Where("id = ?", star.ID).Update("follower_count", 9).Error)

	require.NoError(t, svc.FollowUser(ctx, as(fan), star.ID))

	var milestones []models.Notification
	require.NoError(t, e.db.Where("user_id = ? AND type = ?", star.ID, models.NotificationMilestone).Find(&milestones).Error)
	require.Len(t, milestones, 1)
	assert.Equal(t, "You reached 10 followers", milestones[0].Message)
}

func TestFollowPostFeedUnfollow(t *testing.T) {
	e := newEnv(t)
	graph := services.NewGraphService(e.store, e.pages, e.notifier)
	content := services.NewContentService(e.store, e.pages)
	feed := services.NewFeedService(e.store, e.pages)
	ctx := context.Background()
	alice := testutil.SeedUser(t, e.db, "alice")
	bob := testutil.SeedUser(t, e.db, "bob")

	page, err := feed.GetFeed(ctx, as(alice), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	require.NoError(t, graph.FollowUser(ctx, as(alice), bob.ID))
	post, err := content.CreatePost(ctx, as(bob), &models.CreatePostRequest{ImageURL: "https://cdn.example.com/p.jpg"})
	require.NoError(t, err)

	page, err = feed.GetFeed(ctx, as(alice), 10, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, post.ID, page.Items[0].ContentID)
	assert.Equal(t, "bob", page.Items[0].Author.Username)

	require.NoError(t, graph.UnfollowUser(ctx, as(alice), bob.ID))
	assert.Equal(t, int64(0), testutil.ReloadUser(t, e.db, alice.ID).FollowingCount)
	assert.Equal(t, int64(0), testutil.ReloadUser(t, e.db, bob.ID).FollowerCount)

	page, err = feed.GetFeed(ctx, as(alice), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

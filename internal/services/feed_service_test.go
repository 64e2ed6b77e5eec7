package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/services"
	"github.com/anonto42/lumina/backend/internal/testutil"
)

func TestGetFeed(t *testing.T) {
	e := newEnv(t)
	feed := services.NewFeedService(e.store, e.pages)
	engagement := services.NewEngagementService(e.store, e.pages, e.notifier)
	ctx := context.Background()

	viewer := testutil.SeedUser(t, e.db, "viewer")
	followed := testutil.SeedUser(t, e.db, "followed")
	stranger := testutil.SeedUser(t, e.db, "stranger")
	testutil.SeedFollow(t, e.db, viewer.ID, followed.ID)

	p1 := testutil.SeedPost(t, e.db, followed.ID, testutil.BaseTime)
	v1 := testutil.SeedVideo(t, e.db, followed.ID, models.VisibilityPublic, models.StatusReady, testutil.BaseTime.Add(time.Minute))
	testutil.SeedVideo(t, e.db, followed.ID, models.VisibilityPrivate, models.StatusReady, testutil.BaseTime.Add(2*time.Minute))
	testutil.SeedVideo(t, e.db, followed.ID, models.VisibilityPublic, models.StatusProcessing, testutil.BaseTime.Add(3*time.Minute))
	testutil.SeedPost(t, e.db, stranger.ID, testutil.BaseTime.Add(4*time.Minute))
	own := testutil.SeedPost(t, e.db, viewer.ID, testutil.BaseTime.Add(5*time.Minute))

	_, err := engagement.ToggleLike(ctx, as(viewer), models.LikeablePost, p1.ID)
	require.NoError(t, err)

	page, err := feed.GetFeed(ctx, as(viewer), 10, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.False(t, page.HasMore)

	assert.Equal(t, own.ID, page.Items[0].ContentID)
	assert.Equal(t, v1.ID, page.Items[1].ContentID)
	assert.Equal(t, models.ContentVideo, page.Items[1].ContentType)
	assert.Equal(t, p1.ID, page.Items[2].ContentID)
	assert.True(t, page.Items[2].IsLiked)
	assert.False(t, page.Items[1].IsLiked)
	assert.Equal(t, "followed", page.Items[2].Author.Username)
}

func TestGetFeed_PagingAndCache(t *testing.T) {
	e := newEnv(t)
	feed := services.NewFeedService(e.store, e.pages)
	ctx := context.Background()
	viewer := testutil.SeedUser(t, e.db, "viewer")
	for i := 0; i < 3; i++ {
		testutil.SeedPost(t, e.db, viewer.ID, testutil.BaseTime.Add(time.Duration(i)*time.Minute))
	}

	first, err := feed.GetFeed(ctx, as(viewer), 2, 0)
	require.NoError(t, err)
	assert.Len(t, first.Items, 2)
	assert.True(t, first.HasMore)

	second, err := feed.GetFeed(ctx, as(viewer), 2, 2)
	require.NoError(t, err)
	assert.Len(t, second.Items, 1)
	assert.False(t, second.HasMore)

	// A post inserted behind the service's back stays hidden until the
	// generation moves.
	testutil.SeedPost(t, e.db, viewer.ID, testutil.BaseTime.Add(time.Hour))
	cached, err := feed.GetFeed(ctx, as(viewer), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, first.Items[0].ContentID, cached.Items[0].ContentID)

	e.pages.InvalidateFeeds(ctx)
	fresh, err := feed.GetFeed(ctx, as(viewer), 2, 0)
	require.NoError(t, err)
	assert.NotEqual(t, first.Items[0].ContentID, fresh.Items[0].ContentID)
}

func TestGetFeed_EmptyAndBounds(t *testing.T) {
	e := newEnv(t)
	feed := services.NewFeedService(e.store, nil)
	ctx := context.Background()
	viewer := testutil.SeedUser(t, e.db, "viewer")

	page, err := feed.GetFeed(ctx, as(viewer), 500, -3)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, services.MaxPageSize, page.Limit)
	assert.Equal(t, 0, page.Offset)

	_, err = feed.GetFeed(ctx, nil, 10, 0)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/repositories"
	"github.com/anonto42/lumina/backend/internal/testutil"
)

func at(minutes int) time.Time {
	return testutil.BaseTime.Add(time.Duration(minutes) * time.Minute)
}

func feedIDs(items []models.FeedItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ContentID)
	}
	return ids
}

func TestComputeFeed_OrderAndEligibility(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewPostgresFeedRepository(db)
	ctx := context.Background()

	viewer := testutil.SeedUser(t, db, "viewer")
	followed := testutil.SeedUser(t, db, "followed")
	stranger := testutil.SeedUser(t, db, "stranger")
	testutil.SeedFollow(t, db, viewer.ID, followed.ID)

	p1 := testutil.SeedPost(t, db, followed.ID, at(1))
	v1 := testutil.SeedVideo(t, db, followed.ID, models.VisibilityPublic, models.StatusReady, at(2))
	own := testutil.SeedPost(t, db, viewer.ID, at(3))
	ownPrivate := testutil.SeedVideo(t, db, viewer.ID, models.VisibilityPrivate, models.StatusProcessing, at(4))

	// Ineligible rows.
	testutil.SeedPost(t, db, stranger.ID, at(5))
	testutil.SeedVideo(t, db, followed.ID, models.VisibilityPrivate, models.StatusReady, at(6))
	testutil.SeedVideo(t, db, followed.ID, models.VisibilityPublic, models.StatusProcessing, at(7))
	gone := testutil.SeedPost(t, db, followed.ID, at(8))
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", gone.ID).Update("is_deleted", true).Error)

	items, err := repo.ComputeFeed(ctx, viewer.ID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{ownPrivate.ID, own.ID, v1.ID, p1.ID}, feedIDs(items))

	assert.Equal(t, models.ContentVideo, items[2].ContentType)
	require.NotNil(t, items[2].Video)
	assert.Nil(t, items[2].Post)
	assert.Equal(t, "followed", items[2].Author.Username)
	assert.Equal(t, models.ContentPost, items[3].ContentType)
	require.NotNil(t, items[3].Post)
}

func TestComputeFeed_PaginationIsStable(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewPostgresFeedRepository(db)
	ctx := context.Background()

	viewer := testutil.SeedUser(t, db, "viewer")
	author := testutil.SeedUser(t, db, "author")
	testutil.SeedFollow(t, db, viewer.ID, author.ID)

	var want []string
	for i := 10; i > 0; i-- {
		if i%2 == 0 {
			want = append(want, testutil.SeedPost(t, db, author.ID, at(i)).ID)
		} else {
			want = append(want, testutil.SeedVideo(t, db, author.ID, models.VisibilityPublic, models.StatusReady, at(i)).ID)
		}
	}

	var got []string
	for offset := 0; offset < 12; offset += 3 {
		page, err := repo.ComputeFeed(ctx, viewer.ID, 3, offset)
		require.NoError(t, err)
		got = append(got, feedIDs(page)...)
	}
	assert.Equal(t, want, got)

	empty, err := repo.ComputeFeed(ctx, viewer.ID, 3, 50)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestComputeFeed_TieBrokenByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewPostgresFeedRepository(db)
	viewer := testutil.SeedUser(t, db, "viewer")

	a := testutil.SeedPost(t, db, viewer.ID, at(1))
	b := testutil.SeedPost(t, db, viewer.ID, at(1))
	want := []string{a.ID, b.ID}
	if b.ID > a.ID {
		want = []string{b.ID, a.ID}
	}

	items, err := repo.ComputeFeed(context.Background(), viewer.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, want, feedIDs(items))
}

func TestComputeFeed_EmptyForNewUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewPostgresFeedRepository(db)
	viewer := testutil.SeedUser(t, db, "lonely")

	items, err := repo.ComputeFeed(context.Background(), viewer.ID, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

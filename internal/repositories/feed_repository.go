package repositories

import (
	"context"
	"sort"

	"github.com/anonto42/lumina/backend/internal/models"
	"gorm.io/gorm"
)

// FeedRepository computes the ordered, paginated union of posts and videos a
// viewer is eligible to see.
type FeedRepository interface {
	ComputeFeed(ctx context.Context, viewerID string, limit, offset int) ([]models.FeedItem, error)
}

// PostgresFeedRepository implements FeedRepository for PostgreSQL
type PostgresFeedRepository struct {
	db *gorm.DB
}

func NewPostgresFeedRepository(db *gorm.DB) *PostgresFeedRepository {
	return &PostgresFeedRepository{db: db}
}

// ComputeFeed reads the first offset+limit rows of each source in feed order,
// merges them and slices out the requested window. Authors are the viewer and
// everyone the viewer follows.
func (r *PostgresFeedRepository) ComputeFeed(ctx context.Context, viewerID string, limit, offset int) ([]models.FeedItem, error) {
	db := r.db.WithContext(ctx)
	window := offset + limit
	followed := func() *gorm.DB {
		return db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", viewerID)
	}

	var posts []models.Post
	err := db.Where("is_deleted = ?", false).
		Where(db.Where("user_id = ?", viewerID).Or("user_id IN (?)", followed())).
		Order("created_at DESC, id DESC").
		Limit(window).
		Find(&posts).Error
	if err != nil {
		return nil, translate("feed posts", "post", err)
	}

	var videos []models.Video
	err = db.Where("is_deleted = ?", false).
		Where(db.Where("user_id = ?", viewerID).Or(
			db.Where("user_id IN (?)", followed()).
				Where("visibility = ? AND processing_status = ?", models.VisibilityPublic, models.StatusReady),
		)).
		Order("created_at DESC, id DESC").
		Limit(window).
		Find(&videos).Error
	if err != nil {
		return nil, translate("feed videos", "video", err)
	}

	authorIDs := make([]string, 0, len(posts)+len(videos))
	seen := map[string]bool{}
	for _, p := range posts {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			authorIDs = append(authorIDs, p.UserID)
		}
	}
	for _, v := range videos {
		if !seen[v.UserID] {
			seen[v.UserID] = true
			authorIDs = append(authorIDs, v.UserID)
		}
	}
	var authors []models.User
	if len(authorIDs) > 0 {
		if err := db.Where("id IN ?", authorIDs).Find(&authors).Error; err != nil {
			return nil, translate("feed authors", "user", err)
		}
	}
	byID := make(map[string]models.UserCompact, len(authors))
	for i := range authors {
		byID[authors[i].ID] = authors[i].ToCompact()
	}

	items := make([]models.FeedItem, 0, len(posts)+len(videos))
	for i := range posts {
		items = append(items, models.NewPostFeedItem(&posts[i], authorOf(byID, posts[i].UserID)))
	}
	for i := range videos {
		items = append(items, models.NewVideoFeedItem(&videos[i], authorOf(byID, videos[i].UserID)))
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Before(items[j]) })

	if offset >= len(items) {
		return []models.FeedItem{}, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], nil
}

func authorOf(byID map[string]models.UserCompact, id string) models.UserCompact {
	if a, ok := byID[id]; ok {
		return a
	}
	return models.UserCompact{ID: id}
}

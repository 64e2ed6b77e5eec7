package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/lumina/backend/internal/models"
	"gorm.io/gorm"
)

// HashtagRepository defines the interface for hashtag data operations
type HashtagRepository interface {
	EnsureHashtags(ctx context.Context, tags []string) ([]models.Hashtag, error)
	GetHashtagByTag(ctx context.Context, tag string) (*models.Hashtag, error)
	LinkPost(ctx context.Context, postID string, hashtags []models.Hashtag) error
	LinkVideo(ctx context.Context, videoID string, hashtags []models.Hashtag) error
	AdjustCounts(ctx context.Context, postID, videoID string, delta int64) error
}

// PostgresHashtagRepository implements HashtagRepository for PostgreSQL
type PostgresHashtagRepository struct {
	db *gorm.DB
}

func NewPostgresHashtagRepository(db *gorm.DB) *PostgresHashtagRepository {
	return &PostgresHashtagRepository{db: db}
}

// EnsureHashtags returns a row per tag, creating missing ones.
func (r *PostgresHashtagRepository) EnsureHashtags(ctx context.Context, tags []string) ([]models.Hashtag, error) {
	hashtags := make([]models.Hashtag, 0, len(tags))
	if len(tags) == 0 {
		return hashtags, nil
	}
	db := r.db.WithContext(ctx)
	if err := db.Where("tag IN ?", tags).Find(&hashtags).Error; err != nil {
		return nil, translate("list hashtags", "hashtag", err)
	}
	existing := make(map[string]bool, len(hashtags))
	for _, h := range hashtags {
		existing[h.Tag] = true
	}
	for _, tag := range tags {
		if existing[tag] {
			continue
		}
		h := models.Hashtag{Tag: tag}
		if err := db.Create(&h).Error; err != nil {
			return nil, translate("create hashtag", "hashtag", err)
		}
		hashtags = append(hashtags, h)
	}
	return hashtags, nil
}

func (r *PostgresHashtagRepository) GetHashtagByTag(ctx context.Context, tag string) (*models.Hashtag, error) {
	var h models.Hashtag
	if err := r.db.WithContext(ctx).Where("tag = ?", tag).First(&h).Error; err != nil {
		return nil, translate("get hashtag", "hashtag", err)
	}
	return &h, nil
}

func (r *PostgresHashtagRepository) LinkPost(ctx context.Context, postID string, hashtags []models.Hashtag) error {
	if len(hashtags) == 0 {
		return nil
	}
	links := make([]models.PostHashtag, 0, len(hashtags))
	for _, h := range hashtags {
		links = append(links, models.PostHashtag{PostID: postID, HashtagID: h.ID})
	}
	if err := r.db.WithContext(ctx).Create(&links).Error; err != nil {
		return translate("link post hashtags", "hashtag", err)
	}
	return r.bump(ctx, hashtags, ColPostCount, 1)
}

func (r *PostgresHashtagRepository) LinkVideo(ctx context.Context, videoID string, hashtags []models.Hashtag) error {
	if len(hashtags) == 0 {
		return nil
	}
	links := make([]models.VideoHashtag, 0, len(hashtags))
	for _, h := range hashtags {
		links = append(links, models.VideoHashtag{VideoID: videoID, HashtagID: h.ID})
	}
	if err := r.db.WithContext(ctx).Create(&links).Error; err != nil {
		return translate("link video hashtags", "hashtag", err)
	}
	return r.bump(ctx, hashtags, ColVideoCount, 1)
}

// AdjustCounts applies delta to the hashtags linked to a post or a video.
// Exactly one of postID and videoID is expected to be set.
func (r *PostgresHashtagRepository) AdjustCounts(ctx context.Context, postID, videoID string, delta int64) error {
	var hashtags []models.Hashtag
	db := r.db.WithContext(ctx)
	var column string
	var sub *gorm.DB
	switch {
	case postID != "":
		column = ColPostCount
		sub = db.Model(&models.PostHashtag{}).Select("hashtag_id").Where("post_id = ?", postID)
	case videoID != "":
		column = ColVideoCount
		sub = db.Model(&models.VideoHashtag{}).Select("hashtag_id").Where("video_id = ?", videoID)
	default:
		return errors.New("hashtag count adjustment needs a post or video id")
	}
	if err := db.Where("id IN (?)", sub).Find(&hashtags).Error; err != nil {
		return translate("list hashtags", "hashtag", err)
	}
	return r.bump(ctx, hashtags, column, delta)
}

func (r *PostgresHashtagRepository) bump(ctx context.Context, hashtags []models.Hashtag, column string, delta int64) error {
	for _, h := range hashtags {
		if _, err := adjustCounter(ctx, r.db, &models.Hashtag{}, h.ID, column, delta, false); err != nil {
			return translate("adjust hashtag "+column, "hashtag", err)
		}
	}
	return nil
}

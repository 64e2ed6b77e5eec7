package repositories

import (
	"context"

	"github.com/anonto42/lumina/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByUser(ctx context.Context, userID string, limit int) ([]models.Post, error)
	GetPostsByHashtag(ctx context.Context, hashtagID string, limit, offset int) ([]models.Post, error)
	SoftDeletePost(ctx context.Context, id string) (bool, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return translate("create post", "post", r.db.WithContext(ctx).Create(post).Error)
}

// GetPostByID returns the row even when soft-deleted; callers check IsDeleted.
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translate("get post", "post", err)
	}
	return &post, nil
}

func (r *PostgresPostRepository) GetPostsByUser(ctx context.Context, userID string, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, translate("list posts", "post", err)
}

func (r *PostgresPostRepository) GetPostsByHashtag(ctx context.Context, hashtagID string, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	db := r.db.WithContext(ctx)
	err := db.Where("is_deleted = ? AND id IN (?)", false,
		db.Model(&models.PostHashtag{}).Select("post_id").Where("hashtag_id = ?", hashtagID),
	).Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&posts).Error
	return posts, translate("list hashtag posts", "post", err)
}

func (r *PostgresPostRepository) SoftDeletePost(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return false, translate("delete post", "post", res.Error)
	}
	return res.RowsAffected > 0, nil
}

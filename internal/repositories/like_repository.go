package repositories

import (
	"context"

	"github.com/anonto42/lumina/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, id string) error
	GetLike(ctx context.Context, userID string, likeableType models.LikeableType, likeableID string) (*models.Like, error)
	HasLiked(ctx context.Context, userID string, likeableType models.LikeableType, likeableID string) (bool, error)
	GetLikedIDs(ctx context.Context, userID string, likeableType models.LikeableType, ids []string) (map[string]bool, error)
	CountLikes(ctx context.Context, likeableType models.LikeableType, likeableID string) (int64, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike inserts the edge. A concurrent duplicate surfaces as a StoreError.
func (r *PostgresLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	return translate("create like", "like", r.db.WithContext(ctx).Create(like).Error)
}

func (r *PostgresLikeRepository) DeleteLike(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Like{}).Error
	return translate("delete like", "like", err)
}

func (r *PostgresLikeRepository) GetLike(ctx context.Context, userID string, likeableType models.LikeableType, likeableID string) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND likeable_type = ? AND likeable_id = ?", userID, likeableType, likeableID).
		First(&like).Error
	if err != nil {
		return nil, translate("get like", "like", err)
	}
	return &like, nil
}

func (r *PostgresLikeRepository) HasLiked(ctx context.Context, userID string, likeableType models.LikeableType, likeableID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND likeable_type = ? AND likeable_id = ?", userID, likeableType, likeableID).
		Count(&count).Error
	return count > 0, translate("check like", "like", err)
}

// GetLikedIDs returns the subset of ids the user has liked.
func (r *PostgresLikeRepository) GetLikedIDs(ctx context.Context, userID string, likeableType models.LikeableType, ids []string) (map[string]bool, error) {
	liked := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return liked, nil
	}
	var found []string
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND likeable_type = ? AND likeable_id IN ?", userID, likeableType, ids).
		Pluck("likeable_id", &found).Error
	if err != nil {
		return nil, translate("list likes", "like", err)
	}
	for _, id := range found {
		liked[id] = true
	}
	return liked, nil
}

func (r *PostgresLikeRepository) CountLikes(ctx context.Context, likeableType models.LikeableType, likeableID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("likeable_type = ? AND likeable_id = ?", likeableType, likeableID).
		Count(&count).Error
	return count, translate("count likes", "like", err)
}

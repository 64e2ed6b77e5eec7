package repositories

import (
	"context"

	"github.com/anonto42/lumina/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followerID, followingID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	GetFollowers(ctx context.Context, userID string, limit, offset int) ([]models.User, error)
	GetFollowing(ctx context.Context, userID string, limit, offset int) ([]models.User, error)
	GetFollowingIDs(ctx context.Context, userID string) ([]string, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	return translate("create follow", "follow", r.db.WithContext(ctx).Create(follow).Error)
}

// DeleteFollow removes the edge if present and reports whether a row went away.
func (r *PostgresFollowRepository) DeleteFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, translate("delete follow", "follow", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, translate("check follow", "follow", err)
}

func (r *PostgresFollowRepository) GetFollowers(ctx context.Context, userID string, limit, offset int) ([]models.User, error) {
	var users []models.User
	db := r.db.WithContext(ctx)
	err := db.Where("id IN (?)",
		db.Table("follows").Select("follower_id").Where("following_id = ?", userID),
	).Order("username").Limit(limit).Offset(offset).Find(&users).Error
	return users, translate("list followers", "user", err)
}

func (r *PostgresFollowRepository) GetFollowing(ctx context.Context, userID string, limit, offset int) ([]models.User, error) {
	var users []models.User
	db := r.db.WithContext(ctx)
	err := db.Where("id IN (?)",
		db.Table("follows").Select("following_id").Where("follower_id = ?", userID),
	).Order("username").Limit(limit).Offset(offset).Find(&users).Error
	return users, translate("list following", "user", err)
}

func (r *PostgresFollowRepository) GetFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	return ids, translate("list following ids", "follow", err)
}

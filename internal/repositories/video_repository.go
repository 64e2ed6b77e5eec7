package repositories

import (
	"context"

	"github.com/anonto42/lumina/backend/internal/models"
	"gorm.io/gorm"
)

// VideoRepository defines the interface for video data operations
type VideoRepository interface {
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideoByID(ctx context.Context, id string) (*models.Video, error)
	GetVideosByUser(ctx context.Context, userID string, publicOnly bool, limit int) ([]models.Video, error)
	SoftDeleteVideo(ctx context.Context, id string) (bool, error)
	UpdateStatus(ctx context.Context, id string, from, to models.ProcessingStatus) (bool, error)
}

// PostgresVideoRepository implements VideoRepository for PostgreSQL
type PostgresVideoRepository struct {
	db *gorm.DB
}

// NewPostgresVideoRepository creates a new PostgresVideoRepository
func NewPostgresVideoRepository(db *gorm.DB) *PostgresVideoRepository {
	return &PostgresVideoRepository{db: db}
}

func (r *PostgresVideoRepository) CreateVideo(ctx context.Context, video *models.Video) error {
	return translate("create video", "video", r.db.WithContext(ctx).Create(video).Error)
}

func (r *PostgresVideoRepository) GetVideoByID(ctx context.Context, id string) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&video).Error; err != nil {
		return nil, translate("get video", "video", err)
	}
	return &video, nil
}

// GetVideosByUser lists live videos. publicOnly restricts the result to
// public, fully processed videos.
func (r *PostgresVideoRepository) GetVideosByUser(ctx context.Context, userID string, publicOnly bool, limit int) ([]models.Video, error) {
	var videos []models.Video
	q := r.db.WithContext(ctx).Where("user_id = ? AND is_deleted = ?", userID, false)
	if publicOnly {
		q = q.Where("visibility = ? AND processing_status = ?", models.VisibilityPublic, models.StatusReady)
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&videos).Error
	return videos, translate("list videos", "video", err)
}

func (r *PostgresVideoRepository) SoftDeleteVideo(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return false, translate("delete video", "video", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// UpdateStatus moves a live video from one status to another. It reports
// false when the video was not in the expected status.
func (r *PostgresVideoRepository) UpdateStatus(ctx context.Context, id string, from, to models.ProcessingStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ? AND processing_status = ? AND is_deleted = ?", id, from, false).
		Update("processing_status", to)
	if res.Error != nil {
		return false, translate("update video status", "video", res.Error)
	}
	return res.RowsAffected > 0, nil
}

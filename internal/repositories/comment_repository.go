package repositories

import (
	"context"

	"github.com/anonto42/lumina/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	GetComments(ctx context.Context, commentableType models.ContentType, commentableID string, parentID *string, limit, offset int) ([]models.Comment, error)
	SoftDeleteComment(ctx context.Context, id string) (bool, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return translate("create comment", "comment", r.db.WithContext(ctx).Create(comment).Error)
}

func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, translate("get comment", "comment", err)
	}
	return &comment, nil
}

// GetComments lists comments on a target newest first. A nil parentID selects
// top-level comments, otherwise the replies to that comment.
func (r *PostgresCommentRepository) GetComments(ctx context.Context, commentableType models.ContentType, commentableID string, parentID *string, limit, offset int) ([]models.Comment, error) {
	var comments []models.Comment
	q := r.db.WithContext(ctx).
		Where("commentable_type = ? AND commentable_id = ?", commentableType, commentableID)
	if parentID == nil {
		q = q.Where("parent_comment_id IS NULL")
	} else {
		q = q.Where("parent_comment_id = ?", *parentID)
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&comments).Error
	return comments, translate("list comments", "comment", err)
}

// SoftDeleteComment tombstones a live comment. It reports false when the
// comment was already deleted.
func (r *PostgresCommentRepository) SoftDeleteComment(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"is_deleted": true,
			"content":    models.DeletedCommentContent,
		})
	if res.Error != nil {
		return false, translate("delete comment", "comment", res.Error)
	}
	return res.RowsAffected > 0, nil
}

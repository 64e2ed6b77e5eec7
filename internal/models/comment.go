package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeletedCommentContent replaces the body of a soft-deleted comment.
const DeletedCommentContent = "[deleted]"

// MaxCommentLength is measured in runes after trimming.
const MaxCommentLength = 2200

// Comment belongs to a post or a video; replies point at ParentCommentID.
type Comment struct {
	ID              string      `json:"id" gorm:"primaryKey;size:36"`
	UserID          string      `json:"user_id" gorm:"size:128;not null;index"`
	CommentableType ContentType `json:"commentable_type" gorm:"size:10;not null;index:idx_comments_target,priority:1"`
	CommentableID   string      `json:"commentable_id" gorm:"size:36;not null;index:idx_comments_target,priority:2"`
	ParentCommentID *string     `json:"parent_comment_id" gorm:"size:36;index"`
	Content         string      `json:"content" gorm:"type:text;not null"`
	LikeCount       int64       `json:"like_count" gorm:"not null"`
	IsDeleted       bool        `json:"is_deleted" gorm:"not null"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CommentView is a comment with its author snapshot attached.
type CommentView struct {
	Comment
	Author UserCompact `json:"author"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	CommentableType string  `json:"commentable_type" validate:"required"`
	CommentableID   string  `json:"commentable_id" validate:"required"`
	Content         string  `json:"content"`
	ParentCommentID *string `json:"parent_comment_id"`
}

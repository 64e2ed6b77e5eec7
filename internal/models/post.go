package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a single-image post. Rows are soft-deleted through IsDeleted.
type Post struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	UserID       string    `json:"user_id" gorm:"size:128;not null;index:idx_posts_user_created,priority:1"`
	ImageURL     string    `json:"image_url" gorm:"not null"`
	Caption      *string   `json:"caption" gorm:"type:text"`
	AltText      *string   `json:"alt_text"`
	Location     *string   `json:"location"`
	LikeCount    int64     `json:"like_count" gorm:"not null"`
	CommentCount int64     `json:"comment_count" gorm:"not null"`
	ViewCount    int64     `json:"view_count" gorm:"not null"`
	IsDeleted    bool      `json:"is_deleted" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at" gorm:"index:idx_posts_user_created,priority:2"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	ImageURL string  `json:"image_url" validate:"required,url"`
	Caption  *string `json:"caption" validate:"omitempty,max=2200"`
	AltText  *string `json:"alt_text" validate:"omitempty,max=500"`
	Location *string `json:"location" validate:"omitempty,max=100"`
}

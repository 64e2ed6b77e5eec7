package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like is a polymorphic edge from a user to a post, video or comment.
type Like struct {
	ID           string       `json:"id" gorm:"primaryKey;size:36"`
	UserID       string       `json:"user_id" gorm:"size:128;not null;uniqueIndex:idx_likes_user_target,priority:1"`
	LikeableType LikeableType `json:"likeable_type" gorm:"size:10;not null;uniqueIndex:idx_likes_user_target,priority:2;index:idx_likes_target,priority:1"`
	LikeableID   string       `json:"likeable_id" gorm:"size:36;not null;uniqueIndex:idx_likes_user_target,priority:3;index:idx_likes_target,priority:2"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (l *Like) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

type ToggleLikeRequest struct {
	LikeableType string `json:"likeable_type" validate:"required"`
	LikeableID   string `json:"likeable_id" validate:"required"`
}

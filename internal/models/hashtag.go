package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Hashtag struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	Tag        string    `json:"tag" gorm:"size:100;not null;uniqueIndex"`
	PostCount  int64     `json:"post_count" gorm:"not null"`
	VideoCount int64     `json:"video_count" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h *Hashtag) BeforeCreate(*gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

type PostHashtag struct {
	PostID    string `gorm:"primaryKey;size:36"`
	HashtagID string `gorm:"primaryKey;size:36;index"`
	CreatedAt time.Time
}

type VideoHashtag struct {
	VideoID   string `gorm:"primaryKey;size:36"`
	HashtagID string `gorm:"primaryKey;size:36;index"`
	CreatedAt time.Time
}

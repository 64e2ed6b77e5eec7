package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Video struct {
	ID               string           `json:"id" gorm:"primaryKey;size:36"`
	UserID           string           `json:"user_id" gorm:"size:128;not null;index:idx_videos_user_created,priority:1"`
	Title            string           `json:"title" gorm:"size:200;not null"`
	Description      *string          `json:"description" gorm:"type:text"`
	VideoURL         string           `json:"video_url" gorm:"not null"`
	ThumbnailURL     string           `json:"thumbnail_url"`
	Duration         int              `json:"duration"`
	Resolution       *string          `json:"resolution" gorm:"size:20"`
	FileSize         int64            `json:"file_size"`
	Visibility       Visibility       `json:"visibility" gorm:"size:10;not null;index"`
	ProcessingStatus ProcessingStatus `json:"processing_status" gorm:"size:12;not null;index"`
	ViewCount        int64            `json:"view_count" gorm:"not null"`
	LikeCount        int64            `json:"like_count" gorm:"not null"`
	CommentCount     int64            `json:"comment_count" gorm:"not null"`
	ShareCount       int64            `json:"share_count" gorm:"not null"`
	IsDeleted        bool             `json:"is_deleted" gorm:"not null;index"`
	CreatedAt        time.Time        `json:"created_at" gorm:"index:idx_videos_user_created,priority:2"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (v *Video) BeforeCreate(*gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// VisibleTo reports whether viewerID may see v in feeds and grids.
func (v *Video) VisibleTo(viewerID string) bool {
	if v.IsDeleted {
		return false
	}
	if v.UserID == viewerID {
		return true
	}
	return v.Visibility == VisibilityPublic && v.ProcessingStatus == StatusReady
}

type CreateVideoRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=5000"`
	VideoURL     string     `json:"video_url" validate:"required,url"`
	ThumbnailURL string     `json:"thumbnail_url" validate:"omitempty,url"`
	Duration     int        `json:"duration" validate:"min=0"`
	Resolution   *string    `json:"resolution" validate:"omitempty,max=20"`
	FileSize     int64      `json:"file_size" validate:"min=0"`
	Visibility   Visibility `json:"visibility" validate:"omitempty,oneof=public unlisted private"`
}

type UpdateVideoStatusRequest struct {
	Status ProcessingStatus `json:"status" validate:"required,oneof=uploading processing ready failed"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is stored in PostgreSQL or MongoDB depending on configuration.
type Notification struct {
	ID         string           `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	UserID     string           `json:"user_id" gorm:"size:128;not null;index" bson:"user_id"`
	ActorID    string           `json:"actor_id" gorm:"size:128;not null" bson:"actor_id"`
	Type       NotificationType `json:"type" gorm:"size:20;not null;index" bson:"type"`
	EntityType *LikeableType    `json:"entity_type,omitempty" gorm:"size:10" bson:"entity_type,omitempty"`
	EntityID   *string          `json:"entity_id,omitempty" gorm:"size:36" bson:"entity_id,omitempty"`
	Message    string           `json:"message" bson:"message"`
	IsRead     bool             `json:"is_read" gorm:"not null;index" bson:"is_read"`
	CreatedAt  time.Time        `json:"created_at" gorm:"index" bson:"created_at"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// NotificationWithActor is returned by list endpoints.
type NotificationWithActor struct {
	Notification
	Actor *UserCompact `json:"actor,omitempty"`
}

type NotificationPage struct {
	Items      []NotificationWithActor `json:"items"`
	Total      int64                   `json:"total"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	TotalPages int                     `json:"total_pages"`
}

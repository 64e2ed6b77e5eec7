package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow is a directed edge; FollowerID follows FollowingID.
type Follow struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	FollowerID  string    `json:"follower_id" gorm:"size:128;not null;index;uniqueIndex:idx_follower_following;check:chk_follows_no_self,follower_id <> following_id"`
	FollowingID string    `json:"following_id" gorm:"size:128;not null;index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}

func (f *Follow) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// IsFollowerMilestone reports whether n is 10, 100, 1000 and so on.
func IsFollowerMilestone(n int64) bool {
	if n < 10 {
		return false
	}
	for n%10 == 0 {
		n /= 10
	}
	return n == 1
}

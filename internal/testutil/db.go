// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/repositories"
)

// NewTestDB opens a private in-memory sqlite database with every table migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:lumina_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open sqlite")
	db.Exec("PRAGMA foreign_keys=ON;")
	require.NoError(t, repositories.AutoMigrate(db), "automigrate")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func SeedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		ID:       uuid.NewString(),
		Email:    username + "@example.com",
		Username: username,
	}
	require.NoError(t, db.Create(u).Error, "seed user")
	return u
}

func SeedPost(t *testing.T, db *gorm.DB, userID string, createdAt time.Time) *models.Post {
	t.Helper()
	p := &models.Post{
		UserID:    userID,
		ImageURL:  "https://cdn.example.com/" + uuid.NewString() + ".jpg",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, db.Create(p).Error, "seed post")
	return p
}

func SeedVideo(t *testing.T, db *gorm.DB, userID string, visibility models.Visibility, status models.ProcessingStatus, createdAt time.Time) *models.Video {
	t.Helper()
	v := &models.Video{
		UserID:           userID,
		Title:            "clip",
		VideoURL:         "https://cdn.example.com/" + uuid.NewString() + ".mp4",
		Visibility:       visibility,
		ProcessingStatus: status,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
	require.NoError(t, db.Create(v).Error, "seed video")
	return v
}

func SeedComment(t *testing.T, db *gorm.DB, userID string, target models.ContentType, targetID, content string) *models.Comment {
	t.Helper()
	c := &models.Comment{
		UserID:          userID,
		CommentableType: target,
		CommentableID:   targetID,
		Content:         content,
	}
	require.NoError(t, db.Create(c).Error, "seed comment")
	return c
}

// SeedFollow inserts the edge without touching counters.
func SeedFollow(t *testing.T, db *gorm.DB, followerID, followingID string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Follow{FollowerID: followerID, FollowingID: followingID}).Error, "seed follow")
}

func ReloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, db.Where("id = ?", id).First(&u).Error)
	return &u
}

func ReloadPost(t *testing.T, db *gorm.DB, id string) *models.Post {
	t.Helper()
	var p models.Post
	require.NoError(t, db.Where("id = ?", id).First(&p).Error)
	return &p
}

func ReloadComment(t *testing.T, db *gorm.DB, id string) *models.Comment {
	t.Helper()
	var c models.Comment
	require.NoError(t, db.Where("id = ?", id).First(&c).Error)
	return &c
}

// BaseTime is a fixed instant for ordering assertions.
var BaseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

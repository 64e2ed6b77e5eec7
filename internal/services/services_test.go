package services_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anonto42/lumina/backend/internal/cache"
	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/notifications"
	"github.com/anonto42/lumina/backend/internal/repositories"
	"github.com/anonto42/lumina/backend/internal/testutil"
)

type env struct {
	db       *gorm.DB
	store    *repositories.Store
	pages    *cache.PageCache
	redis    *miniredis.Miniredis
	notifier *notifications.Notifier
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewTestDB(t)
	store := repositories.NewStore(db)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return &env{
		db:       db,
		store:    store,
		pages:    cache.New(rdb, time.Minute, time.Minute),
		redis:    mr,
		notifier: notifications.NewNotifier(repositories.NewPostgresNotificationRepository(db), store.Users, rdb),
	}
}

func as(u *models.User) *models.Identity {
	return &models.Identity{ID: u.ID, Email: u.Email, Username: u.Username}
}

func notificationsFor(t *testing.T, db *gorm.DB, userID string) []models.Notification {
	t.Helper()
	var out []models.Notification
	require.NoError(t, db.Where("user_id = ?", userID).Order("created_at").Find(&out).Error)
	return out
}

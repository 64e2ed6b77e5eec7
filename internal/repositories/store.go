package repositories

import (
	"context"

	"github.com/anonto42/lumina/backend/internal/models"
	"gorm.io/gorm"
)

// Store groups the relational repositories over one *gorm.DB so that a
// service can run several of them inside a single transaction.
type Store struct {
	db *gorm.DB

	Users       UserRepository
	Follows     FollowRepository
	Likes       LikeRepository
	Comments    CommentRepository
	Posts       PostRepository
	Videos      VideoRepository
	Hashtags    HashtagRepository
	Targets     TargetRepository
	Feed        FeedRepository
	Credentials CredentialRepository
	Reconcile   ReconcileRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       NewPostgresUserRepository(db),
		Follows:     NewPostgresFollowRepository(db),
		Likes:       NewPostgresLikeRepository(db),
		Comments:    NewPostgresCommentRepository(db),
		Posts:       NewPostgresPostRepository(db),
		Videos:      NewPostgresVideoRepository(db),
		Hashtags:    NewPostgresHashtagRepository(db),
		Targets:     NewPostgresTargetRepository(db),
		Feed:        NewPostgresFeedRepository(db),
		Credentials: NewPostgresCredentialRepository(db),
		Reconcile:   NewPostgresReconcileRepository(db),
	}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *gorm.DB { return s.db }

// Transaction runs fn against a Store bound to one database transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// AutoMigrate creates or updates every relational table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Credential{},
		&models.Follow{},
		&models.Post{},
		&models.Video{},
		&models.Comment{},
		&models.Like{},
		&models.Hashtag{},
		&models.PostHashtag{},
		&models.VideoHashtag{},
		&models.Notification{},
	)
}

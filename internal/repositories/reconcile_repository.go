package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/lumina/backend/internal/models"
	"gorm.io/gorm"
)

// ReconcileReport counts the rows each pass rewrote.
type ReconcileReport struct {
	Users    int64 `json:"users"`
	Posts    int64 `json:"posts"`
	Videos   int64 `json:"videos"`
	Comments int64 `json:"comments"`
	Hashtags int64 `json:"hashtags"`
}

// ReconcileRepository recomputes denormalized counters from the edge tables.
type ReconcileRepository interface {
	ReconcileCounters(ctx context.Context) (*ReconcileReport, error)
}

type PostgresReconcileRepository struct {
	db *gorm.DB
}

func NewPostgresReconcileRepository(db *gorm.DB) *PostgresReconcileRepository {
	return &PostgresReconcileRepository{db: db}
}

// The user, content and comment passes only rewrite rows whose stored value
// disagrees with the recount.
const (
	reconcileUsersSQL = `UPDATE users SET
	follower_count = (SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id),
	following_count = (SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id),
	post_count = (SELECT COUNT(*) FROM posts WHERE posts.user_id = users.id AND posts.is_deleted = ?)
		+ (SELECT COUNT(*) FROM videos WHERE videos.user_id = users.id AND videos.is_deleted = ?)
WHERE follower_count <> (SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id)
	OR following_count <> (SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id)
	OR post_count <> (SELECT COUNT(*) FROM posts WHERE posts.user_id = users.id AND posts.is_deleted = ?)
		+ (SELECT COUNT(*) FROM videos WHERE videos.user_id = users.id AND videos.is_deleted = ?)`

	reconcileContentSQL = `UPDATE %[1]s SET
	like_count = (SELECT COUNT(*) FROM likes WHERE likes.likeable_type = ? AND likes.likeable_id = %[1]s.id),
	comment_count = (SELECT COUNT(*) FROM comments WHERE comments.commentable_type = ? AND comments.commentable_id = %[1]s.id AND comments.is_deleted = ?)
WHERE like_count <> (SELECT COUNT(*) FROM likes WHERE likes.likeable_type = ? AND likes.likeable_id = %[1]s.id)
	OR comment_count <> (SELECT COUNT(*) FROM comments WHERE comments.commentable_type = ? AND comments.commentable_id = %[1]s.id AND comments.is_deleted = ?)`

	reconcileCommentsSQL = `UPDATE comments SET
	like_count = (SELECT COUNT(*) FROM likes WHERE likes.likeable_type = ? AND likes.likeable_id = comments.id)
WHERE like_count <> (SELECT COUNT(*) FROM likes WHERE likes.likeable_type = ? AND likes.likeable_id = comments.id)`

	reconcileHashtagsSQL = `UPDATE hashtags SET
	post_count = (SELECT COUNT(*) FROM post_hashtags JOIN posts ON posts.id = post_hashtags.post_id WHERE post_hashtags.hashtag_id = hashtags.id AND posts.is_deleted = ?),
	video_count = (SELECT COUNT(*) FROM video_hashtags JOIN videos ON videos.id = video_hashtags.video_id WHERE video_hashtags.hashtag_id = hashtags.id AND videos.is_deleted = ?)`
)

// ReconcileCounters runs every pass in one transaction.
func (r *PostgresReconcileRepository) ReconcileCounters(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(reconcileUsersSQL, false, false, false, false)
		if res.Error != nil {
			return res.Error
		}
		report.Users = res.RowsAffected

		for _, target := range []struct {
			table string
			kind  models.ContentType
			dst   *int64
		}{
			{"posts", models.ContentPost, &report.Posts},
			{"videos", models.ContentVideo, &report.Videos},
		} {
			kind := string(target.kind)
			res = tx.Exec(fmt.Sprintf(reconcileContentSQL, target.table), kind, kind, false, kind, kind, false)
			if res.Error != nil {
				return res.Error
			}
			*target.dst = res.RowsAffected
		}

		res = tx.Exec(reconcileCommentsSQL, string(models.LikeableComment), string(models.LikeableComment))
		if res.Error != nil {
			return res.Error
		}
		report.Comments = res.RowsAffected

		res = tx.Exec(reconcileHashtagsSQL, false, false)
		if res.Error != nil {
			return res.Error
		}
		report.Hashtags = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, models.NewStoreError("reconcile counters", err)
	}
	return report, nil
}

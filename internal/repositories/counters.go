package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Counter columns that may be adjusted through adjustCounter.
const (
	ColLikeCount      = "like_count"
	ColCommentCount   = "comment_count"
	ColViewCount      = "view_count"
	ColFollowerCount  = "follower_count"
	ColFollowingCount = "following_count"
	ColPostCount      = "post_count"
	ColVideoCount     = "video_count"
)

// adjustCounter applies delta to column on the row identified by id and
// returns the number of rows touched. Decrements are floored at zero. When
// liveOnly is set, soft-deleted rows are skipped.
func adjustCounter(ctx context.Context, db *gorm.DB, model any, id, column string, delta int64, liveOnly bool) (int64, error) {
	q := db.WithContext(ctx).Model(model).Where("id = ?", id)
	if liveOnly {
		q = q.Where("is_deleted = ?", false)
	}

	var expr any
	if delta >= 0 {
		expr = gorm.Expr(column+" + ?", delta)
	} else {
		expr = gorm.Expr("CASE WHEN "+column+" >= ? THEN "+column+" - ? ELSE 0 END", -delta, -delta)
	}

	res := q.UpdateColumn(column, expr)
	return res.RowsAffected, res.Error
}

package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/lumina/backend/internal/models"
	"gorm.io/gorm"
)

// TargetRepository resolves the polymorphic (type, id) pairs used by likes
// and comments onto their concrete tables.
type TargetRepository interface {
	AdjustCounter(ctx context.Context, t models.LikeableType, id, column string, delta int64, liveOnly bool) (bool, error)
	GetOwnerID(ctx context.Context, t models.LikeableType, id string) (string, error)
}

// PostgresTargetRepository implements TargetRepository for PostgreSQL
type PostgresTargetRepository struct {
	db *gorm.DB
}

func NewPostgresTargetRepository(db *gorm.DB) *PostgresTargetRepository {
	return &PostgresTargetRepository{db: db}
}

func targetModel(t models.LikeableType) (any, error) {
	switch t {
	case models.LikeablePost:
		return &models.Post{}, nil
	case models.LikeableVideo:
		return &models.Video{}, nil
	case models.LikeableComment:
		return &models.Comment{}, nil
	}
	return nil, models.NewValidationError("unknown target type %q", string(t))
}

// AdjustCounter reports false when no row matched, which includes
// soft-deleted rows when liveOnly is set.
func (r *PostgresTargetRepository) AdjustCounter(ctx context.Context, t models.LikeableType, id, column string, delta int64, liveOnly bool) (bool, error) {
	model, err := targetModel(t)
	if err != nil {
		return false, err
	}
	n, err := adjustCounter(ctx, r.db, model, id, column, delta, liveOnly)
	if err != nil {
		return false, translate(fmt.Sprintf("adjust %s %s", t, column), string(t), err)
	}
	return n > 0, nil
}

func (r *PostgresTargetRepository) GetOwnerID(ctx context.Context, t models.LikeableType, id string) (string, error) {
	model, err := targetModel(t)
	if err != nil {
		return "", err
	}
	var owners []string
	err = r.db.WithContext(ctx).Model(model).Where("id = ?", id).Limit(1).Pluck("user_id", &owners).Error
	if err != nil {
		return "", translate("get owner", string(t), err)
	}
	if len(owners) == 0 {
		return "", models.NewNotFoundError(string(t))
	}
	return owners[0], nil
}

package services

import (
	"context"

	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/observability"
	"github.com/anonto42/lumina/backend/internal/repositories"
)

// NotificationService serves the recipient's own notifications. The backing
// repository is PostgreSQL or MongoDB depending on configuration.
type NotificationService struct {
	repo  repositories.NotificationRepository
	users repositories.UserRepository
}

func NewNotificationService(repo repositories.NotificationRepository, users repositories.UserRepository) *NotificationService {
	return &NotificationService{repo: repo, users: users}
}

func (s *NotificationService) List(ctx context.Context, actor *models.Identity, page, limit int) (*models.NotificationPage, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	limit, _ = NormalizePage(limit, 0)

	items, total, err := s.repo.GetByRecipientID(ctx, actor.ID, page, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(items))
	for _, n := range items {
		ids = append(ids, n.ActorID)
	}
	actors, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.UserCompact, len(actors))
	for i := range actors {
		byID[actors[i].ID] = actors[i].ToCompact()
	}

	out := &models.NotificationPage{
		Items:      make([]models.NotificationWithActor, 0, len(items)),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
	for _, n := range items {
		item := models.NotificationWithActor{Notification: n}
		if a, ok := byID[n.ActorID]; ok {
			item.Actor = &a
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor *models.Identity) (int64, error) {
	if err := requireActor(actor); err != nil {
		return 0, err
	}
	return s.repo.GetUnreadCount(ctx, actor.ID)
}

// MarkRead marks one notification read. Notifications addressed to someone
// else are reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, actor *models.Identity, id string) (err error) {
	defer func() { observability.RecordOperation("mark_notification_read", err) }()
	if err := requireActor(actor); err != nil {
		return err
	}
	if err := requireID("notification id", id); err != nil {
		return err
	}
	ok, err := s.repo.MarkAsRead(ctx, id, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("notification")
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor *models.Identity) (int64, error) {
	if err := requireActor(actor); err != nil {
		return 0, err
	}
	return s.repo.MarkAllAsRead(ctx, actor.ID)
}

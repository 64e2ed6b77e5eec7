// Package notifications records user notifications and publishes them to
// per-user Redis channels.
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/repositories"
)

// Event describes something that happened to Recipient because of Actor.
type Event struct {
	Type        models.NotificationType
	RecipientID string
	ActorID     string
	EntityType  models.LikeableType
	EntityID    string
	// Milestone carries the follower count for milestone events.
	Milestone int64
}

// ActorLookup resolves actor display names for messages.
type ActorLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Notifier persists notifications and fans them out over Redis pub/sub.
// A nil *Notifier drops every event.
type Notifier struct {
	repo   repositories.NotificationRepository
	actors ActorLookup
	rdb    *redis.Client
	now    func() time.Time
}

func NewNotifier(repo repositories.NotificationRepository, actors ActorLookup, rdb *redis.Client) *Notifier {
	return &Notifier{repo: repo, actors: actors, rdb: rdb, now: time.Now}
}

// UserChannel is the pub/sub channel for one recipient.
func UserChannel(userID string) string {
	return "notifications:user:" + userID
}

// Notify stores ev and publishes it. Events addressed to their own actor are
// skipped, except milestones which have no separate actor.
func (n *Notifier) Notify(ctx context.Context, ev Event) error {
	if n == nil || n.repo == nil {
		return nil
	}
	if ev.RecipientID == "" || (ev.RecipientID == ev.ActorID && ev.Type != models.NotificationMilestone) {
		return nil
	}

	notification := &models.Notification{
		UserID:    ev.RecipientID,
		ActorID:   ev.ActorID,
		Type:      ev.Type,
		Message:   n.message(ctx, ev),
		CreatedAt: n.now(),
	}
	if ev.EntityType != "" {
		et := ev.EntityType
		notification.EntityType = &et
	}
	if ev.EntityID != "" {
		id := ev.EntityID
		notification.EntityID = &id
	}

	if err := n.repo.CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	return n.publish(ctx, notification)
}

func (n *Notifier) publish(ctx context.Context, notification *models.Notification) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	if err := n.rdb.Publish(ctx, UserChannel(notification.UserID), payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func (n *Notifier) message(ctx context.Context, ev Event) string {
	name := "Someone"
	if n.actors != nil && ev.ActorID != "" {
		if actor, err := n.actors.GetUserByID(ctx, ev.ActorID); err == nil {
			name = actor.Username
		}
	}
	switch ev.Type {
	case models.NotificationFollow:
		return name + " started following you"
	case models.NotificationLikePost:
		return name + " liked your post"
	case models.NotificationLikeVideo:
		return name + " liked your video"
	case models.NotificationComment:
		return name + " commented on your " + string(ev.EntityType)
	case models.NotificationReply:
		return name + " replied to your comment"
	case models.NotificationMention:
		return name + " mentioned you in a comment"
	case models.NotificationMilestone:
		return fmt.Sprintf("You reached %d followers", ev.Milestone)
	}
	return name + " interacted with you"
}

// ErrNoPubSub is returned by Subscribe when the notifier has no Redis client.
var ErrNoPubSub = errors.New("live notifications are unavailable")

// Subscribe delivers published notifications for userID until ctx ends.
func (n *Notifier) Subscribe(ctx context.Context, userID string, onMessage func(*models.Notification)) error {
	if n == nil || n.rdb == nil {
		return ErrNoPubSub
	}
	sub := n.rdb.Subscribe(ctx, UserChannel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}
	ch := sub.Channel()
	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var notification models.Notification
				if err := json.Unmarshal([]byte(msg.Payload), &notification); err != nil {
					continue
				}
				onMessage(&notification)
			}
		}
	}()
	return nil
}

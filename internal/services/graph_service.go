package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/anonto42/lumina/backend/internal/cache"
	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/notifications"
	"github.com/anonto42/lumina/backend/internal/observability"
	"github.com/anonto42/lumina/backend/internal/repositories"
)

// GraphService maintains directed follow edges and the counters derived from them.
type GraphService struct {
	store    *repositories.Store
	cache    *cache.PageCache
	notifier *notifications.Notifier
}

func NewGraphService(store *repositories.Store, pages *cache.PageCache, notifier *notifications.Notifier) *GraphService {
	return &GraphService{store: store, cache: pages, notifier: notifier}
}

// FollowUser creates the edge actor -> target. It is not idempotent: an
// existing edge yields ErrAlreadyFollowing.
func (s *GraphService) FollowUser(ctx context.Context, actor *models.Identity, targetID string) (err error) {
	ctx, span := observability.StartSpan(ctx, "graph.FollowUser", attribute.String("target_id", targetID))
	defer func() {
		observability.RecordOperation("follow_user", err)
		observability.EndSpan(span, err)
	}()

	if err := requireActor(actor); err != nil {
		return err
	}
	if actor.ID == targetID {
		return models.ErrSelfFollow
	}
	if err := requireID("target user id", targetID); err != nil {
		return err
	}

	var target *models.User
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		if target, err = tx.Users.GetUserByID(ctx, targetID); err != nil {
			return err
		}
		following, err := tx.Follows.IsFollowing(ctx, actor.ID, targetID)
		if err != nil {
			return err
		}
		if following {
			return models.ErrAlreadyFollowing
		}
		if err := tx.Follows.CreateFollow(ctx, &models.Follow{FollowerID: actor.ID, FollowingID: targetID}); err != nil {
			if models.IsDuplicate(err) {
				return models.ErrAlreadyFollowing
			}
			return err
		}
		if _, err := tx.Users.AdjustCounter(ctx, actor.ID, repositories.ColFollowingCount, 1); err != nil {
			return err
		}
		if _, err := tx.Users.AdjustCounter(ctx, targetID, repositories.ColFollowerCount, 1); err != nil {
			return err
		}
		// Re-read after the increment: the update holds the row lock, so
		// concurrent follows each observe a distinct count.
		target, err = tx.Users.GetUserByID(ctx, targetID)
		return err
	})
	if err != nil {
		return models.NewStoreError("follow user", err)
	}

	s.invalidateProfiles(ctx, actor.ID, targetID)
	s.cache.InvalidateFeeds(ctx)
	notify(ctx, s.notifier, notifications.Event{
		Type:        models.NotificationFollow,
		RecipientID: targetID,
		ActorID:     actor.ID,
	})
	if models.IsFollowerMilestone(target.FollowerCount) {
		notify(ctx, s.notifier, notifications.Event{
			Type:        models.NotificationMilestone,
			RecipientID: targetID,
			ActorID:     targetID,
			Milestone:   target.FollowerCount,
		})
	}
	return nil
}

// UnfollowUser removes the edge if present. Counters move only when a row was
// actually deleted, so unfollowing twice succeeds both times.
func (s *GraphService) UnfollowUser(ctx context.Context, actor *models.Identity, targetID string) (err error) {
	ctx, span := observability.StartSpan(ctx, "graph.UnfollowUser", attribute.String("target_id", targetID))
	defer func() {
		observability.RecordOperation("unfollow_user", err)
		observability.EndSpan(span, err)
	}()

	if err := requireActor(actor); err != nil {
		return err
	}
	if err := requireID("target user id", targetID); err != nil {
		return err
	}

	deleted := false
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		if deleted, err = tx.Follows.DeleteFollow(ctx, actor.ID, targetID); err != nil || !deleted {
			return err
		}
		if _, err := tx.Users.AdjustCounter(ctx, actor.ID, repositories.ColFollowingCount, -1); err != nil {
			return err
		}
		_, err = tx.Users.AdjustCounter(ctx, targetID, repositories.ColFollowerCount, -1)
		return err
	})
	if err != nil {
		return models.NewStoreError("unfollow user", err)
	}

	if deleted {
		s.invalidateProfiles(ctx, actor.ID, targetID)
		s.cache.InvalidateFeeds(ctx)
	}
	return nil
}

// invalidateProfiles drops the cached profile views of both ends of an edge,
// since each shows a counter the edge changed.
func (s *GraphService) invalidateProfiles(ctx context.Context, ids ...string) {
	users, err := s.store.Users.GetUsersByIDs(ctx, ids)
	if err != nil {
		sideEffectFailed(ctx, "profile_invalidate", err)
		return
	}
	for _, u := range users {
		s.cache.InvalidateProfile(ctx, u.Username)
	}
}

func (s *GraphService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.store.Follows.IsFollowing(ctx, followerID, followingID)
}

func (s *GraphService) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]models.UserCompact, error) {
	limit, offset = NormalizePage(limit, offset)
	users, err := s.store.Follows.GetFollowers(ctx, userID, limit, offset)
	return compact(users), err
}

func (s *GraphService) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]models.UserCompact, error) {
	limit, offset = NormalizePage(limit, offset)
	users, err := s.store.Follows.GetFollowing(ctx, userID, limit, offset)
	return compact(users), err
}

func compact(users []models.User) []models.UserCompact {
	out := make([]models.UserCompact, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToCompact())
	}
	return out
}

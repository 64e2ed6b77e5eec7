package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"github.com/anonto42/lumina/backend/internal/cache"
	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/notifications"
	"github.com/anonto42/lumina/backend/internal/observability"
	"github.com/anonto42/lumina/backend/internal/repositories"
)

// EngagementService owns likes and comments.
type EngagementService struct {
	store    *repositories.Store
	cache    *cache.PageCache
	notifier *notifications.Notifier
}

func NewEngagementService(store *repositories.Store, pages *cache.PageCache, notifier *notifications.Notifier) *EngagementService {
	return &EngagementService{store: store, cache: pages, notifier: notifier}
}

// ToggleLike flips the actor's like on a target and returns the new state.
// The existence check, edge mutation and counter update share one
// transaction; a concurrent duplicate insert fails on the unique index and
// rolls the whole toggle back.
func (s *EngagementService) ToggleLike(ctx context.Context, actor *models.Identity, likeableType models.LikeableType, likeableID string) (liked bool, err error) {
	ctx, span := observability.StartSpan(ctx, "engagement.ToggleLike",
		attribute.String("likeable_type", string(likeableType)),
		attribute.String("likeable_id", likeableID))
	defer func() {
		observability.RecordOperation("toggle_like", err)
		observability.EndSpan(span, err)
	}()

	if err := requireActor(actor); err != nil {
		return false, err
	}
	if !likeableType.Valid() {
		return false, models.NewValidationError("likeable_type must be one of post, video, comment")
	}
	if err := requireID("likeable_id", likeableID); err != nil {
		return false, err
	}

	var ownerID, ownerName string
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		existing, err := tx.Likes.GetLike(ctx, actor.ID, likeableType, likeableID)
		switch {
		case err == nil:
			if err := tx.Likes.DeleteLike(ctx, existing.ID); err != nil {
				return err
			}
			if _, err := tx.Targets.AdjustCounter(ctx, likeableType, likeableID, repositories.ColLikeCount, -1, false); err != nil {
				return err
			}
			liked = false
		case errors.Is(err, models.ErrNotFound):
			ok, err := tx.Targets.AdjustCounter(ctx, likeableType, likeableID, repositories.ColLikeCount, 1, true)
			if err != nil {
				return err
			}
			if !ok {
				return models.NewNotFoundError(string(likeableType))
			}
			if err := tx.Likes.CreateLike(ctx, &models.Like{
				UserID:       actor.ID,
				LikeableType: likeableType,
				LikeableID:   likeableID,
			}); err != nil {
				return err
			}
			liked = true
		default:
			return err
		}
		if ownerID, err = tx.Targets.GetOwnerID(ctx, likeableType, likeableID); err != nil {
			return err
		}
		ownerName, err = profileOwner(ctx, tx, likeableType, ownerID)
		return err
	})
	if err != nil {
		return false, models.NewStoreError("toggle like", err)
	}

	s.invalidate(ctx, ownerName)
	if liked {
		if ev, ok := likeEvent(likeableType); ok {
			notify(ctx, s.notifier, notifications.Event{
				Type:        ev,
				RecipientID: ownerID,
				ActorID:     actor.ID,
				EntityType:  likeableType,
				EntityID:    likeableID,
			})
		}
	}
	return liked, nil
}

func likeEvent(t models.LikeableType) (models.NotificationType, bool) {
	switch t {
	case models.LikeablePost:
		return models.NotificationLikePost, true
	case models.LikeableVideo:
		return models.NotificationLikeVideo, true
	}
	return "", false
}

// profileOwner returns the username whose profile grid shows the target's
// counters, or "" for comments.
func profileOwner(ctx context.Context, tx *repositories.Store, t models.LikeableType, ownerID string) (string, error) {
	if t == models.LikeableComment || ownerID == "" {
		return "", nil
	}
	owner, err := tx.Users.GetUserByID(ctx, ownerID)
	if errors.Is(err, models.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return owner.Username, nil
}

// invalidate drops every feed page and, when known, the owner's profile view.
func (s *EngagementService) invalidate(ctx context.Context, ownerName string) {
	s.cache.InvalidateFeeds(ctx)
	if ownerName != "" {
		s.cache.InvalidateProfile(ctx, ownerName)
	}
}

// HasLiked reports whether actor currently likes the target.
func (s *EngagementService) HasLiked(ctx context.Context, actor *models.Identity, likeableType models.LikeableType, likeableID string) (bool, error) {
	if err := requireActor(actor); err != nil {
		return false, err
	}
	if !likeableType.Valid() {
		return false, models.NewValidationError("likeable_type must be one of post, video, comment")
	}
	return s.store.Likes.HasLiked(ctx, actor.ID, likeableType, likeableID)
}

// AddComment stores trimmed content against a live post or video and returns
// the new comment id. parentID is stored as given.
func (s *EngagementService) AddComment(ctx context.Context, actor *models.Identity, commentableType models.ContentType, commentableID, content string, parentID *string) (commentID string, err error) {
	ctx, span := observability.StartSpan(ctx, "engagement.AddComment",
		attribute.String("commentable_type", string(commentableType)),
		attribute.String("commentable_id", commentableID))
	defer func() {
		observability.RecordOperation("add_comment", err)
		observability.EndSpan(span, err)
	}()

	if err := requireActor(actor); err != nil {
		return "", err
	}
	if !commentableType.Valid() {
		return "", models.NewValidationError("commentable_type must be one of post, video")
	}
	if err := requireID("commentable_id", commentableID); err != nil {
		return "", err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewValidationError("comment cannot be empty")
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return "", models.NewValidationError("comment must be at most %d characters", models.MaxCommentLength)
	}
	if parentID != nil && strings.TrimSpace(*parentID) == "" {
		parentID = nil
	}

	var ownerID, ownerName, parentAuthorID string
	comment := &models.Comment{
		UserID:          actor.ID,
		CommentableType: commentableType,
		CommentableID:   commentableID,
		ParentCommentID: parentID,
		Content:         content,
	}
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		target := commentableType.Likeable()
		ok, err := tx.Targets.AdjustCounter(ctx, target, commentableID, repositories.ColCommentCount, 1, true)
		if err != nil {
			return err
		}
		if !ok {
			return models.NewNotFoundError(string(commentableType))
		}
		if err := tx.Comments.CreateComment(ctx, comment); err != nil {
			return err
		}
		if ownerID, err = tx.Targets.GetOwnerID(ctx, target, commentableID); err != nil {
			return err
		}
		if ownerName, err = profileOwner(ctx, tx, target, ownerID); err != nil {
			return err
		}
		if parentID != nil {
			if parent, err := tx.Comments.GetCommentByID(ctx, *parentID); err == nil {
				parentAuthorID = parent.UserID
			} else if !errors.Is(err, models.ErrNotFound) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", models.NewStoreError("add comment", err)
	}

	s.invalidate(ctx, ownerName)
	s.notifyComment(ctx, actor, comment, ownerID, parentAuthorID)
	return comment.ID, nil
}

func (s *EngagementService) notifyComment(ctx context.Context, actor *models.Identity, c *models.Comment, ownerID, parentAuthorID string) {
	// A reply notifies the parent's author; a top-level comment notifies the
	// content owner.
	notified := map[string]bool{actor.ID: true}
	switch {
	case parentAuthorID != "":
		notified[parentAuthorID] = true
		notify(ctx, s.notifier, notifications.Event{
			Type:        models.NotificationReply,
			RecipientID: parentAuthorID,
			ActorID:     actor.ID,
			EntityType:  models.LikeableComment,
			EntityID:    c.ID,
		})
	default:
		notified[ownerID] = true
		notify(ctx, s.notifier, notifications.Event{
			Type:        models.NotificationComment,
			RecipientID: ownerID,
			ActorID:     actor.ID,
			EntityType:  c.CommentableType.Likeable(),
			EntityID:    c.CommentableID,
		})
	}

	usernames := ExtractMentions(c.Content)
	if len(usernames) == 0 {
		return
	}
	mentioned, err := s.store.Users.GetUsersByUsernames(ctx, usernames)
	if err != nil {
		sideEffectFailed(ctx, "mention_lookup", err)
		return
	}
	for _, u := range mentioned {
		if notified[u.ID] {
			continue
		}
		notified[u.ID] = true
		notify(ctx, s.notifier, notifications.Event{
			Type:        models.NotificationMention,
			RecipientID: u.ID,
			ActorID:     actor.ID,
			EntityType:  models.LikeableComment,
			EntityID:    c.ID,
		})
	}
}

// DeleteComment soft-deletes a comment owned by actor. Deleting an already
// deleted comment succeeds without further effect.
func (s *EngagementService) DeleteComment(ctx context.Context, actor *models.Identity, commentID string) (err error) {
	ctx, span := observability.StartSpan(ctx, "engagement.DeleteComment",
		attribute.String("comment_id", commentID))
	defer func() {
		observability.RecordOperation("delete_comment", err)
		observability.EndSpan(span, err)
	}()

	if err := requireActor(actor); err != nil {
		return err
	}
	if err := requireID("comment_id", commentID); err != nil {
		return err
	}

	changed := false
	var ownerName string
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		comment, err := tx.Comments.GetCommentByID(ctx, commentID)
		if err != nil {
			return err
		}
		if comment.UserID != actor.ID {
			return models.ErrForbidden
		}
		if changed, err = tx.Comments.SoftDeleteComment(ctx, commentID); err != nil || !changed {
			return err
		}
		target := comment.CommentableType.Likeable()
		if _, err := tx.Targets.AdjustCounter(ctx, target, comment.CommentableID, repositories.ColCommentCount, -1, false); err != nil {
			return err
		}
		ownerID, err := tx.Targets.GetOwnerID(ctx, target, comment.CommentableID)
		if err != nil {
			return err
		}
		ownerName, err = profileOwner(ctx, tx, target, ownerID)
		return err
	})
	if err != nil {
		return models.NewStoreError("delete comment", err)
	}
	if changed {
		s.invalidate(ctx, ownerName)
	}
	return nil
}

// ListComments returns comments on a target newest first with their authors.
func (s *EngagementService) ListComments(ctx context.Context, commentableType models.ContentType, commentableID string, parentID *string, limit, offset int) ([]models.CommentView, error) {
	if !commentableType.Valid() {
		return nil, models.NewValidationError("commentable_type must be one of post, video")
	}
	if err := requireID("commentable_id", commentableID); err != nil {
		return nil, err
	}
	limit, offset = NormalizePage(limit, offset)
	comments, err := s.store.Comments.GetComments(ctx, commentableType, commentableID, parentID, limit, offset)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	users, err := s.store.Users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	authors := make(map[string]models.UserCompact, len(users))
	for i := range users {
		authors[users[i].ID] = users[i].ToCompact()
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		author, ok := authors[c.UserID]
		if !ok {
			author = models.UserCompact{ID: c.UserID}
		}
		views = append(views, models.CommentView{Comment: c, Author: author})
	}
	return views, nil
}

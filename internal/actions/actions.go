// Package actions exposes the mutating engagement and graph operations as
// calls that never return a Go error. Every outcome is a Result the caller
// branches on, so an optimistic UI can confirm or revert uniformly.
package actions

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/anonto42/lumina/backend/internal/models"
)

// Result is the outcome of an action. Error carries the message of the
// failure; Kind its classification.
type Result struct {
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Kind    models.ErrorKind `json:"-"`
}

type LikeResult struct {
	Result
	Liked bool `json:"liked"`
}

type CommentResult struct {
	Result
	CommentID string `json:"comment_id,omitempty"`
}

// Engagement is the subset of the engagement service the actions call.
type Engagement interface {
	ToggleLike(ctx context.Context, actor *models.Identity, likeableType models.LikeableType, likeableID string) (bool, error)
	AddComment(ctx context.Context, actor *models.Identity, commentableType models.ContentType, commentableID, content string, parentID *string) (string, error)
	DeleteComment(ctx context.Context, actor *models.Identity, commentID string) error
}

// Graph is the subset of the graph service the actions call.
type Graph interface {
	FollowUser(ctx context.Context, actor *models.Identity, targetID string) error
	UnfollowUser(ctx context.Context, actor *models.Identity, targetID string) error
}

type Actions struct {
	engagement Engagement
	graph      Graph
}

func New(engagement Engagement, graph Graph) *Actions {
	return &Actions{engagement: engagement, graph: graph}
}

func (a *Actions) ToggleLike(ctx context.Context, actor *models.Identity, likeableType models.LikeableType, likeableID string) LikeResult {
	liked, err := a.engagement.ToggleLike(ctx, actor, likeableType, likeableID)
	if err != nil {
		return LikeResult{Result: fail(ctx, "toggle_like", err)}
	}
	return LikeResult{Result: ok(), Liked: liked}
}

func (a *Actions) AddComment(ctx context.Context, actor *models.Identity, commentableType models.ContentType, commentableID, content string, parentID *string) CommentResult {
	id, err := a.engagement.AddComment(ctx, actor, commentableType, commentableID, content, parentID)
	if err != nil {
		return CommentResult{Result: fail(ctx, "add_comment", err)}
	}
	return CommentResult{Result: ok(), CommentID: id}
}

func (a *Actions) DeleteComment(ctx context.Context, actor *models.Identity, commentID string) Result {
	return From(ctx, "delete_comment", a.engagement.DeleteComment(ctx, actor, commentID))
}

func (a *Actions) FollowUser(ctx context.Context, actor *models.Identity, targetID string) Result {
	return From(ctx, "follow_user", a.graph.FollowUser(ctx, actor, targetID))
}

func (a *Actions) UnfollowUser(ctx context.Context, actor *models.Identity, targetID string) Result {
	return From(ctx, "unfollow_user", a.graph.UnfollowUser(ctx, actor, targetID))
}

// From converts err into a Result.
func From(ctx context.Context, op string, err error) Result {
	if err != nil {
		return fail(ctx, op, err)
	}
	return ok()
}

func ok() Result {
	return Result{Success: true, Kind: models.KindNone}
}

func fail(ctx context.Context, op string, err error) Result {
	kind := models.KindOf(err)
	switch kind {
	case models.KindStore, models.KindInternal:
		log.Ctx(ctx).Error().Err(err).Str("action", op).Msg("action failed")
	default:
		log.Ctx(ctx).Debug().Err(err).Str("action", op).Str("kind", string(kind)).Msg("action rejected")
	}
	return Result{Error: err.Error(), Kind: kind}
}

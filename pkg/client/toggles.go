package client

import "context"

// LikeState is what a like button renders.
type LikeState struct {
	Liked bool
	Count int64
}

// LikeToggle drives one like button.
type LikeToggle struct {
	client       *Client
	likeableType string
	likeableID   string
	State        *Optimistic[LikeState]
}

func (c *Client) NewLikeToggle(likeableType, likeableID string, initial LikeState) *LikeToggle {
	return &LikeToggle{
		client:       c,
		likeableType: likeableType,
		likeableID:   likeableID,
		State:        NewOptimistic(initial),
	}
}

// Toggle flips the like locally, then settles on what the server reports.
// The count is derived from the committed state since the server only
// returns the resulting boolean.
func (t *LikeToggle) Toggle(ctx context.Context) (LikeState, error) {
	before := t.State.Committed()
	return t.State.Run(ctx, flipLike(before, !before.Liked), func(ctx context.Context) (LikeState, error) {
		liked, err := t.client.ToggleLike(ctx, t.likeableType, t.likeableID)
		if err != nil {
			return LikeState{}, err
		}
		return flipLike(before, liked), nil
	})
}

func flipLike(from LikeState, liked bool) LikeState {
	next := LikeState{Liked: liked, Count: from.Count}
	switch {
	case liked && !from.Liked:
		next.Count++
	case !liked && from.Liked && next.Count > 0:
		next.Count--
	}
	return next
}

// FollowToggle drives one follow button.
type FollowToggle struct {
	client *Client
	userID string
	State  *Optimistic[bool]
}

func (c *Client) NewFollowToggle(userID string, following bool) *FollowToggle {
	return &FollowToggle{client: c, userID: userID, State: NewOptimistic(following)}
}

// Toggle follows or unfollows. A conflict on follow means the edge already
// exists, which confirms the optimistic state.
func (t *FollowToggle) Toggle(ctx context.Context) (bool, error) {
	next := !t.State.Committed()
	return t.State.Run(ctx, next, func(ctx context.Context) (bool, error) {
		if !next {
			return false, t.client.Unfollow(ctx, t.userID)
		}
		if err := t.client.Follow(ctx, t.userID); err != nil && !IsConflict(err) {
			return false, err
		}
		return true, nil
	})
}

package services

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/anonto42/lumina/backend/internal/cache"
	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/observability"
	"github.com/anonto42/lumina/backend/internal/repositories"
)

// profileGridSize bounds the content grid on a profile page.
const profileGridSize = 60

type ProfileService struct {
	store *repositories.Store
	cache *cache.PageCache
}

func NewProfileService(store *repositories.Store, pages *cache.PageCache) *ProfileService {
	return &ProfileService{store: store, cache: pages}
}

// profileSnapshot is the viewer-independent part of a profile page.
type profileSnapshot struct {
	User    *models.User         `json:"user"`
	Content []models.ContentTile `json:"content"`
}

// GetProfile assembles the profile page for username. viewer may be nil for
// anonymous access.
func (s *ProfileService) GetProfile(ctx context.Context, viewer *models.Identity, username string) (view *models.ProfileView, err error) {
	ctx, span := observability.StartSpan(ctx, "profile.GetProfile", attribute.String("username", username))
	defer func() { observability.EndSpan(span, err) }()

	username = strings.TrimSpace(username)
	if err := requireID("username", username); err != nil {
		return nil, err
	}

	var snap profileSnapshot
	err = s.cache.Aside(ctx, cache.ProfileKey(username), &snap, s.cache.ProfileTTL(), func() error {
		return s.loadSnapshot(ctx, username, &snap)
	})
	if err != nil {
		return nil, err
	}

	view = &models.ProfileView{User: snap.User, Content: snap.Content}
	if view.Content == nil {
		view.Content = []models.ContentTile{}
	}
	if viewer != nil && viewer.ID != "" {
		view.IsOwnProfile = viewer.ID == snap.User.ID
		if !view.IsOwnProfile {
			if view.IsFollowing, err = s.store.Follows.IsFollowing(ctx, viewer.ID, snap.User.ID); err != nil {
				return nil, err
			}
		}
	}
	return view, nil
}

func (s *ProfileService) loadSnapshot(ctx context.Context, username string, snap *profileSnapshot) error {
	user, err := s.store.Users.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	posts, err := s.store.Posts.GetPostsByUser(ctx, user.ID, profileGridSize)
	if err != nil {
		return err
	}
	videos, err := s.store.Videos.GetVideosByUser(ctx, user.ID, true, profileGridSize)
	if err != nil {
		return err
	}

	tiles := make([]models.ContentTile, 0, len(posts)+len(videos))
	for _, p := range posts {
		tiles = append(tiles, models.ContentTile{
			ID: p.ID, Type: models.ContentPost, ThumbnailURL: p.ImageURL,
			LikeCount: p.LikeCount, CommentCount: p.CommentCount, CreatedAt: p.CreatedAt,
		})
	}
	for _, v := range videos {
		tiles = append(tiles, models.ContentTile{
			ID: v.ID, Type: models.ContentVideo, ThumbnailURL: v.ThumbnailURL,
			LikeCount: v.LikeCount, CommentCount: v.CommentCount, CreatedAt: v.CreatedAt,
		})
	}
	sort.SliceStable(tiles, func(i, j int) bool {
		if tiles[i].CreatedAt.Equal(tiles[j].CreatedAt) {
			return tiles[i].ID > tiles[j].ID
		}
		return tiles[i].CreatedAt.After(tiles[j].CreatedAt)
	})
	if len(tiles) > profileGridSize {
		tiles = tiles[:profileGridSize]
	}
	snap.User = user
	snap.Content = tiles
	return nil
}

// UpdateProfile edits the actor's own profile and returns the updated row.
func (s *ProfileService) UpdateProfile(ctx context.Context, actor *models.Identity, req *models.UpdateProfileRequest) (user *models.User, err error) {
	defer func() { observability.RecordOperation("update_profile", err) }()

	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := s.store.Users.UpdateProfile(ctx, actor.ID, req); err != nil {
		return nil, err
	}
	if user, err = s.store.Users.GetUserByID(ctx, actor.ID); err != nil {
		return nil, err
	}
	s.cache.InvalidateProfile(ctx, user.Username)
	return user, nil
}

func (s *ProfileService) SearchUsers(ctx context.Context, query string, limit int) ([]models.UserCompact, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.UserCompact{}, nil
	}
	limit, _ = NormalizePage(limit, 0)
	users, err := s.store.Users.SearchUsers(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return compact(users), nil
}

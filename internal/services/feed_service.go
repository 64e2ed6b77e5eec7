package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/anonto42/lumina/backend/internal/cache"
	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/observability"
	"github.com/anonto42/lumina/backend/internal/repositories"
)

// FeedService enforces the feed contract on top of FeedRepository: bounds,
// like annotations and page caching.
type FeedService struct {
	store *repositories.Store
	cache *cache.PageCache
}

func NewFeedService(store *repositories.Store, pages *cache.PageCache) *FeedService {
	return &FeedService{store: store, cache: pages}
}

// GetFeed returns one page of the viewer's feed. An empty feed is not an error.
func (s *FeedService) GetFeed(ctx context.Context, viewer *models.Identity, limit, offset int) (page *models.FeedPage, err error) {
	if err := requireActor(viewer); err != nil {
		return nil, err
	}
	limit, offset = NormalizePage(limit, offset)

	ctx, span := observability.StartSpan(ctx, "feed.GetFeed",
		attribute.Int("limit", limit), attribute.Int("offset", offset))
	defer func() { observability.EndSpan(span, err) }()

	page = &models.FeedPage{Limit: limit, Offset: offset}
	key := cache.FeedKey(s.cache.FeedGeneration(ctx), viewer.ID, limit, offset)
	err = s.cache.Aside(ctx, key, page, s.cache.FeedTTL(), func() error {
		// One extra row tells us whether another page exists.
		items, err := s.store.Feed.ComputeFeed(ctx, viewer.ID, limit+1, offset)
		if err != nil {
			return err
		}
		if len(items) > limit {
			items = items[:limit]
			page.HasMore = true
		}
		if err := s.annotateLikes(ctx, viewer.ID, items); err != nil {
			return err
		}
		page.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []models.FeedItem{}
	}
	return page, nil
}

func (s *FeedService) annotateLikes(ctx context.Context, viewerID string, items []models.FeedItem) error {
	ids := map[models.LikeableType][]string{}
	for _, it := range items {
		t := it.ContentType.Likeable()
		ids[t] = append(ids[t], it.ContentID)
	}
	liked := map[models.LikeableType]map[string]bool{}
	for t, group := range ids {
		set, err := s.store.Likes.GetLikedIDs(ctx, viewerID, t, group)
		if err != nil {
			return err
		}
		liked[t] = set
	}
	for i := range items {
		items[i].IsLiked = liked[items[i].ContentType.Likeable()][items[i].ContentID]
	}
	return nil
}

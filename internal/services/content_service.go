package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/anonto42/lumina/backend/internal/cache"
	"github.com/anonto42/lumina/backend/internal/models"
	"github.com/anonto42/lumina/backend/internal/observability"
	"github.com/anonto42/lumina/backend/internal/repositories"
)

// ContentService creates and retires posts and videos.
type ContentService struct {
	store *repositories.Store
	cache *cache.PageCache
}

func NewContentService(store *repositories.Store, pages *cache.PageCache) *ContentService {
	return &ContentService{store: store, cache: pages}
}

func (s *ContentService) CreatePost(ctx context.Context, actor *models.Identity, req *models.CreatePostRequest) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "content.CreatePost")
	defer func() {
		observability.RecordOperation("create_post", err)
		observability.EndSpan(span, err)
	}()

	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ImageURL) == "" {
		return nil, models.NewValidationError("image_url is required")
	}

	post = &models.Post{
		UserID:   actor.ID,
		ImageURL: req.ImageURL,
		Caption:  req.Caption,
		AltText:  req.AltText,
		Location: req.Location,
	}
	var tags []string
	if req.Caption != nil {
		tags = ExtractHashtags(*req.Caption)
	}

	var author *models.User
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		if author, err = tx.Users.GetUserByID(ctx, actor.ID); err != nil {
			return err
		}
		if err := tx.Posts.CreatePost(ctx, post); err != nil {
			return err
		}
		if _, err := tx.Users.AdjustCounter(ctx, actor.ID, repositories.ColPostCount, 1); err != nil {
			return err
		}
		hashtags, err := tx.Hashtags.EnsureHashtags(ctx, tags)
		if err != nil {
			return err
		}
		return tx.Hashtags.LinkPost(ctx, post.ID, hashtags)
	})
	if err != nil {
		return nil, models.NewStoreError("create post", err)
	}

	s.cache.InvalidateFeeds(ctx)
	s.cache.InvalidateProfile(ctx, author.Username)
	return post, nil
}

func (s *ContentService) CreateVideo(ctx context.Context, actor *models.Identity, req *models.CreateVideoRequest) (video *models.Video, err error) {
	ctx, span := observability.StartSpan(ctx, "content.CreateVideo")
	defer func() {
		observability.RecordOperation("create_video", err)
		observability.EndSpan(span, err)
	}()

	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.VideoURL) == "" {
		return nil, models.NewValidationError("title and video_url are required")
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if !visibility.Valid() {
		return nil, models.NewValidationError("visibility must be one of public, unlisted, private")
	}

	video = &models.Video{
		UserID:           actor.ID,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		VideoURL:         req.VideoURL,
		ThumbnailURL:     req.ThumbnailURL,
		Duration:         req.Duration,
		Resolution:       req.Resolution,
		FileSize:         req.FileSize,
		Visibility:       visibility,
		ProcessingStatus: models.StatusUploading,
	}
	texts := []string{video.Title}
	if req.Description != nil {
		texts = append(texts, *req.Description)
	}
	tags := ExtractHashtags(texts...)

	var author *models.User
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		if author, err = tx.Users.GetUserByID(ctx, actor.ID); err != nil {
			return err
		}
		if err := tx.Videos.CreateVideo(ctx, video); err != nil {
			return err
		}
		if _, err := tx.Users.AdjustCounter(ctx, actor.ID, repositories.ColPostCount, 1); err != nil {
			return err
		}
		hashtags, err := tx.Hashtags.EnsureHashtags(ctx, tags)
		if err != nil {
			return err
		}
		return tx.Hashtags.LinkVideo(ctx, video.ID, hashtags)
	})
	if err != nil {
		return nil, models.NewStoreError("create video", err)
	}

	s.cache.InvalidateFeeds(ctx)
	s.cache.InvalidateProfile(ctx, author.Username)
	return video, nil
}

// DeletePost soft-deletes a post owned by actor.
func (s *ContentService) DeletePost(ctx context.Context, actor *models.Identity, postID string) (err error) {
	ctx, span := observability.StartSpan(ctx, "content.DeletePost", attribute.String("post_id", postID))
	defer func() {
		observability.RecordOperation("delete_post", err)
		observability.EndSpan(span, err)
	}()

	if err := requireActor(actor); err != nil {
		return err
	}
	return s.retire(ctx, actor, func(tx *repositories.Store) (bool, error) {
		post, err := tx.Posts.GetPostByID(ctx, postID)
		if err != nil {
			return false, err
		}
		if post.UserID != actor.ID {
			return false, models.ErrForbidden
		}
		changed, err := tx.Posts.SoftDeletePost(ctx, postID)
		if err != nil || !changed {
			return false, err
		}
		return true, tx.Hashtags.AdjustCounts(ctx, postID, "", -1)
	})
}

// DeleteVideo soft-deletes a video owned by actor.
func (s *ContentService) DeleteVideo(ctx context.Context, actor *models.Identity, videoID string) (err error) {
	ctx, span := observability.StartSpan(ctx, "content.DeleteVideo", attribute.String("video_id", videoID))
	defer func() {
		observability.RecordOperation("delete_video", err)
		observability.EndSpan(span, err)
	}()

	if err := requireActor(actor); err != nil {
		return err
	}
	return s.retire(ctx, actor, func(tx *repositories.Store) (bool, error) {
		video, err := tx.Videos.GetVideoByID(ctx, videoID)
		if err != nil {
			return false, err
		}
		if video.UserID != actor.ID {
			return false, models.ErrForbidden
		}
		changed, err := tx.Videos.SoftDeleteVideo(ctx, videoID)
		if err != nil || !changed {
			return false, err
		}
		return true, tx.Hashtags.AdjustCounts(ctx, "", videoID, -1)
	})
}

// retire runs del in a transaction and, when it reports a state change,
// decrements the owner's post_count in the same transaction.
func (s *ContentService) retire(ctx context.Context, actor *models.Identity, del func(tx *repositories.Store) (bool, error)) error {
	changed := false
	var owner *models.User
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		if changed, err = del(tx); err != nil || !changed {
			return err
		}
		if _, err := tx.Users.AdjustCounter(ctx, actor.ID, repositories.ColPostCount, -1); err != nil {
			return err
		}
		owner, err = tx.Users.GetUserByID(ctx, actor.ID)
		return err
	})
	if err != nil {
		return models.NewStoreError("delete content", err)
	}
	if changed {
		s.cache.InvalidateFeeds(ctx)
		s.cache.InvalidateProfile(ctx, owner.Username)
	}
	return nil
}

// UpdateVideoStatus advances the processing pipeline of an owned video.
func (s *ContentService) UpdateVideoStatus(ctx context.Context, actor *models.Identity, videoID string, next models.ProcessingStatus) (video *models.Video, err error) {
	ctx, span := observability.StartSpan(ctx, "content.UpdateVideoStatus",
		attribute.String("video_id", videoID), attribute.String("status", string(next)))
	defer func() {
		observability.RecordOperation("update_video_status", err)
		observability.EndSpan(span, err)
	}()

	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !next.Valid() {
		return nil, models.NewValidationError("unknown processing status %q", string(next))
	}

	var owner *models.User
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		if video, err = tx.Videos.GetVideoByID(ctx, videoID); err != nil {
			return err
		}
		if video.IsDeleted {
			return models.NewNotFoundError("video")
		}
		if video.UserID != actor.ID {
			return models.ErrForbidden
		}
		if !video.ProcessingStatus.CanTransitionTo(next) {
			return models.NewValidationError("cannot move video from %s to %s", video.ProcessingStatus, next)
		}
		ok, err := tx.Videos.UpdateStatus(ctx, videoID, video.ProcessingStatus, next)
		if err != nil {
			return err
		}
		if !ok {
			return models.NewValidationError("video status changed concurrently")
		}
		video.ProcessingStatus = next
		owner, err = tx.Users.GetUserByID(ctx, actor.ID)
		return err
	})
	if err != nil {
		return nil, models.NewStoreError("update video status", err)
	}
	// The owner's feed shows the status of every video, and the profile grid
	// shows ready ones.
	s.cache.InvalidateFeeds(ctx)
	s.cache.InvalidateProfile(ctx, owner.Username)
	return video, nil
}

// ListByHashtag returns live posts tagged with tag, newest first.
func (s *ContentService) ListByHashtag(ctx context.Context, tag string, limit, offset int) ([]models.Post, error) {
	tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
	if tag == "" {
		return nil, models.NewValidationError("tag is required")
	}
	limit, offset = NormalizePage(limit, offset)
	h, err := s.store.Hashtags.GetHashtagByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	return s.store.Posts.GetPostsByHashtag(ctx, h.ID, limit, offset)
}

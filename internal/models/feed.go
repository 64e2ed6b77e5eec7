package models

import "time"

// FeedItem is one entry of a viewer's feed. Exactly one of Post and Video is set,
// matching ContentType.
type FeedItem struct {
	ContentType  ContentType   `json:"content_type"`
	ContentID    string        `json:"content_id"`
	Author       UserCompact   `json:"author"`
	Post         *PostPayload  `json:"post,omitempty"`
	Video        *VideoPayload `json:"video,omitempty"`
	LikeCount    int64         `json:"like_count"`
	CommentCount int64         `json:"comment_count"`
	ViewCount    int64         `json:"view_count"`
	IsLiked      bool          `json:"is_liked"`
	CreatedAt    time.Time     `json:"created_at"`
}

type PostPayload struct {
	ImageURL string  `json:"image_url"`
	Caption  *string `json:"caption"`
	AltText  *string `json:"alt_text"`
	Location *string `json:"location"`
}

type VideoPayload struct {
	Title            string           `json:"title"`
	Description      *string          `json:"description"`
	VideoURL         string           `json:"video_url"`
	ThumbnailURL     string           `json:"thumbnail_url"`
	Duration         int              `json:"duration"`
	Visibility       Visibility       `json:"visibility"`
	ProcessingStatus ProcessingStatus `json:"processing_status"`
}

func NewPostFeedItem(p *Post, author UserCompact) FeedItem {
	return FeedItem{
		ContentType: ContentPost,
		ContentID:   p.ID,
		Author:      author,
		Post: &PostPayload{
			ImageURL: p.ImageURL,
			Caption:  p.Caption,
			AltText:  p.AltText,
			Location: p.Location,
		},
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		ViewCount:    p.ViewCount,
		CreatedAt:    p.CreatedAt,
	}
}

func NewVideoFeedItem(v *Video, author UserCompact) FeedItem {
	return FeedItem{
		ContentType: ContentVideo,
		ContentID:   v.ID,
		Author:      author,
		Video: &VideoPayload{
			Title:            v.Title,
			Description:      v.Description,
			VideoURL:         v.VideoURL,
			ThumbnailURL:     v.ThumbnailURL,
			Duration:         v.Duration,
			Visibility:       v.Visibility,
			ProcessingStatus: v.ProcessingStatus,
		},
		LikeCount:    v.LikeCount,
		CommentCount: v.CommentCount,
		ViewCount:    v.ViewCount,
		CreatedAt:    v.CreatedAt,
	}
}

// Before orders feed items newest first, ties broken by descending id.
func (i FeedItem) Before(o FeedItem) bool {
	if !i.CreatedAt.Equal(o.CreatedAt) {
		return i.CreatedAt.After(o.CreatedAt)
	}
	return i.ContentID > o.ContentID
}

type FeedPage struct {
	Items   []FeedItem `json:"items"`
	Limit   int        `json:"limit"`
	Offset  int        `json:"offset"`
	HasMore bool       `json:"has_more"`
}

// ContentTile is a profile grid cell.
type ContentTile struct {
	ID           string      `json:"id"`
	Type         ContentType `json:"type"`
	ThumbnailURL string      `json:"thumbnail_url"`
	LikeCount    int64       `json:"like_count"`
	CommentCount int64       `json:"comment_count"`
	CreatedAt    time.Time   `json:"created_at"`
}

type ProfileView struct {
	User         *User         `json:"user"`
	IsOwnProfile bool          `json:"is_own_profile"`
	IsFollowing  bool          `json:"is_following"`
	Content      []ContentTile `json:"content"`
}

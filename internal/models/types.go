package models

import "strings"

// LikeableType names the kinds of content a user can like.
type LikeableType string

const (
	LikeablePost    LikeableType = "post"
	LikeableVideo   LikeableType = "video"
	LikeableComment LikeableType = "comment"
)

func (t LikeableType) Valid() bool {
	switch t {
	case LikeablePost, LikeableVideo, LikeableComment:
		return true
	}
	return false
}

// ParseLikeableType normalizes s and rejects anything outside post|video|comment.
func ParseLikeableType(s string) (LikeableType, error) {
	t := LikeableType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", NewValidationError("likeable_type must be one of post, video, comment")
	}
	return t, nil
}

// ContentType is the discriminant shared by comment targets and feed items.
type ContentType string

const (
	ContentPost  ContentType = "post"
	ContentVideo ContentType = "video"
)

func (t ContentType) Valid() bool {
	return t == ContentPost || t == ContentVideo
}

// Likeable maps a content kind onto the like target namespace.
func (t ContentType) Likeable() LikeableType {
	return LikeableType(t)
}

func ParseContentType(s string) (ContentType, error) {
	t := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", NewValidationError("commentable_type must be one of post, video")
	}
	return t, nil
}

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityUnlisted, VisibilityPrivate:
		return true
	}
	return false
}

type ProcessingStatus string

const (
	StatusUploading  ProcessingStatus = "uploading"
	StatusProcessing ProcessingStatus = "processing"
	StatusReady      ProcessingStatus = "ready"
	StatusFailed     ProcessingStatus = "failed"
)

func (s ProcessingStatus) Valid() bool {
	switch s {
	case StatusUploading, StatusProcessing, StatusReady, StatusFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the pipeline may move from s to next.
// ready is terminal; failed may only be retried.
func (s ProcessingStatus) CanTransitionTo(next ProcessingStatus) bool {
	switch s {
	case StatusUploading:
		return next == StatusProcessing || next == StatusFailed
	case StatusProcessing:
		return next == StatusReady || next == StatusFailed
	case StatusFailed:
		return next == StatusProcessing
	}
	return false
}

type NotificationType string

const (
	NotificationFollow    NotificationType = "follow"
	NotificationLikePost  NotificationType = "like_post"
	NotificationLikeVideo NotificationType = "like_video"
	NotificationComment   NotificationType = "comment"
	NotificationReply     NotificationType = "reply"
	NotificationMention   NotificationType = "mention"
	NotificationMilestone NotificationType = "milestone"
)

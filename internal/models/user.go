package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID                string    `json:"id" gorm:"primaryKey;size:128"`
	Email             string    `json:"email" gorm:"size:255;index"`
	Username          string    `json:"username" gorm:"size:30;not null;uniqueIndex"`
	DisplayName       *string   `json:"display_name" gorm:"size:100"`
	Bio               *string   `json:"bio" gorm:"size:500"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	WebsiteURL        *string   `json:"website_url"`
	FollowerCount     int64     `json:"follower_count" gorm:"not null"`
	FollowingCount    int64     `json:"following_count" gorm:"not null"`
	PostCount         int64     `json:"post_count" gorm:"not null"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UserCompact is the author snapshot embedded in feeds, comments and lists.
type UserCompact struct {
	ID                string  `json:"id"`
	Username          string  `json:"username"`
	DisplayName       *string `json:"display_name"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:                u.ID,
		Username:          u.Username,
		DisplayName:       u.DisplayName,
		ProfilePictureURL: u.ProfilePictureURL,
	}
}

type UpdateProfileRequest struct {
	DisplayName       *string `json:"display_name" validate:"omitempty,max=100"`
	Bio               *string `json:"bio" validate:"omitempty,max=500"`
	ProfilePictureURL *string `json:"profile_picture_url" validate:"omitempty,url"`
	WebsiteURL        *string `json:"website_url" validate:"omitempty,url"`
}

// Identity is the authenticated actor on whose behalf an operation runs.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Provider    string `json:"provider"`
}

// JwtCustomClaims are the claims carried by locally issued tokens.
type JwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Credential stores the password hash for locally registered accounts.
type Credential struct {
	UserID       string `gorm:"primaryKey;size:128"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required,username"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

package model

import (
	"database/sql"
	"time"
)

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// PasswordHash and RefreshTokenHash never leave the server.
	PasswordHash     string         `json:"-"`
	RefreshTokenHash sql.NullString `json:"-"`
}

// UserSummary is the public slice of a user embedded in event and chat
// responses.
type UserSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
	}
}

// AuthIdentity is the immutable per-request identity the session guard
// attaches to the request context.
type AuthIdentity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

// Profile is the public representation of a user returned by the profile
// endpoints.
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Description: u.Description,
		CreatedAt:   u.CreatedAt,
	}
}

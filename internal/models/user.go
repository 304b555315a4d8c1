package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RoleParent = "parent"
	RoleKid    = "kid"
	RoleAdmin  = "admin"
)

type UserProfile struct {
	bun.BaseModel `bun:"table:user_profile"`
	UserID        string    `bun:"user_id,pk" json:"user_id"`
	Email         string    `bun:"email" json:"email"`
	DisplayName   string    `bun:"display_name" json:"display_name"`
	Role          string    `bun:"role" json:"role"`
	FamilyID      *string   `bun:"family_id" json:"family_id"`
	PasswordHash  string    `bun:"password_hash" json:"-"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`
}

func (p *UserProfile) AuthUser() *AuthUser {
	return &AuthUser{
		ID:          p.UserID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Role:        p.Role,
		FamilyID:    p.FamilyID,
	}
}

// AuthUser is the profile shape crossing the service boundary. A user that
// exists in auth but has no profile row keeps ID only.
type AuthUser struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"`
	FamilyID    *string `json:"family_id"`
}

type Session struct {
	Token     string    `json:"token" msgpack:"token"`
	User      AuthUser  `json:"user" msgpack:"user"`
	ExpiresAt time.Time `json:"expires_at" msgpack:"expires_at"`
}

// Kid is derived, never persisted: one row per role=kid profile with the sum
// of that kid's approved point entries.
type Kid struct {
	UserID      string `bun:"user_id" json:"user_id"`
	DisplayName string `bun:"display_name" json:"display_name"`
	TotalPoints int    `bun:"total_points" json:"total_points"`
}

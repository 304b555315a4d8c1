package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	CategoryObligation = "obligation"
	CategoryNiceToHave = "nice_to_have"
	CategoryForbidden  = "forbidden"
)

// Activity points are signed: forbidden acts carry negative values.
type Activity struct {
	bun.BaseModel    `bun:"table:activity"`
	ID               string     `bun:"id,pk" json:"id"`
	FamilyID         string     `bun:"family_id" json:"family_id"`
	Name             string     `bun:"name" json:"name"`
	Category         string     `bun:"category" json:"category"`
	Points           int        `bun:"points" json:"points"`
	RequiresApproval bool       `bun:"requires_approval" json:"requires_approval"`
	Deadline         *time.Time `bun:"deadline" json:"deadline"`
	CreatedBy        string     `bun:"created_by" json:"created_by"`
	CreatedAt        time.Time  `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time  `bun:"updated_at" json:"updated_at"`
}

// ActivityPatch carries a partial update; nil fields are left untouched.
type ActivityPatch struct {
	Name             *string    `json:"name"`
	Category         *string    `json:"category"`
	Points           *int       `json:"points"`
	RequiresApproval *bool      `json:"requires_approval"`
	Deadline         *time.Time `json:"deadline"`
}

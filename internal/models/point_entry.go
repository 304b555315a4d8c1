package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// PointEntry records points gained or lost by a user. Entries default to
// approved unless explicitly submitted pending; pending entries leave that
// state only through the approval transition.
type PointEntry struct {
	bun.BaseModel `bun:"table:point_entry"`
	ID            string     `bun:"id,pk" json:"id"`
	FamilyID      string     `bun:"family_id" json:"family_id"`
	UserID        string     `bun:"user_id" json:"user_id"`
	ActivityID    *string    `bun:"activity_id" json:"activity_id"`
	RewardID      *string    `bun:"reward_id" json:"reward_id"`
	Points        int        `bun:"points" json:"points"`
	Status        string     `bun:"status" json:"status"`
	SubmittedAt   time.Time  `bun:"submitted_at,default:current_timestamp" json:"submitted_at"`
	ApprovedAt    *time.Time `bun:"approved_at" json:"approved_at"`
	ApprovedBy    *string    `bun:"approved_by" json:"approved_by"`
	Notes         *string    `bun:"notes" json:"notes"`
}

type PointEntryPatch struct {
	Points *int    `json:"points"`
	Notes  *string `json:"notes"`
}

// PendingActivity is the flattened approval-queue view: one row per pending
// point entry with the activity and kid names resolved.
type PendingActivity struct {
	EntryID      string    `bun:"entry_id" json:"entry_id"`
	FamilyID     string    `bun:"family_id" json:"family_id"`
	UserID       string    `bun:"user_id" json:"user_id"`
	ActivityName string    `bun:"activity_name" json:"activity_name"`
	KidName      string    `bun:"kid_name" json:"kid_name"`
	Points       int       `bun:"points" json:"points"`
	SubmittedAt  time.Time `bun:"submitted_at" json:"submitted_at"`
	Notes        *string   `bun:"notes" json:"notes"`
}

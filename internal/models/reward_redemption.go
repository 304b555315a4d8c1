package models

import (
	"time"

	"github.com/uptrace/bun"
)

// RewardRedemption is a request to spend points on a reward. PointsSpent is
// captured from the reward at request time and never tracks later edits.
type RewardRedemption struct {
	bun.BaseModel `bun:"table:reward_redemption"`
	ID            string     `bun:"id,pk" json:"id"`
	FamilyID      string     `bun:"family_id" json:"family_id"`
	UserID        string     `bun:"user_id" json:"user_id"`
	RewardID      string     `bun:"reward_id" json:"reward_id"`
	PointsSpent   int        `bun:"points_spent" json:"points_spent"`
	Status        string     `bun:"status" json:"status"`
	RequestedAt   time.Time  `bun:"requested_at,default:current_timestamp" json:"requested_at"`
	ApprovedAt    *time.Time `bun:"approved_at" json:"approved_at"`
	ApprovedBy    *string    `bun:"approved_by" json:"approved_by"`
	Notes         *string    `bun:"notes" json:"notes"`
}

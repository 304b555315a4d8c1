package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Reward struct {
	bun.BaseModel `bun:"table:reward"`
	ID            string    `bun:"id,pk" json:"id"`
	FamilyID      string    `bun:"family_id" json:"family_id"`
	Name          string    `bun:"name" json:"name"`
	PointCost     int       `bun:"point_cost" json:"point_cost"`
	CreatedBy     string    `bun:"created_by" json:"created_by"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`
}

type RewardPatch struct {
	Name      *string `json:"name"`
	PointCost *int    `json:"point_cost"`
}

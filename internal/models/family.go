package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Family is the sharing boundary: every activity, reward and point entry
// belongs to exactly one family.
type Family struct {
	bun.BaseModel `bun:"table:family"`
	ID            string    `bun:"id,pk" json:"id"`
	Name          string    `bun:"name" json:"name"`
	CreatedBy     string    `bun:"created_by" json:"created_by"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`
}

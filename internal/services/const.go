package services

import (
	"fmt"
	"time"
)

const (
	CACHE_TTL_5_MINS = 5 * time.Minute

	SESSION_TTL = 24 * time.Hour

	LEADERBOARD_DEFAULT_LIMIT = 50
)

func DBKeyFamilyKids(familyID string) string {
	return fmt.Sprintf("family_kids_with_points:%s", familyID)
}

func DBKeyFamilyDashboard(familyID string) string {
	return fmt.Sprintf("family_dashboard_stats:%s", familyID)
}

func DBKeyPointEntryLock(entryID string) string {
	return fmt.Sprintf("lock:point_entry:%s", entryID)
}

func DBKeyRedemptionLock(redemptionID string) string {
	return fmt.Sprintf("lock:reward_redemption:%s", redemptionID)
}

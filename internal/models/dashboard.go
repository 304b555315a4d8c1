package models

// DashboardStats holds four independently-computed counts. Rows created while
// the counts run may show up in one count but not another.
type DashboardStats struct {
	TotalKids        int `json:"totalKids" msgpack:"total_kids"`
	TotalActivities  int `json:"totalActivities" msgpack:"total_activities"`
	TotalRewards     int `json:"totalRewards" msgpack:"total_rewards"`
	PendingApprovals int `json:"pendingApprovals" msgpack:"pending_approvals"`
}

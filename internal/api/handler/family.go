package handler

import (
	"starjar/internal/datastore"
	"starjar/internal/datastore/redis_store"
	"starjar/internal/models"
	"starjar/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type groupFamily struct {
	container *do.Injector
}

func (gr *groupFamily) KidsWithPoints(c echo.Context) error {
	if _, err := resolveFamilyMember(c); err != nil {
		return abort(c, err)
	}

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	kids, err := data.FetchKidsWithPoints(c.Request().Context(), c.Param("familyId"))
	return respondList(c, kids, err)
}

func (gr *groupFamily) PendingActivities(c echo.Context) error {
	if _, err := resolveFamilyMember(c); err != nil {
		return abort(c, err)
	}

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	pending, err := data.FetchPendingActivities(c.Request().Context(), c.Param("familyId"))
	return respondList(c, pending, err)
}

func (gr *groupFamily) DashboardStats(c echo.Context) error {
	if _, err := resolveFamilyMember(c); err != nil {
		return abort(c, err)
	}

	data, err := do.Invoke[services.DataService](gr.container)
	if err != nil {
		return abort(c, err)
	}

	stats, err := data.FetchDashboardStats(c.Request().Context(), c.Param("familyId"))
	return respondData(c, stats, err)
}

// Leaderboard serves from the redis sorted set maintained by approvals and
// the cron rebuild; when the set is empty it falls back to the database sums.
func (gr *groupFamily) Leaderboard(c echo.Context) error {
	if _, err := resolveFamilyMember(c); err != nil {
		return abort(c, err)
	}
	familyID := c.Param("familyId")
	ctx := c.Request().Context()

	redisDB, err := do.Invoke[redis.UniversalClient](gr.container)
	if err != nil {
		return abort(c, err)
	}

	items, err := redis_store.GetFamilyLeaderboard(ctx, redisDB, familyID, services.LEADERBOARD_DEFAULT_LIMIT)
	if err == nil && len(items) > 0 {
		gr.resolveDisplayNames(c, familyID, items)
		return respondData(c, &models.LeaderboardResponse{Leaderboard: items}, nil)
	}

	postgresDB, err := do.Invoke[*bun.DB](gr.container)
	if err != nil {
		return abort(c, err)
	}

	kids, err := datastore.GetKidsWithPoints(ctx, postgresDB, familyID)
	if err != nil {
		return respondData[models.LeaderboardResponse](c, nil, err)
	}

	items = make([]*models.LeaderboardItem, 0, len(kids))
	for i, kid := range kids {
		items = append(items, &models.LeaderboardItem{
			UserID:      kid.UserID,
			DisplayName: kid.DisplayName,
			Score:       float64(kid.TotalPoints),
			Rank:        i + 1,
		})
	}

	return respondData(c, &models.LeaderboardResponse{Leaderboard: items}, nil)
}

// resolveDisplayNames is best effort; a missing profile keeps the id only.
func (gr *groupFamily) resolveDisplayNames(c echo.Context, familyID string, items []*models.LeaderboardItem) {
	postgresDB, err := do.Invoke[*bun.DB](gr.container)
	if err != nil {
		return
	}

	kids, err := datastore.GetKidsWithPoints(c.Request().Context(), postgresDB, familyID)
	if err != nil {
		return
	}

	names := make(map[string]string, len(kids))
	for _, kid := range kids {
		names[kid.UserID] = kid.DisplayName
	}
	for _, item := range items {
		item.DisplayName = names[item.UserID]
	}
}

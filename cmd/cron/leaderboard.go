package main

import (
	"context"
	"log"
	"os"
	"time"

	"starjar/internal/datastore"
	"starjar/internal/datastore/redis_store"
	"starjar/internal/models"
	"starjar/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

// LeaderboardJob rebuilds every family's leaderboard sorted set and dashboard
// snapshot from the database. Approvals keep the sets warm between runs; the
// rebuild evicts kids that left and repairs any drift.
type LeaderboardJob struct {
	Redis redis.UniversalClient
	Db    *bun.DB
}

func NewLeaderboardJob(redis redis.UniversalClient, db *bun.DB) *LeaderboardJob {
	return &LeaderboardJob{
		Redis: redis,
		Db:    db,
	}
}

func (j *LeaderboardJob) Start(cronRunner *cron.Cron) {
	schedule := os.Getenv("CRON_SCHEDULE")
	if schedule == "" {
		schedule = "@every 5m"
	}

	_, err := cronRunner.AddFunc(schedule, j.runScheduledTask)
	log.Println("Leaderboard cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", schedule, err)
	j.runScheduledTask()
}

func (j *LeaderboardJob) runScheduledTask() {
	ctx := context.Background()
	limit := 100
	offset := 0

	for {
		families, err := datastore.GetFamiliesByLimit(ctx, j.Db, limit, offset)
		offset += limit
		if err != nil {
			// the whole scan restarts on the next tick anyway
			log.Println(err)
			return
		}

		if len(families) == 0 {
			break
		}

		for _, family := range families {
			j.rebuildFamily(ctx, family.ID)
		}
	}
}

func (j *LeaderboardJob) rebuildFamily(ctx context.Context, familyID string) {
	kids, err := datastore.GetKidsWithPoints(ctx, j.Db, familyID)
	if err != nil {
		log.Println(err)
		return
	}

	items := make([]*models.LeaderboardItem, 0, len(kids))
	for _, kid := range kids {
		items = append(items, &models.LeaderboardItem{
			UserID:      kid.UserID,
			DisplayName: kid.DisplayName,
			Score:       float64(kid.TotalPoints),
		})
	}

	err = redis_store.ReplaceFamilyLeaderboard(ctx, j.Redis, familyID, items)
	if err != nil {
		log.Println(err)
	}

	stats, err := j.computeStats(ctx, familyID)
	if err != nil {
		log.Println(err)
		return
	}

	err = redis_store.SaveDashboardSnapshot(ctx, j.Redis, familyID, stats, services.CACHE_TTL_5_MINS*3)
	if err != nil {
		log.Println(err)
	}
}

func (j *LeaderboardJob) computeStats(ctx context.Context, familyID string) (*models.DashboardStats, error) {
	totalKids, err := datastore.CountKids(ctx, j.Db, familyID)
	if err != nil {
		return nil, err
	}
	totalActivities, err := datastore.CountActivities(ctx, j.Db, familyID)
	if err != nil {
		return nil, err
	}
	totalRewards, err := datastore.CountRewards(ctx, j.Db, familyID)
	if err != nil {
		return nil, err
	}
	pendingApprovals, err := datastore.CountPendingEntries(ctx, j.Db, familyID)
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalKids:        totalKids,
		TotalActivities:  totalActivities,
		TotalRewards:     totalRewards,
		PendingApprovals: pendingApprovals,
	}, nil
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"starjar/internal/datastore"
	"starjar/internal/datastore/redis_store"
	"starjar/internal/models"
	"starjar/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

// DataPostgres is the embedded-backend variant of DataService. Row-level
// scoping happens in the datastore queries; the heavy aggregates are cached
// per family and invalidated by any mutation touching that family.
type DataPostgres struct {
	container  *do.Injector
	postgresDB *bun.DB
	redisDB    redis.UniversalClient
	rs         *redsync.Redsync
	cache      caching.Cache
}

func NewDataPostgres(container *do.Injector) (*DataPostgres, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	redisDB, err := do.Invoke[redis.UniversalClient](container)
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	return &DataPostgres{container, postgresDB, redisDB, rs, cache}, nil
}

func (service *DataPostgres) FetchKidsWithPoints(ctx context.Context, familyID string) ([]models.Kid, error) {
	callback := func() ([]models.Kid, error) {
		return datastore.GetKidsWithPoints(ctx, service.postgresDB, familyID)
	}

	return caching.UseCache(ctx, service.cache, DBKeyFamilyKids(familyID), CACHE_TTL_5_MINS, callback)
}

func (service *DataPostgres) FetchPendingActivities(ctx context.Context, familyID string) ([]models.PendingActivity, error) {
	return datastore.GetPendingActivities(ctx, service.postgresDB, familyID)
}

// FetchDashboardStats runs its four counts concurrently. The counts are
// independent queries; a row created mid-flight may land in one count and not
// another.
func (service *DataPostgres) FetchDashboardStats(ctx context.Context, familyID string) (*models.DashboardStats, error) {
	callback := func() (*models.DashboardStats, error) {
		var stats models.DashboardStats

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			n, err := datastore.CountKids(gctx, service.postgresDB, familyID)
			stats.TotalKids = n
			return err
		})
		g.Go(func() error {
			n, err := datastore.CountActivities(gctx, service.postgresDB, familyID)
			stats.TotalActivities = n
			return err
		})
		g.Go(func() error {
			n, err := datastore.CountRewards(gctx, service.postgresDB, familyID)
			stats.TotalRewards = n
			return err
		})
		g.Go(func() error {
			n, err := datastore.CountPendingEntries(gctx, service.postgresDB, familyID)
			stats.PendingApprovals = n
			return err
		})

		if err := g.Wait(); err != nil {
			return nil, err
		}

		return &stats, nil
	}

	stats, err := caching.UseCache(ctx, service.cache, DBKeyFamilyDashboard(familyID), CACHE_TTL_5_MINS, callback)
	if err == nil {
		return stats, nil
	}

	// last-known-good snapshot written by the refresh job
	snapshot, serr := redis_store.GetDashboardSnapshot(ctx, service.redisDB, familyID)
	if serr == nil {
		return snapshot, nil
	}

	return nil, err
}

func (service *DataPostgres) FetchActivities(ctx context.Context, familyID string) ([]models.Activity, error) {
	return datastore.GetActivities(ctx, service.postgresDB, familyID)
}

func (service *DataPostgres) CreateActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	if activity.FamilyID == "" {
		return nil, fmt.Errorf("%w: family_id is required", ErrInvalidInput)
	}
	switch activity.Category {
	case models.CategoryObligation, models.CategoryNiceToHave, models.CategoryForbidden:
	default:
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, activity.Category)
	}

	activity.ID = uuid.NewString()
	activity.CreatedAt = time.Now()
	activity.UpdatedAt = activity.CreatedAt

	created, err := datastore.CreateActivity(ctx, service.postgresDB, activity)
	if err != nil {
		return nil, err
	}

	service.clearFamilyCaches(ctx, activity.FamilyID)
	return created, nil
}

func (service *DataPostgres) UpdateActivity(ctx context.Context, id string, patch models.ActivityPatch) (*models.Activity, error) {
	activity, err := datastore.UpdateActivity(ctx, service.postgresDB, id, patch)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: activity %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	service.clearFamilyCaches(ctx, activity.FamilyID)
	return activity, nil
}

// Deleting an id that does not exist succeeds silently.
func (service *DataPostgres) DeleteActivity(ctx context.Context, id string) error {
	activity, err := datastore.FindActivityByID(ctx, service.postgresDB, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := datastore.DeleteActivity(ctx, service.postgresDB, id); err != nil {
		return err
	}

	service.clearFamilyCaches(ctx, activity.FamilyID)
	return nil
}

func (service *DataPostgres) FetchRewards(ctx context.Context, familyID string) ([]models.Reward, error) {
	return datastore.GetRewards(ctx, service.postgresDB, familyID)
}

func (service *DataPostgres) CreateReward(ctx context.Context, reward *models.Reward) (*models.Reward, error) {
	if reward.FamilyID == "" {
		return nil, fmt.Errorf("%w: family_id is required", ErrInvalidInput)
	}
	if reward.PointCost < 0 {
		return nil, fmt.Errorf("%w: point_cost must be >= 0", ErrInvalidInput)
	}

	reward.ID = uuid.NewString()
	reward.CreatedAt = time.Now()
	reward.UpdatedAt = reward.CreatedAt

	created, err := datastore.CreateReward(ctx, service.postgresDB, reward)
	if err != nil {
		return nil, err
	}

	service.clearFamilyCaches(ctx, reward.FamilyID)
	return created, nil
}

func (service *DataPostgres) UpdateReward(ctx context.Context, id string, patch models.RewardPatch) (*models.Reward, error) {
	if patch.PointCost != nil && *patch.PointCost < 0 {
		return nil, fmt.Errorf("%w: point_cost must be >= 0", ErrInvalidInput)
	}

	reward, err := datastore.UpdateReward(ctx, service.postgresDB, id, patch)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: reward %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	service.clearFamilyCaches(ctx, reward.FamilyID)
	return reward, nil
}

func (service *DataPostgres) DeleteReward(ctx context.Context, id string) error {
	reward, err := datastore.FindRewardByID(ctx, service.postgresDB, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := datastore.DeleteReward(ctx, service.postgresDB, id); err != nil {
		return err
	}

	service.clearFamilyCaches(ctx, reward.FamilyID)
	return nil
}

func (service *DataPostgres) FetchPointEntries(ctx context.Context, familyID string, userID string) ([]models.PointEntry, error) {
	return datastore.GetPointEntries(ctx, service.postgresDB, familyID, userID)
}

// CreatePointEntry defaults an omitted status to approved; pending must be
// asked for explicitly.
func (service *DataPostgres) CreatePointEntry(ctx context.Context, entry *models.PointEntry) (*models.PointEntry, error) {
	if entry.FamilyID == "" || entry.UserID == "" {
		return nil, fmt.Errorf("%w: family_id and user_id are required", ErrInvalidInput)
	}

	switch entry.Status {
	case "":
		entry.Status = models.StatusApproved
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, entry.Status)
	}

	entry.ID = uuid.NewString()
	entry.SubmittedAt = time.Now()

	created, err := datastore.CreatePointEntry(ctx, service.postgresDB, entry)
	if err != nil {
		return nil, err
	}

	service.clearFamilyCaches(ctx, entry.FamilyID)
	if created.Status == models.StatusApproved {
		service.refreshKidScore(ctx, created.FamilyID, created.UserID)
	}

	return created, nil
}

func (service *DataPostgres) UpdatePointEntry(ctx context.Context, id string, patch models.PointEntryPatch) (*models.PointEntry, error) {
	entry, err := datastore.UpdatePointEntry(ctx, service.postgresDB, id, patch)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: point entry %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	service.clearFamilyCaches(ctx, entry.FamilyID)
	return entry, nil
}

func (service *DataPostgres) ApprovePointEntry(ctx context.Context, id string, approved bool, approvedBy string) (*models.PointEntry, error) {
	mutex := service.rs.NewMutex(DBKeyPointEntryLock(id))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}
	//nolint:errcheck
	defer mutex.UnlockContext(ctx)

	entry, err := datastore.ApprovePointEntry(ctx, service.postgresDB, id, approved, approvedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: point entry %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	service.clearFamilyCaches(ctx, entry.FamilyID)
	service.refreshKidScore(ctx, entry.FamilyID, entry.UserID)
	return entry, nil
}

func (service *DataPostgres) FetchRewardRedemptions(ctx context.Context, familyID string, userID string) ([]models.RewardRedemption, error) {
	return datastore.GetRewardRedemptions(ctx, service.postgresDB, familyID, userID)
}

// CreateRewardRedemption captures points_spent from the reward at request
// time; later reward edits never change an existing redemption.
func (service *DataPostgres) CreateRewardRedemption(ctx context.Context, redemption *models.RewardRedemption) (*models.RewardRedemption, error) {
	if redemption.FamilyID == "" || redemption.UserID == "" {
		return nil, fmt.Errorf("%w: family_id and user_id are required", ErrInvalidInput)
	}

	reward, err := datastore.FindRewardByID(ctx, service.postgresDB, redemption.RewardID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: reward %s", ErrNotFound, redemption.RewardID)
	}
	if err != nil {
		return nil, err
	}
	if reward.FamilyID != redemption.FamilyID {
		return nil, fmt.Errorf("%w: reward %s", ErrNotFound, redemption.RewardID)
	}

	redemption.ID = uuid.NewString()
	redemption.PointsSpent = reward.PointCost
	redemption.RequestedAt = time.Now()
	if redemption.Status == "" {
		redemption.Status = models.StatusPending
	}

	created, err := datastore.CreateRewardRedemption(ctx, service.postgresDB, redemption)
	if err != nil {
		return nil, err
	}

	service.clearFamilyCaches(ctx, redemption.FamilyID)
	return created, nil
}

func (service *DataPostgres) ApproveRewardRedemption(ctx context.Context, id string, approved bool, approvedBy string) (*models.RewardRedemption, error) {
	mutex := service.rs.NewMutex(DBKeyRedemptionLock(id))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}
	//nolint:errcheck
	defer mutex.UnlockContext(ctx)

	redemption, err := datastore.ApproveRewardRedemption(ctx, service.postgresDB, id, approved, approvedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: reward redemption %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	service.clearFamilyCaches(ctx, redemption.FamilyID)
	return redemption, nil
}

func (service *DataPostgres) clearFamilyCaches(ctx context.Context, familyID string) {
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyFamilyKids(familyID))
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyFamilyDashboard(familyID))
}

// refreshKidScore keeps the redis leaderboard in step with approvals. Best
// effort: the cron job rebuilds the sorted set anyway.
func (service *DataPostgres) refreshKidScore(ctx context.Context, familyID string, userID string) {
	total, err := datastore.SumApprovedPoints(ctx, service.postgresDB, familyID, userID)
	if err != nil {
		return
	}

	//nolint:errcheck
	redis_store.SetKidScore(ctx, service.redisDB, familyID, &models.LeaderboardItem{
		UserID: userID,
		Score:  float64(total),
	})
}

package services

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"testing"
	"time"

	"starjar/internal/datastore/redis_store"
	"starjar/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func newMockBun(t *testing.T) (*bun.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	return bun.NewDB(sqldb, pgdialect.New()), mock
}

// memoryCache records deletes so invalidation can be asserted.
type memoryCache struct {
	values  map[string]any
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]any{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, target any) error {
	v, ok := c.values[key]
	if !ok {
		return cache.ErrCacheMiss
	}

	reflect.ValueOf(target).Elem().Set(reflect.ValueOf(v))
	return nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.deleted = append(c.deleted, key)
	delete(c.values, key)
	return nil
}

// stubRedis answers GET/SET from a map so the snapshot round-trip goes
// through the real msgpack encoding.
type stubRedis struct {
	redis.UniversalClient
	values map[string]string
}

func (s *stubRedis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)
	b, ok := value.([]byte)
	if !ok {
		cmd.SetErr(fmt.Errorf("unexpected payload %T", value))
		return cmd
	}

	s.values[key] = string(b)
	cmd.SetVal("OK")
	return cmd
}

func (s *stubRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	v, ok := s.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}

	cmd.SetVal(v)
	return cmd
}

func TestFetchDashboardStatsFallsBackToSnapshot(t *testing.T) {
	// no expectations registered: every count query fails
	db, _ := newMockBun(t)

	redisStub := &stubRedis{values: map[string]string{}}
	snapshot := &models.DashboardStats{TotalKids: 2, TotalActivities: 3, TotalRewards: 1, PendingApprovals: 4}
	require.NoError(t, redis_store.SaveDashboardSnapshot(context.Background(), redisStub, "fam-1", snapshot, time.Minute))

	service := &DataPostgres{postgresDB: db, redisDB: redisStub, cache: newMemoryCache()}

	stats, err := service.FetchDashboardStats(context.Background(), "fam-1")
	require.NoError(t, err)
	assert.Equal(t, snapshot, stats)
}

func TestFetchDashboardStatsErrorWithoutSnapshot(t *testing.T) {
	db, _ := newMockBun(t)

	service := &DataPostgres{postgresDB: db, redisDB: &stubRedis{values: map[string]string{}}, cache: newMemoryCache()}

	_, err := service.FetchDashboardStats(context.Background(), "fam-1")
	assert.Error(t, err)
}

func TestDeleteActivityClearsFamilyCaches(t *testing.T) {
	db, mock := newMockBun(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "activity"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "family_id", "name", "category", "points", "requires_approval", "deadline", "created_by", "created_at", "updated_at",
		}).AddRow("act-9", "fam-9", "Dishes", models.CategoryObligation, 5, false, nil, "p1", now, now))
	mock.ExpectExec(`DELETE FROM "activity"`).WillReturnResult(sqlmock.NewResult(0, 1))

	mc := newMemoryCache()
	service := &DataPostgres{postgresDB: db, cache: mc}

	require.NoError(t, service.DeleteActivity(context.Background(), "act-9"))
	assert.Contains(t, mc.deleted, DBKeyFamilyKids("fam-9"))
	assert.Contains(t, mc.deleted, DBKeyFamilyDashboard("fam-9"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteActivityMissingRowIsSilent(t *testing.T) {
	db, mock := newMockBun(t)
	mock.ExpectQuery(`SELECT (.+) FROM "activity"`).WillReturnError(sql.ErrNoRows)

	mc := newMemoryCache()
	service := &DataPostgres{postgresDB: db, cache: mc}

	require.NoError(t, service.DeleteActivity(context.Background(), "act-missing"))
	assert.Empty(t, mc.deleted)
}

func TestDeleteRewardClearsFamilyCaches(t *testing.T) {
	db, mock := newMockBun(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "reward"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "family_id", "name", "point_cost", "created_by", "created_at", "updated_at",
		}).AddRow("rw-9", "fam-9", "Movie night", 20, "p1", now, now))
	mock.ExpectExec(`DELETE FROM "reward"`).WillReturnResult(sqlmock.NewResult(0, 1))

	mc := newMemoryCache()
	service := &DataPostgres{postgresDB: db, cache: mc}

	require.NoError(t, service.DeleteReward(context.Background(), "rw-9"))
	assert.Contains(t, mc.deleted, DBKeyFamilyKids("fam-9"))
	assert.Contains(t, mc.deleted, DBKeyFamilyDashboard("fam-9"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOwnershipReportsMissingRow(t *testing.T) {
	db, mock := newMockBun(t)
	mock.ExpectQuery(`SELECT (.+) FROM "point_entry"`).WillReturnError(sql.ErrNoRows)

	service := &OwnershipPostgres{postgresDB: db}

	_, err := service.PointEntryFamily(context.Background(), "pe-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOwnershipResolvesFamily(t *testing.T) {
	db, mock := newMockBun(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "activity"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "family_id", "name", "category", "points", "requires_approval", "deadline", "created_by", "created_at", "updated_at",
		}).AddRow("act-9", "fam-9", "Dishes", models.CategoryObligation, 5, false, nil, "p1", now, now))

	service := &OwnershipPostgres{postgresDB: db}

	familyID, err := service.ActivityFamily(context.Background(), "act-9")
	require.NoError(t, err)
	assert.Equal(t, "fam-9", familyID)
}

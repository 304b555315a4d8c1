package redis_store

import (
	"errors"
	"fmt"
	"time"

	"context"

	"starjar/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

func dbKeyFamilyLeaderboard(familyID string) string {
	return fmt.Sprintf("family:%s:leaderboard", familyID)
}

func dbKeySession(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func dbKeyDashboardSnapshot(familyID string) string {
	return fmt.Sprintf("family:%s:dashboard", familyID)
}

// SetKidScore upserts a single kid's score on the family leaderboard.
func SetKidScore(ctx context.Context, cmd redis.Cmdable, familyID string, item *models.LeaderboardItem) error {
	return cmd.ZAdd(ctx, dbKeyFamilyLeaderboard(familyID), redis.Z{
		Score:  item.Score,
		Member: item.UserID,
	}).Err()
}

// ReplaceFamilyLeaderboard rebuilds the family leaderboard in one shot. Used
// by the refresh job so removed kids don't linger in the sorted set.
func ReplaceFamilyLeaderboard(ctx context.Context, cmd redis.Cmdable, familyID string, items []*models.LeaderboardItem) error {
	key := dbKeyFamilyLeaderboard(familyID)
	err := cmd.Del(ctx, key).Err()
	if err != nil {
		return err
	}

	if len(items) == 0 {
		return nil
	}

	zs := make([]redis.Z, len(items))
	for i, item := range items {
		zs[i] = redis.Z{Score: item.Score, Member: item.UserID}
	}

	return cmd.ZAdd(ctx, key, zs...).Err()
}

// GetFamilyLeaderboard returns up to limit members, highest score first, with
// 1-based ranks. Display names are not stored in redis; callers resolve them.
func GetFamilyLeaderboard(ctx context.Context, cmd redis.Cmdable, familyID string, limit int) ([]*models.LeaderboardItem, error) {
	zs, err := cmd.ZRevRangeWithScores(ctx, dbKeyFamilyLeaderboard(familyID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	items := make([]*models.LeaderboardItem, 0, len(zs))
	for i, z := range zs {
		userID, ok := z.Member.(string)
		if !ok {
			continue
		}
		items = append(items, &models.LeaderboardItem{
			UserID: userID,
			Score:  z.Score,
			Rank:   i + 1,
		})
	}

	return items, nil
}

// SaveSession persists an issued session keyed by its bearer token; the key
// expires together with the token.
func SaveSession(ctx context.Context, cmd redis.Cmdable, session *models.Session) error {
	if session.Token == "" {
		return errors.New("invalid session")
	}

	b, err := msgpack.Marshal(session)
	if err != nil {
		return err
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	return cmd.Set(ctx, dbKeySession(session.Token), b, ttl).Err()
}

func GetSession(ctx context.Context, cmd redis.Cmdable, token string) (*models.Session, error) {
	b, err := cmd.Get(ctx, dbKeySession(token)).Bytes()
	if err != nil {
		return nil, err
	}

	var session models.Session
	err = msgpack.Unmarshal(b, &session)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func DeleteSession(ctx context.Context, cmd redis.Cmdable, token string) error {
	return cmd.Del(ctx, dbKeySession(token)).Err()
}

// SaveDashboardSnapshot stores the cron-computed stats so dashboard reads can
// survive a slow database.
func SaveDashboardSnapshot(ctx context.Context, cmd redis.Cmdable, familyID string, stats *models.DashboardStats, ttl time.Duration) error {
	b, err := msgpack.Marshal(stats)
	if err != nil {
		return err
	}

	return cmd.Set(ctx, dbKeyDashboardSnapshot(familyID), b, ttl).Err()
}

func GetDashboardSnapshot(ctx context.Context, cmd redis.Cmdable, familyID string) (*models.DashboardStats, error) {
	b, err := cmd.Get(ctx, dbKeyDashboardSnapshot(familyID)).Bytes()
	if err != nil {
		return nil, err
	}

	var stats models.DashboardStats
	err = msgpack.Unmarshal(b, &stats)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

package datastore

import (
	"context"
	"time"

	"starjar/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableReward(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Reward)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Reward)(nil)).Index("index_reward_family_id").IfNotExists().Column("family_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetRewards(ctx context.Context, db *bun.DB, familyID string) ([]models.Reward, error) {
	var rewards []models.Reward
	err := db.NewSelect().Model(&rewards).
		Where("family_id = ?", familyID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return rewards, nil
}

func FindRewardByID(ctx context.Context, db *bun.DB, id string) (*models.Reward, error) {
	var reward models.Reward
	err := db.NewSelect().Model(&reward).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &reward, nil
}

func CreateReward(ctx context.Context, db *bun.DB, reward *models.Reward) (*models.Reward, error) {
	_, err := db.NewInsert().Model(reward).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return reward, nil
}

func UpdateReward(ctx context.Context, db *bun.DB, id string, patch models.RewardPatch) (*models.Reward, error) {
	q := db.NewUpdate().Model((*models.Reward)(nil)).Where("id = ?", id)
	if patch.Name != nil {
		q = q.Set("name = ?", *patch.Name)
	}
	if patch.PointCost != nil {
		q = q.Set("point_cost = ?", *patch.PointCost)
	}
	q = q.Set("updated_at = ?", time.Now())

	_, err := q.Exec(ctx)
	if err != nil {
		return nil, err
	}

	var reward models.Reward
	err = db.NewSelect().Model(&reward).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &reward, nil
}

func DeleteReward(ctx context.Context, db *bun.DB, id string) error {
	_, err := db.NewDelete().Model((*models.Reward)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

func CountRewards(ctx context.Context, db *bun.DB, familyID string) (int, error) {
	return db.NewSelect().Model((*models.Reward)(nil)).
		Where("family_id = ?", familyID).
		Count(ctx)
}

package datastore

import (
	"context"
	"time"

	"starjar/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableRewardRedemption(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.RewardRedemption)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.RewardRedemption)(nil)).Index("index_reward_redemption_family_id").IfNotExists().Column("family_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.RewardRedemption)(nil)).Index("index_reward_redemption_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetRewardRedemptions(ctx context.Context, db *bun.DB, familyID string, userID string) ([]models.RewardRedemption, error) {
	var redemptions []models.RewardRedemption
	q := db.NewSelect().Model(&redemptions).
		Where("family_id = ?", familyID).
		Order("requested_at DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, err
	}

	return redemptions, nil
}

func FindRewardRedemptionByID(ctx context.Context, db *bun.DB, id string) (*models.RewardRedemption, error) {
	var redemption models.RewardRedemption
	err := db.NewSelect().Model(&redemption).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &redemption, nil
}

func CreateRewardRedemption(ctx context.Context, db *bun.DB, redemption *models.RewardRedemption) (*models.RewardRedemption, error) {
	_, err := db.NewInsert().Model(redemption).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return redemption, nil
}

func ApproveRewardRedemption(ctx context.Context, db *bun.DB, id string, approved bool, approvedBy string) (*models.RewardRedemption, error) {
	status := models.StatusRejected
	if approved {
		status = models.StatusApproved
	}

	_, err := db.NewUpdate().Model((*models.RewardRedemption)(nil)).
		Set("status = ?", status).
		Set("approved_at = ?", time.Now()).
		Set("approved_by = ?", approvedBy).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return FindRewardRedemptionByID(ctx, db, id)
}

package datastore

import (
	"context"
	"time"

	"starjar/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableActivity(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Activity)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Activity)(nil)).Index("index_activity_family_id").IfNotExists().Column("family_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetActivities(ctx context.Context, db *bun.DB, familyID string) ([]models.Activity, error) {
	var activities []models.Activity
	err := db.NewSelect().Model(&activities).
		Where("family_id = ?", familyID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return activities, nil
}

func FindActivityByID(ctx context.Context, db *bun.DB, id string) (*models.Activity, error) {
	var activity models.Activity
	err := db.NewSelect().Model(&activity).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &activity, nil
}

func CreateActivity(ctx context.Context, db *bun.DB, activity *models.Activity) (*models.Activity, error) {
	_, err := db.NewInsert().Model(activity).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return activity, nil
}

func UpdateActivity(ctx context.Context, db *bun.DB, id string, patch models.ActivityPatch) (*models.Activity, error) {
	q := db.NewUpdate().Model((*models.Activity)(nil)).Where("id = ?", id)
	if patch.Name != nil {
		q = q.Set("name = ?", *patch.Name)
	}
	if patch.Category != nil {
		q = q.Set("category = ?", *patch.Category)
	}
	if patch.Points != nil {
		q = q.Set("points = ?", *patch.Points)
	}
	if patch.RequiresApproval != nil {
		q = q.Set("requires_approval = ?", *patch.RequiresApproval)
	}
	if patch.Deadline != nil {
		q = q.Set("deadline = ?", *patch.Deadline)
	}
	q = q.Set("updated_at = ?", time.Now())

	_, err := q.Exec(ctx)
	if err != nil {
		return nil, err
	}

	var activity models.Activity
	err = db.NewSelect().Model(&activity).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &activity, nil
}

// Deleting an id that does not exist is not an error.
func DeleteActivity(ctx context.Context, db *bun.DB, id string) error {
	_, err := db.NewDelete().Model((*models.Activity)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

func CountActivities(ctx context.Context, db *bun.DB, familyID string) (int, error) {
	return db.NewSelect().Model((*models.Activity)(nil)).
		Where("family_id = ?", familyID).
		Count(ctx)
}

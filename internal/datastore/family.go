package datastore

import (
	"context"

	"starjar/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableFamily(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Family)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Family)(nil)).Index("index_family_created_by").IfNotExists().Column("created_by").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateFamily(ctx context.Context, idb bun.IDB, family *models.Family) (*models.Family, error) {
	_, err := idb.NewInsert().Model(family).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return family, nil
}

func FindFamilyByID(ctx context.Context, db *bun.DB, familyID string) (*models.Family, error) {
	var family models.Family
	err := db.NewSelect().Model(&family).Where("id = ?", familyID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &family, nil
}

func GetFamiliesByLimit(ctx context.Context, db *bun.DB, limit int, offset int) ([]models.Family, error) {
	var families []models.Family
	err := db.NewSelect().Model(&families).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return families, nil
}

package datastore

import (
	"context"
	"strings"
	"time"

	"starjar/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUserProfile(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.UserProfile)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserProfile)(nil)).Index("index_user_profile_email").IfNotExists().Unique().Column("email").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserProfile)(nil)).Index("index_user_profile_family_id").IfNotExists().Column("family_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateUserProfile(ctx context.Context, idb bun.IDB, profile *models.UserProfile) (*models.UserProfile, error) {
	_, err := idb.NewInsert().Model(profile).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return profile, nil
}

func FindUserProfileByID(ctx context.Context, db *bun.DB, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := db.NewSelect().Model(&profile).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func FindUserProfileByEmail(ctx context.Context, db *bun.DB, email string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := db.NewSelect().Model(&profile).Where("lower(email) = ?", strings.ToLower(email)).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func SetUserProfileFamily(ctx context.Context, idb bun.IDB, userID string, familyID string) error {
	_, err := idb.NewUpdate().Model((*models.UserProfile)(nil)).
		Set("family_id = ?", familyID).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ?", userID).Exec(ctx)
	return err
}

// GetKidsWithPoints returns every role=kid profile in the family with the sum
// of its approved point entries. The join is a LEFT JOIN on purpose: a kid
// with no approved entries still shows up, with zero points.
func GetKidsWithPoints(ctx context.Context, db *bun.DB, familyID string) ([]models.Kid, error) {
	var kids []models.Kid
	err := db.NewSelect().
		TableExpr("user_profile AS up").
		ColumnExpr("up.user_id AS user_id").
		ColumnExpr("up.display_name AS display_name").
		ColumnExpr("coalesce(sum(pe.points), 0) AS total_points").
		Join("LEFT JOIN point_entry AS pe ON pe.user_id = up.user_id AND pe.family_id = up.family_id AND pe.status = ?", models.StatusApproved).
		Where("up.family_id = ?", familyID).
		Where("up.role = ?", models.RoleKid).
		GroupExpr("up.user_id, up.display_name").
		OrderExpr("total_points DESC").
		Scan(ctx, &kids)
	if err != nil {
		return nil, err
	}

	return kids, nil
}

func CountKids(ctx context.Context, db *bun.DB, familyID string) (int, error) {
	return db.NewSelect().Model((*models.UserProfile)(nil)).
		Where("family_id = ?", familyID).
		Where("role = ?", models.RoleKid).
		Count(ctx)
}

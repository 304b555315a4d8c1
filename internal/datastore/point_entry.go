package datastore

import (
	"context"
	"time"

	"starjar/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePointEntry(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.PointEntry)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PointEntry)(nil)).Index("index_point_entry_family_id").IfNotExists().Column("family_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PointEntry)(nil)).Index("index_point_entry_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PointEntry)(nil)).Index("index_point_entry_status").IfNotExists().Column("status").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// GetPointEntries lists the family's entries newest-first. Pass userID = ""
// for the whole family.
func GetPointEntries(ctx context.Context, db *bun.DB, familyID string, userID string) ([]models.PointEntry, error) {
	var entries []models.PointEntry
	q := db.NewSelect().Model(&entries).
		Where("family_id = ?", familyID).
		Order("submitted_at DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func FindPointEntryByID(ctx context.Context, db *bun.DB, id string) (*models.PointEntry, error) {
	var entry models.PointEntry
	err := db.NewSelect().Model(&entry).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func CreatePointEntry(ctx context.Context, db *bun.DB, entry *models.PointEntry) (*models.PointEntry, error) {
	_, err := db.NewInsert().Model(entry).Exec(ctx)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func UpdatePointEntry(ctx context.Context, db *bun.DB, id string, patch models.PointEntryPatch) (*models.PointEntry, error) {
	if patch.Points == nil && patch.Notes == nil {
		return FindPointEntryByID(ctx, db, id)
	}

	q := db.NewUpdate().Model((*models.PointEntry)(nil)).Where("id = ?", id)
	if patch.Points != nil {
		q = q.Set("points = ?", *patch.Points)
	}
	if patch.Notes != nil {
		q = q.Set("notes = ?", *patch.Notes)
	}

	_, err := q.Exec(ctx)
	if err != nil {
		return nil, err
	}

	return FindPointEntryByID(ctx, db, id)
}

// ApprovePointEntry stamps the approval transition. Calling it on an already
// resolved entry just re-stamps the status and timestamps.
func ApprovePointEntry(ctx context.Context, db *bun.DB, id string, approved bool, approvedBy string) (*models.PointEntry, error) {
	status := models.StatusRejected
	if approved {
		status = models.StatusApproved
	}

	_, err := db.NewUpdate().Model((*models.PointEntry)(nil)).
		Set("status = ?", status).
		Set("approved_at = ?", time.Now()).
		Set("approved_by = ?", approvedBy).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return FindPointEntryByID(ctx, db, id)
}

// GetPendingActivities flattens the approval queue: pending entries joined
// with activity and kid names, newest submissions first. Missing references
// fall back to placeholder names instead of dropping the row.
func GetPendingActivities(ctx context.Context, db *bun.DB, familyID string) ([]models.PendingActivity, error) {
	var pending []models.PendingActivity
	err := db.NewSelect().
		TableExpr("point_entry AS pe").
		ColumnExpr("pe.id AS entry_id").
		ColumnExpr("pe.family_id AS family_id").
		ColumnExpr("pe.user_id AS user_id").
		ColumnExpr("coalesce(a.name, 'Unknown Activity') AS activity_name").
		ColumnExpr("coalesce(up.display_name, 'Unknown Kid') AS kid_name").
		ColumnExpr("pe.points AS points").
		ColumnExpr("pe.submitted_at AS submitted_at").
		ColumnExpr("pe.notes AS notes").
		Join("LEFT JOIN activity AS a ON a.id = pe.activity_id").
		Join("LEFT JOIN user_profile AS up ON up.user_id = pe.user_id").
		Where("pe.family_id = ?", familyID).
		Where("pe.status = ?", models.StatusPending).
		OrderExpr("pe.submitted_at DESC").
		Scan(ctx, &pending)
	if err != nil {
		return nil, err
	}

	return pending, nil
}

// SumApprovedPoints is the user's leaderboard score: approved entries only.
func SumApprovedPoints(ctx context.Context, db *bun.DB, familyID string, userID string) (int, error) {
	var total int
	err := db.NewSelect().
		TableExpr("point_entry AS pe").
		ColumnExpr("coalesce(sum(pe.points), 0)").
		Where("pe.family_id = ?", familyID).
		Where("pe.user_id = ?", userID).
		Where("pe.status = ?", models.StatusApproved).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func CountPendingEntries(ctx context.Context, db *bun.DB, familyID string) (int, error) {
	return db.NewSelect().Model((*models.PointEntry)(nil)).
		Where("family_id = ?", familyID).
		Where("status = ?", models.StatusPending).
		Count(ctx)
}

package datastore

import (
	"context"

	"ecopoints/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePointsHistory(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.PointsHistory)(nil)).IfNotExists().
		ForeignKey(`("student_id") REFERENCES "students" ("student_id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PointsHistory)(nil)).Index("index_points_history_student_created").IfNotExists().ColumnExpr("student_id, created_at DESC").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertPointsHistory(ctx context.Context, db bun.IDB, entry *models.PointsHistory) error {
	_, err := db.NewInsert().Model(entry).Returning("id, created_at").Exec(ctx)
	return err
}

func GetPointsHistoryByStudent(ctx context.Context, db bun.IDB, studentID string, limit int) ([]*models.PointsHistory, error) {
	var entries []*models.PointsHistory
	err := db.NewSelect().Model(&entries).
		Where("student_id = ?", studentID).
		OrderExpr("created_at DESC, id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetPointsHistoryPage walks the whole ledger in id order for exports.
func GetPointsHistoryPage(ctx context.Context, db bun.IDB, afterID int64, limit int) ([]*models.PointsHistory, error) {
	var entries []*models.PointsHistory
	err := db.NewSelect().Model(&entries).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

package datastore

import (
	"context"

	"ecopoints/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableLevel(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Level)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Level)(nil)).Index("index_levels_min_points").IfNotExists().Unique().Column("min_points").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetLevels(ctx context.Context, db bun.IDB) ([]models.Level, error) {
	var levels []models.Level
	err := db.NewSelect().Model(&levels).Order("min_points").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return levels, nil
}

func UpsertLevels(ctx context.Context, db bun.IDB, levels []models.Level) error {
	if len(levels) == 0 {
		return nil
	}
	_, err := db.NewInsert().Model(&levels).
		On("CONFLICT (level_number) DO UPDATE").
		Set("min_points = EXCLUDED.min_points").
		Set("title = EXCLUDED.title").
		Exec(ctx)
	return err
}

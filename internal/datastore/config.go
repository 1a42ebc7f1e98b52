package datastore

import (
	"context"

	"ecopoints/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableConfig(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Config)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

// SeedConfig inserts defaults without overwriting values an operator already changed.
func SeedConfig(ctx context.Context, db bun.IDB, configs []models.Config) error {
	if len(configs) == 0 {
		return nil
	}
	_, err := db.NewInsert().Model(&configs).On("CONFLICT (key) DO NOTHING").Exec(ctx)
	return err
}

func GetConfigByKey(ctx context.Context, db bun.IDB, key string) (*models.Config, error) {
	var config models.Config
	err := db.NewSelect().Model(&config).Where("key = ?", key).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func EditConfig(ctx context.Context, db bun.IDB, config *models.Config) (*models.Config, error) {
	_, err := db.NewInsert().Model(config).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return config, nil
}

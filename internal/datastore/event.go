package datastore

import (
	"context"

	"ecopoints/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableEvent(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Event)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func GetEvents(ctx context.Context, db bun.IDB) ([]*models.Event, error) {
	var events []*models.Event
	err := db.NewSelect().Model(&events).Order("event_date").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func InsertEvents(ctx context.Context, db bun.IDB, events []*models.Event) error {
	if len(events) == 0 {
		return nil
	}
	_, err := db.NewInsert().Model(&events).Exec(ctx)
	return err
}

package datastore

import (
	"context"

	"ecopoints/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableStore(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Store)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Store)(nil)).Index("index_stores_name").IfNotExists().Unique().Column("name").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.Product)(nil)).IfNotExists().
		ForeignKey(`("store_id") REFERENCES "stores" ("id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Product)(nil)).Index("index_products_store_id").IfNotExists().Column("store_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetStores(ctx context.Context, db bun.IDB) ([]*models.Store, error) {
	var stores []*models.Store
	err := db.NewSelect().Model(&stores).Order("name").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return stores, nil
}

func FindStoreByID(ctx context.Context, db bun.IDB, storeID int64) (*models.Store, error) {
	var store models.Store
	err := db.NewSelect().Model(&store).Where("id = ?", storeID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func GetProducts(ctx context.Context, db bun.IDB, storeID int64) ([]*models.Product, error) {
	var products []*models.Product
	q := db.NewSelect().Model(&products).OrderExpr("cost_in_points ASC, id ASC")
	if storeID != 0 {
		q = q.Where("store_id = ?", storeID)
	}
	err := q.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func FindProductByID(ctx context.Context, db bun.IDB, productID int64) (*models.Product, error) {
	var product models.Product
	err := db.NewSelect().Model(&product).Where("id = ?", productID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// UpsertStoreByName returns the store named store.Name, creating it when missing.
func UpsertStoreByName(ctx context.Context, db bun.IDB, store *models.Store) (*models.Store, error) {
	_, err := db.NewInsert().Model(store).
		On("CONFLICT (name) DO UPDATE").
		Set("logo_url = COALESCE(EXCLUDED.logo_url, stores.logo_url)").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func InsertProducts(ctx context.Context, db bun.IDB, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}
	_, err := db.NewInsert().Model(&products).Exec(ctx)
	return err
}

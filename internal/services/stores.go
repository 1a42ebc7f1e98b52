package services

import (
	"context"
	"ecopoints/internal/models"
	"ecopoints/internal/points"
	"ecopoints/internal/pkg/caching"

	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

type ServiceStore struct {
	container     *do.Injector
	readonlyRepo  points.Repository
	cache         caching.Cache
	readonlyCache caching.ReadOnlyCache
}

func NewServiceStore(container *do.Injector) (*ServiceStore, error) {
	readonlyRepo, err := do.InvokeNamed[points.Repository](container, "repository-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceStore{container, readonlyRepo, cache, readonlyCache}, nil
}

// ListStores returns every partner store with its products attached.
func (service *ServiceStore) ListStores(ctx context.Context) ([]*models.Store, error) {
	callback := func() ([]*models.Store, error) {
		var (
			stores   []*models.Store
			products []*models.Product
		)

		eg, ctx := errgroup.WithContext(ctx)
		eg.Go(func() (err error) {
			stores, err = service.readonlyRepo.ListStores(ctx)
			return err
		})
		eg.Go(func() (err error) {
			products, err = service.readonlyRepo.ListProducts(ctx, 0)
			return err
		})
		if err := eg.Wait(); err != nil {
			return nil, err
		}

		points.AttachProducts(stores, products)
		return stores, nil
	}

	stores, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyStores(), CACHE_TTL_5_MINS, callback)
	if err != nil {
		return nil, toErrorx(err)
	}

	return stores, nil
}

func (service *ServiceStore) GetStore(ctx context.Context, storeID int64) (*models.Store, error) {
	callback := func() (*models.Store, error) {
		store, err := service.readonlyRepo.FindStore(ctx, storeID)
		if err != nil {
			return nil, err
		}

		store.Products, err = service.readonlyRepo.ListProducts(ctx, storeID)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	store, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyStore(storeID), CACHE_TTL_5_MINS, callback)
	if err != nil {
		return nil, toErrorx(err)
	}

	return store, nil
}

func (service *ServiceStore) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	callback := func() (*models.Product, error) {
		return service.readonlyRepo.FindProduct(ctx, productID)
	}

	product, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyProduct(productID), CACHE_TTL_5_MINS, callback)
	if err != nil {
		return nil, toErrorx(err)
	}

	return product, nil
}

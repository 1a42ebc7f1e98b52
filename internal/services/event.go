package services

import (
	"context"
	"ecopoints/internal/models"
	"ecopoints/internal/points"
	"ecopoints/internal/pkg/caching"

	"github.com/samber/do"
)

type ServiceEvent struct {
	container     *do.Injector
	readonlyRepo  points.Repository
	cache         caching.Cache
	readonlyCache caching.ReadOnlyCache
}

func NewServiceEvent(container *do.Injector) (*ServiceEvent, error) {
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

	return &ServiceEvent{container, readonlyRepo, cache, readonlyCache}, nil
}

func (service *ServiceEvent) ListEvents(ctx context.Context) ([]*models.Event, error) {
	callback := func() ([]*models.Event, error) {
		return service.readonlyRepo.ListEvents(ctx)
	}

	events, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyEvents(), CACHE_TTL_15_MINS, callback)
	if err != nil {
		return nil, toErrorx(err)
	}

	return events, nil
}

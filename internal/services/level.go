package services

import (
	"context"
	"ecopoints/internal/models"
	"ecopoints/internal/points"
	"ecopoints/internal/pkg/caching"

	"github.com/samber/do"
)

type ServiceLevel struct {
	container     *do.Injector
	readonlyRepo  points.Repository
	cache         caching.Cache
	readonlyCache caching.ReadOnlyCache
}

func NewServiceLevel(container *do.Injector) (*ServiceLevel, error) {
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

	return &ServiceLevel{container, readonlyRepo, cache, readonlyCache}, nil
}

func (service *ServiceLevel) GetLevels(ctx context.Context) ([]models.Level, error) {
	callback := func() ([]models.Level, error) {
		return service.readonlyRepo.ListLevels(ctx)
	}

	levels, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyLevels(), CACHE_TTL_1_HOUR, callback)
	if err != nil {
		return nil, toErrorx(err)
	}

	return levels, nil
}

func (service *ServiceLevel) GetLevelView(ctx context.Context, student *models.Student) (*points.LevelView, error) {
	levels, err := service.GetLevels(ctx)
	if err != nil {
		return nil, err
	}

	view := points.ResolveLevelView(levels, student.LifetimePoints)
	return &view, nil
}

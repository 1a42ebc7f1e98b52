package services

import (
	"context"
	"ecopoints/internal/models"
	"ecopoints/internal/points"
	"ecopoints/internal/pkg/caching"
	"time"

	"github.com/samber/do"
)

type ServiceChallenge struct {
	container     *do.Injector
	readonlyRepo  points.Repository
	cache         caching.Cache
	readonlyCache caching.ReadOnlyCache
	location      *time.Location
}

func NewServiceChallenge(container *do.Injector) (*ServiceChallenge, error) {
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

	location, err := do.Invoke[*time.Location](container)
	if err != nil {
		return nil, err
	}

	return &ServiceChallenge{container, readonlyRepo, cache, readonlyCache, location}, nil
}

func (service *ServiceChallenge) getChallenges(ctx context.Context) ([]*models.Challenge, error) {
	callback := func() ([]*models.Challenge, error) {
		return service.readonlyRepo.ListChallenges(ctx)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyChallenges(), CACHE_TTL_5_MINS, callback)
}

// ListChallenges returns the catalogue with today's status for the student.
func (service *ServiceChallenge) ListChallenges(ctx context.Context, student *models.Student) ([]*models.Challenge, error) {
	challenges, err := service.getChallenges(ctx)
	if err != nil {
		return nil, toErrorx(err)
	}

	today := points.Today(time.Now(), service.location)
	completed, err := service.readonlyRepo.ListCompletedChallengeIDs(ctx, student.StudentID, today)
	if err != nil {
		return nil, toErrorx(err)
	}

	points.ApplyChallengeStatus(challenges, completed)
	return challenges, nil
}

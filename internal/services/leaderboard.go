package services

import (
	"context"
	"ecopoints/internal/datastore/redis_store"
	"ecopoints/internal/models"
	"ecopoints/internal/points"
	"ecopoints/internal/pkg/caching"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

type ServiceLeaderboard struct {
	container     *do.Injector
	redisDB       redis.UniversalClient
	readonlyRepo  points.Repository
	cache         caching.Cache
	readonlyCache caching.ReadOnlyCache
	logger        *zap.Logger

	serviceStudent *ServiceStudent
	serviceConfig  *ServiceConfig
}

func NewServiceLeaderboard(container *do.Injector) (*ServiceLeaderboard, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

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

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	serviceStudent, err := NewServiceStudent(container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := NewServiceConfig(container)
	if err != nil {
		return nil, err
	}

	return &ServiceLeaderboard{container, db, readonlyRepo, cache, readonlyCache, logger, serviceStudent, serviceConfig}, nil
}

// GetLeaderboard serves the top students from the sorted set and falls back
// to postgres while the set is still empty.
func (service *ServiceLeaderboard) GetLeaderboard(ctx context.Context, student *models.Student) (*models.LeaderboardResponse, error) {
	limit, _ := service.serviceConfig.GetIntConfig(ctx, models.ConfigLeaderboardLimit, DEFAULT_LEADERBOARD_LIMIT)

	callback := func() (*models.LeaderboardResponse, error) {
		items, err := service.topStudents(ctx, limit)
		if err != nil {
			return nil, err
		}

		response := &models.LeaderboardResponse{Leaderboard: items}
		rank, err := redis_store.GetRank(ctx, service.redisDB, LEADERBOARD_LIFETIME, student.StudentID)
		if err == nil {
			response.Me = &models.LeaderboardItem{
				StudentID:      student.StudentID,
				Name:           student.Name,
				AvatarURL:      student.AvatarURL,
				LifetimePoints: student.LifetimePoints,
				Rank:           int(rank) + 1,
			}
		} else if err != redis.Nil {
			return nil, err
		}

		return response, nil
	}

	response, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyLeaderboardByStudent(LEADERBOARD_LIFETIME, student.StudentID, limit), CACHE_TTL_15_SECONDS, callback)
	if err != nil {
		return nil, toErrorx(err)
	}

	return response, nil
}

func (service *ServiceLeaderboard) topStudents(ctx context.Context, limit int) ([]*models.LeaderboardItem, error) {
	size, err := redis_store.GetLeaderboardSize(ctx, service.redisDB, LEADERBOARD_LIFETIME)
	if err != nil {
		return nil, err
	}

	if size == 0 {
		items, err := service.readonlyRepo.Leaderboard(ctx, limit)
		if err != nil {
			return nil, err
		}
		for i, item := range items {
			item.Rank = i + 1
		}
		return items, nil
	}

	items, err := redis_store.GetLeaderboard(ctx, service.redisDB, LEADERBOARD_LIFETIME, limit)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		student, err := service.serviceStudent.FindStudent(ctx, item.StudentID)
		if err != nil {
			service.logger.Warn("leaderboard member without profile", zap.String("student_id", item.StudentID), zap.Error(err))
			continue
		}
		item.Name = student.Name
		item.AvatarURL = student.AvatarURL
	}

	return items, nil
}

// UpdateStudent moves the student's entry after a lifetime change.
func (service *ServiceLeaderboard) UpdateStudent(ctx context.Context, student *models.Student) error {
	_, err := redis_store.SetLeaderboard(ctx, service.redisDB, LEADERBOARD_LIFETIME, &models.LeaderboardItem{
		StudentID:      student.StudentID,
		LifetimePoints: student.LifetimePoints,
	})
	return err
}

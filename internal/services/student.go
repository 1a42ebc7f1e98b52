package services

import (
	"context"
	"ecopoints/internal/datastore/redis_store"
	"ecopoints/internal/models"
	"ecopoints/internal/points"
	"ecopoints/internal/pkg/caching"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

type ServiceStudent struct {
	container     *do.Injector
	redisDB       redis.UniversalClient
	repo          points.Repository
	readonlyRepo  points.Repository
	cache         caching.Cache
	readonlyCache caching.ReadOnlyCache
	location      *time.Location
	logger        *zap.Logger

	serviceConfig *ServiceConfig
}

// Dashboard is everything the student home screen renders in one payload.
type Dashboard struct {
	Session   *points.Session  `json:"session"`
	LevelView points.LevelView `json:"level_view"`
}

func NewServiceStudent(container *do.Injector) (*ServiceStudent, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	repo, err := do.Invoke[points.Repository](container)
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

	location, err := do.Invoke[*time.Location](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := NewServiceConfig(container)
	if err != nil {
		return nil, err
	}

	return &ServiceStudent{container, db, repo, readonlyRepo, cache, readonlyCache, location, logger, serviceConfig}, nil
}

func (service *ServiceStudent) FindStudent(ctx context.Context, studentID string) (*models.Student, error) {
	callback := func() (*models.Student, error) {
		return service.readonlyRepo.FindStudent(ctx, studentID)
	}

	student, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyStudent(studentID), CACHE_TTL_1_MIN, callback)
	if err != nil {
		return nil, toErrorx(err)
	}

	return student, nil
}

func (service *ServiceStudent) FindStudentByAuthID(ctx context.Context, authID string) (*models.Student, error) {
	callback := func() (*models.Student, error) {
		return service.readonlyRepo.FindStudentByAuthID(ctx, authID)
	}

	student, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyStudentByAuth(authID), CACHE_TTL_1_MIN, callback)
	if err != nil {
		return nil, toErrorx(err)
	}

	return student, nil
}

// InvalidateStudent drops cached copies of the profile after a balance change.
func (service *ServiceStudent) InvalidateStudent(ctx context.Context, student *models.Student) error {
	if err := service.cache.Delete(ctx, DBKeyStudent(student.StudentID)); err != nil {
		return err
	}
	if student.AuthID == "" {
		return nil
	}
	return service.cache.Delete(ctx, DBKeyStudentByAuth(student.AuthID))
}

func (service *ServiceStudent) today() string {
	return points.Today(time.Now(), service.location)
}

// GetSession returns the student's snapshot, loading it from postgres when
// the stored one is missing or belongs to a previous day.
func (service *ServiceStudent) GetSession(ctx context.Context, studentID string) (*points.Session, error) {
	today := service.today()

	session, err := redis_store.GetSession(ctx, service.redisDB, studentID)
	if err == nil && session.Day == today {
		return session, nil
	}
	if err != nil && err != redis.Nil {
		service.logger.Warn("read session snapshot", zap.String("student_id", studentID), zap.Error(err))
	}

	return service.RefreshSession(ctx, studentID)
}

func (service *ServiceStudent) RefreshSession(ctx context.Context, studentID string) (*points.Session, error) {
	historyLimit, _ := service.serviceConfig.GetIntConfig(ctx, models.ConfigHistoryLimit, DEFAULT_HISTORY_LIMIT)
	leaderboardLimit, _ := service.serviceConfig.GetIntConfig(ctx, models.ConfigLeaderboardLimit, DEFAULT_LEADERBOARD_LIMIT)

	session, err := points.LoadSession(ctx, service.readonlyRepo, studentID, points.SessionOptions{
		Day:              service.today(),
		HistoryLimit:     historyLimit,
		LeaderboardLimit: leaderboardLimit,
	})
	if err != nil {
		return nil, toErrorx(err)
	}

	if err := redis_store.SaveSession(ctx, service.redisDB, session, SESSION_TTL); err != nil {
		service.logger.Warn("save session snapshot", zap.String("student_id", studentID), zap.Error(err))
	}

	return session, nil
}

// UpdateSession applies a flow result to a stored snapshot. A missing
// snapshot is left missing; the next read loads a fresh one. Callers hold
// the student's points lock.
func (service *ServiceStudent) UpdateSession(ctx context.Context, studentID string, apply func(session *points.Session)) {
	session, err := redis_store.GetSession(ctx, service.redisDB, studentID)
	if err != nil {
		if err != redis.Nil {
			service.logger.Warn("read session snapshot", zap.String("student_id", studentID), zap.Error(err))
		}
		return
	}

	apply(session)

	if err := redis_store.SaveSession(ctx, service.redisDB, session, SESSION_TTL); err != nil {
		service.logger.Warn("save session snapshot", zap.String("student_id", studentID), zap.Error(err))
		// nolint:errcheck
		redis_store.DeleteSession(ctx, service.redisDB, studentID)
	}
}

func (service *ServiceStudent) DropSession(ctx context.Context, studentID string) error {
	return redis_store.DeleteSession(ctx, service.redisDB, studentID)
}

func (service *ServiceStudent) GetDashboard(ctx context.Context, studentID string) (*Dashboard, error) {
	session, err := service.GetSession(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{Session: session, LevelView: session.LevelView()}, nil
}

func (service *ServiceStudent) GetHistory(ctx context.Context, studentID string, limit int) ([]*models.PointsHistory, error) {
	if limit <= 0 {
		limit, _ = service.serviceConfig.GetIntConfig(ctx, models.ConfigHistoryLimit, DEFAULT_HISTORY_LIMIT)
	}

	history, err := service.readonlyRepo.ListLedgerEntries(ctx, studentID, limit)
	if err != nil {
		return nil, toErrorx(err)
	}

	return history, nil
}

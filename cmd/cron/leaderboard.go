package main

import (
	"context"

	"ecopoints/internal/datastore"
	"ecopoints/internal/datastore/redis_store"
	"ecopoints/internal/models"
	"ecopoints/internal/pkg/caching"
	"ecopoints/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

const leaderboardPageSize = 500

// LeaderboardJob keeps the lifetime sorted set in step with postgres. The API
// updates it on every change; the job repairs drift after restores or failed writes.
type LeaderboardJob struct {
	Redis  redis.UniversalClient
	Cache  redis.UniversalClient
	Db     bun.IDB
	Logger *zap.Logger
}

func NewLeaderboardJob(redis redis.UniversalClient, cache redis.UniversalClient, db bun.IDB, logger *zap.Logger) *LeaderboardJob {
	return &LeaderboardJob{
		Redis:  redis,
		Cache:  cache,
		Db:     db,
		Logger: logger,
	}
}

func (j *LeaderboardJob) Start(ctx context.Context, cronRunner *cron.Cron) error {
	timeline := models.DefaultCronjobTimeLeaderboard
	config, err := datastore.GetConfigByKey(ctx, j.Db, models.ConfigCronjobTimeLeaderboard)
	if err != nil {
		j.Logger.Warn("leaderboard schedule not configured, using default", zap.String("cron", timeline), zap.Error(err))
	} else if config.Value != "" {
		timeline = config.Value
	}

	if _, err := cronRunner.AddFunc(timeline, j.runScheduledTask); err != nil {
		return err
	}
	j.Logger.Info("leaderboard cronjob scheduled", zap.String("cron", timeline))

	if err := redis_store.ClearLeaderboard(ctx, j.Redis, services.LEADERBOARD_LIFETIME); err != nil {
		return err
	}
	_, err = j.Rebuild(ctx)
	return err
}

func (j *LeaderboardJob) runScheduledTask() {
	ctx := context.Background()
	count, err := j.Rebuild(ctx)
	if err != nil {
		j.Logger.Error("rebuild leaderboard", zap.Error(err))
		return
	}
	j.Logger.Info("leaderboard rebuilt", zap.Int("students", count))
}

// Rebuild pages through every student and upserts their lifetime score.
func (j *LeaderboardJob) Rebuild(ctx context.Context) (int, error) {
	count := 0
	for offset := 0; ; offset += leaderboardPageSize {
		items, err := datastore.GetStudentLeaderboardPage(ctx, j.Db, leaderboardPageSize, offset)
		if err != nil {
			return count, err
		}

		for _, item := range items {
			if _, err := redis_store.SetLeaderboard(ctx, j.Redis, services.LEADERBOARD_LIFETIME, item); err != nil {
				return count, err
			}
		}
		count += len(items)

		if len(items) < leaderboardPageSize {
			break
		}
	}

	if err := caching.DeleteKeys(ctx, j.Cache, "leaderboard_by_student:*"); err != nil {
		j.Logger.Warn("drop cached leaderboards", zap.Error(err))
	}
	return count, nil
}

package main

import (
	"database/sql"
	"log"
	"os"

	"ecopoints/internal/pkg/logger"

	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "cronjob",
		Commands: []*cli.Command{
			commandCronjob(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandCronjob() *cli.Command {
	return &cli.Command{
		Name: "cron",
		Action: func(c *cli.Context) error {
			zl, err := logger.New(logger.Config{
				Level: os.Getenv("LOG_LEVEL"),
				Path:  os.Getenv("LOG_PATH"),
			})
			if err != nil {
				return err
			}
			// nolint:errcheck
			defer zl.Sync()

			db, err := getDb()
			if err != nil {
				return err
			}
			dbRedis, err := getRedis("CLUSTER_REDIS_DB", "REDIS_DB")
			if err != nil {
				return err
			}
			cacheRedis, err := getRedis("CLUSTER_REDIS_CACHE", "REDIS_CACHE")
			if err != nil {
				return err
			}

			cronRunner := cron.New()

			leaderboardJob := NewLeaderboardJob(dbRedis, cacheRedis, db, zl)
			if err := leaderboardJob.Start(c.Context, cronRunner); err != nil {
				return err
			}
			zl.Info("start cronjob")
			cronRunner.Run()
			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}

func getRedis(clusterEnv string, env string) (redis.UniversalClient, error) {
	clusterURL := os.Getenv(clusterEnv)
	if clusterURL != "" {
		clusterOpts, err := redis.ParseClusterURL(clusterURL)
		if err != nil {
			return nil, err
		}
		return redis.NewClusterClient(clusterOpts), nil
	}

	return db.InitRedis(&db.RedisConfig{
		URL: os.Getenv(env),
	})
}

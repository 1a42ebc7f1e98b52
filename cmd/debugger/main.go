package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"ecopoints/internal/datastore"
	"ecopoints/internal/datastore/redis_store"
	"ecopoints/internal/pkg/caching"
	"ecopoints/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
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
		Name: "debugger",
		Commands: []*cli.Command{
			commandDeleteStudent(),
			commandResetCheckIn(),
			commandDropSession(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var studentFlag = &cli.StringFlag{
	Name:     "student",
	Usage:    "student id",
	Required: true,
}

type clients struct {
	db    *bun.DB
	redis redis.UniversalClient
	cache redis.UniversalClient
}

func connect() (*clients, error) {
	if _, err := env.EnvsRequired("DB_DSN"); err != nil {
		return nil, err
	}

	dbRedis, err := getRedis("CLUSTER_REDIS_DB", "REDIS_DB")
	if err != nil {
		return nil, err
	}
	dbRedisCache, err := getRedis("CLUSTER_REDIS_CACHE", "REDIS_CACHE")
	if err != nil {
		return nil, err
	}

	return &clients{db: getDb(), redis: dbRedis, cache: dbRedisCache}, nil
}

// forget drops everything redis holds about a student.
func (cl *clients) forget(c *cli.Context, studentID string, authID string) {
	ctx := c.Context

	err := redis_store.DeleteSession(ctx, cl.redis, studentID)
	fmt.Println("Deleted session", err)

	cache, err := caching.NewCacheRedis(cl.cache, false)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Deleted cached student", cache.Delete(ctx, services.DBKeyStudent(studentID)))
	if authID != "" {
		fmt.Println("Deleted cached auth lookup", cache.Delete(ctx, services.DBKeyStudentByAuth(authID)))
	}
	fmt.Println("Deleted cached leaderboards", caching.DeleteKeys(ctx, cl.cache, "leaderboard_by_student:*"))
}

func commandDeleteStudent() *cli.Command {
	return &cli.Command{
		Name:  "delete-student",
		Flags: []cli.Flag{studentFlag},
		Action: func(c *cli.Context) error {
			cl, err := connect()
			if err != nil {
				return err
			}
			studentID := c.String("student")

			student, err := datastore.DeleteStudent(c.Context, cl.db, studentID)
			if errors.Is(err, sql.ErrNoRows) {
				fmt.Println("Student not found, cleaning redis only")
			} else if err != nil {
				return err
			} else {
				fmt.Println("Deleted student", student.StudentID, student.Email)
			}

			err = redis_store.RemoveFromLeaderboard(c.Context, cl.redis, services.LEADERBOARD_LIFETIME, studentID)
			fmt.Println("Deleted leaderboard score", err)

			authID := ""
			if student != nil {
				authID = student.AuthID
			}
			cl.forget(c, studentID, authID)
			return nil
		},
	}
}

func commandResetCheckIn() *cli.Command {
	return &cli.Command{
		Name:  "reset-check-in",
		Usage: "let a student check in again today, points already granted are kept",
		Flags: []cli.Flag{studentFlag},
		Action: func(c *cli.Context) error {
			cl, err := connect()
			if err != nil {
				return err
			}
			studentID := c.String("student")

			reset, err := datastore.ResetStudentCheckIn(c.Context, cl.db, studentID)
			if err != nil {
				return err
			}
			if !reset {
				fmt.Println("Student not found")
				return nil
			}

			student, err := datastore.FindStudentByID(c.Context, cl.db, studentID)
			if err != nil {
				return err
			}
			cl.forget(c, studentID, student.AuthID)
			return nil
		},
	}
}

func commandDropSession() *cli.Command {
	return &cli.Command{
		Name:  "drop-session",
		Flags: []cli.Flag{studentFlag},
		Action: func(c *cli.Context) error {
			dbRedis, err := getRedis("CLUSTER_REDIS_DB", "REDIS_DB")
			if err != nil {
				return err
			}
			return redis_store.DeleteSession(c.Context, dbRedis, c.String("student"))
		},
	}
}

func getDb() *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	return bun.NewDB(sqldb, pgdialect.New())
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

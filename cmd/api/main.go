package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ecopoints/internal/api/handler"
	"ecopoints/internal/datastore"
	"ecopoints/internal/interfaces"
	"ecopoints/internal/pkg/caching"
	"ecopoints/internal/pkg/limiter"
	"ecopoints/internal/pkg/logger"
	"ecopoints/internal/pkg/qrcode"
	"ecopoints/internal/points"
	"ecopoints/internal/services"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
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
	vs, err := env.EnvsRequired(
		"JWT_SECRET",
		"DB_DSN",
	)
	if err != nil {
		log.Fatal(err)
	}

	container := NewContainer(vs)

	app := &cli.App{
		Name: "api",
		Commands: []*cli.Command{
			commandServer(container),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandServer(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "start the web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: "0.0.0.0:8080",
				Usage: "serve address",
			},
		},
		Action: func(c *cli.Context) error {
			vs := do.MustInvokeNamed[map[string]string](container, "envs")
			zl := do.MustInvoke[*zap.Logger](container)
			// nolint:errcheck
			defer zl.Sync()

			router, err := handler.New(&handler.Config{
				Container: container,
				Mode:      vs["API_MODE"],
				Origins:   strings.Split(vs["API_ORIGINS"], ","),
			})
			if err != nil {
				zl.Error("build router", zap.Error(err))
				return err
			}

			srv := &http.Server{
				Addr:              c.String("addr"),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errWg, errCtx := errgroup.WithContext(ctx)

			errWg.Go(func() error {
				zl.Info("ListenAndServe", zap.String("addr", c.String("addr")), zap.String("mode", vs["API_MODE"]))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					zl.Error("ListenAndServe", zap.Error(err))
					return err
				}
				return nil
			})

			errWg.Go(func() error {
				<-errCtx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			return errWg.Wait()
		},
	}
}

func newRedis(clusterEnv string, urlEnv string) (redis.UniversalClient, error) {
	clusterURL := os.Getenv(clusterEnv)
	if clusterURL != "" {
		clusterOpts, err := redis.ParseClusterURL(clusterURL)
		if err != nil {
			return nil, err
		}
		return redis.NewClusterClient(clusterOpts), nil
	}
	return db.InitRedis(&db.RedisConfig{
		URL: os.Getenv(urlEnv),
	})
}

func NewContainer(vs map[string]string) *do.Injector {
	injector := do.New()
	vs["API_MODE"] = os.Getenv("API_MODE")
	vs["API_ORIGINS"] = os.Getenv("API_ORIGINS")
	vs["TIMEZONE"] = os.Getenv("TIMEZONE")
	vs["QR_BASE_URL"] = os.Getenv("QR_BASE_URL")

	if vs["API_MODE"] == "" {
		vs["API_MODE"] = services.SERVER_MODE_PRODUCTION
	}
	if vs["API_ORIGINS"] == "" {
		vs["API_ORIGINS"] = "*"
	}

	do.ProvideNamedValue(injector, "envs", vs)

	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level: os.Getenv("LOG_LEVEL"),
			Path:  os.Getenv("LOG_PATH"),
		})
	})

	do.Provide(injector, func(i *do.Injector) (*time.Location, error) {
		return points.LoadLocation(vs["TIMEZONE"])
	})

	do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
		sqldb := sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithDSN(os.Getenv("DB_DSN")),
			pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
		))

		db := bun.NewDB(sqldb, pgdialect.New())
		return db, nil
	})

	do.ProvideNamed(injector, "db-readonly", func(i *do.Injector) (*bun.DB, error) {
		dsn := os.Getenv("DB_DSN_READONLY")
		password := os.Getenv("DB_PASSWORD_READONLY")
		if dsn == "" {
			dsn = os.Getenv("DB_DSN")
			password = os.Getenv("DB_PASSWORD")
		}
		sqldb := sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithDSN(dsn),
			pgdriver.WithPassword(password),
		))

		db := bun.NewDB(sqldb, pgdialect.New())
		return db, nil
	})

	do.Provide(injector, func(i *do.Injector) (points.Repository, error) {
		db, err := do.Invoke[*bun.DB](i)
		if err != nil {
			return nil, err
		}
		return datastore.NewRepository(db), nil
	})

	do.ProvideNamed(injector, "repository-readonly", func(i *do.Injector) (points.Repository, error) {
		db, err := do.InvokeNamed[*bun.DB](i, "db-readonly")
		if err != nil {
			return nil, err
		}
		return datastore.NewRepository(db), nil
	})

	do.Provide(injector, func(i *do.Injector) (services.AccountStore, error) {
		db, err := do.Invoke[*bun.DB](i)
		if err != nil {
			return nil, err
		}
		return datastore.NewRepository(db), nil
	})

	do.Provide(injector, func(i *do.Injector) (services.ConfigStore, error) {
		db, err := do.Invoke[*bun.DB](i)
		if err != nil {
			return nil, err
		}
		return datastore.NewRepository(db), nil
	})

	do.Provide(injector, func(i *do.Injector) (services.RewardStore, error) {
		db, err := do.InvokeNamed[*bun.DB](i, "db-readonly")
		if err != nil {
			return nil, err
		}
		return datastore.NewRepository(db), nil
	})

	do.ProvideNamed(injector, "redis-db", func(i *do.Injector) (redis.UniversalClient, error) {
		return newRedis("CLUSTER_REDIS_DB", "REDIS_DB")
	})

	do.ProvideNamed(injector, "redis-cache", func(i *do.Injector) (redis.UniversalClient, error) {
		return newRedis("CLUSTER_REDIS_CACHE", "REDIS_CACHE")
	})

	do.ProvideNamed(injector, "redis-cache-readonly", func(i *do.Injector) (redis.UniversalClient, error) {
		var clusterOpts *redis.ClusterOptions
		var err error
		clusterCacheRedisReadOnlyURL := os.Getenv("CLUSTER_REDIS_CACHE_READONLY")
		if clusterCacheRedisReadOnlyURL != "" {
			clusterOpts, err = redis.ParseClusterURL(clusterCacheRedisReadOnlyURL)
		} else {
			clusterCacheRedisURL := os.Getenv("CLUSTER_REDIS_CACHE")
			if clusterCacheRedisURL != "" {
				clusterOpts, err = redis.ParseClusterURL(clusterCacheRedisURL)
			}
		}

		if err != nil {
			return nil, err
		}
		if clusterOpts != nil {
			clusterOpts.ReadOnly = true
			return redis.NewClusterClient(clusterOpts), nil
		}

		url := os.Getenv("REDIS_CACHE_READONLY")
		if url == "" {
			url = os.Getenv("REDIS_CACHE")
		}
		return db.InitRedis(&db.RedisConfig{
			URL: url,
		})
	})

	do.ProvideNamed(injector, "redis-limiter", func(i *do.Injector) (redis.UniversalClient, error) {
		return newRedis("CLUSTER_REDIS_LIMITER", "REDIS_LIMITER")
	})

	do.ProvideNamed(injector, "redis-mutex", func(i *do.Injector) (redis.UniversalClient, error) {
		return newRedis("CLUSTER_REDIS_MUTEX", "REDIS_MUTEX")
	})

	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-cache")
		if err != nil {
			return nil, err
		}

		return caching.NewCacheRedis(dbRedis, false)
	})

	do.Provide(injector, func(i *do.Injector) (caching.ReadOnlyCache, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-cache-readonly")
		if err != nil {
			return nil, err
		}

		return caching.NewCacheRedis(dbRedis, false)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Limiter, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-limiter")
		if err != nil {
			return nil, err
		}

		return limiter.NewLimiter(dbRedis)
	})

	do.Provide(injector, func(i *do.Injector) (*redsync.Redsync, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-mutex")
		if err != nil {
			return nil, err
		}

		pool := goredis.NewPool(dbRedis)
		rs := redsync.New(pool)
		return rs, nil
	})

	do.Provide(injector, func(i *do.Injector) (*qrcode.Generator, error) {
		return qrcode.NewGenerator(vs["QR_BASE_URL"], 5*time.Second), nil
	})

	do.Provide(injector, func(i *do.Injector) (*services.Authentication, error) {
		return services.NewAuthentication(vs["JWT_SECRET"], services.TOKEN_TTL)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceConfig, error) {
		return services.NewServiceConfig(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceStudent, error) {
		return services.NewServiceStudent(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceAuth, error) {
		return services.NewServiceAuth(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceLevel, error) {
		return services.NewServiceLevel(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceLeaderboard, error) {
		return services.NewServiceLeaderboard(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServicePoints, error) {
		return services.NewServicePoints(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceChallenge, error) {
		return services.NewServiceChallenge(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceStore, error) {
		return services.NewServiceStore(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceReward, error) {
		return services.NewServiceReward(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceEvent, error) {
		return services.NewServiceEvent(injector)
	})

	return injector
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log"
	"os"

	"ecopoints/internal/datastore"
	"ecopoints/internal/pkg/caching"
	"ecopoints/internal/pkg/logger"
	"ecopoints/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
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
		Name:  "catalog",
		Usage: "import challenges, products and events from csv files",
		Commands: []*cli.Command{
			commandImportChallenges(),
			commandImportProducts(),
			commandImportEvents(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var fileFlag = &cli.StringFlag{
	Name:     "file",
	Aliases:  []string{"f"},
	Required: true,
}

type importFunc func(ctx context.Context, db *bun.DB, r io.Reader, logger *zap.Logger) (int, error)

func runImport(c *cli.Context, fn importFunc, cacheKeys ...string) error {
	zl, err := logger.New(logger.Config{Level: os.Getenv("LOG_LEVEL")})
	if err != nil {
		return err
	}
	// nolint:errcheck
	defer zl.Sync()

	f, err := os.Open(c.String("file"))
	if err != nil {
		return err
	}
	defer f.Close()

	dbPostgres, err := getDb()
	if err != nil {
		return err
	}
	defer dbPostgres.Close()

	n, err := fn(c.Context, dbPostgres, f, zl)
	if err != nil {
		return err
	}
	zl.Info("imported", zap.String("command", c.Command.Name), zap.Int("count", n))

	if os.Getenv("REDIS_CACHE") == "" && os.Getenv("CLUSTER_REDIS_CACHE") == "" {
		return nil
	}
	cacheRedis, err := getRedis("CLUSTER_REDIS_CACHE", "REDIS_CACHE")
	if err != nil {
		return err
	}
	cache, err := caching.NewCacheRedis(cacheRedis, false)
	if err != nil {
		return err
	}
	for _, key := range cacheKeys {
		if err := cache.Delete(c.Context, key); err != nil {
			zl.Warn("cache delete", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

func commandImportChallenges() *cli.Command {
	return &cli.Command{
		Name:  "import-challenges",
		Flags: []cli.Flag{fileFlag},
		Action: func(c *cli.Context) error {
			return runImport(c, func(ctx context.Context, db *bun.DB, r io.Reader, zl *zap.Logger) (int, error) {
				challenges, err := parseChallenges(r, zl)
				if err != nil {
					return 0, err
				}
				if err := datastore.InsertChallenges(ctx, db, challenges); err != nil {
					return 0, err
				}
				return len(challenges), nil
			}, services.DBKeyChallenges())
		},
	}
}

func commandImportProducts() *cli.Command {
	return &cli.Command{
		Name:  "import-products",
		Flags: []cli.Flag{fileFlag},
		Action: func(c *cli.Context) error {
			return runImport(c, func(ctx context.Context, db *bun.DB, r io.Reader, zl *zap.Logger) (int, error) {
				groups, err := parseProducts(r, zl)
				if err != nil {
					return 0, err
				}

				count := 0
				err = db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
					for _, group := range groups {
						store, err := datastore.UpsertStoreByName(ctx, tx, group.Store)
						if err != nil {
							return err
						}
						for _, product := range group.Products {
							product.StoreID = store.ID
						}
						if err := datastore.InsertProducts(ctx, tx, group.Products); err != nil {
							return err
						}
						count += len(group.Products)
					}
					return nil
				})
				return count, err
			}, services.DBKeyStores())
		},
	}
}

func commandImportEvents() *cli.Command {
	return &cli.Command{
		Name:  "import-events",
		Flags: []cli.Flag{fileFlag},
		Action: func(c *cli.Context) error {
			return runImport(c, func(ctx context.Context, db *bun.DB, r io.Reader, zl *zap.Logger) (int, error) {
				events, err := parseEvents(r, zl)
				if err != nil {
					return 0, err
				}
				if err := datastore.InsertEvents(ctx, db, events); err != nil {
					return 0, err
				}
				return len(events), nil
			}, services.DBKeyEvents())
		},
	}
}

func getDb() (*bun.DB, error) {
	if os.Getenv("DB_DSN") == "" {
		return nil, errors.New("DB_DSN is required")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	return bun.NewDB(sqldb, pgdialect.New()), nil
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

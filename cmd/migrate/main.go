package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"

	"ecopoints/internal/datastore"
	"ecopoints/internal/models"
	"ecopoints/internal/points"

	"github.com/joho/godotenv"
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
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandSeedMigration(),
			commandSetConfig(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Description: "Create tables and indexes",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				return err
			}

			// students before anything referencing them
			steps := []struct {
				name string
				fn   func(ctx context.Context, db *bun.DB) error
			}{
				{"accounts", datastore.CreateTableAccount},
				{"students", datastore.CreateTableStudent},
				{"points_history", datastore.CreateTablePointsHistory},
				{"challenges", datastore.CreateTableChallenge},
				{"levels", datastore.CreateTableLevel},
				{"stores", datastore.CreateTableStore},
				{"user_rewards", datastore.CreateTableUserReward},
				{"events", datastore.CreateTableEvent},
				{"config", datastore.CreateTableConfig},
			}

			for _, step := range steps {
				if err := step.fn(ctx, db); err != nil {
					return err
				}
				log.Println("migrated", step.name)
			}

			return nil
		},
	}
}

func commandSeedMigration() *cli.Command {
	return &cli.Command{
		Name:        "seed",
		Description: "Insert default levels and configs",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				return err
			}

			if err := points.ValidateLevels(models.DefaultLevels); err != nil {
				return err
			}

			err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
				if err := datastore.UpsertLevels(ctx, tx, models.DefaultLevels); err != nil {
					return err
				}
				return datastore.SeedConfig(ctx, tx, models.DefaultConfigs)
			})
			if err != nil {
				return err
			}

			log.Println("seeded", len(models.DefaultLevels), "levels and", len(models.DefaultConfigs), "configs")
			return nil
		},
	}
}

func commandSetConfig() *cli.Command {
	return &cli.Command{
		Name:        "set-config",
		Description: "Change a runtime config value",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "key",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "value",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				return err
			}

			config, err := datastore.EditConfig(ctx, db, &models.Config{Key: c.String("key"), Value: c.String("value")})
			if err != nil {
				return err
			}

			log.Printf("config %s = %q (cached values expire within 5 minutes)\n", config.Key, config.Value)
			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return nil, errors.New("DB_DSN is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}

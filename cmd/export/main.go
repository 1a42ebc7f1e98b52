package main

import (
	"database/sql"
	"io"
	"log"
	"os"

	"github.com/hiendaovinh/toolkit/pkg/env"
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
		Name: "export",
		Commands: []*cli.Command{
			commandExportLedger(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandExportLedger() *cli.Command {
	return &cli.Command{
		Name:  "ledger",
		Usage: "write every points history entry as csv",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output file, stdout when empty",
			},
			&cli.IntFlag{
				Name:  "page-size",
				Value: 1000,
			},
		},
		Action: func(c *cli.Context) error {
			if _, err := env.EnvsRequired("DB_DSN"); err != nil {
				return err
			}

			sqldb := sql.OpenDB(pgdriver.NewConnector(
				pgdriver.WithDSN(os.Getenv("DB_DSN")),
				pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
			))
			db := bun.NewDB(sqldb, pgdialect.New())
			defer db.Close()

			var w io.Writer = os.Stdout
			if path := c.String("out"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			n, err := exportLedger(c.Context, db, w, c.Int("page-size"))
			if err != nil {
				return err
			}
			log.Printf("exported %d entries", n)
			return nil
		},
	}
}

package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"

	"ziglet/internal/datastore"
	"ziglet/internal/services"
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
			commandSeedTasks(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				return err
			}

			creates := []func(context.Context, *bun.DB) error{
				datastore.CreateTableUser,
				datastore.CreateTableWalletNonce,
				datastore.CreateTableDailyState,
				datastore.CreateTableGrowthState,
				datastore.CreateTableStreak,
				datastore.CreateTableTask,
				datastore.CreateTableTaskLog,
				datastore.CreateTableRewardEvent,
				datastore.CreateTableFaucetRequest,
				datastore.CreateTableExternalAction,
			}
			for _, create := range creates {
				if err := create(ctx, db); err != nil {
					return err
				}
			}

			log.Println("migration done")
			return nil
		},
	}
}

func commandSeedTasks() *cli.Command {
	return &cli.Command{
		Name: "seed-tasks",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				return err
			}

			for _, task := range services.DefaultTasks() {
				if err := datastore.SeedTask(ctx, db, task); err != nil {
					return err
				}
			}

			log.Println("task catalog seeded")
			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	return bun.NewDB(sqldb, pgdialect.New()), nil
}

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/angelmondragon/storefront-backend/pkg/migrate"
)

func migrateCommand() *cli.Command {
	dirFlag := &cli.StringFlag{Name: "dir", Value: migrate.DefaultDir, Usage: "goose migrations directory"}

	withDB := func(command string) cli.ActionFunc {
		return func(ctx context.Context, c *cli.Command) error {
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()
			sqlDB, err := e.db.DB().DB()
			if err != nil {
				return fmt.Errorf("sql database: %w", err)
			}
			ctx = e.logg.WithFields(ctx, map[string]any{"cmd": command, "dir": c.String("dir")})
			e.logg.Info(ctx, "migrate ready")

			if command == "version" {
				target := c.Args().First()
				if target == "" {
					return errors.New("usage: migrate version <YYYYMMDDHHMMSS>")
				}
				return migrate.MigrateToVersion(ctx, sqlDB, c.String("dir"), target)
			}
			return migrate.Run(ctx, sqlDB, c.String("dir"), command)
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "manage the database schema",
		Flags: []cli.Flag{dirFlag},
		Commands: []*cli.Command{
			{Name: "up", Usage: "apply pending migrations", Action: withDB("up")},
			{Name: "down", Usage: "roll back the latest migration", Action: withDB("down")},
			{Name: "status", Usage: "list applied and pending migrations", Action: withDB("status")},
			{Name: "version", Usage: "migrate up or down to a version", ArgsUsage: "<version>", Action: withDB("version")},
			{
				Name:      "create",
				Usage:     "create an empty SQL migration",
				ArgsUsage: "<name>",
				Action: func(ctx context.Context, c *cli.Command) error {
					name := c.Args().First()
					if name == "" {
						return errors.New("usage: migrate create <name>")
					}
					path, err := migrate.CreateSQLMigration(c.String("dir"), name)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.Root().Writer, "created migration:", path)
					return nil
				},
			},
			{
				Name:  "validate",
				Usage: "check migration file names and annotations",
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := migrate.ValidateDir(c.String("dir")); err != nil {
						return err
					}
					fmt.Fprintln(c.Root().Writer, "migration validation passed")
					return nil
				},
			},
		},
	}
}

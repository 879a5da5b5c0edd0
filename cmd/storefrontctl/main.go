// Command storefrontctl runs operator tasks: schema migrations, session key
// generation, category maintenance and order status changes.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:  "storefrontctl",
		Usage: "operate a storefront deployment",
		Commands: []*cli.Command{
			keysCommand(),
			migrateCommand(),
			categoryCommand(),
			orderCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is the configuration and connections shared by commands that touch the database.
type env struct {
	cfg  *config.Config
	logg *logger.Logger
	db   *db.Client
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logg := logger.New(logger.Options{
		ServiceName: "storefrontctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})
	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &env{cfg: cfg, logg: logg, db: client}, nil
}

func (e *env) Close() error {
	return e.db.Close()
}

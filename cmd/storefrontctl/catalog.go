package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/angelmondragon/storefront-backend/internal/categories"
)

func categoryCommand() *cli.Command {
	withService := func(fn func(ctx context.Context, c *cli.Command, svc categories.Service) error) cli.ActionFunc {
		return func(ctx context.Context, c *cli.Command) error {
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()
			svc, err := categories.NewService(categories.NewRepository(e.db.DB()), e.db)
			if err != nil {
				return err
			}
			return fn(ctx, c, svc)
		}
	}

	return &cli.Command{
		Name:  "category",
		Usage: "maintain the shared category tree",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "print the category tree",
				Action: withService(func(ctx context.Context, c *cli.Command, svc categories.Service) error {
					nodes, err := svc.List(ctx)
					if err != nil {
						return err
					}
					return printTree(c.Root().Writer, nodes)
				}),
			},
			{
				Name:      "create",
				Usage:     "add a category",
				ArgsUsage: "<name>",
				Flags:     []cli.Flag{&cli.StringFlag{Name: "parent", Usage: "parent category id"}},
				Action: withService(func(ctx context.Context, c *cli.Command, svc categories.Service) error {
					parent, err := optionalID(c.String("parent"))
					if err != nil {
						return err
					}
					created, err := svc.Create(ctx, c.Args().First(), parent)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.Root().Writer, "%s\t%s\n", created.ID, created.Name)
					return nil
				}),
			},
			{
				Name:      "move",
				Usage:     "move a category under another one, or to the root without --parent",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{&cli.StringFlag{Name: "parent", Usage: "new parent category id"}},
				Action: withService(func(ctx context.Context, c *cli.Command, svc categories.Service) error {
					id, err := requiredID(c.Args().First())
					if err != nil {
						return err
					}
					parent, err := optionalID(c.String("parent"))
					if err != nil {
						return err
					}
					return svc.Reparent(ctx, id, parent)
				}),
			},
			{
				Name:      "delete",
				Usage:     "delete a category and its subcategories",
				ArgsUsage: "<id>",
				Action: withService(func(ctx context.Context, c *cli.Command, svc categories.Service) error {
					id, err := requiredID(c.Args().First())
					if err != nil {
						return err
					}
					return svc.Delete(ctx, id)
				}),
			},
		},
	}
}

func printTree(w io.Writer, nodes []categories.Node) error {
	for _, n := range nodes {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", n.ID, n.IndentedName()); err != nil {
			return err
		}
	}
	return nil
}

func requiredID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, errors.New("an id argument is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", raw, err)
	}
	return id, nil
}

func optionalID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := requiredID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

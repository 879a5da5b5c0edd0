package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/angelmondragon/storefront-backend/internal/orders"
)

func orderCommand() *cli.Command {
	return &cli.Command{
		Name:  "order",
		Usage: "inspect and update orders",
		Commands: []*cli.Command{
			{
				Name:      "status",
				Usage:     "set the status of a vendor's order",
				ArgsUsage: "<order-id> <status>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "vendor", Usage: "owning vendor id", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					vendorID, err := requiredID(c.String("vendor"))
					if err != nil {
						return err
					}
					orderID, err := requiredID(c.Args().Get(0))
					if err != nil {
						return err
					}

					e, err := openEnv(ctx)
					if err != nil {
						return err
					}
					defer e.Close()
					svc, err := orders.NewService(orders.NewRepository(e.db.DB()))
					if err != nil {
						return err
					}
					order, err := svc.UpdateStatus(ctx, vendorID, orderID, c.Args().Get(1))
					if err != nil {
						return err
					}
					e.logg.Info(e.logg.WithFields(ctx, map[string]any{
						"order_id":  order.ID.String(),
						"vendor_id": vendorID.String(),
						"status":    string(order.Status),
					}), "order.status_updated")
					fmt.Fprintf(c.Root().Writer, "%s\t%s\n", order.ID, order.Status)
					return nil
				},
			},
		},
	}
}

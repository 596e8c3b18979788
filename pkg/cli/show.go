package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/model"
	"github.com/urfave/cli/v3"
)

func showCommand() *cli.Command {
	var (
		cfg      config
		memoryID string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "memory-id",
			Aliases:     []string{"i"},
			Usage:       "Memory ID to display",
			Destination: &memoryID,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "show",
		Usage: "Display a single memory record",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.setupLogging()
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			m, err := repo.GetMemory(ctx, model.MemoryID(memoryID))
			if err != nil {
				return goerr.Wrap(err, "failed to get memory")
			}

			fmt.Fprintf(c.Root().Writer, "ID:         %s\n", m.ID)
			fmt.Fprintf(c.Root().Writer, "User:       %s\n", m.UserID)
			fmt.Fprintf(c.Root().Writer, "Content:    %s\n", m.Content)
			fmt.Fprintf(c.Root().Writer, "Created:    %s\n", m.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(c.Root().Writer, "Updated:    %s\n", m.UpdatedAt.Format("2006-01-02 15:04:05"))
			for k, v := range m.Metadata {
				fmt.Fprintf(c.Root().Writer, "Metadata:   %s=%s\n", k, v)
			}

			return nil
		},
	}
}

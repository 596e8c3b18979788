package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/model"
	"github.com/urfave/cli/v3"
)

func historyCommand() *cli.Command {
	var (
		cfg      config
		memoryID string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "memory-id",
			Aliases:     []string{"i"},
			Usage:       "Memory ID to list the audit trail for",
			Destination: &memoryID,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "history",
		Usage: "List the audit trail of a memory",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.setupLogging()
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			events, err := repo.ListHistory(ctx, model.MemoryID(memoryID))
			if err != nil {
				return goerr.Wrap(err, "failed to list history")
			}

			if len(events) == 0 {
				fmt.Fprintf(c.Root().Writer, "No history found for memory %s\n", memoryID)
				return nil
			}

			for _, e := range events {
				prev, next := "-", "-"
				if e.PreviousContent != nil {
					prev = *e.PreviousContent
				}
				if e.NewContent != nil {
					next = *e.NewContent
				}
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\t%s\n",
					e.CreatedAt.Format("2006-01-02 15:04:05"),
					e.Event,
					prev,
					next,
				)
			}

			return nil
		},
	}
}

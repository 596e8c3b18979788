package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/model"
	"github.com/urfave/cli/v3"
)

func deleteCommand() *cli.Command {
	var (
		cfg      config
		memoryID string
		userID   string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "memory-id",
			Aliases:     []string{"i"},
			Usage:       "Memory ID to delete",
			Destination: &memoryID,
		},
		&cli.StringFlag{
			Name:        "user-id",
			Aliases:     []string{"u"},
			Usage:       "Delete every memory of this user",
			Sources:     cli.EnvVars("MEMVAULT_USER_ID"),
			Destination: &userID,
		},
	}
	flags = append(flags, allFlags(&cfg)...)

	return &cli.Command{
		Name:  "delete",
		Usage: "Delete a memory, or all memories of a user",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if (memoryID == "") == (userID == "") {
				return goerr.New("exactly one of memory-id or user-id is required")
			}

			uc, closer, err := cfg.newEngine(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if memoryID != "" {
				if err := uc.Delete(ctx, model.MemoryID(memoryID)); err != nil {
					return err
				}
				fmt.Fprintf(c.Root().Writer, "Deleted memory %s\n", memoryID)
				return nil
			}

			count, err := uc.DeleteAll(ctx, userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "Deleted %d memories of user %s\n", count, userID)
			return nil
		},
	}
}

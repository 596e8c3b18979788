package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var (
		cfg     config
		userID  string
		filters []string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Aliases:     []string{"u"},
			Usage:       "User whose memories are listed",
			Sources:     cli.EnvVars("MEMVAULT_USER_ID"),
			Destination: &userID,
			Required:    true,
		},
		&cli.StringSliceFlag{
			Name:        "filter",
			Aliases:     []string{"f"},
			Usage:       "Metadata filters as key=value pairs (repeatable, AND-combined)",
			Destination: &filters,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List all memories of a user",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			filterMap, err := parseKV(filters)
			if err != nil {
				return err
			}

			cfg.setupLogging()
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			memories, err := repo.ListMemories(ctx, userID, filterMap)
			if err != nil {
				return goerr.Wrap(err, "failed to list memories")
			}

			if len(memories) == 0 {
				fmt.Fprintf(c.Root().Writer, "No memories found for user %s\n", userID)
				return nil
			}

			for _, m := range memories {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\n",
					m.ID,
					m.UpdatedAt.Format("2006-01-02 15:04:05"),
					m.Content,
				)
			}

			return nil
		},
	}
}

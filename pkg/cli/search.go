package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func searchCommand() *cli.Command {
	var (
		cfg     config
		userID  string
		query   string
		limit   int64
		filters []string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Aliases:     []string{"u"},
			Usage:       "User whose memories are searched",
			Sources:     cli.EnvVars("MEMVAULT_USER_ID"),
			Destination: &userID,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Natural language query",
			Destination: &query,
			Required:    true,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of results",
			Value:       10,
			Destination: &limit,
		},
		&cli.StringSliceFlag{
			Name:        "filter",
			Aliases:     []string{"f"},
			Usage:       "Metadata filters as key=value pairs (repeatable, AND-combined)",
			Destination: &filters,
		},
	}
	flags = append(flags, allFlags(&cfg)...)

	return &cli.Command{
		Name:  "search",
		Usage: "Search memories by semantic similarity",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			filterMap, err := parseKV(filters)
			if err != nil {
				return err
			}

			uc, closer, err := cfg.newEngine(ctx)
			if err != nil {
				return err
			}
			defer closer()

			results, err := uc.Search(ctx, userID, query, int(limit), filterMap)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintf(c.Root().Writer, "No memories found\n")
				return nil
			}

			for i, r := range results {
				fmt.Fprintf(c.Root().Writer, "%d. %s (score: %.4f)\n", i+1, r.Memory.ID, r.Score)
				fmt.Fprintf(c.Root().Writer, "   %s\n", r.Memory.Content)
			}

			return nil
		},
	}
}

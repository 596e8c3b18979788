package cli

import (
	"context"
	"fmt"

	"github.com/memvault/memvault/pkg/usecase/memory"
	"github.com/urfave/cli/v3"
)

func addCommand() *cli.Command {
	var (
		cfg      config
		userID   string
		input    string
		metadata []string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Aliases:     []string{"u"},
			Usage:       "Owner of the resulting memories",
			Sources:     cli.EnvVars("MEMVAULT_USER_ID"),
			Destination: &userID,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Raw text to extract memories from",
			Destination: &input,
			Required:    true,
		},
		&cli.StringSliceFlag{
			Name:        "metadata",
			Aliases:     []string{"m"},
			Usage:       "Metadata as key=value pairs (repeatable)",
			Destination: &metadata,
		},
	}
	flags = append(flags, allFlags(&cfg)...)

	return &cli.Command{
		Name:  "add",
		Usage: "Extract, deduplicate, and store memories from raw input",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			meta, err := parseKV(metadata)
			if err != nil {
				return err
			}

			uc, closer, err := cfg.newEngine(ctx)
			if err != nil {
				return err
			}
			defer closer()

			out, err := uc.Add(ctx, memory.AddInput{
				UserID:   userID,
				RawInput: input,
				Metadata: meta,
			})
			if err != nil {
				return err
			}

			for _, am := range out.Memories {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\n", am.Event, am.Memory.ID, am.Memory.Content)
			}
			for _, skipped := range out.Skipped {
				fmt.Fprintf(c.Root().Writer, "SKIPPED\t%s\t%s\n", skipped.Statement, skipped.Reason)
			}

			return nil
		},
	}
}

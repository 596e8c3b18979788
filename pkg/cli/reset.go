package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func resetCommand() *cli.Command {
	var (
		cfg   config
		force bool
	)

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "force",
			Usage:       "Skip the safety check",
			Destination: &force,
		},
	}
	flags = append(flags, allFlags(&cfg)...)

	return &cli.Command{
		Name:  "reset",
		Usage: "Wipe all memories, history, and the vector index for every user",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if !force {
				return goerr.New("reset wipes all stored data, rerun with --force to proceed")
			}

			uc, closer, err := cfg.newEngine(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if err := uc.Reset(ctx); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "All stores wiped\n")
			return nil
		},
	}
}

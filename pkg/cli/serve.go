package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/memvault/memvault/pkg/controller/server"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		cfg  config
		addr string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Listen address",
			Value:       "127.0.0.1:8080",
			Sources:     cli.EnvVars("MEMVAULT_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, allFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP memory service",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := cfg.newEngine(ctx)
			if err != nil {
				return err
			}
			defer closer()

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.New(uc).Run(ctx, addr)
		},
	}
}

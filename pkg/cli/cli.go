package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "memvault",
		Usage: "Long-lived memory service with semantic dedup and audit history",
		Commands: []*cli.Command{
			serveCommand(),
			addCommand(),
			searchCommand(),
			showCommand(),
			listCommand(),
			historyCommand(),
			deleteCommand(),
			resetCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}

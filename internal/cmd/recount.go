package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"bloglytics/internal/cmd/flags"
	"bloglytics/internal/core"
	"bloglytics/internal/maintenance"
	"bloglytics/internal/persistence"
)

var recountCmd = &cli.Command{
	Name:  "recount",
	Usage: "Re-derive cached comment like counts from the liker sets",
	Flags: []cli.Flag{
		flags.DatabaseURL,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c,
			pal.Provide[core.DB](&persistence.DB{}),
			pal.Provide(&maintenance.Recounter{}),
		)
	},
}

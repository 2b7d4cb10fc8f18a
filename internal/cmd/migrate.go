package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"bloglytics/internal/cmd/flags"
	"bloglytics/internal/core"
	"bloglytics/internal/persistence"
)

var migrateCmd = &cli.Command{
	Name:  "migrate",
	Usage: "Apply or roll back database migrations",
	Flags: []cli.Flag{
		flags.DatabaseURL,
	},
	Commands: []*cli.Command{
		{
			Name:  "up",
			Usage: "Apply all pending migrations",
			Action: func(ctx context.Context, c *cli.Command) error {
				return run(ctx, c,
					pal.Provide[core.DB](&persistence.DB{}),
					pal.Provide[core.Migrator](&persistence.Migrator{}),
					pal.Provide(&persistence.MigrationUpRunner{}),
				)
			},
		},
		{
			Name:  "down",
			Usage: "Roll back the most recent migration",
			Action: func(ctx context.Context, c *cli.Command) error {
				return run(ctx, c,
					pal.Provide[core.DB](&persistence.DB{}),
					pal.Provide[core.Migrator](&persistence.Migrator{}),
					pal.Provide(&persistence.MigrationDownRunner{}),
				)
			},
		},
	},
}

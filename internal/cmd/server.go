package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"
	"github.com/zhulik/pal/inspect"

	"bloglytics/internal/analytics"
	"bloglytics/internal/api"
	"bloglytics/internal/cmd/flags"
	"bloglytics/internal/comments"
	"bloglytics/internal/core"
	"bloglytics/internal/metrics"
	"bloglytics/internal/moderation"
	"bloglytics/internal/persistence"
	pcomments "bloglytics/internal/persistence/comments"
	"bloglytics/internal/persistence/posts"
	"bloglytics/internal/persistence/users"
)

var serverCmd = &cli.Command{
	Name:  "server",
	Usage: "Run the API server, the metrics server and the table-size collector",
	Flags: []cli.Flag{
		flags.DatabaseURL,
		flags.ListenAddr,
		flags.MetricsAddr,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		services := []pal.ServiceDef{
			pal.Provide[core.DB](&persistence.DB{}),
			pal.Provide[core.UserRepository](&users.Repository{}),
			pal.Provide[core.PostRepository](&posts.Repository{}),
			pal.Provide[core.CommentRepository](&pcomments.Repository{}),

			pal.Provide[core.CommentEngine](&comments.Engine{}),
			pal.Provide[core.Aggregator](&analytics.Aggregator{}),
			pal.Provide[core.Moderation](&moderation.Service{}),

			pal.Provide(&api.Gate{}),
			pal.Provide(&api.Backend{}),
			pal.Provide(&api.Server{}),

			pal.Provide(&metrics.Server{}),
			pal.Provide(&metrics.Collector{}),
		}
		services = append(services, inspect.Provide())

		return run(ctx, c, services...)
	},
}

package cmd

import (
	"context"

	"github.com/k0kubun/pp"
	"github.com/urfave/cli/v3"

	"bloglytics/pkg/blogclient"
)

var serverURLFlag = &cli.StringFlag{
	Name:    "server-url",
	Usage:   "Base URL of a running bloglytics API server",
	Value:   "http://localhost:8080",
	Sources: cli.EnvVars("SERVER_URL"),
}

var actingUserFlag = &cli.StringFlag{
	Name:     "user-id",
	Usage:    "Id of the administrator account to act as",
	Required: true,
	Sources:  cli.EnvVars("USER_ID"),
}

var statsCmd = &cli.Command{
	Name:  "stats",
	Usage: "Fetch and print the platform stats bundle",
	Flags: []cli.Flag{
		serverURLFlag,
		actingUserFlag,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		client := blogclient.NewClient(&blogclient.ClientConfig{
			BaseURL: c.String("server-url"),
			UserID:  c.String("user-id"),
		})
		defer client.Close() //nolint:errcheck

		stats, err := client.PlatformStats(ctx)
		if err != nil {
			return err
		}

		pp.Println(stats)
		return nil
	},
}

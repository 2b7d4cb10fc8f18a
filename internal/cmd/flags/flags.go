package flags

import (
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

var DatabaseURL = &cli.StringFlag{
	Name:    "database-url",
	Aliases: []string{"d"},
	Usage:   "PostgreSQL connection string",
	Value:   "postgres://localhost:5432/bloglytics?sslmode=disable",
	Sources: cli.EnvVars("DATABASE_URL"),
}

var ListenAddr = &cli.StringFlag{
	Name:    "listen-addr",
	Usage:   "Address the API server listens on",
	Value:   ":8080",
	Sources: cli.EnvVars("LISTEN_ADDR"),
}

var MetricsAddr = &cli.StringFlag{
	Name:    "metrics-addr",
	Usage:   "Address the metrics server listens on",
	Value:   ":9090",
	Sources: cli.EnvVars("METRICS_ADDR"),
}

var LogLevel = &cli.StringFlag{
	Name:    "log-level",
	Aliases: []string{"l"},
	Usage:   "The level of the logs",
	Value:   "info",
	Validator: func(value string) error {
		if !slices.Contains(validLogLevels, value) {
			return fmt.Errorf("invalid log level: %s, allowed values are: %s", value, validLogLevels)
		}
		return nil
	},
	Sources: cli.EnvVars("LOG_LEVEL"),
}

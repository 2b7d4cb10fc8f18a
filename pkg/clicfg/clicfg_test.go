package clicfg_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"bloglytics/pkg/clicfg"
)

type testConfig struct {
	Addr    string  `flag:"addr"`
	Workers int     `flag:"workers"`
	Debug   bool    `flag:"debug"`
	Ratio   float64 `flag:"ratio"`

	Untagged   string
	unexported string `flag:"addr"` //nolint:unused
}

func newCommand(t *testing.T, action func(c *cli.Command) error, args ...string) {
	t.Helper()

	cmd := &cli.Command{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: "localhost:8080"},
			&cli.IntFlag{Name: "workers", Value: 4},
			&cli.BoolFlag{Name: "debug"},
			&cli.Float64Flag{Name: "ratio", Value: 0.5},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			return action(c)
		},
	}

	require.NoError(t, cmd.Run(t.Context(), append([]string{"test"}, args...)))
}

func TestParseFlags(t *testing.T) {
	t.Parallel()

	t.Run("fills tagged fields", func(t *testing.T) {
		t.Parallel()

		newCommand(t, func(c *cli.Command) error {
			var cfg testConfig
			require.NoError(t, clicfg.ParseFlags(c, &cfg))

			require.Equal(t, "0.0.0.0:9090", cfg.Addr)
			require.Equal(t, 8, cfg.Workers)
			require.True(t, cfg.Debug)
			require.InDelta(t, 0.75, cfg.Ratio, 1e-9)
			return nil
		}, "--addr", "0.0.0.0:9090", "--workers", "8", "--debug", "--ratio", "0.75")
	})

	t.Run("defaults apply when flags are absent", func(t *testing.T) {
		t.Parallel()

		newCommand(t, func(c *cli.Command) error {
			var cfg testConfig
			require.NoError(t, clicfg.ParseFlags(c, &cfg))

			require.Equal(t, "localhost:8080", cfg.Addr)
			require.Equal(t, 4, cfg.Workers)
			require.False(t, cfg.Debug)
			return nil
		})
	})

	t.Run("untagged and unexported fields stay zero", func(t *testing.T) {
		t.Parallel()

		newCommand(t, func(c *cli.Command) error {
			var cfg testConfig
			require.NoError(t, clicfg.ParseFlags(c, &cfg))

			require.Empty(t, cfg.Untagged)
			return nil
		})
	})

	t.Run("rejects non-pointer", func(t *testing.T) {
		t.Parallel()

		newCommand(t, func(c *cli.Command) error {
			err := clicfg.ParseFlags(c, testConfig{})
			require.ErrorIs(t, err, clicfg.ErrCannotParseFlags)
			return nil
		})
	})

	t.Run("rejects pointer to non-struct", func(t *testing.T) {
		t.Parallel()

		newCommand(t, func(c *cli.Command) error {
			value := 42
			err := clicfg.ParseFlags(c, &value)
			require.ErrorIs(t, err, clicfg.ErrCannotParseFlags)
			return nil
		})
	})

	t.Run("rejects unsupported field types", func(t *testing.T) {
		t.Parallel()

		newCommand(t, func(c *cli.Command) error {
			var cfg struct {
				Addrs []string `flag:"addr"`
			}
			err := clicfg.ParseFlags(c, &cfg)
			require.ErrorIs(t, err, clicfg.ErrCannotParseFlags)
			return nil
		})
	})
}

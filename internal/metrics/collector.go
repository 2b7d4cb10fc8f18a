package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm/schema"

	"bloglytics/internal/core"
)

var (
	tableCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bloglytics_table_estimated_count",
		Help: "Estimated record count for a table.",
	}, []string{"table"})
)

// Collector periodically publishes estimated row counts for the three
// content collections.
type Collector struct {
	Logger *slog.Logger
	DB     core.DB
}

func (c *Collector) Init(_ context.Context) error {
	c.Logger = c.Logger.With("component", "metrics.Collector")
	return nil
}

func (c *Collector) Run(ctx context.Context) error {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for _, tabler := range []schema.Tabler{core.UserModel{}, core.PostModel{}, core.CommentModel{}} {
				if err := c.collectTableEstimatedCount(tabler); err != nil {
					c.Logger.Error("failed to collect table count", "table", tabler.TableName(), "error", err)
				}
			}
		}
	}
}

func (c *Collector) collectTableEstimatedCount(tabler schema.Tabler) error {
	count, err := c.DB.EstimatedCount(tabler.TableName())
	if err != nil {
		return err
	}
	tableCount.WithLabelValues(tabler.TableName()).Set(float64(count))
	return nil
}

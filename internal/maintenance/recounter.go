package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/zhulik/pips"
	"github.com/zhulik/pips/apply"

	"bloglytics/internal/core"
	"bloglytics/pkg/async"
)

const idPageSize = 500

// Recounter re-derives every comment's cached likes_count from the
// cardinality of its liker set. The counts cannot drift through the
// engine, which updates both in one transaction; this repairs damage
// done by out-of-band writes.
type Recounter struct {
	Logger *slog.Logger
	DB     core.DB
}

func (r *Recounter) Init(_ context.Context) error {
	r.Logger = r.Logger.With("component", "maintenance.Recounter")
	return nil
}

func (r *Recounter) Run(ctx context.Context) error {
	r.Logger.Info("recounting comment likes")

	var repaired atomic.Int64

	err := pips.New[async.Result[string], any]().
		Then(apply.Batch[async.Result[string]](idPageSize)).
		Then(apply.Map(func(ctx context.Context, results []async.Result[string]) (any, error) {
			ids, err := async.UnpackAll(results)
			if err != nil {
				return nil, err
			}

			n, err := r.recountBatch(ctx, ids)
			if err != nil {
				return nil, err
			}
			repaired.Add(n)
			return nil, nil
		})).
		Run(ctx, pips.MapInputChan(ctx, r.commentIDs(ctx), func(_ context.Context, res async.Result[string]) (async.Result[string], error) {
			return res, nil
		})).
		Wait(ctx)
	if err != nil {
		return err
	}

	r.Logger.Info("recount finished", "repaired", repaired.Load())
	return nil
}

// commentIDs streams every comment id with keyset pagination. A listing
// failure is delivered as the final element so the pipeline fails with
// it instead of treating the stream as exhausted.
func (r *Recounter) commentIDs(ctx context.Context) <-chan async.Result[string] {
	return async.Generator(ctx, func(yield async.Yielder[string]) error {
		last := ""
		for {
			var ids []string
			err := r.DB.
				WithContext(ctx).
				Raw(`SELECT id FROM comments WHERE id > ? ORDER BY id LIMIT ?`, last, idPageSize).
				Scan(&ids).Error
			if err != nil {
				return fmt.Errorf("listing comment ids: %w", err)
			}
			if len(ids) == 0 {
				return nil
			}

			for _, id := range ids {
				if !yield(id) {
					return nil
				}
			}
			last = ids[len(ids)-1]
		}
	})
}

// recountBatch fixes the cached count of every drifted comment in the
// batch, returning how many rows changed.
func (r *Recounter) recountBatch(ctx context.Context, ids []string) (int64, error) {
	res := r.DB.
		WithContext(ctx).
		Exec(`
			UPDATE comments c
			SET likes_count = sub.cnt, updated_at = now()
			FROM (
				SELECT c2.id, count(cl.user_id) AS cnt
				FROM comments c2
				LEFT JOIN comment_likes cl ON cl.comment_id = c2.id
				WHERE c2.id IN (?)
				GROUP BY c2.id
			) sub
			WHERE c.id = sub.id AND c.likes_count IS DISTINCT FROM sub.cnt`,
			ids,
		)

	return res.RowsAffected, res.Error
}

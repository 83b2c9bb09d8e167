package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"whitepaper-gen/internal/domain"
	"whitepaper-gen/internal/intake"
	"whitepaper-gen/internal/storage/memory"
	pgstore "whitepaper-gen/internal/storage/postgres"
)

var errUnreachable = errors.New("metrics source unreachable")

// RowSource locates the metrics table: a Postgres DSN when set, otherwise
// a CSV/XLSX file.
type RowSource struct {
	Path string
	DSN  string
}

// sourcePresent reports whether the source can be expected to yield rows.
func (rt Runtime) sourcePresent(src RowSource) bool {
	return src.DSN != "" || intake.Exists(rt.FS, src.Path)
}

// loadRows snapshots the metrics table into memory. Any failure degrades to
// an empty table.
func (rt Runtime) loadRows(ctx context.Context, src RowSource) *memory.MetricRowStore {
	store := memory.NewMetricRowStore()

	var (
		rows  []domain.MetricRow
		err   error
		input = src.Path
	)
	if src.DSN != "" {
		input = "postgres"
		rows, err = readPostgres(ctx, src.DSN)
	} else {
		rows, err = intake.LoadMetricRows(rt.FS, src.Path)
	}
	if err != nil {
		rt.degraded("metrics", input, err)
		return store
	}

	if err := store.InsertBulk(ctx, rows); err != nil {
		rt.degraded("metrics", input, err)
		return memory.NewMetricRowStore()
	}
	rt.Log.Debug("loaded metric rows", zap.String("source", input), zap.Int("rows", len(rows)))
	return store
}

// optionalRows is loadRows for tools where the metrics table is an optional
// enrichment: an absent file is not reported as degraded.
func (rt Runtime) optionalRows(ctx context.Context, src RowSource) *memory.MetricRowStore {
	if !rt.sourcePresent(src) {
		return memory.NewMetricRowStore()
	}
	return rt.loadRows(ctx, src)
}

func readPostgres(ctx context.Context, dsn string) ([]domain.MetricRow, error) {
	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUnreachable, err)
	}
	defer pool.Close()

	rows, err := pgstore.NewMetricRowStore(pool).GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUnreachable, err)
	}
	return rows, nil
}

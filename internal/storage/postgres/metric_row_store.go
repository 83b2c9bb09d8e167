package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"whitepaper-gen/internal/domain"
	"whitepaper-gen/internal/storage"
)

// MetricRowStore implements storage.MetricRowStore using PostgreSQL.
type MetricRowStore struct {
	pool *Pool
}

// NewMetricRowStore creates a new MetricRowStore.
func NewMetricRowStore(pool *Pool) *MetricRowStore {
	return &MetricRowStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MetricRowStore = (*MetricRowStore)(nil)

const metricRowColumns = `
	metric, "group", value, ci_low, ci_high, p_value,
	reference_group, run_id, model_id, split, ci_degenerate
`

// InsertBulk appends rows atomically.
func (s *MetricRowStore) InsertBulk(ctx context.Context, rows []domain.MetricRow) error {
	if len(rows) == 0 {
		return nil
	}
	return s.write(ctx, rows, false)
}

// ReplaceAll swaps the table contents for rows in one transaction.
func (s *MetricRowStore) ReplaceAll(ctx context.Context, rows []domain.MetricRow) error {
	return s.write(ctx, rows, true)
}

func (s *MetricRowStore) write(ctx context.Context, rows []domain.MetricRow, truncate bool) error {
	if err := storage.ValidateRows(rows); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if truncate {
		if _, err := tx.Exec(ctx, `DELETE FROM metrics_long`); err != nil {
			return fmt.Errorf("clear metric rows: %w", err)
		}
	}

	query := `INSERT INTO metrics_long (` + metricRowColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for _, r := range rows {
		_, err := tx.Exec(ctx, query,
			r.Metric, r.Group, r.Value, r.CILow, r.CIHigh, r.PValue,
			r.ReferenceGroup, r.RunID, r.ModelID, r.Split, r.CIDegenerate,
		)
		if err != nil {
			return fmt.Errorf("insert metric row in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetAll retrieves all rows in insertion order.
func (s *MetricRowStore) GetAll(ctx context.Context) ([]domain.MetricRow, error) {
	query := `SELECT ` + metricRowColumns + ` FROM metrics_long ORDER BY id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get metric rows: %w", err)
	}
	defer rows.Close()

	return scanMetricRows(rows)
}

// GetByMetric retrieves rows whose metric name matches, case-insensitively.
func (s *MetricRowStore) GetByMetric(ctx context.Context, metric string) ([]domain.MetricRow, error) {
	query := `SELECT ` + metricRowColumns + ` FROM metrics_long WHERE lower(metric) = $1 ORDER BY id ASC`

	rows, err := s.pool.Query(ctx, query, strings.ToLower(strings.TrimSpace(metric)))
	if err != nil {
		return nil, fmt.Errorf("get metric rows by metric: %w", err)
	}
	defer rows.Close()

	return scanMetricRows(rows)
}

func scanMetricRows(rows pgx.Rows) ([]domain.MetricRow, error) {
	var result []domain.MetricRow
	for rows.Next() {
		var r domain.MetricRow
		err := rows.Scan(
			&r.Metric, &r.Group, &r.Value, &r.CILow, &r.CIHigh, &r.PValue,
			&r.ReferenceGroup, &r.RunID, &r.ModelID, &r.Split, &r.CIDegenerate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan metric row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metric rows: %w", err)
	}
	return result, nil
}

package storage

import (
	"context"

	"whitepaper-gen/internal/domain"
)

// MetricRowStore provides access to metrics_long storage.
// Rows have no natural key; they are returned in insertion order.
type MetricRowStore interface {
	// InsertBulk appends rows atomically. Returns ErrInvalidInput if any row
	// has an empty metric name.
	InsertBulk(ctx context.Context, rows []domain.MetricRow) error

	// ReplaceAll atomically discards every stored row and inserts rows.
	// Returns ErrInvalidInput, leaving the store unchanged, if any row has an
	// empty metric name.
	ReplaceAll(ctx context.Context, rows []domain.MetricRow) error

	// GetAll retrieves all rows.
	GetAll(ctx context.Context) ([]domain.MetricRow, error)

	// GetByMetric retrieves rows whose metric name matches, case-insensitively.
	GetByMetric(ctx context.Context, metric string) ([]domain.MetricRow, error)
}

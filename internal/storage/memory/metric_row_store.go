package memory

import (
	"context"
	"strings"
	"sync"

	"whitepaper-gen/internal/domain"
	"whitepaper-gen/internal/storage"
)

// MetricRowStore is an in-memory implementation of storage.MetricRowStore.
type MetricRowStore struct {
	mu   sync.RWMutex
	rows []domain.MetricRow // insertion order
}

// NewMetricRowStore creates a new in-memory metric row store.
func NewMetricRowStore() *MetricRowStore {
	return &MetricRowStore{}
}

// Compile-time interface check.
var _ storage.MetricRowStore = (*MetricRowStore)(nil)

// InsertBulk appends rows atomically.
func (s *MetricRowStore) InsertBulk(_ context.Context, rows []domain.MetricRow) error {
	if len(rows) == 0 {
		return nil
	}
	if err := storage.ValidateRows(rows); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range rows {
		s.rows = append(s.rows, cloneRow(r))
	}
	return nil
}

// ReplaceAll swaps the stored rows for rows.
func (s *MetricRowStore) ReplaceAll(_ context.Context, rows []domain.MetricRow) error {
	if err := storage.ValidateRows(rows); err != nil {
		return err
	}

	fresh := make([]domain.MetricRow, 0, len(rows))
	for _, r := range rows {
		fresh = append(fresh, cloneRow(r))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = fresh
	return nil
}

// GetAll retrieves all rows.
func (s *MetricRowStore) GetAll(_ context.Context) ([]domain.MetricRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.MetricRow, 0, len(s.rows))
	for _, r := range s.rows {
		result = append(result, cloneRow(r))
	}
	return result, nil
}

// GetByMetric retrieves rows whose metric name matches, case-insensitively.
func (s *MetricRowStore) GetByMetric(_ context.Context, metric string) ([]domain.MetricRow, error) {
	want := strings.ToLower(strings.TrimSpace(metric))

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.MetricRow
	for _, r := range s.rows {
		if r.Key() == want {
			result = append(result, cloneRow(r))
		}
	}
	return result, nil
}

// cloneRow copies the optional fields so callers cannot alias stored values.
func cloneRow(r domain.MetricRow) domain.MetricRow {
	r.Value = cloneFloat(r.Value)
	r.CILow = cloneFloat(r.CILow)
	r.CIHigh = cloneFloat(r.CIHigh)
	r.PValue = cloneFloat(r.PValue)
	return r
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

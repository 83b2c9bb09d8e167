package storage

import (
	"fmt"
	"strings"

	"whitepaper-gen/internal/domain"
)

// ValidateRows checks the invariants every store enforces on insert.
func ValidateRows(rows []domain.MetricRow) error {
	for i, r := range rows {
		if strings.TrimSpace(r.Metric) == "" {
			return fmt.Errorf("%w: row %d has no metric", ErrInvalidInput, i)
		}
	}
	return nil
}

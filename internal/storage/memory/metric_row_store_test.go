package memory

import (
	"context"
	"errors"
	"testing"

	"whitepaper-gen/internal/domain"
	"whitepaper-gen/internal/storage"
)

func TestMetricRowStore_InsertAndGetAll(t *testing.T) {
	store := NewMetricRowStore()
	ctx := context.Background()

	rows := []domain.MetricRow{
		{Metric: "air", Group: "gender:female", Value: ptr(0.72)},
		{Metric: "ece", RunID: "run1", Value: ptr(0.01)},
	}
	if err := store.InsertBulk(ctx, rows); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Group != "gender:female" || got[1].RunID != "run1" {
		t.Errorf("insertion order not preserved: %+v", got)
	}
}

func TestMetricRowStore_GetByMetric(t *testing.T) {
	store := NewMetricRowStore()
	ctx := context.Background()

	_ = store.InsertBulk(ctx, []domain.MetricRow{
		{Metric: "ECE", RunID: "a"},
		{Metric: "air"},
		{Metric: "ece", RunID: "b"},
	})

	got, err := store.GetByMetric(ctx, "Ece")
	if err != nil {
		t.Fatalf("GetByMetric failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].RunID != "a" || got[1].RunID != "b" {
		t.Errorf("unexpected rows: %+v", got)
	}

	none, err := store.GetByMetric(ctx, "tpr_gap")
	if err != nil {
		t.Fatalf("GetByMetric failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no rows, got %d", len(none))
	}
}

func TestMetricRowStore_InvalidInputIsAtomic(t *testing.T) {
	store := NewMetricRowStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []domain.MetricRow{
		{Metric: "air"},
		{Metric: "  "},
	})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	got, _ := store.GetAll(ctx)
	if len(got) != 0 {
		t.Errorf("expected empty store after rejected batch, got %d rows", len(got))
	}
}

func TestMetricRowStore_ReturnsCopies(t *testing.T) {
	store := NewMetricRowStore()
	ctx := context.Background()

	v := 0.5
	_ = store.InsertBulk(ctx, []domain.MetricRow{{Metric: "air", Value: &v}})
	v = 0.1

	got, _ := store.GetAll(ctx)
	if *got[0].Value != 0.5 {
		t.Errorf("stored value aliased caller memory: got %f", *got[0].Value)
	}

	*got[0].Value = 0.9
	again, _ := store.GetAll(ctx)
	if *again[0].Value != 0.5 {
		t.Errorf("returned value aliased store memory: got %f", *again[0].Value)
	}
}

func TestMetricRowStore_ReplaceAll(t *testing.T) {
	store := NewMetricRowStore()
	ctx := context.Background()

	_ = store.InsertBulk(ctx, []domain.MetricRow{{Metric: "air"}, {Metric: "srg"}})

	if err := store.ReplaceAll(ctx, []domain.MetricRow{{Metric: "ece", RunID: "r"}}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	got, _ := store.GetAll(ctx)
	if len(got) != 1 || got[0].RunID != "r" {
		t.Fatalf("expected only the replacement row, got %+v", got)
	}

	err := store.ReplaceAll(ctx, []domain.MetricRow{{Metric: ""}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	got, _ = store.GetAll(ctx)
	if len(got) != 1 {
		t.Errorf("rejected replacement must keep previous rows, got %d", len(got))
	}
}

func ptr(v float64) *float64 {
	return &v
}

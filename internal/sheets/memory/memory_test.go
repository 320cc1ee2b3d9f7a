package memory

import (
	"context"
	"testing"
	"time"

	"housebudget/internal/core"
	"housebudget/internal/sheets"
)

func TestAppendForecast(t *testing.T) {
	s := New()
	snap := sheets.ForecastSnapshot{
		Month:           core.Month{Year: 2025, Month: 3},
		ProjectedIncome: core.Money{Cents: 500000},
		TotalBills:      core.Money{Cents: 120000},
		ExportedAt:      time.Now(),
	}

	ref, err := s.AppendForecast(context.Background(), snap)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q, want mem:1", ref)
	}

	got := s.Snapshots()
	if len(got) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(got))
	}
	if got[0].ProjectedIncome.Cents != 500000 {
		t.Errorf("income = %d, want 500000", got[0].ProjectedIncome.Cents)
	}
}

func TestAppendForecastInvalidMonth(t *testing.T) {
	s := New()
	_, err := s.AppendForecast(context.Background(), sheets.ForecastSnapshot{
		Month: core.Month{Year: 2025, Month: 13},
	})
	if err == nil {
		t.Fatal("expected error for invalid month")
	}
	if len(s.Snapshots()) != 0 {
		t.Error("invalid snapshot was stored")
	}
}

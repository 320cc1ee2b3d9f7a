// Package memory is an in-memory ForecastWriter used in tests and local
// development when no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"housebudget/internal/sheets"
)

type Store struct {
	mu    sync.Mutex
	items []sheets.ForecastSnapshot
}

var _ sheets.ForecastWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendForecast stores the snapshot and returns a synthetic row reference.
func (s *Store) AppendForecast(_ context.Context, snap sheets.ForecastSnapshot) (string, error) {
	if !snap.Month.Valid() {
		return "", fmt.Errorf("invalid month: %d-%d", snap.Month.Year, snap.Month.Month)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, snap)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Snapshots returns a copy of everything appended so far.
func (s *Store) Snapshots() []sheets.ForecastSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.ForecastSnapshot(nil), s.items...)
}

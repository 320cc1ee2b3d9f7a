// Package forecast turns raw budget records into a normalized monthly
// view: pay occurrence counts, projected income, merged budget categories,
// bill schedules, and debt summaries.
//
// This file implements the Strategy Pattern for pay-schedule resolution.
// Each frequency type has its own counter that encapsulates the logic for
// determining how often an entry pays out within a target month.
package forecast

import (
	"fmt"
	"time"

	"housebudget/internal/core"
)

// OccurrenceCounter is the strategy interface for counting pay occurrences.
// Each implementation encapsulates the algorithm for a specific frequency.
type OccurrenceCounter interface {
	// Count returns the number of occurrences that fall within month.
	// An invalid month always yields zero, never an error: a forecast of
	// zero is a safe degraded result.
	Count(anchor time.Time, month core.Month) int
}

// DailyCounter implements OccurrenceCounter for daily income.
type DailyCounter struct{}

// Count returns the number of calendar days in the month.
func (DailyCounter) Count(_ time.Time, month core.Month) int {
	return month.Days()
}

// IntervalCounter implements OccurrenceCounter for fixed-interval income
// such as weekly (7 days) and bi-weekly (14 days) pay.
type IntervalCounter struct {
	Days int
}

// Count walks forward from the true anchor date in fixed steps and counts
// the dates that land inside the month. Iteration must start from the
// anchor itself, not be re-anchored to the month, because interval
// alignment depends on the original pay date.
func (c IntervalCounter) Count(anchor time.Time, month core.Month) int {
	if !month.Valid() || anchor.IsZero() || c.Days <= 0 {
		return 0
	}
	end := month.End()
	count := 0
	for d := anchor; !d.After(end); d = d.AddDate(0, 0, c.Days) {
		if month.Contains(d) {
			count++
		}
	}
	return count
}

// SemiMonthlyCounter implements OccurrenceCounter for income paid on the
// 1st and the 15th regardless of weekday.
type SemiMonthlyCounter struct{}

func (SemiMonthlyCounter) Count(_ time.Time, month core.Month) int {
	count := 0
	for _, day := range []int{1, 15} {
		if day <= month.Days() {
			count++
		}
	}
	return count
}

// MonthlyCounter implements OccurrenceCounter for income paid once per
// month regardless of calendar specifics.
type MonthlyCounter struct{}

func (MonthlyCounter) Count(_ time.Time, month core.Month) int {
	if !month.Valid() {
		return 0
	}
	return 1
}

// occurrenceStrategies maps frequencies to their counters.
var occurrenceStrategies = map[core.Frequency]OccurrenceCounter{
	core.Daily:       DailyCounter{},
	core.Weekly:      IntervalCounter{Days: 7},
	core.BiWeekly:    IntervalCounter{Days: 14},
	core.SemiMonthly: SemiMonthlyCounter{},
	core.Monthly:     MonthlyCounter{},
}

// GetOccurrenceCounter returns the counter for a frequency.
// Returns an error if the frequency is not supported.
func GetOccurrenceCounter(frequency core.Frequency) (OccurrenceCounter, error) {
	counter, ok := occurrenceStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return counter, nil
}

// OccurrencesInMonth counts how often income with the given frequency and
// anchor date pays out within the target month. Unknown frequencies and
// invalid months yield zero.
func OccurrencesInMonth(frequency core.Frequency, anchor time.Time, month core.Month) int {
	counter, err := GetOccurrenceCounter(frequency)
	if err != nil {
		return 0
	}
	if !month.Valid() {
		return 0
	}
	return counter.Count(anchor, month)
}

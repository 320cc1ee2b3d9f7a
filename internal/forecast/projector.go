package forecast

import (
	"housebudget/internal/core"
)

// IncomeShare is one entry's slice of the month's total projected income.
type IncomeShare struct {
	PersonID   int64
	PersonName string
	Amount     core.Money
	Percent    float64
}

// ProjectedMonthly returns an entry's projected amount for the month:
// its per-occurrence amount times the occurrence count.
func ProjectedMonthly(entry core.IncomeEntry, month core.Month) core.Money {
	n := OccurrencesInMonth(entry.Frequency, entry.FirstPayDate, month)
	return entry.Amount.MulCount(n)
}

// TotalProjectedIncome sums ProjectedMonthly over all entries. An empty
// entry set totals zero.
func TotalProjectedIncome(entries []core.IncomeEntry, month core.Month) core.Money {
	var total core.Money
	for _, e := range entries {
		total = total.Add(ProjectedMonthly(e, month))
	}
	return total
}

// IncomeShares returns each entry's projected amount and its percentage of
// the month's total. When the total is zero there is nothing to divide and
// the result is empty rather than a set of NaN shares.
func IncomeShares(entries []core.IncomeEntry, month core.Month) []IncomeShare {
	total := TotalProjectedIncome(entries, month)
	if total.Cents <= 0 {
		return nil
	}

	shares := make([]IncomeShare, 0, len(entries))
	for _, e := range entries {
		amount := ProjectedMonthly(e, month)
		shares = append(shares, IncomeShare{
			PersonID:   e.ID,
			PersonName: e.PersonName,
			Amount:     amount,
			Percent:    float64(amount.Cents) / float64(total.Cents) * 100,
		})
	}
	return shares
}

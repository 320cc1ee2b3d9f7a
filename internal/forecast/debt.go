package forecast

import (
	"sort"

	"housebudget/internal/core"
)

// highUtilization is the credit utilization ratio above which a summary is
// flagged for the caller to render as a warning.
const highUtilization = 0.3

// DebtSummary aggregates one person's debts.
type DebtSummary struct {
	PersonID        int64
	PersonName      string
	TotalDebt       core.Money
	TotalCredit     core.Money
	MinimumPayments core.Money
	ActualPayments  core.Money
	Utilization     float64
	HighUtilization bool
}

// Utilization returns debt divided by line of credit, or 0 when there is
// no credit line to divide by.
func Utilization(d core.Debt) float64 {
	if d.LineOfCredit.Cents <= 0 {
		return 0
	}
	return float64(d.DebtAmount.Cents) / float64(d.LineOfCredit.Cents)
}

// SummarizeDebts groups debts by person and totals balance, credit line,
// and payments. Entries resolve person names; debts referencing a deleted
// person keep their ID and an empty name. Summaries are ordered by person
// ID for stable output.
func SummarizeDebts(debts []core.Debt, entries []core.IncomeEntry) []DebtSummary {
	names := make(map[int64]string, len(entries))
	for _, e := range entries {
		names[e.ID] = e.PersonName
	}

	byPerson := make(map[int64]*DebtSummary)
	for _, d := range debts {
		s, ok := byPerson[d.PersonID]
		if !ok {
			s = &DebtSummary{PersonID: d.PersonID, PersonName: names[d.PersonID]}
			byPerson[d.PersonID] = s
		}
		s.TotalDebt = s.TotalDebt.Add(d.DebtAmount)
		s.TotalCredit = s.TotalCredit.Add(d.LineOfCredit)
		s.MinimumPayments = s.MinimumPayments.Add(d.MinimumPayment)
		s.ActualPayments = s.ActualPayments.Add(d.ActualPayment)
	}

	summaries := make([]DebtSummary, 0, len(byPerson))
	for _, s := range byPerson {
		if s.TotalCredit.Cents > 0 {
			s.Utilization = float64(s.TotalDebt.Cents) / float64(s.TotalCredit.Cents)
		}
		s.HighUtilization = s.Utilization > highUtilization
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].PersonID < summaries[j].PersonID })
	return summaries
}

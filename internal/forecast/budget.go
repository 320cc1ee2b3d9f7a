package forecast

import (
	"sort"

	"housebudget/internal/core"
)

// BudgetTotals are the month's headline numbers. Available and
// Discretionary may go negative; callers render that as a warning state.
type BudgetTotals struct {
	Budgeted      core.Money
	Spent         core.Money
	Available     core.Money // income - spent
	Discretionary core.Money // income - budgeted
}

// groupableCategories are the bill categories that fold into synthetic
// budget categories instead of being imported one bill at a time.
var groupableCategories = map[core.BillCategory]bool{
	core.Utilities:    true,
	core.Subscription: true,
}

// MergedCategories merges manually defined categories with synthetic
// categories derived from utility and subscription bills. Bills in a
// groupable category are summed into one synthetic category per label,
// and any manual category whose name collides with a synthetic label is
// dropped so the same spending is never counted twice. Synthetic
// categories are appended in name order to keep the result deterministic.
func MergedCategories(manual []core.BudgetCategory, bills []core.Bill) []core.BudgetCategory {
	grouped := make(map[string]core.Money)
	for _, b := range bills {
		if groupableCategories[b.Category] {
			label := b.Category.Label()
			grouped[label] = grouped[label].Add(b.Amount)
		}
	}

	merged := make([]core.BudgetCategory, 0, len(manual)+len(grouped))
	for _, c := range manual {
		if _, collides := grouped[c.Name]; collides {
			continue
		}
		merged = append(merged, c)
	}

	labels := make([]string, 0, len(grouped))
	for label := range grouped {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		merged = append(merged, core.BudgetCategory{
			Name:   label,
			Amount: grouped[label],
		})
	}
	return merged
}

// Totals computes the month's budget summary against projected income.
func Totals(merged []core.BudgetCategory, totalIncome core.Money) BudgetTotals {
	var budgeted, spent core.Money
	for _, c := range merged {
		budgeted = budgeted.Add(c.Amount)
		spent = spent.Add(c.Spent)
	}
	return BudgetTotals{
		Budgeted:      budgeted,
		Spent:         spent,
		Available:     totalIncome.Sub(spent),
		Discretionary: totalIncome.Sub(budgeted),
	}
}

// CategoriesFromBills converts bills into new budget categories for bulk
// import. Utility and subscription bills are skipped, since those already
// surface as synthetic grouped categories, and so is any bill whose payee
// name matches an existing category.
func CategoriesFromBills(existing []core.BudgetCategory, bills []core.Bill) []core.BudgetCategory {
	names := make(map[string]bool, len(existing))
	for _, c := range existing {
		names[c.Name] = true
	}

	var added []core.BudgetCategory
	for _, b := range bills {
		if groupableCategories[b.Category] {
			continue
		}
		if names[b.Payee] {
			continue
		}
		names[b.Payee] = true
		added = append(added, core.BudgetCategory{
			Name:   b.Payee,
			Amount: b.Amount,
		})
	}
	return added
}

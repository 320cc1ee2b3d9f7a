package forecast

import (
	"testing"

	"housebudget/internal/core"
)

func TestMergedCategoriesGroupsBills(t *testing.T) {
	bills := []core.Bill{
		{Payee: "Electric Co", Amount: core.Money{Cents: 5000}, DueDay: 5, Category: core.Utilities},
		{Payee: "Water Co", Amount: core.Money{Cents: 3000}, DueDay: 12, Category: core.Utilities},
		{Payee: "Streaming", Amount: core.Money{Cents: 1500}, DueDay: 1, Category: core.Subscription},
		{Payee: "Visa", Amount: core.Money{Cents: 20000}, DueDay: 20, Category: core.CreditCard}, // not groupable
	}

	merged := MergedCategories(nil, bills)
	if len(merged) != 2 {
		t.Fatalf("expected 2 synthetic categories, got %d: %+v", len(merged), merged)
	}
	// Sorted by name: Subscription before Utilities
	if merged[0].Name != "Subscription" || merged[0].Amount.Cents != 1500 {
		t.Fatalf("unexpected first category: %+v", merged[0])
	}
	if merged[1].Name != "Utilities" || merged[1].Amount.Cents != 8000 {
		t.Fatalf("unexpected second category: %+v", merged[1])
	}
	if merged[1].Spent.Cents != 0 {
		t.Fatalf("synthetic category should start unspent, got %d", merged[1].Spent.Cents)
	}
}

func TestMergedCategoriesDropsCollidingManual(t *testing.T) {
	manual := []core.BudgetCategory{
		{ID: 1, Name: "Groceries", Amount: core.Money{Cents: 40000}, Spent: core.Money{Cents: 12000}},
		{ID: 2, Name: "Utilities", Amount: core.Money{Cents: 9999}, Spent: core.Money{Cents: 100}},
	}
	bills := []core.Bill{
		{Payee: "Electric Co", Amount: core.Money{Cents: 5000}, DueDay: 5, Category: core.Utilities},
	}

	merged := MergedCategories(manual, bills)
	if len(merged) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(merged))
	}
	seen := make(map[string]int)
	for _, c := range merged {
		seen[c.Name]++
	}
	if seen["Utilities"] != 1 {
		t.Fatalf("expected exactly one Utilities category, got %d", seen["Utilities"])
	}
	// The synthetic version wins over the manual one
	for _, c := range merged {
		if c.Name == "Utilities" && c.Amount.Cents != 5000 {
			t.Fatalf("manual Utilities should have been replaced, got amount %d", c.Amount.Cents)
		}
	}
}

func TestMergedCategoriesNoBills(t *testing.T) {
	manual := []core.BudgetCategory{
		{Name: "Groceries", Amount: core.Money{Cents: 40000}},
	}
	merged := MergedCategories(manual, nil)
	if len(merged) != 1 || merged[0].Name != "Groceries" {
		t.Fatalf("expected manual categories untouched, got %+v", merged)
	}
}

func TestTotals(t *testing.T) {
	merged := []core.BudgetCategory{
		{Name: "Groceries", Amount: core.Money{Cents: 40000}, Spent: core.Money{Cents: 45000}}, // over budget
		{Name: "Utilities", Amount: core.Money{Cents: 8000}},
	}
	income := core.Money{Cents: 100000}

	totals := Totals(merged, income)
	if totals.Budgeted.Cents != 48000 {
		t.Fatalf("budgeted = %d, want 48000", totals.Budgeted.Cents)
	}
	if totals.Spent.Cents != 45000 {
		t.Fatalf("spent = %d, want 45000", totals.Spent.Cents)
	}
	if totals.Available.Cents != 55000 {
		t.Fatalf("available = %d, want 55000", totals.Available.Cents)
	}
	if totals.Discretionary.Cents != 52000 {
		t.Fatalf("discretionary = %d, want 52000", totals.Discretionary.Cents)
	}
}

func TestTotalsMayGoNegative(t *testing.T) {
	merged := []core.BudgetCategory{
		{Name: "Rent", Amount: core.Money{Cents: 200000}, Spent: core.Money{Cents: 200000}},
	}
	totals := Totals(merged, core.Money{Cents: 150000})
	if totals.Available.Cents != -50000 {
		t.Fatalf("available = %d, want -50000", totals.Available.Cents)
	}
	if totals.Discretionary.Cents != -50000 {
		t.Fatalf("discretionary = %d, want -50000", totals.Discretionary.Cents)
	}
}

func TestCategoriesFromBills(t *testing.T) {
	existing := []core.BudgetCategory{
		{Name: "Visa", Amount: core.Money{Cents: 10000}},
	}
	bills := []core.Bill{
		{Payee: "Visa", Amount: core.Money{Cents: 20000}, DueDay: 20, Category: core.CreditCard},        // duplicate payee
		{Payee: "Student Aid", Amount: core.Money{Cents: 15000}, DueDay: 1, Category: core.StudentLoan}, // new
		{Payee: "Electric Co", Amount: core.Money{Cents: 5000}, DueDay: 5, Category: core.Utilities},    // groupable, skipped
		{Payee: "Student Aid", Amount: core.Money{Cents: 9000}, DueDay: 15, Category: core.PersonalLoan}, // dup within batch
	}

	added := CategoriesFromBills(existing, bills)
	if len(added) != 1 {
		t.Fatalf("expected 1 new category, got %d: %+v", len(added), added)
	}
	if added[0].Name != "Student Aid" || added[0].Amount.Cents != 15000 {
		t.Fatalf("unexpected category: %+v", added[0])
	}
}

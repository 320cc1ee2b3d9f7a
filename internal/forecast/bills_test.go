package forecast

import (
	"testing"

	"housebudget/internal/core"
)

func TestDueDate(t *testing.T) {
	cases := []struct {
		name  string
		bill  core.Bill
		month core.Month
		day   int
	}{
		{"regular due day", core.Bill{DueDay: 15}, core.Month{Year: 2025, Month: 3}, 15},
		{"clamped to february", core.Bill{DueDay: 31}, core.Month{Year: 2025, Month: 2}, 28},
		{"clamped to leap february", core.Bill{DueDay: 30}, core.Month{Year: 2024, Month: 2}, 29},
		{"thirty-first in april", core.Bill{DueDay: 31}, core.Month{Year: 2025, Month: 4}, 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DueDate(tc.bill, tc.month)
			if got.Day() != tc.day || !tc.month.Contains(got) {
				t.Fatalf("expected day %d in %v, got %v", tc.day, tc.month, got)
			}
		})
	}

	if got := DueDate(core.Bill{DueDay: 10}, core.Month{Year: 2025, Month: 0}); !got.IsZero() {
		t.Fatalf("invalid month should yield zero time, got %v", got)
	}
}

func TestTotalBillsAndByPerson(t *testing.T) {
	bills := []core.Bill{
		{Payee: "Electric Co", Amount: core.Money{Cents: 5000}, DueDay: 5, Category: core.Utilities, PersonID: 1},
		{Payee: "Visa", Amount: core.Money{Cents: 20000}, DueDay: 20, Category: core.CreditCard, PersonID: 1},
		{Payee: "Streaming", Amount: core.Money{Cents: 1500}, DueDay: 1, Category: core.Subscription, PersonID: 2},
	}

	if got := TotalBills(bills); got.Cents != 26500 {
		t.Fatalf("total = %d, want 26500", got.Cents)
	}

	byPerson := BillsByPerson(bills)
	if byPerson[1].Cents != 25000 || byPerson[2].Cents != 1500 {
		t.Fatalf("unexpected grouping: %v", byPerson)
	}
}

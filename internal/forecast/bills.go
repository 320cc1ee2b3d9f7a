package forecast

import (
	"time"

	"housebudget/internal/core"
)

// ScheduledBill is a bill placed on a concrete date within a month.
type ScheduledBill struct {
	Bill    core.Bill
	DueDate time.Time
}

// DueDate returns the bill's due date within the month, with the due day
// clamped to the month's last day (a bill due on the 31st falls due on
// Feb 28). The zero time is returned for an invalid month.
func DueDate(bill core.Bill, month core.Month) time.Time {
	days := month.Days()
	if days == 0 {
		return time.Time{}
	}
	day := bill.DueDay
	if day > days {
		day = days
	}
	return time.Date(month.Year, time.Month(month.Month), day, 0, 0, 0, 0, time.UTC)
}

// ScheduleBills places every bill on its due date for the month, keeping
// input order.
func ScheduleBills(bills []core.Bill, month core.Month) []ScheduledBill {
	scheduled := make([]ScheduledBill, 0, len(bills))
	for _, b := range bills {
		scheduled = append(scheduled, ScheduledBill{Bill: b, DueDate: DueDate(b, month)})
	}
	return scheduled
}

// TotalBills sums all bill amounts for one month.
func TotalBills(bills []core.Bill) core.Money {
	var total core.Money
	for _, b := range bills {
		total = total.Add(b.Amount)
	}
	return total
}

// BillsByPerson sums bill amounts per responsible person. Bills with a
// dangling person reference group under their stored ID; resolution to a
// name is the caller's concern.
func BillsByPerson(bills []core.Bill) map[int64]core.Money {
	byPerson := make(map[int64]core.Money)
	for _, b := range bills {
		byPerson[b.PersonID] = byPerson[b.PersonID].Add(b.Amount)
	}
	return byPerson
}

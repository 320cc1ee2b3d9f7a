package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Daily       Frequency = "daily"
	Weekly      Frequency = "weekly"
	BiWeekly    Frequency = "biWeekly"
	SemiMonthly Frequency = "semiMonthly"
	Monthly     Frequency = "monthly"
)

const (
	CreditCard   BillCategory = "creditCard"
	PersonalLoan BillCategory = "personalLoan"
	K401Loan     BillCategory = "k401Loan"
	StudentLoan  BillCategory = "studentLoan"
	Subscription BillCategory = "subscription"
	Utilities    BillCategory = "utilities"
	Taxes        BillCategory = "taxes"
)

type (
	// Frequency describes how often an income entry pays out.
	Frequency string

	// BillCategory classifies a recurring bill.
	BillCategory string

	// Month identifies a calendar month. The zero value is invalid.
	Month struct {
		Year  int
		Month int // 1-12
	}

	// IncomeEntry is one person's recurring income source. FirstPayDate is
	// the anchor for weekly and bi-weekly occurrence generation.
	IncomeEntry struct {
		ID           int64
		PersonName   string
		Amount       Money
		Frequency    Frequency
		Payday       int // 1 = Sunday .. 7 = Saturday, weekly/biWeekly only
		FirstPayDate time.Time
	}

	// Bill is a recurring obligation due on a fixed day of the month.
	// PersonID is a weak reference to an IncomeEntry; deleting the entry
	// does not cascade.
	Bill struct {
		ID       int64
		Payee    string
		Amount   Money
		DueDay   int // 1-31, clamped to the month when scheduled
		Category BillCategory
		PersonID int64
	}

	// BudgetCategory is a named spending envelope. Spent may exceed Amount.
	BudgetCategory struct {
		ID     int64
		Name   string
		Amount Money
		Spent  Money
	}

	// SavingGoal tracks progress toward a target. SavedAmount may exceed
	// TargetAmount. MonthlyContribution is nil when no fixed contribution
	// is configured, which is distinct from a configured zero.
	SavingGoal struct {
		ID                  int64
		Name                string
		TargetAmount        Money
		SavedAmount         Money
		MonthlyContribution *Money
	}

	// Debt is a line of credit with an outstanding balance. PersonID is a
	// weak reference to an IncomeEntry.
	Debt struct {
		ID             int64
		Payee          string
		LineOfCredit   Money
		DebtAmount     Money
		MinimumPayment Money
		ActualPayment  Money
		APR            float64
		PersonID       int64
	}
)

var (
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidDueDay    = errors.New("invalid due day")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidPayday    = errors.New("invalid payday")
	ErrInvalidCategory  = errors.New("invalid bill category")
	ErrInvalidAPR       = errors.New("invalid apr")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyPayee       = errors.New("empty payee")
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, BiWeekly, SemiMonthly, Monthly:
		return true
	}
	return false
}

// Valid reports whether c is a known bill category.
func (c BillCategory) Valid() bool {
	switch c {
	case CreditCard, PersonalLoan, K401Loan, StudentLoan, Subscription, Utilities, Taxes:
		return true
	}
	return false
}

// Label returns the display name for a bill category. Grouped bill
// categories surface in the budget under this label.
func (c BillCategory) Label() string {
	switch c {
	case CreditCard:
		return "Credit Card"
	case PersonalLoan:
		return "Personal Loan"
	case K401Loan:
		return "401K Loan"
	case StudentLoan:
		return "Student Loan"
	case Subscription:
		return "Subscription"
	case Utilities:
		return "Utilities"
	case Taxes:
		return "Taxes"
	}
	return string(c)
}

// NewMonth builds a Month from a point in time.
func NewMonth(t time.Time) Month {
	return Month{Year: t.Year(), Month: int(t.Month())}
}

// Valid reports whether the month denotes a real calendar month.
func (m Month) Valid() bool {
	return m.Year >= 1 && m.Month >= 1 && m.Month <= 12
}

// Days returns the number of calendar days in the month, or 0 when the
// month is invalid.
func (m Month) Days() int {
	if !m.Valid() {
		return 0
	}
	// Day zero of the following month is the last day of this one.
	return time.Date(m.Year, time.Month(m.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Start returns midnight UTC on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns midnight UTC on the last day of the month.
func (m Month) End() time.Time {
	return time.Date(m.Year, time.Month(m.Month), m.Days(), 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls within the month. Only the year and
// month components are compared.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && int(t.Month()) == m.Month
}

func (m Month) Validate() error {
	if !m.Valid() {
		return ErrInvalidMonth
	}
	return nil
}

func (e IncomeEntry) Validate() error {
	if len(strings.TrimSpace(e.PersonName)) == 0 {
		return ErrEmptyName
	}
	if e.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !e.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if e.Frequency == Weekly || e.Frequency == BiWeekly {
		if e.Payday < 1 || e.Payday > 7 {
			return ErrInvalidPayday
		}
		if e.FirstPayDate.IsZero() {
			return errors.New("first pay date required for weekly and bi-weekly income")
		}
	}
	return nil
}

func (b Bill) Validate() error {
	if len(strings.TrimSpace(b.Payee)) == 0 {
		return ErrEmptyPayee
	}
	if b.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if b.DueDay < 1 || b.DueDay > 31 {
		return ErrInvalidDueDay
	}
	if !b.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

func (c BudgetCategory) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if c.Amount.Cents < 0 || c.Spent.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (g SavingGoal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if g.TargetAmount.Cents < 0 || g.SavedAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if g.MonthlyContribution != nil && g.MonthlyContribution.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Progress reports the saved/target ratio. An overfunded goal reports
// above 1; a goal with no target reports 0.
func (g SavingGoal) Progress() float64 {
	if g.TargetAmount.Cents <= 0 {
		return 0
	}
	return float64(g.SavedAmount.Cents) / float64(g.TargetAmount.Cents)
}

func (d Debt) Validate() error {
	if len(strings.TrimSpace(d.Payee)) == 0 {
		return ErrEmptyPayee
	}
	for _, m := range []Money{d.LineOfCredit, d.DebtAmount, d.MinimumPayment, d.ActualPayment} {
		if m.Cents < 0 {
			return ErrInvalidAmount
		}
	}
	if d.APR < 0 {
		return ErrInvalidAPR
	}
	return nil
}

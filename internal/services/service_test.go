package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"housebudget/internal/core"
	"housebudget/internal/savings"
)

// fakeStore is an in-memory Store for service tests.
type fakeStore struct {
	incomes    []core.IncomeEntry
	bills      []core.Bill
	categories []core.BudgetCategory
	goals      []core.SavingGoal
	debts      []core.Debt
	nextID     int64
	closed     bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeStore) ListIncomes(context.Context) ([]core.IncomeEntry, error) {
	return f.incomes, nil
}

func (f *fakeStore) CreateIncome(_ context.Context, e core.IncomeEntry) (int64, error) {
	e.ID = f.id()
	f.incomes = append(f.incomes, e)
	return e.ID, nil
}

func (f *fakeStore) UpdateIncome(_ context.Context, e core.IncomeEntry) error {
	for i := range f.incomes {
		if f.incomes[i].ID == e.ID {
			f.incomes[i] = e
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) DeleteIncome(_ context.Context, id int64) error {
	for i := range f.incomes {
		if f.incomes[i].ID == id {
			f.incomes = append(f.incomes[:i], f.incomes[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) ListBills(context.Context) ([]core.Bill, error) { return f.bills, nil }

func (f *fakeStore) CreateBill(_ context.Context, b core.Bill) (int64, error) {
	b.ID = f.id()
	f.bills = append(f.bills, b)
	return b.ID, nil
}

func (f *fakeStore) UpdateBill(_ context.Context, b core.Bill) error {
	for i := range f.bills {
		if f.bills[i].ID == b.ID {
			f.bills[i] = b
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) DeleteBill(_ context.Context, id int64) error {
	for i := range f.bills {
		if f.bills[i].ID == id {
			f.bills = append(f.bills[:i], f.bills[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) ListCategories(context.Context) ([]core.BudgetCategory, error) {
	return f.categories, nil
}

func (f *fakeStore) CreateCategory(_ context.Context, c core.BudgetCategory) (int64, error) {
	c.ID = f.id()
	f.categories = append(f.categories, c)
	return c.ID, nil
}

func (f *fakeStore) UpdateCategory(_ context.Context, c core.BudgetCategory) error {
	for i := range f.categories {
		if f.categories[i].ID == c.ID {
			f.categories[i] = c
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) DeleteCategory(_ context.Context, id int64) error {
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) ListGoals(context.Context) ([]core.SavingGoal, error) { return f.goals, nil }

func (f *fakeStore) CreateGoal(_ context.Context, g core.SavingGoal) (int64, error) {
	g.ID = f.id()
	f.goals = append(f.goals, g)
	return g.ID, nil
}

func (f *fakeStore) UpdateGoal(_ context.Context, g core.SavingGoal) error {
	for i := range f.goals {
		if f.goals[i].ID == g.ID {
			f.goals[i] = g
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) DeleteGoal(_ context.Context, id int64) error {
	for i := range f.goals {
		if f.goals[i].ID == id {
			f.goals = append(f.goals[:i], f.goals[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) ListDebts(context.Context) ([]core.Debt, error) { return f.debts, nil }

func (f *fakeStore) CreateDebt(_ context.Context, d core.Debt) (int64, error) {
	d.ID = f.id()
	f.debts = append(f.debts, d)
	return d.ID, nil
}

func (f *fakeStore) UpdateDebt(_ context.Context, d core.Debt) error {
	for i := range f.debts {
		if f.debts[i].ID == d.ID {
			f.debts[i] = d
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) DeleteDebt(_ context.Context, id int64) error {
	for i := range f.debts {
		if f.debts[i].ID == id {
			f.debts = append(f.debts[:i], f.debts[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) Close() error {
	f.closed = true
	return nil
}

// fakePublisher records sync messages.
type fakePublisher struct {
	published []string
	fail      bool
}

func (p *fakePublisher) PublishRecordSync(_ context.Context, collection string, id int64, action string) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.published = append(p.published, collection+"/"+action)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func validIncome() core.IncomeEntry {
	return core.IncomeEntry{
		PersonName:   "Sam",
		Amount:       core.Money{Cents: 250000},
		Frequency:    core.BiWeekly,
		Payday:       5,
		FirstPayDate: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
	}
}

func TestRecordServiceCreateIncomePublishes(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewRecordService(store, pub, savings.NewEngine())

	id, err := svc.CreateIncome(context.Background(), validIncome())
	if err != nil {
		t.Fatalf("create income: %v", err)
	}
	if id != 1 {
		t.Errorf("id = %d, want 1", id)
	}
	if len(pub.published) != 1 || pub.published[0] != "incomes/create" {
		t.Errorf("published = %v, want [incomes/create]", pub.published)
	}
}

func TestRecordServiceCreateIncomeInvalid(t *testing.T) {
	store := newFakeStore()
	svc := NewRecordService(store, &fakePublisher{}, savings.NewEngine())

	e := validIncome()
	e.Payday = 9
	if _, err := svc.CreateIncome(context.Background(), e); err == nil {
		t.Fatal("expected validation error")
	}
	if len(store.incomes) != 0 {
		t.Error("invalid income was stored")
	}
}

func TestRecordServicePublishFailureDoesNotFailWrite(t *testing.T) {
	store := newFakeStore()
	svc := NewRecordService(store, &fakePublisher{fail: true}, savings.NewEngine())

	if _, err := svc.CreateIncome(context.Background(), validIncome()); err != nil {
		t.Fatalf("create income should succeed despite publish failure: %v", err)
	}
	if len(store.incomes) != 1 {
		t.Error("income was not stored")
	}
}

func TestRecordServiceNilPublisher(t *testing.T) {
	store := newFakeStore()
	svc := NewRecordService(store, nil, savings.NewEngine())

	if _, err := svc.CreateIncome(context.Background(), validIncome()); err != nil {
		t.Fatalf("create income without publisher: %v", err)
	}
}

func TestRecordServiceDeleteGoalClearsAllocations(t *testing.T) {
	store := newFakeStore()
	engine := savings.NewEngine()
	svc := NewRecordService(store, &fakePublisher{}, engine)

	id, err := svc.CreateGoal(context.Background(), core.SavingGoal{
		Name:         "Vacation",
		TargetAmount: core.Money{Cents: 500000},
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	engine.SetAllocation(id, 1, 40)

	if err := svc.DeleteGoal(context.Background(), id); err != nil {
		t.Fatalf("delete goal: %v", err)
	}
	if got := engine.Allocation(id, 1); got != 0 {
		t.Errorf("allocation after delete = %v, want 0", got)
	}
}

func TestRecordServiceDeleteIncomeClearsPerson(t *testing.T) {
	store := newFakeStore()
	engine := savings.NewEngine()
	engine.UseIndividualRates()
	svc := NewRecordService(store, &fakePublisher{}, engine)

	id, err := svc.CreateIncome(context.Background(), validIncome())
	if err != nil {
		t.Fatalf("create income: %v", err)
	}
	engine.SetPersonRate(id, 25)
	engine.SetAllocation(7, id, 60)

	if err := svc.DeleteIncome(context.Background(), id); err != nil {
		t.Fatalf("delete income: %v", err)
	}
	if got := engine.Rate(id); got != savings.DefaultRate {
		t.Errorf("rate after delete = %v, want default %v", got, savings.DefaultRate)
	}
	if got := engine.Allocation(7, id); got != 0 {
		t.Errorf("allocation after delete = %v, want 0", got)
	}
}

func TestRecordServiceClose(t *testing.T) {
	store := newFakeStore()
	svc := NewRecordService(store, &fakePublisher{}, savings.NewEngine())

	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !store.closed {
		t.Error("store was not closed")
	}
}

func TestForecastServiceForecast(t *testing.T) {
	store := newFakeStore()
	engine := savings.NewEngine() // uniform 10%
	svc := NewForecastService(store, engine)

	store.incomes = []core.IncomeEntry{
		{ID: 1, PersonName: "Sam", Amount: core.Money{Cents: 300000}, Frequency: core.Monthly},
		{ID: 2, PersonName: "Alex", Amount: core.Money{Cents: 100000}, Frequency: core.Monthly},
	}
	store.bills = []core.Bill{
		{ID: 1, Payee: "Electric Co", Amount: core.Money{Cents: 12000}, Category: core.Utilities, DueDay: 15, PersonID: 1},
	}
	store.categories = []core.BudgetCategory{
		{ID: 1, Name: "Groceries", Amount: core.Money{Cents: 60000}},
	}
	store.debts = []core.Debt{
		{ID: 1, PersonID: 2, Payee: "Visa", DebtAmount: core.Money{Cents: 40000}, LineOfCredit: core.Money{Cents: 100000}},
	}

	f, err := svc.Forecast(context.Background(), core.Month{Year: 2025, Month: 6})
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}

	if f.TotalIncome.Cents != 400000 {
		t.Errorf("total income = %d, want 400000", f.TotalIncome.Cents)
	}
	if len(f.IncomeShares) != 2 {
		t.Fatalf("shares = %d, want 2", len(f.IncomeShares))
	}
	if f.IncomeShares[0].Percent != 75 {
		t.Errorf("first share percent = %v, want 75", f.IncomeShares[0].Percent)
	}
	if f.TotalBills.Cents != 12000 {
		t.Errorf("total bills = %d, want 12000", f.TotalBills.Cents)
	}
	// Groceries plus the synthetic Utilities category
	if len(f.Categories) != 2 {
		t.Errorf("categories = %d, want 2", len(f.Categories))
	}
	if f.Totals.Budgeted.Cents != 72000 {
		t.Errorf("budgeted = %d, want 72000", f.Totals.Budgeted.Cents)
	}
	// 10% of each person's projected income
	if f.SavingsTarget.Cents != 40000 {
		t.Errorf("savings target = %d, want 40000", f.SavingsTarget.Cents)
	}
	if len(f.Debts) != 1 {
		t.Fatalf("debts = %d, want 1", len(f.Debts))
	}
	if f.Debts[0].PersonName != "Alex" {
		t.Errorf("debt person = %q, want Alex", f.Debts[0].PersonName)
	}
	if !f.Debts[0].HighUtilization {
		t.Error("40%% utilization should be flagged as high")
	}
}

func TestForecastServiceInvalidMonth(t *testing.T) {
	svc := NewForecastService(newFakeStore(), savings.NewEngine())
	if _, err := svc.Forecast(context.Background(), core.Month{Year: 2025, Month: 0}); !errors.Is(err, core.ErrInvalidMonth) {
		t.Fatalf("err = %v, want ErrInvalidMonth", err)
	}
}

func TestForecastServiceSnapshot(t *testing.T) {
	store := newFakeStore()
	store.incomes = []core.IncomeEntry{
		{ID: 1, PersonName: "Sam", Amount: core.Money{Cents: 200000}, Frequency: core.Monthly},
	}
	svc := NewForecastService(store, savings.NewEngine())

	snap, err := svc.Snapshot(context.Background(), core.Month{Year: 2025, Month: 3})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.ProjectedIncome.Cents != 200000 {
		t.Errorf("income = %d, want 200000", snap.ProjectedIncome.Cents)
	}
	if snap.SavingsTarget.Cents != 20000 {
		t.Errorf("savings = %d, want 20000", snap.SavingsTarget.Cents)
	}
	if snap.ExportedAt.IsZero() {
		t.Error("exported at not set")
	}
}

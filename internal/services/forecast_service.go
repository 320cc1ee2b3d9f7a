package services

import (
	"context"
	"fmt"
	"time"

	"housebudget/internal/core"
	"housebudget/internal/forecast"
	"housebudget/internal/savings"
	"housebudget/internal/sheets"
)

// MonthForecast is the full projection for one month: income, scheduled
// bills, the merged budget and its totals, debt summaries and the savings
// target implied by the current rates.
type MonthForecast struct {
	Month         core.Month
	TotalIncome   core.Money
	IncomeShares  []forecast.IncomeShare
	Bills         []forecast.ScheduledBill
	TotalBills    core.Money
	Categories    []core.BudgetCategory
	Totals        forecast.BudgetTotals
	Debts         []forecast.DebtSummary
	SavingsTarget core.Money
}

// ForecastService assembles forecasts from stored records and the savings
// engine. It only reads; record changes go through RecordService.
type ForecastService struct {
	store  Store
	engine *savings.Engine
}

func NewForecastService(store Store, engine *savings.Engine) *ForecastService {
	return &ForecastService{store: store, engine: engine}
}

// Forecast builds the complete projection for the month.
func (s *ForecastService) Forecast(ctx context.Context, month core.Month) (MonthForecast, error) {
	if !month.Valid() {
		return MonthForecast{}, core.ErrInvalidMonth
	}

	incomes, err := s.store.ListIncomes(ctx)
	if err != nil {
		return MonthForecast{}, fmt.Errorf("list incomes: %w", err)
	}
	bills, err := s.store.ListBills(ctx)
	if err != nil {
		return MonthForecast{}, fmt.Errorf("list bills: %w", err)
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return MonthForecast{}, fmt.Errorf("list categories: %w", err)
	}
	debts, err := s.store.ListDebts(ctx)
	if err != nil {
		return MonthForecast{}, fmt.Errorf("list debts: %w", err)
	}

	totalIncome := forecast.TotalProjectedIncome(incomes, month)
	shares := forecast.IncomeShares(incomes, month)
	merged := forecast.MergedCategories(categories, bills)

	return MonthForecast{
		Month:         month,
		TotalIncome:   totalIncome,
		IncomeShares:  shares,
		Bills:         forecast.ScheduleBills(bills, month),
		TotalBills:    forecast.TotalBills(bills),
		Categories:    merged,
		Totals:        forecast.Totals(merged, totalIncome),
		Debts:         forecast.SummarizeDebts(debts, incomes),
		SavingsTarget: s.savingsTarget(shares),
	}, nil
}

// IncomeForecast returns the month's total projected income and each
// person's share of it.
func (s *ForecastService) IncomeForecast(ctx context.Context, month core.Month) (core.Money, []forecast.IncomeShare, error) {
	if !month.Valid() {
		return core.Money{}, nil, core.ErrInvalidMonth
	}
	incomes, err := s.store.ListIncomes(ctx)
	if err != nil {
		return core.Money{}, nil, fmt.Errorf("list incomes: %w", err)
	}
	return forecast.TotalProjectedIncome(incomes, month), forecast.IncomeShares(incomes, month), nil
}

// BudgetForecast returns the merged categories and budget totals for the month.
func (s *ForecastService) BudgetForecast(ctx context.Context, month core.Month) ([]core.BudgetCategory, forecast.BudgetTotals, error) {
	if !month.Valid() {
		return nil, forecast.BudgetTotals{}, core.ErrInvalidMonth
	}
	incomes, err := s.store.ListIncomes(ctx)
	if err != nil {
		return nil, forecast.BudgetTotals{}, fmt.Errorf("list incomes: %w", err)
	}
	bills, err := s.store.ListBills(ctx)
	if err != nil {
		return nil, forecast.BudgetTotals{}, fmt.Errorf("list bills: %w", err)
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, forecast.BudgetTotals{}, fmt.Errorf("list categories: %w", err)
	}

	merged := forecast.MergedCategories(categories, bills)
	totals := forecast.Totals(merged, forecast.TotalProjectedIncome(incomes, month))
	return merged, totals, nil
}

// DebtForecast returns per-person debt summaries.
func (s *ForecastService) DebtForecast(ctx context.Context) ([]forecast.DebtSummary, error) {
	debts, err := s.store.ListDebts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	incomes, err := s.store.ListIncomes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	return forecast.SummarizeDebts(debts, incomes), nil
}

// Snapshot flattens the month's forecast into an exportable row.
func (s *ForecastService) Snapshot(ctx context.Context, month core.Month) (sheets.ForecastSnapshot, error) {
	f, err := s.Forecast(ctx, month)
	if err != nil {
		return sheets.ForecastSnapshot{}, err
	}
	return sheets.ForecastSnapshot{
		Month:           f.Month,
		ProjectedIncome: f.TotalIncome,
		TotalBills:      f.TotalBills,
		Budgeted:        f.Totals.Budgeted,
		Spent:           f.Totals.Spent,
		Available:       f.Totals.Available,
		Discretionary:   f.Totals.Discretionary,
		SavingsTarget:   f.SavingsTarget,
		ExportedAt:      time.Now(),
	}, nil
}

// savingsTarget sums each person's savings amount at their current rate.
func (s *ForecastService) savingsTarget(shares []forecast.IncomeShare) core.Money {
	if s.engine == nil {
		return core.Money{}
	}
	var total core.Money
	for _, share := range shares {
		total = total.Add(s.engine.SavingsAmount(share.PersonID, share.Amount))
	}
	return total
}

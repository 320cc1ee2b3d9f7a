package services

import (
	"context"
	"fmt"
	"log/slog"

	"housebudget/internal/core"
	"housebudget/internal/savings"
)

// Store is the persistence surface the services need.
type Store interface {
	ListIncomes(ctx context.Context) ([]core.IncomeEntry, error)
	CreateIncome(ctx context.Context, e core.IncomeEntry) (int64, error)
	UpdateIncome(ctx context.Context, e core.IncomeEntry) error
	DeleteIncome(ctx context.Context, id int64) error

	ListBills(ctx context.Context) ([]core.Bill, error)
	CreateBill(ctx context.Context, b core.Bill) (int64, error)
	UpdateBill(ctx context.Context, b core.Bill) error
	DeleteBill(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]core.BudgetCategory, error)
	CreateCategory(ctx context.Context, c core.BudgetCategory) (int64, error)
	UpdateCategory(ctx context.Context, c core.BudgetCategory) error
	DeleteCategory(ctx context.Context, id int64) error

	ListGoals(ctx context.Context) ([]core.SavingGoal, error)
	CreateGoal(ctx context.Context, g core.SavingGoal) (int64, error)
	UpdateGoal(ctx context.Context, g core.SavingGoal) error
	DeleteGoal(ctx context.Context, id int64) error

	ListDebts(ctx context.Context) ([]core.Debt, error)
	CreateDebt(ctx context.Context, d core.Debt) (int64, error)
	UpdateDebt(ctx context.Context, d core.Debt) error
	DeleteDebt(ctx context.Context, id int64) error

	Close() error
}

// Publisher notifies the export worker about record changes.
type Publisher interface {
	PublishRecordSync(ctx context.Context, collection string, id int64, action string) error
	Close() error
}

// RecordService orchestrates record CRUD across SQLite, the savings engine
// and AMQP. Writes go to SQLite first; the sync message is best-effort and
// never fails the request.
type RecordService struct {
	store     Store
	publisher Publisher
	engine    *savings.Engine
}

func NewRecordService(store Store, publisher Publisher, engine *savings.Engine) *RecordService {
	return &RecordService{
		store:     store,
		publisher: publisher,
		engine:    engine,
	}
}

func (s *RecordService) ListIncomes(ctx context.Context) ([]core.IncomeEntry, error) {
	return s.store.ListIncomes(ctx)
}

func (s *RecordService) CreateIncome(ctx context.Context, e core.IncomeEntry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.CreateIncome(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save income: %w", err)
	}
	s.publish(ctx, "incomes", id, "create")
	return id, nil
}

func (s *RecordService) UpdateIncome(ctx context.Context, e core.IncomeEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateIncome(ctx, e); err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	s.publish(ctx, "incomes", e.ID, "update")
	return nil
}

func (s *RecordService) DeleteIncome(ctx context.Context, id int64) error {
	if err := s.store.DeleteIncome(ctx, id); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	// The person's savings rate and allocations go with the income entry.
	if s.engine != nil {
		s.engine.RemovePerson(id)
	}
	s.publish(ctx, "incomes", id, "delete")
	return nil
}

func (s *RecordService) ListBills(ctx context.Context) ([]core.Bill, error) {
	return s.store.ListBills(ctx)
}

func (s *RecordService) CreateBill(ctx context.Context, b core.Bill) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.CreateBill(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("save bill: %w", err)
	}
	s.publish(ctx, "bills", id, "create")
	return id, nil
}

func (s *RecordService) UpdateBill(ctx context.Context, b core.Bill) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateBill(ctx, b); err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	s.publish(ctx, "bills", b.ID, "update")
	return nil
}

func (s *RecordService) DeleteBill(ctx context.Context, id int64) error {
	if err := s.store.DeleteBill(ctx, id); err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	s.publish(ctx, "bills", id, "delete")
	return nil
}

func (s *RecordService) ListCategories(ctx context.Context) ([]core.BudgetCategory, error) {
	return s.store.ListCategories(ctx)
}

func (s *RecordService) CreateCategory(ctx context.Context, c core.BudgetCategory) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.CreateCategory(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("save category: %w", err)
	}
	s.publish(ctx, "categories", id, "create")
	return id, nil
}

func (s *RecordService) UpdateCategory(ctx context.Context, c core.BudgetCategory) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	s.publish(ctx, "categories", c.ID, "update")
	return nil
}

func (s *RecordService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.publish(ctx, "categories", id, "delete")
	return nil
}

func (s *RecordService) ListGoals(ctx context.Context) ([]core.SavingGoal, error) {
	return s.store.ListGoals(ctx)
}

func (s *RecordService) CreateGoal(ctx context.Context, g core.SavingGoal) (int64, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.CreateGoal(ctx, g)
	if err != nil {
		return 0, fmt.Errorf("save goal: %w", err)
	}
	s.publish(ctx, "goals", id, "create")
	return id, nil
}

func (s *RecordService) UpdateGoal(ctx context.Context, g core.SavingGoal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateGoal(ctx, g); err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	s.publish(ctx, "goals", g.ID, "update")
	return nil
}

func (s *RecordService) DeleteGoal(ctx context.Context, id int64) error {
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if s.engine != nil {
		s.engine.RemoveGoal(id)
	}
	s.publish(ctx, "goals", id, "delete")
	return nil
}

func (s *RecordService) ListDebts(ctx context.Context) ([]core.Debt, error) {
	return s.store.ListDebts(ctx)
}

func (s *RecordService) CreateDebt(ctx context.Context, d core.Debt) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.CreateDebt(ctx, d)
	if err != nil {
		return 0, fmt.Errorf("save debt: %w", err)
	}
	s.publish(ctx, "debts", id, "create")
	return id, nil
}

func (s *RecordService) UpdateDebt(ctx context.Context, d core.Debt) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateDebt(ctx, d); err != nil {
		return fmt.Errorf("update debt: %w", err)
	}
	s.publish(ctx, "debts", d.ID, "update")
	return nil
}

func (s *RecordService) DeleteDebt(ctx context.Context, id int64) error {
	if err := s.store.DeleteDebt(ctx, id); err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	s.publish(ctx, "debts", id, "delete")
	return nil
}

func (s *RecordService) publish(ctx context.Context, collection string, id int64, action string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Publisher not available, skipping sync message",
			"collection", collection, "id", id, "action", action)
		return
	}
	if err := s.publisher.PublishRecordSync(ctx, collection, id, action); err != nil {
		// Don't fail the request, the record is saved locally
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"collection", collection, "id", id, "action", action, "error", err)
	}
}

// Close closes both storage and the publisher.
func (s *RecordService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close record service: %v", errs)
	}

	return nil
}

// Package storage persists the five record collections to SQLite. The
// repository hands out snapshots; derived values are computed elsewhere
// and never written back.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"housebudget/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- incomes ---

func (r *SQLiteRepository) ListIncomes(ctx context.Context) ([]core.IncomeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, person_name, amount_cents, frequency, payday, first_pay_date FROM incomes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var entries []core.IncomeEntry
	for rows.Next() {
		var e core.IncomeEntry
		var freq, payDate string
		if err := rows.Scan(&e.ID, &e.PersonName, &e.Amount.Cents, &freq, &e.Payday, &payDate); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		e.Frequency = core.Frequency(freq)
		if payDate != "" {
			t, err := time.Parse(dateLayout, payDate)
			if err != nil {
				return nil, fmt.Errorf("parse first pay date %q: %w", payDate, err)
			}
			e.FirstPayDate = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRepository) CreateIncome(ctx context.Context, e core.IncomeEntry) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (person_name, amount_cents, frequency, payday, first_pay_date) VALUES (?, ?, ?, ?, ?)`,
		e.PersonName, e.Amount.Cents, string(e.Frequency), e.Payday, formatDate(e.FirstPayDate))
	if err != nil {
		return 0, fmt.Errorf("create income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("income insert id: %w", err)
	}

	slog.InfoContext(ctx, "Income entry saved",
		"id", id,
		"person", e.PersonName,
		"frequency", e.Frequency,
		"amount_cents", e.Amount.Cents)
	return id, nil
}

func (r *SQLiteRepository) UpdateIncome(ctx context.Context, e core.IncomeEntry) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE incomes SET person_name = ?, amount_cents = ?, frequency = ?, payday = ?, first_pay_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		e.PersonName, e.Amount.Cents, string(e.Frequency), e.Payday, formatDate(e.FirstPayDate), e.ID)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	return requireRow(res, "income", e.ID)
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return requireRow(res, "income", id)
}

// --- bills ---

func (r *SQLiteRepository) ListBills(ctx context.Context) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, payee, amount_cents, due_day, category, person_id FROM bills ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []core.Bill
	for rows.Next() {
		var b core.Bill
		var cat string
		if err := rows.Scan(&b.ID, &b.Payee, &b.Amount.Cents, &b.DueDay, &cat, &b.PersonID); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		b.Category = core.BillCategory(cat)
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (r *SQLiteRepository) CreateBill(ctx context.Context, b core.Bill) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bills (payee, amount_cents, due_day, category, person_id) VALUES (?, ?, ?, ?, ?)`,
		b.Payee, b.Amount.Cents, b.DueDay, string(b.Category), b.PersonID)
	if err != nil {
		return 0, fmt.Errorf("create bill: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("bill insert id: %w", err)
	}

	slog.InfoContext(ctx, "Bill saved",
		"id", id,
		"payee", b.Payee,
		"category", b.Category,
		"due_day", b.DueDay)
	return id, nil
}

func (r *SQLiteRepository) UpdateBill(ctx context.Context, b core.Bill) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bills SET payee = ?, amount_cents = ?, due_day = ?, category = ?, person_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		b.Payee, b.Amount.Cents, b.DueDay, string(b.Category), b.PersonID, b.ID)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	return requireRow(res, "bill", b.ID)
}

func (r *SQLiteRepository) DeleteBill(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return requireRow(res, "bill", id)
}

// --- categories ---

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.BudgetCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, amount_cents, spent_cents FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.BudgetCategory
	for rows.Next() {
		var c core.BudgetCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Amount.Cents, &c.Spent.Cents); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.BudgetCategory) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, amount_cents, spent_cents) VALUES (?, ?, ?)`,
		c.Name, c.Amount.Cents, c.Spent.Cents)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category insert id: %w", err)
	}

	slog.InfoContext(ctx, "Budget category saved", "id", id, "name", c.Name)
	return id, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.BudgetCategory) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, amount_cents = ?, spent_cents = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		c.Name, c.Amount.Cents, c.Spent.Cents, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res, "category", c.ID)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res, "category", id)
}

// --- goals ---

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.SavingGoal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_cents, saved_cents, monthly_contribution_cents FROM goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.SavingGoal
	for rows.Next() {
		var g core.SavingGoal
		var contribution sql.NullInt64
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount.Cents, &g.SavedAmount.Cents, &contribution); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if contribution.Valid {
			g.MonthlyContribution = &core.Money{Cents: contribution.Int64}
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.SavingGoal) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (name, target_cents, saved_cents, monthly_contribution_cents) VALUES (?, ?, ?, ?)`,
		g.Name, g.TargetAmount.Cents, g.SavedAmount.Cents, contributionValue(g.MonthlyContribution))
	if err != nil {
		return 0, fmt.Errorf("create goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("goal insert id: %w", err)
	}

	slog.InfoContext(ctx, "Saving goal saved",
		"id", id,
		"name", g.Name,
		"target_cents", g.TargetAmount.Cents)
	return id, nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.SavingGoal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, target_cents = ?, saved_cents = ?, monthly_contribution_cents = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		g.Name, g.TargetAmount.Cents, g.SavedAmount.Cents, contributionValue(g.MonthlyContribution), g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res, "goal", g.ID)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res, "goal", id)
}

// --- debts ---

func (r *SQLiteRepository) ListDebts(ctx context.Context) ([]core.Debt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, payee, line_of_credit_cents, debt_cents, minimum_payment_cents, actual_payment_cents, apr, person_id FROM debts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()

	var debts []core.Debt
	for rows.Next() {
		var d core.Debt
		if err := rows.Scan(&d.ID, &d.Payee, &d.LineOfCredit.Cents, &d.DebtAmount.Cents,
			&d.MinimumPayment.Cents, &d.ActualPayment.Cents, &d.APR, &d.PersonID); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func (r *SQLiteRepository) CreateDebt(ctx context.Context, d core.Debt) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO debts (payee, line_of_credit_cents, debt_cents, minimum_payment_cents, actual_payment_cents, apr, person_id) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.Payee, d.LineOfCredit.Cents, d.DebtAmount.Cents, d.MinimumPayment.Cents, d.ActualPayment.Cents, d.APR, d.PersonID)
	if err != nil {
		return 0, fmt.Errorf("create debt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("debt insert id: %w", err)
	}

	slog.InfoContext(ctx, "Debt saved",
		"id", id,
		"payee", d.Payee,
		"debt_cents", d.DebtAmount.Cents)
	return id, nil
}

func (r *SQLiteRepository) UpdateDebt(ctx context.Context, d core.Debt) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE debts SET payee = ?, line_of_credit_cents = ?, debt_cents = ?, minimum_payment_cents = ?, actual_payment_cents = ?, apr = ?, person_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		d.Payee, d.LineOfCredit.Cents, d.DebtAmount.Cents, d.MinimumPayment.Cents, d.ActualPayment.Cents, d.APR, d.PersonID, d.ID)
	if err != nil {
		return fmt.Errorf("update debt: %w", err)
	}
	return requireRow(res, "debt", d.ID)
}

func (r *SQLiteRepository) DeleteDebt(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM debts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	return requireRow(res, "debt", id)
}

// --- helpers ---

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func contributionValue(m *core.Money) any {
	if m == nil {
		return nil
	}
	return m.Cents
}

func requireRow(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}

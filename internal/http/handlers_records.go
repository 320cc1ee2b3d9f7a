package http

import (
	"net/http"
	"time"

	"housebudget/internal/core"
	"housebudget/internal/forecast"
)

// Amounts travel as decimal strings ("1234.56") in both directions so
// clients never deal in cents.

type incomeRequest struct {
	PersonName   string `json:"personName"`
	Amount       string `json:"amount"`
	Frequency    string `json:"frequency"`
	Payday       int    `json:"payday,omitempty"`
	FirstPayDate string `json:"firstPayDate,omitempty"`
}

type incomeResponse struct {
	ID           int64  `json:"id"`
	PersonName   string `json:"personName"`
	Amount       string `json:"amount"`
	Frequency    string `json:"frequency"`
	Payday       int    `json:"payday,omitempty"`
	FirstPayDate string `json:"firstPayDate,omitempty"`
}

func toIncomeResponse(e core.IncomeEntry) incomeResponse {
	resp := incomeResponse{
		ID:         e.ID,
		PersonName: e.PersonName,
		Amount:     amountString(e.Amount),
		Frequency:  string(e.Frequency),
		Payday:     e.Payday,
	}
	if !e.FirstPayDate.IsZero() {
		resp.FirstPayDate = e.FirstPayDate.Format(dateLayout)
	}
	return resp
}

func (req incomeRequest) toEntry() (core.IncomeEntry, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.IncomeEntry{}, err
	}
	e := core.IncomeEntry{
		PersonName: sanitizeInput(req.PersonName),
		Amount:     core.Money{Cents: cents},
		Frequency:  core.Frequency(req.Frequency),
		Payday:     req.Payday,
	}
	if req.FirstPayDate != "" {
		d, err := time.Parse(dateLayout, req.FirstPayDate)
		if err != nil {
			return core.IncomeEntry{}, err
		}
		e.FirstPayDate = d
	}
	return e, nil
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	entries, err := s.records.ListIncomes(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	resp := make([]incomeResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toIncomeResponse(e))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := req.toEntry()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	id, err := s.records.CreateIncome(r.Context(), entry)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateForecasts()
	entry.ID = id
	respondJSON(w, http.StatusCreated, toIncomeResponse(entry))
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req incomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := req.toEntry()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	entry.ID = id
	if err := s.records.UpdateIncome(r.Context(), entry); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateForecasts()
	respondJSON(w, http.StatusOK, toIncomeResponse(entry))
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.records.DeleteIncome(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateForecasts()
	respondJSON(w, http.StatusNoContent, nil)
}

type billRequest struct {
	Payee    string `json:"payee"`
	Amount   string `json:"amount"`
	DueDay   int    `json:"dueDay"`
	Category string `json:"category"`
	PersonID int64  `json:"personId,omitempty"`
}

type billResponse struct {
	ID       int64  `json:"id"`
	Payee    string `json:"payee"`
	Amount   string `json:"amount"`
	DueDay   int    `json:"dueDay"`
	Category string `json:"category"`
	PersonID int64  `json:"personId,omitempty"`
}

func toBillResponse(b core.Bill) billResponse {
	return billResponse{
		ID:       b.ID,
		Payee:    b.Payee,
		Amount:   amountString(b.Amount),
		DueDay:   b.DueDay,
		Category: string(b.Category),
		PersonID: b.PersonID,
	}
}

func (req billRequest) toBill() (core.Bill, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Bill{}, err
	}
	return core.Bill{
		Payee:    sanitizeInput(req.Payee),
		Amount:   core.Money{Cents: cents},
		DueDay:   req.DueDay,
		Category: core.BillCategory(req.Category),
		PersonID: req.PersonID,
	}, nil
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := s.records.ListBills(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	resp := make([]billResponse, 0, len(bills))
	for _, b := range bills {
		resp = append(resp, toBillResponse(b))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	bill, err := req.toBill()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	id, err := s.records.CreateBill(r.Context(), bill)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateForecasts()
	bill.ID = id
	respondJSON(w, http.StatusCreated, toBillResponse(bill))
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req billRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	bill, err := req.toBill()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	bill.ID = id
	if err := s.records.UpdateBill(r.Context(), bill); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateForecasts()
	respondJSON(w, http.StatusOK, toBillResponse(bill))
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.records.DeleteBill(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateForecasts()
	respondJSON(w, http.StatusNoContent, nil)
}

type categoryRequest struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Spent  string `json:"spent,omitempty"`
}

type categoryResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Spent  string `json:"spent"`
}

func toCategoryResponse(c core.BudgetCategory) categoryResponse {
	return categoryResponse{
		ID:     c.ID,
		Name:   c.Name,
		Amount: amountString(c.Amount),
		Spent:  amountString(c.Spent),
	}
}

func (req categoryRequest) toCategory() (core.BudgetCategory, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.BudgetCategory{}, err
	}
	c := core.BudgetCategory{
		Name:   sanitizeInput(req.Name),
		Amount: core.Money{Cents: cents},
	}
	if req.Spent != "" {
		spent, err := core.ParseDecimalToCents(req.Spent)
		if err != nil {
			return core.BudgetCategory{}, err
		}
		c.Spent = core.Money{Cents: spent}
	}
	return c, nil
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.records.ListCategories(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	resp := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, toCategoryResponse(c))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	category, err := req.toCategory()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	id, err := s.records.CreateCategory(r.Context(), category)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateForecasts()
	category.ID = id
	respondJSON(w, http.StatusCreated, toCategoryResponse(category))
}

// handleImportBillCategories bulk-creates budget categories from bills the
// budget does not cover yet. Utility and subscription bills are skipped
// since those already surface as grouped categories.
func (s *Server) handleImportBillCategories(w http.ResponseWriter, r *http.Request) {
	existing, err := s.records.ListCategories(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	bills, err := s.records.ListBills(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	added := forecast.CategoriesFromBills(existing, bills)
	resp := make([]categoryResponse, 0, len(added))
	for _, c := range added {
		id, err := s.records.CreateCategory(r.Context(), c)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}
		c.ID = id
		resp = append(resp, toCategoryResponse(c))
	}

	if len(resp) > 0 {
		s.invalidateForecasts()
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	category, err := req.toCategory()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	category.ID = id
	if err := s.records.UpdateCategory(r.Context(), category); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateForecasts()
	respondJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.records.DeleteCategory(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateForecasts()
	respondJSON(w, http.StatusNoContent, nil)
}

type goalRequest struct {
	Name                string  `json:"name"`
	TargetAmount        string  `json:"targetAmount"`
	SavedAmount         string  `json:"savedAmount,omitempty"`
	MonthlyContribution *string `json:"monthlyContribution,omitempty"`
}

type goalResponse struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	TargetAmount        string  `json:"targetAmount"`
	SavedAmount         string  `json:"savedAmount"`
	Progress            float64 `json:"progress"`
	MonthlyContribution *string `json:"monthlyContribution,omitempty"`
}

func toGoalResponse(g core.SavingGoal) goalResponse {
	return goalResponse{
		ID:                  g.ID,
		Name:                g.Name,
		TargetAmount:        amountString(g.TargetAmount),
		SavedAmount:         amountString(g.SavedAmount),
		Progress:            g.Progress(),
		MonthlyContribution: optionalAmountString(g.MonthlyContribution),
	}
}

func (req goalRequest) toGoal() (core.SavingGoal, error) {
	target, err := core.ParseDecimalToCents(req.TargetAmount)
	if err != nil {
		return core.SavingGoal{}, err
	}
	g := core.SavingGoal{
		Name:         sanitizeInput(req.Name),
		TargetAmount: core.Money{Cents: target},
	}
	if req.SavedAmount != "" {
		saved, err := core.ParseDecimalToCents(req.SavedAmount)
		if err != nil {
			return core.SavingGoal{}, err
		}
		g.SavedAmount = core.Money{Cents: saved}
	}
	// Absent means no fixed contribution; "0" is a configured zero
	if req.MonthlyContribution != nil {
		cents, err := core.ParseDecimalToCents(*req.MonthlyContribution)
		if err != nil {
			return core.SavingGoal{}, err
		}
		g.MonthlyContribution = &core.Money{Cents: cents}
	}
	return g, nil
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.records.ListGoals(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	resp := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		resp = append(resp, toGoalResponse(g))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	goal, err := req.toGoal()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	id, err := s.records.CreateGoal(r.Context(), goal)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	goal.ID = id
	respondJSON(w, http.StatusCreated, toGoalResponse(goal))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	goal, err := req.toGoal()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	goal.ID = id
	if err := s.records.UpdateGoal(r.Context(), goal); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.records.DeleteGoal(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type debtRequest struct {
	Payee          string  `json:"payee"`
	LineOfCredit   string  `json:"lineOfCredit"`
	DebtAmount     string  `json:"debtAmount"`
	MinimumPayment string  `json:"minimumPayment,omitempty"`
	ActualPayment  string  `json:"actualPayment,omitempty"`
	APR            float64 `json:"apr,omitempty"`
	PersonID       int64   `json:"personId,omitempty"`
}

type debtResponse struct {
	ID             int64   `json:"id"`
	Payee          string  `json:"payee"`
	LineOfCredit   string  `json:"lineOfCredit"`
	DebtAmount     string  `json:"debtAmount"`
	MinimumPayment string  `json:"minimumPayment"`
	ActualPayment  string  `json:"actualPayment"`
	APR            float64 `json:"apr"`
	PersonID       int64   `json:"personId,omitempty"`
}

func toDebtResponse(d core.Debt) debtResponse {
	return debtResponse{
		ID:             d.ID,
		Payee:          d.Payee,
		LineOfCredit:   amountString(d.LineOfCredit),
		DebtAmount:     amountString(d.DebtAmount),
		MinimumPayment: amountString(d.MinimumPayment),
		ActualPayment:  amountString(d.ActualPayment),
		APR:            d.APR,
		PersonID:       d.PersonID,
	}
}

func (req debtRequest) toDebt() (core.Debt, error) {
	d := core.Debt{
		Payee:    sanitizeInput(req.Payee),
		APR:      req.APR,
		PersonID: req.PersonID,
	}
	for _, field := range []struct {
		raw string
		dst *core.Money
	}{
		{req.LineOfCredit, &d.LineOfCredit},
		{req.DebtAmount, &d.DebtAmount},
		{req.MinimumPayment, &d.MinimumPayment},
		{req.ActualPayment, &d.ActualPayment},
	} {
		if field.raw == "" {
			continue
		}
		cents, err := core.ParseDecimalToCents(field.raw)
		if err != nil {
			return core.Debt{}, err
		}
		field.dst.Cents = cents
	}
	return d, nil
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.records.ListDebts(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	resp := make([]debtResponse, 0, len(debts))
	for _, d := range debts {
		resp = append(resp, toDebtResponse(d))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req debtRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	debt, err := req.toDebt()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	id, err := s.records.CreateDebt(r.Context(), debt)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateForecasts()
	debt.ID = id
	respondJSON(w, http.StatusCreated, toDebtResponse(debt))
}

func (s *Server) handleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req debtRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	debt, err := req.toDebt()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	debt.ID = id
	if err := s.records.UpdateDebt(r.Context(), debt); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateForecasts()
	respondJSON(w, http.StatusOK, toDebtResponse(debt))
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.records.DeleteDebt(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateForecasts()
	respondJSON(w, http.StatusNoContent, nil)
}

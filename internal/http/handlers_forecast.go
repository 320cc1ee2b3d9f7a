package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"housebudget/internal/core"
	"housebudget/internal/forecast"
	"housebudget/internal/services"
)

type shareResponse struct {
	PersonID   int64   `json:"personId"`
	PersonName string  `json:"personName"`
	Amount     string  `json:"amount"`
	Percent    float64 `json:"percent"`
}

type scheduledBillResponse struct {
	billResponse
	DueDate string `json:"dueDate"`
}

type budgetTotalsResponse struct {
	Budgeted      string `json:"budgeted"`
	Spent         string `json:"spent"`
	Available     string `json:"available"`
	Discretionary string `json:"discretionary"`
}

type debtSummaryResponse struct {
	PersonID        int64   `json:"personId"`
	PersonName      string  `json:"personName"`
	TotalDebt       string  `json:"totalDebt"`
	TotalCredit     string  `json:"totalCredit"`
	MinimumPayments string  `json:"minimumPayments"`
	ActualPayments  string  `json:"actualPayments"`
	Utilization     float64 `json:"utilization"`
	HighUtilization bool    `json:"highUtilization"`
}

type forecastResponse struct {
	Year          int                     `json:"year"`
	Month         int                     `json:"month"`
	TotalIncome   string                  `json:"totalIncome"`
	IncomeShares  []shareResponse         `json:"incomeShares"`
	Bills         []scheduledBillResponse `json:"bills"`
	TotalBills    string                  `json:"totalBills"`
	Categories    []categoryResponse      `json:"categories"`
	Totals        budgetTotalsResponse    `json:"totals"`
	Debts         []debtSummaryResponse   `json:"debts"`
	SavingsTarget string                  `json:"savingsTarget"`
}

func toShareResponses(shares []forecast.IncomeShare) []shareResponse {
	out := make([]shareResponse, 0, len(shares))
	for _, sh := range shares {
		out = append(out, shareResponse{
			PersonID:   sh.PersonID,
			PersonName: sh.PersonName,
			Amount:     amountString(sh.Amount),
			Percent:    sh.Percent,
		})
	}
	return out
}

func toTotalsResponse(t forecast.BudgetTotals) budgetTotalsResponse {
	return budgetTotalsResponse{
		Budgeted:      amountString(t.Budgeted),
		Spent:         amountString(t.Spent),
		Available:     amountString(t.Available),
		Discretionary: amountString(t.Discretionary),
	}
}

func toDebtSummaryResponses(summaries []forecast.DebtSummary) []debtSummaryResponse {
	out := make([]debtSummaryResponse, 0, len(summaries))
	for _, d := range summaries {
		out = append(out, debtSummaryResponse{
			PersonID:        d.PersonID,
			PersonName:      d.PersonName,
			TotalDebt:       amountString(d.TotalDebt),
			TotalCredit:     amountString(d.TotalCredit),
			MinimumPayments: amountString(d.MinimumPayments),
			ActualPayments:  amountString(d.ActualPayments),
			Utilization:     d.Utilization,
			HighUtilization: d.HighUtilization,
		})
	}
	return out
}

func toForecastResponse(f services.MonthForecast) forecastResponse {
	resp := forecastResponse{
		Year:          f.Month.Year,
		Month:         f.Month.Month,
		TotalIncome:   amountString(f.TotalIncome),
		IncomeShares:  toShareResponses(f.IncomeShares),
		TotalBills:    amountString(f.TotalBills),
		Totals:        toTotalsResponse(f.Totals),
		Debts:         toDebtSummaryResponses(f.Debts),
		SavingsTarget: amountString(f.SavingsTarget),
	}
	resp.Bills = make([]scheduledBillResponse, 0, len(f.Bills))
	for _, b := range f.Bills {
		resp.Bills = append(resp.Bills, scheduledBillResponse{
			billResponse: toBillResponse(b.Bill),
			DueDate:      b.DueDate.Format(dateLayout),
		})
	}
	resp.Categories = make([]categoryResponse, 0, len(f.Categories))
	for _, c := range f.Categories {
		resp.Categories = append(resp.Categories, toCategoryResponse(c))
	}
	return resp
}

// getForecast returns the month's forecast, computing and caching it on a
// miss.
func (s *Server) getForecast(r *http.Request, month core.Month) (services.MonthForecast, error) {
	key := fmt.Sprintf("%04d-%02d", month.Year, month.Month)
	if f, ok := s.forecastCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Forecast cache hit", "year", month.Year, "month", month.Month)
		return f, nil
	}

	f, err := s.forecasts.Forecast(r.Context(), month)
	if err != nil {
		return services.MonthForecast{}, err
	}
	s.forecastCache.Set(key, f)
	return f, nil
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	month := parseMonth(r)
	f, err := s.getForecast(r, month)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toForecastResponse(f))
}

func (s *Server) handleIncomeForecast(w http.ResponseWriter, r *http.Request) {
	month := parseMonth(r)
	total, shares, err := s.forecasts.IncomeForecast(r.Context(), month)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Year        int             `json:"year"`
		Month       int             `json:"month"`
		TotalIncome string          `json:"totalIncome"`
		Shares      []shareResponse `json:"shares"`
	}{month.Year, month.Month, amountString(total), toShareResponses(shares)})
}

func (s *Server) handleBudgetForecast(w http.ResponseWriter, r *http.Request) {
	month := parseMonth(r)
	merged, totals, err := s.forecasts.BudgetForecast(r.Context(), month)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	categories := make([]categoryResponse, 0, len(merged))
	for _, c := range merged {
		categories = append(categories, toCategoryResponse(c))
	}
	respondJSON(w, http.StatusOK, struct {
		Year       int                  `json:"year"`
		Month      int                  `json:"month"`
		Categories []categoryResponse   `json:"categories"`
		Totals     budgetTotalsResponse `json:"totals"`
	}{month.Year, month.Month, categories, toTotalsResponse(totals)})
}

func (s *Server) handleDebtForecast(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.forecasts.DebtForecast(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toDebtSummaryResponses(summaries))
}

package http

import (
	"net/http"
	"strconv"

	"housebudget/internal/core"
)

type rateResponse struct {
	Uniform     bool              `json:"uniform"`
	Rate        float64           `json:"rate,omitempty"`
	PersonRates map[int64]float64 `json:"personRates,omitempty"`
}

func (s *Server) handleGetSavingsRate(w http.ResponseWriter, r *http.Request) {
	uniform, rate := s.engine.Uniform()
	resp := rateResponse{Uniform: uniform}
	if uniform {
		resp.Rate = rate
		respondJSON(w, http.StatusOK, resp)
		return
	}

	// In individual mode, report the effective rate per income entry
	entries, err := s.records.ListIncomes(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	resp.PersonRates = make(map[int64]float64, len(entries))
	for _, e := range entries {
		resp.PersonRates[e.ID] = s.engine.Rate(e.ID)
	}
	respondJSON(w, http.StatusOK, resp)
}

type rateRequest struct {
	Uniform     bool              `json:"uniform"`
	Rate        float64           `json:"rate,omitempty"`
	PersonRates map[int64]float64 `json:"personRates,omitempty"`
}

func (s *Server) handleSetSavingsRate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Uniform {
		s.engine.UseUniformRate(req.Rate)
	} else {
		s.engine.UseIndividualRates()
		for personID, rate := range req.PersonRates {
			s.engine.SetPersonRate(personID, rate)
		}
	}

	s.invalidateForecasts()
	s.handleGetSavingsRate(w, r)
}

type allocationsResponse struct {
	PersonID       int64             `json:"personId"`
	Allocations    map[int64]float64 `json:"allocations"`
	TotalAllocated float64           `json:"totalAllocated"`
	OverAllocated  bool              `json:"overAllocated"`
}

func (s *Server) allocationsFor(personID int64) allocationsResponse {
	return allocationsResponse{
		PersonID:       personID,
		Allocations:    s.engine.AllocationsFor(personID),
		TotalAllocated: s.engine.TotalAllocated(personID),
		OverAllocated:  s.engine.OverAllocated(personID),
	}
}

func (s *Server) handleGetAllocations(w http.ResponseWriter, r *http.Request) {
	personID, err := strconv.ParseInt(r.URL.Query().Get("personId"), 10, 64)
	if err != nil || personID < 1 {
		respondError(w, http.StatusBadRequest, "missing or invalid personId")
		return
	}
	respondJSON(w, http.StatusOK, s.allocationsFor(personID))
}

type allocationRequest struct {
	GoalID   int64   `json:"goalId"`
	PersonID int64   `json:"personId"`
	Percent  float64 `json:"percent"`
}

func (s *Server) handleSetAllocation(w http.ResponseWriter, r *http.Request) {
	var req allocationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.GoalID < 1 || req.PersonID < 1 {
		respondError(w, http.StatusBadRequest, "goalId and personId are required")
		return
	}

	s.engine.SetAllocation(req.GoalID, req.PersonID, req.Percent)
	s.invalidateForecasts()
	respondJSON(w, http.StatusOK, s.allocationsFor(req.PersonID))
}

type contributionResponse struct {
	GoalID   int64  `json:"goalId"`
	GoalName string `json:"goalName"`
	Amount   string `json:"amount"`
}

type contributionsResponse struct {
	Year          int                    `json:"year"`
	Month         int                    `json:"month"`
	SavingsTarget string                 `json:"savingsTarget"`
	Contributions []contributionResponse `json:"contributions"`
}

// handleContributions returns each goal's funded amount for the month:
// the savings pool per person times that person's allocation to the goal.
func (s *Server) handleContributions(w http.ResponseWriter, r *http.Request) {
	month := parseMonth(r)
	_, shares, err := s.forecasts.IncomeForecast(r.Context(), month)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	goals, err := s.records.ListGoals(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	resp := contributionsResponse{Year: month.Year, Month: month.Month}

	var target core.Money
	projByPerson := make(map[int64]core.Money, len(shares))
	for _, sh := range shares {
		projByPerson[sh.PersonID] = sh.Amount
		target = target.Add(s.engine.SavingsAmount(sh.PersonID, sh.Amount))
	}
	resp.SavingsTarget = amountString(target)

	for _, g := range goals {
		resp.Contributions = append(resp.Contributions, contributionResponse{
			GoalID:   g.ID,
			GoalName: g.Name,
			Amount:   amountString(s.engine.TotalContribution(g.ID, projByPerson)),
		})
	}

	respondJSON(w, http.StatusOK, resp)
}

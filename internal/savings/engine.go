// Package savings implements the automatic-savings allocation engine: a
// per-person savings rate applied to projected income, distributed across
// goals through percentage shares capped at 100% per person.
package savings

import (
	"sync"

	"housebudget/internal/core"
)

// DefaultRate is the uniform savings percentage a fresh engine starts with.
const DefaultRate = 10.0

// AllocationKey addresses one person's percentage share of one goal.
type AllocationKey struct {
	GoalID   int64
	PersonID int64
}

// Engine holds the session-scoped allocation state. None of it is
// persisted; every query recomputes from the current state, so reads
// always reflect the latest redistribution.
//
// The engine is safe for concurrent use by HTTP handlers.
type Engine struct {
	mu          sync.Mutex
	uniform     bool
	uniformRate float64
	rates       map[int64]float64 // person -> rate, individual mode
	alloc       map[AllocationKey]float64
}

// NewEngine returns an engine in uniform-rate mode at DefaultRate with no
// allocations.
func NewEngine() *Engine {
	return &Engine{
		uniform:     true,
		uniformRate: DefaultRate,
		rates:       make(map[int64]float64),
		alloc:       make(map[AllocationKey]float64),
	}
}

// UseUniformRate switches to one rate for every person.
func (e *Engine) UseUniformRate(rate float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.uniform = true
	e.uniformRate = clampPercent(rate)
}

// UseIndividualRates switches to per-person rates. Persons without an
// explicit rate save nothing.
func (e *Engine) UseIndividualRates() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.uniform = false
}

// SetPersonRate sets one person's savings rate for individual mode.
func (e *Engine) SetPersonRate(personID int64, rate float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rates[personID] = clampPercent(rate)
}

// Uniform reports whether the engine applies one rate to every person,
// and that rate.
func (e *Engine) Uniform() (bool, float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.uniform, e.uniformRate
}

// Rate returns the savings percentage in effect for a person.
func (e *Engine) Rate(personID int64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rate(personID)
}

func (e *Engine) rate(personID int64) float64 {
	if e.uniform {
		return e.uniformRate
	}
	return e.rates[personID]
}

// SetAllocation sets the percentage of a person's savings directed to a
// goal and redistributes on overflow: when the person's total across all
// goals exceeds 100, the excess is removed from the other goals the person
// has non-zero allocations to, proportionally to their share of that
// remainder, floored at zero. The updated goal always keeps its newly set
// value. When the other goals have no capacity to absorb the excess, the
// total stays above 100 and OverAllocated reports it; that is an accepted
// approximation, not an error.
func (e *Engine) SetAllocation(goalID, personID int64, percent float64) {
	if percent < 0 {
		percent = 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	key := AllocationKey{GoalID: goalID, PersonID: personID}
	e.alloc[key] = percent

	total := percent
	for k, v := range e.alloc {
		if k.PersonID == personID && k.GoalID != goalID {
			total += v
		}
	}
	if total <= 100 {
		return
	}

	excess := total - 100
	var totalOthers float64
	for k, v := range e.alloc {
		if k.PersonID == personID && k.GoalID != goalID && v > 0 {
			totalOthers += v
		}
	}
	if totalOthers == 0 {
		// Nothing to absorb the excess; the cap is not reachable.
		return
	}

	for k, v := range e.alloc {
		if k.PersonID != personID || k.GoalID == goalID || v <= 0 {
			continue
		}
		reduction := excess * (v / totalOthers)
		next := v - reduction
		if next < 0 {
			next = 0
		}
		e.alloc[k] = next
	}
}

// Allocation returns the percentage of a person's savings directed to a
// goal. Unset cells are zero.
func (e *Engine) Allocation(goalID, personID int64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.alloc[AllocationKey{GoalID: goalID, PersonID: personID}]
}

// AllocationsFor returns a person's shares keyed by goal ID.
func (e *Engine) AllocationsFor(personID int64) map[int64]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[int64]float64)
	for k, v := range e.alloc {
		if k.PersonID == personID {
			out[k.GoalID] = v
		}
	}
	return out
}

// TotalAllocated sums a person's shares across all goals.
func (e *Engine) TotalAllocated(personID int64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	var total float64
	for k, v := range e.alloc {
		if k.PersonID == personID {
			total += v
		}
	}
	return total
}

// OverAllocated reports whether a person's total exceeds the 100% cap.
// This surfaces to the caller as a warning indicator, never an error.
func (e *Engine) OverAllocated(personID int64) bool {
	// Small tolerance for float drift introduced by redistribution.
	return e.TotalAllocated(personID) > 100+1e-9
}

// SavingsAmount applies the person's rate to their projected income.
func (e *Engine) SavingsAmount(personID int64, projected core.Money) core.Money {
	e.mu.Lock()
	rate := e.rate(personID)
	e.mu.Unlock()
	return projected.MulPercent(rate)
}

// Contribution returns what a person puts toward a goal this month: their
// savings amount scaled by their share of the goal.
func (e *Engine) Contribution(goalID, personID int64, projected core.Money) core.Money {
	e.mu.Lock()
	rate := e.rate(personID)
	share := e.alloc[AllocationKey{GoalID: goalID, PersonID: personID}]
	e.mu.Unlock()
	return projected.MulPercent(rate).MulPercent(share)
}

// TotalContribution sums every person's contribution to a goal, given
// each person's projected monthly income.
func (e *Engine) TotalContribution(goalID int64, projectedByPerson map[int64]core.Money) core.Money {
	var total core.Money
	for personID, projected := range projectedByPerson {
		total = total.Add(e.Contribution(goalID, personID, projected))
	}
	return total
}

// RemoveGoal clears every person's share of a deleted goal.
func (e *Engine) RemoveGoal(goalID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for k := range e.alloc {
		if k.GoalID == goalID {
			delete(e.alloc, k)
		}
	}
}

// RemovePerson clears a deleted person's rate and shares.
func (e *Engine) RemovePerson(personID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.rates, personID)
	for k := range e.alloc {
		if k.PersonID == personID {
			delete(e.alloc, k)
		}
	}
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

package sheets

import (
	"context"
	"time"

	"housebudget/internal/core"
)

// ForecastSnapshot is one exported row: the headline numbers for a month
// at the moment of export.
type ForecastSnapshot struct {
	Month           core.Month
	ProjectedIncome core.Money
	TotalBills      core.Money
	Budgeted        core.Money
	Spent           core.Money
	Available       core.Money
	Discretionary   core.Money
	SavingsTarget   core.Money
	ExportedAt      time.Time
}

// Ports for outbound adapters.
type ForecastWriter interface {
	AppendForecast(ctx context.Context, snap ForecastSnapshot) (rowRef string, err error)
}

// Package worker runs the AMQP consumer that keeps the forecast
// spreadsheet in sync with stored records.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"housebudget/internal/amqp"
	"housebudget/internal/core"
	"housebudget/internal/services"
	"housebudget/internal/sheets"
)

// ExportWorker consumes record-sync and forecast-export messages and writes
// forecast snapshots through a ForecastWriter.
type ExportWorker struct {
	forecasts *services.ForecastService
	writer    sheets.ForecastWriter
}

func NewExportWorker(forecasts *services.ForecastService, writer sheets.ForecastWriter) *ExportWorker {
	return &ExportWorker{
		forecasts: forecasts,
		writer:    writer,
	}
}

// Handle dispatches one decoded queue message.
func (w *ExportWorker) Handle(ctx context.Context, msg any) error {
	switch m := msg.(type) {
	case *amqp.RecordSyncMessage:
		return w.handleRecordSync(ctx, m)
	case *amqp.ForecastExportMessage:
		return w.handleForecastExport(ctx, m)
	default:
		return fmt.Errorf("unexpected message type %T", msg)
	}
}

// handleRecordSync re-exports the current month. Any record change can
// move its forecast, so the snapshot is rebuilt rather than patched.
func (w *ExportWorker) handleRecordSync(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	slog.InfoContext(ctx, "Processing record sync message",
		"collection", msg.Collection,
		"id", msg.ID,
		"action", msg.Action)

	return w.export(ctx, core.NewMonth(time.Now()))
}

// handleForecastExport exports the requested month.
func (w *ExportWorker) handleForecastExport(ctx context.Context, msg *amqp.ForecastExportMessage) error {
	slog.InfoContext(ctx, "Processing forecast export message",
		"year", msg.Year,
		"month", msg.Month)

	return w.export(ctx, core.Month{Year: msg.Year, Month: msg.Month})
}

func (w *ExportWorker) export(ctx context.Context, month core.Month) error {
	snap, err := w.forecasts.Snapshot(ctx, month)
	if err != nil {
		return fmt.Errorf("build forecast snapshot: %w", err)
	}

	ref, err := w.writer.AppendForecast(ctx, snap)
	if err != nil {
		return fmt.Errorf("append forecast: %w", err)
	}

	slog.InfoContext(ctx, "Exported forecast snapshot",
		"year", month.Year,
		"month", month.Month,
		"income_cents", snap.ProjectedIncome.Cents,
		"row_ref", ref)

	return nil
}

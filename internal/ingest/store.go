// backend-go/internal/ingest/store.go
package ingest

import (
	"context"
	"time"

	"github.com/bayidash/backend-go/internal/domain"
)

// Store is the write side the orchestrator loads into. Every write lands in
// a staging generation; readers only ever see the generation the pointer was
// last advanced to, so a failed run never leaves a torn snapshot behind.
type Store interface {
	// BeginRun allocates a new staging generation and its run record. The
	// generation doubles as the run ID handed back to the caller.
	BeginRun(ctx context.Context) (int64, error)

	// PurgeStale removes rows left behind by superseded or failed
	// generations.
	PurgeStale(ctx context.Context) error

	WriteDealers(ctx context.Context, gen int64, dealers []domain.Dealer) error
	WriteInvoices(ctx context.Context, gen int64, invoices []domain.Invoice) error
	WriteInvoiceLines(ctx context.Context, gen int64, lines []domain.InvoiceLine) error
	WriteCollections(ctx context.Context, gen int64, collections []domain.Collection) error
	WriteDebtLedger(ctx context.Context, gen int64, entries []domain.DebtLedger) error
	WriteStandReports(ctx context.Context, gen int64, reports []domain.StandReport) error
	WriteRollups(ctx context.Context, gen int64, rollups []domain.HierarchyRollup, totals domain.DistributorTotals) error
	WriteRouteStops(ctx context.Context, gen int64, stops []domain.RouteStop) error
	WriteTargets(ctx context.Context, gen int64, targets []domain.SalesTarget) error
	WriteLoyalty(ctx context.Context, gen int64, dealers []domain.LoyaltyDealer) error

	// Index refreshes lookup structures for the staged generation before it
	// is published.
	Index(ctx context.Context, gen int64) error

	// Publish atomically advances the current-generation pointer and
	// records the run as completed.
	Publish(ctx context.Context, gen int64, report Report) error

	// Fail records the run as failed; the staged generation is never
	// published and is purged by the next run's clearing stage.
	Fail(ctx context.Context, gen int64, cause error, report Report) error
}

// SheetStats counts accepted and skipped rows for one sheet.
type SheetStats struct {
	Loaded  int `json:"loaded"`
	Skipped int `json:"skipped"`
}

// Report summarizes one ingestion run.
type Report struct {
	Generation int64                 `json:"generation"`
	Warnings   []string              `json:"warnings"`
	Sheets     map[string]SheetStats `json:"sheets"`
	StartedAt  time.Time             `json:"started_at"`
}

// Loaded returns the total number of accepted rows across all sheets.
func (r Report) Loaded() int {
	n := 0
	for _, s := range r.Sheets {
		n += s.Loaded
	}
	return n
}

// Skipped returns the total number of predicate-rejected rows.
func (r Report) Skipped() int {
	n := 0
	for _, s := range r.Sheets {
		n += s.Skipped
	}
	return n
}

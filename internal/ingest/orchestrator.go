// backend-go/internal/ingest/orchestrator.go
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bayidash/backend-go/internal/workbook"
	"github.com/bayidash/backend-go/pkg/logger"
)

// Stage names a phase of an ingestion run. Stages advance strictly forward;
// StageFailed is reachable from any non-terminal stage.
type Stage string

const (
	StageIdle     Stage = "idle"
	StageClearing Stage = "clearing"
	StageLoading  Stage = "loading"
	StageIndexing Stage = "indexing"
	StageDone     Stage = "done"
	StageFailed   Stage = "failed"
)

// sheetDef binds a sheet name to its mapper and its layout bounds. Required
// sheets abort the run when missing or broken; optional sheets are logged
// and skipped.
type sheetDef struct {
	name     string
	required bool
	maxCol   int
	load     func(context.Context, *run, *workbook.Sheet) error
}

// sheetDefs is processed in order. The dealer master goes first: every other
// sheet hangs off dealer codes it establishes.
var sheetDefs = []sheetDef{
	{SheetDealers, true, dealerMaxCol, loadDealers},
	{SheetInvoices, true, invoiceMaxCol, loadInvoices},
	{SheetInvoiceLines, true, lineMaxCol, loadInvoiceLines},
	{SheetCollections, true, collectionMaxCol, loadCollections},
	{SheetDebt, true, debtMaxCol, loadDebtLedger},
	{SheetStands, true, standMaxCol, loadStandReports},
	{SheetRollups, true, rollupMaxCol, loadRollups},
	{SheetRoutes, false, routeMaxCol, loadRoutes},
	{SheetTargets, false, targetMaxCol, loadTargets},
	{SheetLoyalty, false, loyaltyMaxCol, loadLoyalty},
}

// Orchestrator drives full-workbook ingestion runs against a Store.
type Orchestrator struct {
	store Store
}

func NewOrchestrator(store Store) *Orchestrator {
	return &Orchestrator{store: store}
}

// run carries the per-run state threaded through the mappers.
type run struct {
	store Store
	gen   int64
	stage Stage
	log   zerolog.Logger

	report Report
}

func (rc *run) setStage(s Stage) {
	rc.stage = s
	rc.log.Info().Str("stage", string(s)).Msg("ingest stage")
}

func (rc *run) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	rc.report.Warnings = append(rc.report.Warnings, msg)
	rc.log.Warn().Msg(msg)
}

func (rc *run) loaded(sheet string) {
	s := rc.report.Sheets[sheet]
	s.Loaded++
	rc.report.Sheets[sheet] = s
}

func (rc *run) skip(sheet string) {
	s := rc.report.Sheets[sheet]
	s.Skipped++
	rc.report.Sheets[sheet] = s
}

// Run ingests the workbook at path into a fresh staging generation and
// publishes it on success. It returns the run ID (the generation) even when
// the run fails, so callers can poll the failure record.
func (o *Orchestrator) Run(ctx context.Context, path string) (int64, error) {
	wb, err := workbook.Open(path)
	if err != nil {
		return 0, err
	}
	defer wb.Close()
	return o.RunWorkbook(ctx, wb)
}

// Begin allocates the staging generation that doubles as the run ID.
// Callers that ingest in the background hand the ID out first and then
// drive Ingest with it.
func (o *Orchestrator) Begin(ctx context.Context) (int64, error) {
	gen, err := o.store.BeginRun(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin run: %w", err)
	}
	return gen, nil
}

// RunWorkbook ingests an already-open workbook.
func (o *Orchestrator) RunWorkbook(ctx context.Context, wb *workbook.Workbook) (int64, error) {
	gen, err := o.Begin(ctx)
	if err != nil {
		return 0, err
	}
	return gen, o.Ingest(ctx, gen, wb)
}

// Ingest loads the workbook into an already-allocated generation and
// publishes it on success.
func (o *Orchestrator) Ingest(ctx context.Context, gen int64, wb *workbook.Workbook) error {
	rc := &run{
		store: o.store,
		gen:   gen,
		stage: StageIdle,
		log:   logger.Log.With().Int64("generation", gen).Logger(),
		report: Report{
			Generation: gen,
			Sheets:     make(map[string]SheetStats),
			StartedAt:  time.Now().UTC(),
		},
	}

	if err := o.execute(ctx, rc, wb); err != nil {
		rc.setStage(StageFailed)
		if ferr := o.store.Fail(ctx, gen, err, rc.report); ferr != nil {
			rc.log.Error().Err(ferr).Msg("record run failure")
		}
		return err
	}
	rc.setStage(StageDone)
	rc.log.Info().
		Int("rows_loaded", rc.report.Loaded()).
		Int("rows_skipped", rc.report.Skipped()).
		Int("warnings", len(rc.report.Warnings)).
		Msg("ingest complete")
	return nil
}

func (o *Orchestrator) execute(ctx context.Context, rc *run, wb *workbook.Workbook) error {
	rc.setStage(StageClearing)
	if err := o.store.PurgeStale(ctx); err != nil {
		return fmt.Errorf("purge stale generations: %w", err)
	}

	rc.setStage(StageLoading)
	for _, def := range sheetDefs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.loadSheet(ctx, rc, wb, def); err != nil {
			if !def.required {
				rc.warnf("optional sheet %q skipped: %v", def.name, err)
				continue
			}
			return err
		}
	}

	rc.setStage(StageIndexing)
	if err := o.store.Index(ctx, rc.gen); err != nil {
		return fmt.Errorf("index generation %d: %w", rc.gen, err)
	}
	if err := o.store.Publish(ctx, rc.gen, rc.report); err != nil {
		return fmt.Errorf("publish generation %d: %w", rc.gen, err)
	}
	return nil
}

func (o *Orchestrator) loadSheet(ctx context.Context, rc *run, wb *workbook.Workbook, def sheetDef) error {
	if !wb.HasSheet(def.name) {
		return &SheetError{Sheet: def.name, Err: ErrSheetMissing}
	}
	sheet, err := wb.Sheet(def.name)
	if err != nil {
		return &SheetError{Sheet: def.name, Err: err}
	}
	// A sheet narrower than its column map means the export layout moved.
	// Better to abort than to map every drifted column to a default.
	if w := sheet.Width(); w > 0 && w <= def.maxCol {
		return &SheetError{
			Sheet: def.name,
			Err:   fmt.Errorf("%w: width %d, need > %d", ErrSchemaDrift, w, def.maxCol),
		}
	}

	start := time.Now()
	if err := def.load(ctx, rc, sheet); err != nil {
		return err
	}
	stats := rc.report.Sheets[def.name]
	rc.log.Info().
		Str("sheet", def.name).
		Int("loaded", stats.Loaded).
		Int("skipped", stats.Skipped).
		Dur("elapsed", time.Since(start)).
		Msg("sheet loaded")
	return nil
}

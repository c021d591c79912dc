package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bayidash/backend-go/internal/domain"
	"github.com/bayidash/backend-go/internal/ingest"
)

// insertChunk keeps multi-row named inserts well under the Postgres
// placeholder limit for the widest table.
const insertChunk = 500

// IngestRepository is the write side of ingestion: all rows land in a
// staging generation, the ingest_state pointer moves on Publish.
type IngestRepository struct {
	db *DB
}

func NewIngestRepository(db *DB) *IngestRepository {
	return &IngestRepository{db: db}
}

var _ ingest.Store = (*IngestRepository)(nil)

func (r *IngestRepository) BeginRun(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO ingest_runs (status) VALUES ($1) RETURNING id`,
		domain.RunRunning,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create ingest run: %w", err)
	}
	return id, nil
}

// entityTables are the generation-scoped tables purged between runs.
var entityTables = []string{
	"dealers", "dealer_monthly_sales", "invoices", "invoice_lines",
	"collections", "debt_ledger", "stand_reports", "hierarchy_rollups",
	"distributor_totals", "route_stops", "sales_targets", "loyalty_dealers",
}

func (r *IngestRepository) PurgeStale(ctx context.Context) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range entityTables {
			q := fmt.Sprintf(`DELETE FROM %s
				WHERE generation <> COALESCE((SELECT current_generation FROM ingest_state WHERE id = 1), 0)
				  AND generation NOT IN (SELECT id FROM ingest_runs WHERE status = $1)`, table)
			if _, err := tx.ExecContext(ctx, q, domain.RunRunning); err != nil {
				return fmt.Errorf("failed to purge %s: %w", table, err)
			}
		}
		return nil
	})
}

type dealerRow struct {
	Gen int64 `db:"generation"`
	domain.Dealer
}

func (r *IngestRepository) WriteDealers(ctx context.Context, gen int64, dealers []domain.Dealer) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows := make([]dealerRow, 0, insertChunk)
		flush := func() error {
			if len(rows) == 0 {
				return nil
			}
			_, err := tx.NamedExecContext(ctx, `INSERT INTO dealers (
				generation, code, code_ascii, name, name_ascii, dst, tte, dsm,
				type_code, class_panorama, class_by_sales, coverage_status,
				jti_stand, jti_stand_count, camel_stand, camel_stand_count,
				pmi_stand, pmi_stand_count, bat_stand, bat_stand_count,
				loyalty_plan, loyalty_paid,
				total_2024, avg_2024, total_2025, avg_2025, total_2026, avg_2026,
				growth_pct
			) VALUES (
				:generation, :code, :code_ascii, :name, :name_ascii, :dst, :tte, :dsm,
				:type_code, :class_panorama, :class_by_sales, :coverage_status,
				:jti_stand, :jti_stand_count, :camel_stand, :camel_stand_count,
				:pmi_stand, :pmi_stand_count, :bat_stand, :bat_stand_count,
				:loyalty_plan, :loyalty_paid,
				:total_2024, :avg_2024, :total_2025, :avg_2025, :total_2026, :avg_2026,
				:growth_pct
			)`, rows)
			rows = rows[:0]
			return err
		}
		for _, d := range dealers {
			rows = append(rows, dealerRow{Gen: gen, Dealer: d})
			if len(rows) == insertChunk {
				if err := flush(); err != nil {
					return fmt.Errorf("failed to insert dealers: %w", err)
				}
			}
		}
		if err := flush(); err != nil {
			return fmt.Errorf("failed to insert dealers: %w", err)
		}
		return r.writeMonthlySales(ctx, tx, gen, dealers)
	})
}

type monthlySaleRow struct {
	Gen int64 `db:"generation"`
	domain.MonthlySale
}

func (r *IngestRepository) writeMonthlySales(ctx context.Context, tx *sqlx.Tx, gen int64, dealers []domain.Dealer) error {
	rows := make([]monthlySaleRow, 0, insertChunk)
	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		_, err := tx.NamedExecContext(ctx, `INSERT INTO dealer_monthly_sales
			(generation, dealer_code, year, month, amount)
			VALUES (:generation, :dealer_code, :year, :month, :amount)`, rows)
		rows = rows[:0]
		return err
	}
	for _, d := range dealers {
		for _, ms := range d.MonthlySales {
			rows = append(rows, monthlySaleRow{Gen: gen, MonthlySale: ms})
			if len(rows) == insertChunk {
				if err := flush(); err != nil {
					return fmt.Errorf("failed to insert monthly sales: %w", err)
				}
			}
		}
	}
	if err := flush(); err != nil {
		return fmt.Errorf("failed to insert monthly sales: %w", err)
	}
	return nil
}

type invoiceRow struct {
	Gen int64 `db:"generation"`
	domain.Invoice
}

func (r *IngestRepository) WriteInvoices(ctx context.Context, gen int64, invoices []domain.Invoice) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for start := 0; start < len(invoices); start += insertChunk {
			end := start + insertChunk
			if end > len(invoices) {
				end = len(invoices)
			}
			rows := make([]invoiceRow, 0, end-start)
			for _, inv := range invoices[start:end] {
				rows = append(rows, invoiceRow{Gen: gen, Invoice: inv})
			}
			_, err := tx.NamedExecContext(ctx, `INSERT INTO invoices
				(generation, doc_no, dealer_code, issue_date, date_key, net_amount)
				VALUES (:generation, :doc_no, :dealer_code, :issue_date, :date_key, :net_amount)`, rows)
			if err != nil {
				return fmt.Errorf("failed to insert invoices: %w", err)
			}
		}
		return nil
	})
}

type invoiceLineRow struct {
	Gen int64 `db:"generation"`
	domain.InvoiceLine
}

func (r *IngestRepository) WriteInvoiceLines(ctx context.Context, gen int64, lines []domain.InvoiceLine) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for start := 0; start < len(lines); start += insertChunk {
			end := start + insertChunk
			if end > len(lines) {
				end = len(lines)
			}
			rows := make([]invoiceLineRow, 0, end-start)
			for _, ln := range lines[start:end] {
				rows = append(rows, invoiceLineRow{Gen: gen, InvoiceLine: ln})
			}
			_, err := tx.NamedExecContext(ctx, `INSERT INTO invoice_lines
				(generation, doc_no, product_name, quantity, unit_price, line_amount)
				VALUES (:generation, :doc_no, :product_name, :quantity, :unit_price, :line_amount)`, rows)
			if err != nil {
				return fmt.Errorf("failed to insert invoice lines: %w", err)
			}
		}
		return nil
	})
}

type collectionRow struct {
	Gen int64 `db:"generation"`
	domain.Collection
}

func (r *IngestRepository) WriteCollections(ctx context.Context, gen int64, collections []domain.Collection) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for start := 0; start < len(collections); start += insertChunk {
			end := start + insertChunk
			if end > len(collections) {
				end = len(collections)
			}
			rows := make([]collectionRow, 0, end-start)
			for _, c := range collections[start:end] {
				rows = append(rows, collectionRow{Gen: gen, Collection: c})
			}
			_, err := tx.NamedExecContext(ctx, `INSERT INTO collections
				(generation, dealer_code, kind, paid_at, date_key, amount)
				VALUES (:generation, :dealer_code, :kind, :paid_at, :date_key, :amount)`, rows)
			if err != nil {
				return fmt.Errorf("failed to insert collections: %w", err)
			}
		}
		return nil
	})
}

func (r *IngestRepository) WriteDebtLedger(ctx context.Context, gen int64, entries []domain.DebtLedger) error {
	// Aging is a Postgres array, which named bulk inserts cannot bind;
	// rows go one at a time inside the transaction.
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, e := range entries {
			_, err := tx.ExecContext(ctx, `INSERT INTO debt_ledger
				(generation, dealer_code, dealer_name, type_code, channel,
				 balance, debt_label, aging, aging_14_plus)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				gen, e.DealerCode, e.DealerName, e.TypeCode, e.Channel,
				e.Balance, e.DebtLabel, pq.Array(e.Aging), e.Aging14)
			if err != nil {
				return fmt.Errorf("failed to insert debt ledger row for %s: %w", e.DealerCode, err)
			}
		}
		return nil
	})
}

func (r *IngestRepository) WriteStandReports(ctx context.Context, gen int64, reports []domain.StandReport) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, rep := range reports {
			_, err := tx.ExecContext(ctx, `INSERT INTO stand_reports
				(generation, dealer_code, dealer_name, dst, tte, dsm,
				 coverage_status, visit_days, coverage_label)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				gen, rep.DealerCode, rep.DealerName, rep.DST, rep.TTE, rep.DSM,
				rep.CoverageStatus, pq.Array(rep.VisitDays), rep.CoverageLabel)
			if err != nil {
				return fmt.Errorf("failed to insert stand report for %s: %w", rep.DealerCode, err)
			}
		}
		return nil
	})
}

type rollupRow struct {
	Gen int64 `db:"generation"`
	domain.HierarchyRollup
}

func (r *IngestRepository) WriteRollups(ctx context.Context, gen int64, rollups []domain.HierarchyRollup, totals domain.DistributorTotals) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if len(rollups) > 0 {
			rows := make([]rollupRow, 0, len(rollups))
			for _, ru := range rollups {
				rows = append(rows, rollupRow{Gen: gen, HierarchyRollup: ru})
			}
			_, err := tx.NamedExecContext(ctx, `INSERT INTO hierarchy_rollups
				(generation, kind, ref_id, ref_name, team, supervisor,
				 daily_qty, monthly_qty, target_qty, achievement_pct)
				VALUES (:generation, :kind, :ref_id, :ref_name, :team, :supervisor,
				 :daily_qty, :monthly_qty, :target_qty, :achievement_pct)`, rows)
			if err != nil {
				return fmt.Errorf("failed to insert hierarchy rollups: %w", err)
			}
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO distributor_totals
			(generation, daily_qty, monthly_qty, target_qty, achievement_pct)
			VALUES ($1, $2, $3, $4, $5)`,
			gen, totals.DailyQty, totals.MonthlyQty, totals.TargetQty, totals.AchievementPct)
		if err != nil {
			return fmt.Errorf("failed to insert distributor totals: %w", err)
		}
		return nil
	})
}

type routeStopRow struct {
	Gen int64 `db:"generation"`
	domain.RouteStop
}

func (r *IngestRepository) WriteRouteStops(ctx context.Context, gen int64, stops []domain.RouteStop) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for start := 0; start < len(stops); start += insertChunk {
			end := start + insertChunk
			if end > len(stops) {
				end = len(stops)
			}
			rows := make([]routeStopRow, 0, end-start)
			for _, s := range stops[start:end] {
				rows = append(rows, routeStopRow{Gen: gen, RouteStop: s})
			}
			_, err := tx.NamedExecContext(ctx, `INSERT INTO route_stops
				(generation, rep, weekday, ordinal, dealer_code, dealer_name, status, grp)
				VALUES (:generation, :rep, :weekday, :ordinal, :dealer_code, :dealer_name, :status, :grp)`, rows)
			if err != nil {
				return fmt.Errorf("failed to insert route stops: %w", err)
			}
		}
		return nil
	})
}

type targetRow struct {
	Gen int64 `db:"generation"`
	domain.SalesTarget
}

func (r *IngestRepository) WriteTargets(ctx context.Context, gen int64, targets []domain.SalesTarget) error {
	if len(targets) == 0 {
		return nil
	}
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows := make([]targetRow, 0, len(targets))
		for _, t := range targets {
			rows = append(rows, targetRow{Gen: gen, SalesTarget: t})
		}
		_, err := tx.NamedExecContext(ctx, `INSERT INTO sales_targets
			(generation, dealer_code, dealer_name, target_qty, sold_qty, achievement_pct)
			VALUES (:generation, :dealer_code, :dealer_name, :target_qty, :sold_qty, :achievement_pct)`, rows)
		if err != nil {
			return fmt.Errorf("failed to insert sales targets: %w", err)
		}
		return nil
	})
}

type loyaltyRow struct {
	Gen int64 `db:"generation"`
	domain.LoyaltyDealer
}

func (r *IngestRepository) WriteLoyalty(ctx context.Context, gen int64, dealers []domain.LoyaltyDealer) error {
	if len(dealers) == 0 {
		return nil
	}
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows := make([]loyaltyRow, 0, len(dealers))
		for _, d := range dealers {
			rows = append(rows, loyaltyRow{Gen: gen, LoyaltyDealer: d})
		}
		_, err := tx.NamedExecContext(ctx, `INSERT INTO loyalty_dealers
			(generation, dealer_code, dealer_name, plan_amount, paid_amount)
			VALUES (:generation, :dealer_code, :dealer_name, :plan_amount, :paid_amount)`, rows)
		if err != nil {
			return fmt.Errorf("failed to insert loyalty dealers: %w", err)
		}
		return nil
	})
}

// Index refreshes planner statistics for the staged generation before it
// goes live.
func (r *IngestRepository) Index(ctx context.Context, gen int64) error {
	for _, table := range []string{"dealers", "invoices", "invoice_lines", "collections"} {
		if _, err := r.db.ExecContext(ctx, "ANALYZE "+table); err != nil {
			return fmt.Errorf("failed to analyze %s: %w", table, err)
		}
	}
	return nil
}

func (r *IngestRepository) Publish(ctx context.Context, gen int64, report ingest.Report) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO ingest_state (id, current_generation, published_at)
			VALUES (1, $1, NOW())
			ON CONFLICT (id) DO UPDATE
			SET current_generation = EXCLUDED.current_generation,
			    published_at       = EXCLUDED.published_at`, gen)
		if err != nil {
			return fmt.Errorf("failed to advance generation pointer: %w", err)
		}
		_, err = tx.ExecContext(ctx, `UPDATE ingest_runs
			SET status = $1, warnings = $2, rows_loaded = $3, rows_skipped = $4, completed_at = NOW()
			WHERE id = $5`,
			domain.RunCompleted, pq.Array(report.Warnings), report.Loaded(), report.Skipped(), gen)
		if err != nil {
			return fmt.Errorf("failed to complete ingest run: %w", err)
		}
		return nil
	})
}

func (r *IngestRepository) Fail(ctx context.Context, gen int64, cause error, report ingest.Report) error {
	_, err := r.db.ExecContext(ctx, `UPDATE ingest_runs
		SET status = $1, error_message = $2, warnings = $3,
		    rows_loaded = $4, rows_skipped = $5, completed_at = NOW()
		WHERE id = $6`,
		domain.RunFailed, cause.Error(), pq.Array(report.Warnings),
		report.Loaded(), report.Skipped(), gen)
	if err != nil {
		return fmt.Errorf("failed to record ingest failure: %w", err)
	}
	return nil
}

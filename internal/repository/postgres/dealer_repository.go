package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/bayidash/backend-go/internal/domain"
	"github.com/bayidash/backend-go/internal/workbook"
)

// curGen scopes every read to the published generation.
const curGen = `(SELECT current_generation FROM ingest_state WHERE id = 1)`

// statusOrder sorts coverage statuses active first, cancelled last.
const statusOrder = `CASE coverage_status
	WHEN 'Aktif' THEN 0
	WHEN 'Pasif' THEN 1
	WHEN 'İptal' THEN 2
	ELSE 3 END`

// DealerRepository is the read side over the published generation.
type DealerRepository struct {
	db *DB
}

func NewDealerRepository(db *DB) *DealerRepository {
	return &DealerRepository{db: db}
}

func (r *DealerRepository) Run(ctx context.Context, id int64) (*domain.IngestRun, error) {
	var run domain.IngestRun
	var warnings pq.StringArray
	err := r.db.QueryRowxContext(ctx, `SELECT id, status, error_message, warnings,
			rows_loaded, rows_skipped, started_at, completed_at
		FROM ingest_runs WHERE id = $1`, id).Scan(
		&run.ID, &run.Status, &run.Error, &warnings,
		&run.RowsLoaded, &run.RowsSkipped, &run.StartedAt, &run.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingest run: %w", err)
	}
	run.Warnings = warnings
	return &run, nil
}

// DashboardStats counts coverage from the stand reports, not the dealer
// master: a dealer is only active on the dashboard once the coverage sheet
// says so.
func (r *DealerRepository) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	err := r.db.QueryRowxContext(ctx, `SELECT
			COUNT(*) FILTER (WHERE coverage_status = $1),
			COUNT(*) FILTER (WHERE coverage_status = $2)
		FROM stand_reports WHERE generation = `+curGen,
		domain.CoverageActive, domain.CoveragePassive,
	).Scan(&stats.ActiveDealers, &stats.PassiveDealers)
	if err != nil {
		return stats, fmt.Errorf("failed to count coverage: %w", err)
	}
	return stats, nil
}

// LastPublishedAt returns when the current generation went live, or nil
// before the first publish.
func (r *DealerRepository) LastPublishedAt(ctx context.Context) (*time.Time, error) {
	var at sql.NullTime
	err := r.db.QueryRowxContext(ctx,
		`SELECT published_at FROM ingest_state WHERE id = 1`).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get publish time: %w", err)
	}
	if !at.Valid {
		return nil, nil
	}
	return &at.Time, nil
}

// SearchDealers matches the folded query against the folded code and name
// columns, active dealers first.
func (r *DealerRepository) SearchDealers(ctx context.Context, query string, limit int) ([]domain.DealerSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	pattern := "%" + workbook.Fold(query) + "%"
	out := []domain.DealerSummary{}
	err := r.db.SelectContext(ctx, &out, `SELECT code, name, coverage_status, type_code, class_panorama
		FROM dealers
		WHERE generation = `+curGen+`
		  AND (code_ascii LIKE $1 OR name_ascii LIKE $1)
		ORDER BY `+statusOrder+`, name
		LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search dealers: %w", err)
	}
	return out, nil
}

func (r *DealerRepository) DealerByCode(ctx context.Context, code string) (*domain.Dealer, error) {
	var d domain.Dealer
	err := r.db.GetContext(ctx, &d, `SELECT code, code_ascii, name, name_ascii,
			dst, tte, dsm, type_code, class_panorama, class_by_sales, coverage_status,
			jti_stand, jti_stand_count, camel_stand, camel_stand_count,
			pmi_stand, pmi_stand_count, bat_stand, bat_stand_count,
			loyalty_plan, loyalty_paid,
			total_2024, avg_2024, total_2025, avg_2025, total_2026, avg_2026,
			growth_pct
		FROM dealers WHERE generation = `+curGen+` AND code = $1`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dealer: %w", err)
	}
	err = r.db.SelectContext(ctx, &d.MonthlySales, `SELECT dealer_code, year, month, amount
		FROM dealer_monthly_sales
		WHERE generation = `+curGen+` AND dealer_code = $1
		ORDER BY year, month`, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly sales: %w", err)
	}
	return &d, nil
}

func (r *DealerRepository) InvoicesByDealer(ctx context.Context, code string) ([]domain.Invoice, error) {
	out := []domain.Invoice{}
	err := r.db.SelectContext(ctx, &out, `SELECT doc_no, dealer_code, issue_date, date_key, net_amount
		FROM invoices
		WHERE generation = `+curGen+` AND dealer_code = $1
		ORDER BY date_key DESC, doc_no`, code)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return out, nil
}

func (r *DealerRepository) InvoiceDetail(ctx context.Context, docNo string) (*domain.InvoiceDetail, error) {
	lines := []domain.InvoiceLine{}
	err := r.db.SelectContext(ctx, &lines, `SELECT doc_no, product_name, quantity, unit_price, line_amount
		FROM invoice_lines
		WHERE generation = `+curGen+` AND doc_no = $1`, docNo)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, domain.ErrNotFound
	}
	detail := &domain.InvoiceDetail{DocNo: docNo, Lines: lines}
	for _, ln := range lines {
		detail.TotalQuantity += ln.Quantity
	}
	return detail, nil
}

func (r *DealerRepository) CollectionsByDealer(ctx context.Context, code string) ([]domain.Collection, error) {
	out := []domain.Collection{}
	err := r.db.SelectContext(ctx, &out, `SELECT dealer_code, kind, paid_at, date_key, amount
		FROM collections
		WHERE generation = `+curGen+` AND dealer_code = $1
		ORDER BY date_key DESC`, code)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return out, nil
}

func (r *DealerRepository) DebtByDealer(ctx context.Context, code string) (*domain.DebtLedger, error) {
	var d domain.DebtLedger
	var aging pq.Float64Array
	err := r.db.QueryRowxContext(ctx, `SELECT dealer_code, dealer_name, type_code, channel,
			balance, debt_label, aging, aging_14_plus
		FROM debt_ledger
		WHERE generation = `+curGen+` AND dealer_code = $1`, code).Scan(
		&d.DealerCode, &d.DealerName, &d.TypeCode, &d.Channel,
		&d.Balance, &d.DebtLabel, &aging, &d.Aging14)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt ledger: %w", err)
	}
	d.Aging = aging
	return &d, nil
}

func (r *DealerRepository) StandReportByDealer(ctx context.Context, code string) (*domain.StandReport, error) {
	var rep domain.StandReport
	var days pq.StringArray
	err := r.db.QueryRowxContext(ctx, `SELECT dealer_code, dealer_name, dst, tte, dsm,
			coverage_status, visit_days, coverage_label
		FROM stand_reports
		WHERE generation = `+curGen+` AND dealer_code = $1`, code).Scan(
		&rep.DealerCode, &rep.DealerName, &rep.DST, &rep.TTE, &rep.DSM,
		&rep.CoverageStatus, &days, &rep.CoverageLabel)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stand report: %w", err)
	}
	rep.VisitDays = days
	return &rep, nil
}

// RoutesByDealer returns every rep/weekday visit containing the dealer,
// each with its full ordered stop list.
func (r *DealerRepository) RoutesByDealer(ctx context.Context, code string) ([]domain.RouteVisit, error) {
	stops := []domain.RouteStop{}
	err := r.db.SelectContext(ctx, &stops, `SELECT rep, weekday, ordinal, dealer_code, dealer_name, status, grp
		FROM route_stops
		WHERE generation = `+curGen+`
		  AND (rep, weekday) IN (
			SELECT rep, weekday FROM route_stops
			WHERE generation = `+curGen+` AND dealer_code = $1)
		ORDER BY rep, weekday, ordinal`, code)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	visits := []domain.RouteVisit{}
	for _, s := range stops {
		n := len(visits)
		if n == 0 || visits[n-1].Rep != s.Rep || visits[n-1].Weekday != s.Weekday {
			visits = append(visits, domain.RouteVisit{Rep: s.Rep, Weekday: s.Weekday})
			n++
		}
		visits[n-1].Stops = append(visits[n-1].Stops, s)
	}
	return visits, nil
}

func (r *DealerRepository) Rollups(ctx context.Context) ([]domain.HierarchyRollup, domain.DistributorTotals, error) {
	rollups := []domain.HierarchyRollup{}
	err := r.db.SelectContext(ctx, &rollups, `SELECT kind, ref_id, ref_name, team, supervisor,
			daily_qty, monthly_qty, target_qty, achievement_pct
		FROM hierarchy_rollups
		WHERE generation = `+curGen+`
		ORDER BY kind, ref_name`)
	if err != nil {
		return nil, domain.DistributorTotals{}, fmt.Errorf("failed to list rollups: %w", err)
	}
	var totals domain.DistributorTotals
	err = r.db.GetContext(ctx, &totals, `SELECT daily_qty, monthly_qty, target_qty, achievement_pct
		FROM distributor_totals WHERE generation = `+curGen)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, totals, fmt.Errorf("failed to get distributor totals: %w", err)
	}
	return rollups, totals, nil
}

func (r *DealerRepository) Targets(ctx context.Context) ([]domain.SalesTarget, error) {
	out := []domain.SalesTarget{}
	err := r.db.SelectContext(ctx, &out, `SELECT dealer_code, dealer_name, target_qty, sold_qty, achievement_pct
		FROM sales_targets
		WHERE generation = `+curGen+`
		ORDER BY dealer_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales targets: %w", err)
	}
	return out, nil
}

func (r *DealerRepository) Loyalty(ctx context.Context) ([]domain.LoyaltyDealer, error) {
	out := []domain.LoyaltyDealer{}
	err := r.db.SelectContext(ctx, &out, `SELECT dealer_code, dealer_name, plan_amount, paid_amount
		FROM loyalty_dealers
		WHERE generation = `+curGen+`
		ORDER BY dealer_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list loyalty dealers: %w", err)
	}
	return out, nil
}

package postgres

import (
	"context"
	"fmt"
)

// Every entity table carries a generation column. Readers only ever query
// the generation recorded in ingest_state; writers stage into a fresh
// generation and swap the pointer on publish.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ingest_runs (
		id            BIGSERIAL PRIMARY KEY,
		status        TEXT NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		warnings      TEXT[] NOT NULL DEFAULT '{}',
		rows_loaded   INT NOT NULL DEFAULT 0,
		rows_skipped  INT NOT NULL DEFAULT 0,
		started_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at  TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS ingest_state (
		id                 INT PRIMARY KEY CHECK (id = 1),
		current_generation BIGINT NOT NULL,
		published_at       TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS dealers (
		generation       BIGINT NOT NULL,
		code             TEXT NOT NULL,
		code_ascii       TEXT NOT NULL,
		name             TEXT NOT NULL,
		name_ascii       TEXT NOT NULL,
		dst              TEXT NOT NULL DEFAULT '',
		tte              TEXT NOT NULL DEFAULT '',
		dsm              TEXT NOT NULL DEFAULT '',
		type_code        TEXT NOT NULL DEFAULT '',
		class_panorama   TEXT NOT NULL DEFAULT '',
		class_by_sales   TEXT NOT NULL DEFAULT '',
		coverage_status  TEXT NOT NULL DEFAULT '',
		jti_stand        TEXT NOT NULL DEFAULT '',
		jti_stand_count  DOUBLE PRECISION NOT NULL DEFAULT 0,
		camel_stand      TEXT NOT NULL DEFAULT '',
		camel_stand_count DOUBLE PRECISION NOT NULL DEFAULT 0,
		pmi_stand        TEXT NOT NULL DEFAULT '',
		pmi_stand_count  DOUBLE PRECISION NOT NULL DEFAULT 0,
		bat_stand        TEXT NOT NULL DEFAULT '',
		bat_stand_count  DOUBLE PRECISION NOT NULL DEFAULT 0,
		loyalty_plan     DOUBLE PRECISION NOT NULL DEFAULT 0,
		loyalty_paid     DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_2024       DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_2024         DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_2025       DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_2025         DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_2026       DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_2026         DOUBLE PRECISION NOT NULL DEFAULT 0,
		growth_pct       DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (generation, code)
	)`,
	`CREATE TABLE IF NOT EXISTS dealer_monthly_sales (
		generation  BIGINT NOT NULL,
		dealer_code TEXT NOT NULL,
		year        INT NOT NULL,
		month       INT NOT NULL,
		amount      DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (generation, dealer_code, year, month)
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		generation  BIGINT NOT NULL,
		doc_no      TEXT NOT NULL,
		dealer_code TEXT NOT NULL,
		issue_date  TEXT NOT NULL DEFAULT '',
		date_key    INT NOT NULL DEFAULT 0,
		net_amount  DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_dealer ON invoices (generation, dealer_code, date_key DESC)`,
	`CREATE TABLE IF NOT EXISTS invoice_lines (
		generation   BIGINT NOT NULL,
		doc_no       TEXT NOT NULL,
		product_name TEXT NOT NULL DEFAULT '',
		quantity     DOUBLE PRECISION NOT NULL DEFAULT 0,
		unit_price   DOUBLE PRECISION NOT NULL DEFAULT 0,
		line_amount  DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoice_lines_doc ON invoice_lines (generation, doc_no)`,
	`CREATE TABLE IF NOT EXISTS collections (
		generation  BIGINT NOT NULL,
		dealer_code TEXT NOT NULL,
		kind        TEXT NOT NULL DEFAULT '',
		paid_at     TEXT NOT NULL DEFAULT '',
		date_key    INT NOT NULL DEFAULT 0,
		amount      DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_collections_dealer ON collections (generation, dealer_code, date_key DESC)`,
	`CREATE TABLE IF NOT EXISTS debt_ledger (
		generation    BIGINT NOT NULL,
		dealer_code   TEXT NOT NULL,
		dealer_name   TEXT NOT NULL DEFAULT '',
		type_code     TEXT NOT NULL DEFAULT '',
		channel       TEXT NOT NULL DEFAULT '',
		balance       DOUBLE PRECISION NOT NULL DEFAULT 0,
		debt_label    TEXT NOT NULL DEFAULT '',
		aging         DOUBLE PRECISION[] NOT NULL DEFAULT '{}',
		aging_14_plus DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (generation, dealer_code)
	)`,
	`CREATE TABLE IF NOT EXISTS stand_reports (
		generation      BIGINT NOT NULL,
		dealer_code     TEXT NOT NULL,
		dealer_name     TEXT NOT NULL DEFAULT '',
		dst             TEXT NOT NULL DEFAULT '',
		tte             TEXT NOT NULL DEFAULT '',
		dsm             TEXT NOT NULL DEFAULT '',
		coverage_status TEXT NOT NULL DEFAULT '',
		visit_days      TEXT[] NOT NULL DEFAULT '{}',
		coverage_label  TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (generation, dealer_code)
	)`,
	`CREATE TABLE IF NOT EXISTS hierarchy_rollups (
		generation      BIGINT NOT NULL,
		kind            TEXT NOT NULL,
		ref_id          TEXT NOT NULL DEFAULT '',
		ref_name        TEXT NOT NULL DEFAULT '',
		team            TEXT NOT NULL DEFAULT '',
		supervisor      TEXT NOT NULL DEFAULT '',
		daily_qty       DOUBLE PRECISION NOT NULL DEFAULT 0,
		monthly_qty     DOUBLE PRECISION NOT NULL DEFAULT 0,
		target_qty      DOUBLE PRECISION NOT NULL DEFAULT 0,
		achievement_pct DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS distributor_totals (
		generation      BIGINT PRIMARY KEY,
		daily_qty       DOUBLE PRECISION NOT NULL DEFAULT 0,
		monthly_qty     DOUBLE PRECISION NOT NULL DEFAULT 0,
		target_qty      DOUBLE PRECISION NOT NULL DEFAULT 0,
		achievement_pct DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS route_stops (
		generation  BIGINT NOT NULL,
		rep         TEXT NOT NULL,
		weekday     TEXT NOT NULL,
		ordinal     INT NOT NULL DEFAULT 0,
		dealer_code TEXT NOT NULL DEFAULT '',
		dealer_name TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT '',
		grp         TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_route_stops_dealer ON route_stops (generation, dealer_code)`,
	`CREATE TABLE IF NOT EXISTS sales_targets (
		generation      BIGINT NOT NULL,
		dealer_code     TEXT NOT NULL,
		dealer_name     TEXT NOT NULL DEFAULT '',
		target_qty      DOUBLE PRECISION NOT NULL DEFAULT 0,
		sold_qty        DOUBLE PRECISION NOT NULL DEFAULT 0,
		achievement_pct DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (generation, dealer_code)
	)`,
	`CREATE TABLE IF NOT EXISTS loyalty_dealers (
		generation  BIGINT NOT NULL,
		dealer_code TEXT NOT NULL,
		dealer_name TEXT NOT NULL DEFAULT '',
		plan_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		paid_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (generation, dealer_code)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dealers_search ON dealers (generation, coverage_status, name)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

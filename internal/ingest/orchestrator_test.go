// backend-go/internal/ingest/orchestrator_test.go
package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/bayidash/backend-go/internal/domain"
	"github.com/bayidash/backend-go/internal/ingest"
	"github.com/bayidash/backend-go/internal/repository/memory"
	"github.com/bayidash/backend-go/internal/workbook"
)

// Widths one past each sheet's highest mapped column, so the dimension
// self-check passes.
const (
	widthDealers     = 99
	widthInvoices    = 14
	widthLines       = 9
	widthCollections = 9
	widthDebt        = 26
	widthStands      = 22
	widthRollups     = 8
	widthRoutes      = 7
	widthTargets     = 4
	widthLoyalty     = 4
)

// cells builds a row of the given width with values at the given column
// indices. The last cell is always set so the sheet dimension covers the
// full width.
func cells(width int, vals map[int]interface{}) []interface{} {
	row := make([]interface{}, width)
	for i := range row {
		row[i] = ""
	}
	for col, v := range vals {
		row[col] = v
	}
	if row[width-1] == "" {
		row[width-1] = " "
	}
	return row
}

func headerRow(width int) []interface{} {
	return cells(width, map[int]interface{}{0: "baslik"})
}

// fixtureSheets returns a minimal but complete workbook layout: every sheet
// present, one or two data rows each.
func fixtureSheets() map[string][][]interface{} {
	dealerRow := func(code, name, coverage string, total2024, total2025 float64) []interface{} {
		return cells(widthDealers, map[int]interface{}{
			0: code, 1: name, 2: "DST1", 3: "TTE1", 4: "DSM1",
			5: "01 BAKKAL", 6: "A", 7: "B", 9: coverage,
			10: "VAR", 11: 1, 18: 250, 19: 100,
			33: 10, 34: 20, // Jan, Feb 2025
			45: total2025, 48: total2025 / 12,
			71: 5, 83: total2024, 84: total2024 / 12,
			85: 3, 97: 3, 98: 0.25,
		})
	}
	rollups := make([][]interface{}, 51)
	rollups[0] = headerRow(widthRollups)
	rollups[1] = cells(widthRollups, map[int]interface{}{1: "TOPLAM", 4: 120, 5: 2400, 6: 3000, 7: 80})
	rollups[2] = headerRow(widthRollups)
	rollups[3] = cells(widthRollups, map[int]interface{}{0: "R1", 1: "Ali Demir", 2: "Ekip 1", 3: "Veli Kaya", 4: 40, 5: 800, 6: 1000, 7: 80})
	rollups[4] = cells(widthRollups, map[int]interface{}{0: "R2", 1: "Ayşe Çelik", 2: "Ekip 2", 3: "Veli Kaya", 4: 80, 5: 1600, 6: 2000, 7: 80})
	for i := 5; i < 45; i++ {
		rollups[i] = cells(widthRollups, nil)
	}
	rollups[45] = cells(widthRollups, map[int]interface{}{1: "Ekip 1", 4: 40, 5: 800, 6: 1000, 7: 80})
	rollups[46] = cells(widthRollups, map[int]interface{}{1: "Ekip 2", 4: 80, 5: 1600, 6: 2000, 7: 80})
	rollups[47] = cells(widthRollups, map[int]interface{}{1: "Ekip 3", 4: 0, 5: 0, 6: 0, 7: 0})
	rollups[48] = cells(widthRollups, nil)
	rollups[49] = cells(widthRollups, map[int]interface{}{1: "Veli Kaya", 4: 120, 5: 2400, 6: 3000, 7: 80})
	rollups[50] = cells(widthRollups, map[int]interface{}{1: "Zeynep Ak", 4: 0, 5: 0, 6: 0, 7: 0})

	return map[string][][]interface{}{
		ingest.SheetDealers: {
			headerRow(widthDealers),
			headerRow(widthDealers),
			dealerRow("500.0", "ÇAĞRI BÜFE", domain.CoverageActive, 1000, 1500),
			dealerRow("501", "PASİF MARKET", domain.CoveragePassive, 800, 400),
			cells(widthDealers, nil), // no code, predicate-rejected
		},
		ingest.SheetInvoices: {
			headerRow(widthInvoices),
			cells(widthInvoices, map[int]interface{}{0: "500.0", 3: 45292, 5: "F-001", 13: 350.5}),
			cells(widthInvoices, map[int]interface{}{0: "500.0", 3: "15/02/2024", 5: "F-002", 13: 120}),
		},
		ingest.SheetInvoiceLines: {
			headerRow(widthLines),
			cells(widthLines, map[int]interface{}{0: "F-001", 6: "WINSTON KS", 7: 10, 8: 35.05}),
			cells(widthLines, map[int]interface{}{0: "F-001", 6: "CAMEL YELLOW", 7: 5, 8: 40}),
		},
		ingest.SheetCollections: {
			headerRow(widthCollections),
			cells(widthCollections, map[int]interface{}{1: "Nakit", 2: "500", 5: 45300, 8: 200}),
		},
		ingest.SheetDebt: {
			headerRow(widthDebt), headerRow(widthDebt), headerRow(widthDebt),
			headerRow(widthDebt), headerRow(widthDebt), headerRow(widthDebt),
			headerRow(widthDebt),
			cells(widthDebt, map[int]interface{}{
				0: "500", 1: "ÇAĞRI BÜFE", 2: "08 ASKERİ", 10: 12345.64,
				11: 100, 12: 200, 25: 50,
			}),
		},
		ingest.SheetStands: {
			headerRow(widthStands),
			cells(widthStands, map[int]interface{}{
				2: "DST1", 3: "TTE1", 4: "DSM1", 5: "500", 6: "ÇAĞRI BÜFE",
				12: domain.CoverageActive, 14: 1, 17: 1, 21: "Kapsamda",
			}),
		},
		ingest.SheetRollups: rollups,
		ingest.SheetRoutes: {
			headerRow(widthRoutes),
			cells(widthRoutes, map[int]interface{}{0: "R1", 1: "Pazartesi", 2: 1, 3: "500", 4: "ÇAĞRI BÜFE", 5: domain.CoverageActive, 6: "G1"}),
			cells(widthRoutes, map[int]interface{}{0: "R1", 1: "Pazartesi", 2: 2, 3: "501", 4: "PASİF MARKET", 5: domain.CoveragePassive, 6: "G1"}),
		},
		ingest.SheetTargets: {
			headerRow(widthTargets),
			cells(widthTargets, map[int]interface{}{0: "500", 1: "ÇAĞRI BÜFE", 2: 100, 3: 80}),
		},
		ingest.SheetLoyalty: {
			headerRow(widthLoyalty),
			cells(widthLoyalty, map[int]interface{}{0: "500", 1: "ÇAĞRI BÜFE", 2: 250, 3: 100}),
		},
	}
}

func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) *workbook.Workbook {
	t.Helper()
	f := excelize.NewFile()
	for name, rows := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("new sheet %q: %v", name, err)
		}
		width := 0
		for i, row := range rows {
			cell := fmt.Sprintf("A%d", i+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("set row %d of %q: %v", i+1, name, err)
			}
			if len(row) > width {
				width = len(row)
			}
		}
		lastCol, err := excelize.ColumnNumberToName(width)
		if err != nil {
			t.Fatalf("column name for width %d: %v", width, err)
		}
		dim := fmt.Sprintf("A1:%s%d", lastCol, len(rows))
		if err := f.SetSheetDimension(name, dim); err != nil {
			t.Fatalf("set dimension of %q: %v", name, err)
		}
	}
	wb := workbook.New(f)
	t.Cleanup(func() { wb.Close() })
	return wb
}

func mustRun(t *testing.T, store *memory.Store, sheets map[string][][]interface{}) int64 {
	t.Helper()
	o := ingest.NewOrchestrator(store)
	id, err := o.RunWorkbook(context.Background(), buildWorkbook(t, sheets))
	if err != nil {
		t.Fatalf("RunWorkbook: %v", err)
	}
	return id
}

func TestRunPublishesWorkbook(t *testing.T) {
	store := memory.NewStore()
	id := mustRun(t, store, fixtureSheets())
	ctx := context.Background()

	run, err := store.Run(ctx, id)
	if err != nil {
		t.Fatalf("Run(%d): %v", id, err)
	}
	if run.Status != domain.RunCompleted {
		t.Fatalf("run status = %q, want %q", run.Status, domain.RunCompleted)
	}
	if run.CompletedAt == nil {
		t.Error("run has no completion time")
	}

	d, err := store.DealerByCode(ctx, "500")
	if err != nil {
		t.Fatalf("DealerByCode(500): %v", err)
	}
	if d.Name != "ÇAĞRI BÜFE" {
		t.Errorf("dealer name = %q", d.Name)
	}
	if d.NameASCII != "cagri bufe" {
		t.Errorf("folded name = %q, want %q", d.NameASCII, "cagri bufe")
	}
	if d.GrowthPct != 50 {
		t.Errorf("growth = %v, want 50", d.GrowthPct)
	}
	if len(d.MonthlySales) != 36 {
		t.Errorf("monthly sales rows = %d, want 36", len(d.MonthlySales))
	}

	stats, err := store.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if stats.ActiveDealers != 1 || stats.PassiveDealers != 0 {
		t.Errorf("stats = %+v, want 1 active from the coverage sheet", stats)
	}

	publishedAt, err := store.LastPublishedAt(ctx)
	if err != nil {
		t.Fatalf("LastPublishedAt: %v", err)
	}
	if publishedAt == nil {
		t.Error("publish time not recorded")
	}

	invoices, err := store.InvoicesByDealer(ctx, "500")
	if err != nil {
		t.Fatalf("InvoicesByDealer: %v", err)
	}
	if len(invoices) != 2 {
		t.Fatalf("invoices = %d, want 2", len(invoices))
	}
	// F-002 (15/02/2024) is newer than F-001 (serial 45292 = 01/01/2024).
	if invoices[0].DocNo != "F-002" || invoices[1].DocNo != "F-001" {
		t.Errorf("invoice order = %s, %s", invoices[0].DocNo, invoices[1].DocNo)
	}
	if invoices[1].IssueDate != "01/01/2024" {
		t.Errorf("serial date rendered %q, want 01/01/2024", invoices[1].IssueDate)
	}

	detail, err := store.InvoiceDetail(ctx, "F-001")
	if err != nil {
		t.Fatalf("InvoiceDetail: %v", err)
	}
	if detail.TotalQuantity != 15 {
		t.Errorf("total quantity = %v, want 15", detail.TotalQuantity)
	}

	debt, err := store.DebtByDealer(ctx, "500")
	if err != nil {
		t.Fatalf("DebtByDealer: %v", err)
	}
	if debt.Channel != domain.ChannelMilitary {
		t.Errorf("channel = %q, want %q", debt.Channel, domain.ChannelMilitary)
	}
	if debt.DebtLabel != "12,345.6 TL" {
		t.Errorf("debt label = %q", debt.DebtLabel)
	}
	if len(debt.Aging) != 14 || debt.Aging[0] != 100 || debt.Aging[1] != 200 {
		t.Errorf("aging buckets = %v", debt.Aging)
	}
	if debt.Aging14 != 50 {
		t.Errorf("aging 14+ = %v, want 50", debt.Aging14)
	}

	stand, err := store.StandReportByDealer(ctx, "500")
	if err != nil {
		t.Fatalf("StandReportByDealer: %v", err)
	}
	wantDays := []string{"Monday", "Thursday"}
	if len(stand.VisitDays) != 2 || stand.VisitDays[0] != wantDays[0] || stand.VisitDays[1] != wantDays[1] {
		t.Errorf("visit days = %v, want %v", stand.VisitDays, wantDays)
	}

	rollups, totals, err := store.Rollups(ctx)
	if err != nil {
		t.Fatalf("Rollups: %v", err)
	}
	if totals.MonthlyQty != 2400 {
		t.Errorf("grand total monthly = %v, want 2400", totals.MonthlyQty)
	}
	var reps, teams, sups int
	for _, r := range rollups {
		switch r.Kind {
		case domain.RollupRep:
			reps++
		case domain.RollupTeam:
			teams++
		case domain.RollupSupervisor:
			sups++
		}
	}
	if reps != 2 || teams != 3 || sups != 2 {
		t.Errorf("rollup kinds = %d reps, %d teams, %d supervisors", reps, teams, sups)
	}

	visits, err := store.RoutesByDealer(ctx, "501")
	if err != nil {
		t.Fatalf("RoutesByDealer: %v", err)
	}
	// Dealer 501 is stop 2 of R1's Monday route; the whole visit comes back.
	if len(visits) != 1 || len(visits[0].Stops) != 2 {
		t.Fatalf("visits = %+v, want one visit with both stops", visits)
	}
	if visits[0].Stops[0].Ordinal != 1 {
		t.Errorf("stops not ordered: %+v", visits[0].Stops)
	}
}

func TestSearchDealersFoldedOrdered(t *testing.T) {
	store := memory.NewStore()
	mustRun(t, store, fixtureSheets())

	got, err := store.SearchDealers(context.Background(), "cagri", 0)
	if err != nil {
		t.Fatalf("SearchDealers: %v", err)
	}
	if len(got) != 1 || got[0].Code != "500" {
		t.Fatalf("search result = %+v, want dealer 500", got)
	}

	all, err := store.SearchDealers(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("SearchDealers(empty): %v", err)
	}
	if len(all) != 2 || all[0].CoverageStatus != domain.CoverageActive {
		t.Errorf("unfiltered search = %+v, want active dealer first", all)
	}
}

func TestMissingRequiredSheetFails(t *testing.T) {
	store := memory.NewStore()
	sheets := fixtureSheets()
	delete(sheets, ingest.SheetInvoices)

	o := ingest.NewOrchestrator(store)
	id, err := o.RunWorkbook(context.Background(), buildWorkbook(t, sheets))
	if !errors.Is(err, ingest.ErrSheetMissing) {
		t.Fatalf("err = %v, want ErrSheetMissing", err)
	}
	run, rerr := store.Run(context.Background(), id)
	if rerr != nil {
		t.Fatalf("Run(%d): %v", id, rerr)
	}
	if run.Status != domain.RunFailed || run.Error == "" {
		t.Errorf("run = %+v, want failed with message", run)
	}
}

func TestMissingOptionalSheetWarns(t *testing.T) {
	store := memory.NewStore()
	sheets := fixtureSheets()
	delete(sheets, ingest.SheetRoutes)

	id := mustRun(t, store, sheets)
	run, err := store.Run(context.Background(), id)
	if err != nil {
		t.Fatalf("Run(%d): %v", id, err)
	}
	if run.Status != domain.RunCompleted {
		t.Fatalf("run status = %q, want completed", run.Status)
	}
	if len(run.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", run.Warnings)
	}
}

func TestFailedRunKeepsPublishedGeneration(t *testing.T) {
	store := memory.NewStore()
	mustRun(t, store, fixtureSheets())

	broken := fixtureSheets()
	delete(broken, ingest.SheetDealers)
	o := ingest.NewOrchestrator(store)
	if _, err := o.RunWorkbook(context.Background(), buildWorkbook(t, broken)); err == nil {
		t.Fatal("broken workbook did not fail")
	}

	// Readers still see the last published generation.
	if _, err := store.DealerByCode(context.Background(), "500"); err != nil {
		t.Errorf("published dealer gone after failed run: %v", err)
	}
	stats, _ := store.DashboardStats(context.Background())
	if stats.ActiveDealers != 1 {
		t.Errorf("stats after failed run = %+v", stats)
	}
}

func TestReingestReplacesNotDuplicates(t *testing.T) {
	store := memory.NewStore()
	mustRun(t, store, fixtureSheets())

	second := fixtureSheets()
	second[ingest.SheetDealers][2][1] = "ÇAĞRI BÜFE YENİ"
	mustRun(t, store, second)

	all, err := store.SearchDealers(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("SearchDealers: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("dealer count after reingest = %d, want 2", len(all))
	}
	d, err := store.DealerByCode(context.Background(), "500")
	if err != nil {
		t.Fatalf("DealerByCode: %v", err)
	}
	if d.Name != "ÇAĞRI BÜFE YENİ" {
		t.Errorf("dealer name = %q, want the reingested value", d.Name)
	}
}

func TestRollupRowOutOfRangeAborts(t *testing.T) {
	store := memory.NewStore()
	sheets := fixtureSheets()
	sheets[ingest.SheetRollups] = sheets[ingest.SheetRollups][:10]

	o := ingest.NewOrchestrator(store)
	_, err := o.RunWorkbook(context.Background(), buildWorkbook(t, sheets))
	if !errors.Is(err, ingest.ErrRowOutOfRange) {
		t.Fatalf("err = %v, want ErrRowOutOfRange", err)
	}
	var se *ingest.SheetError
	if !errors.As(err, &se) || se.Sheet != ingest.SheetRollups {
		t.Errorf("err = %v, want SheetError naming %q", err, ingest.SheetRollups)
	}
}

func TestNarrowSheetAborts(t *testing.T) {
	store := memory.NewStore()
	sheets := fixtureSheets()
	sheets[ingest.SheetInvoices] = [][]interface{}{
		{"baslik", "b", "c"},
		{"500", "", ""},
	}

	o := ingest.NewOrchestrator(store)
	_, err := o.RunWorkbook(context.Background(), buildWorkbook(t, sheets))
	if !errors.Is(err, ingest.ErrSchemaDrift) {
		t.Fatalf("err = %v, want ErrSchemaDrift", err)
	}
}

// backend-go/internal/ingest/mappers.go
package ingest

import (
	"context"

	"github.com/bayidash/backend-go/internal/domain"
	"github.com/bayidash/backend-go/internal/workbook"
)

// Each mapper walks one sheet, applies its row-acceptance predicate, maps
// accepted rows into typed records and bulk-writes the batch. Rows failing
// the predicate are counted, not errored; short rows degrade field-by-field
// through the Row accessors.

func loadDealers(ctx context.Context, rc *run, sheet *workbook.Sheet) error {
	it, err := sheet.Rows(dealerSkip)
	if err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	defer it.Close()

	var dealers []domain.Dealer
	for it.Next() {
		row := it.Row()
		code := row.Code(colDealerCode)
		if code == "" {
			rc.skip(sheet.Name())
			continue
		}
		name := row.Text(colDealerName)

		d := domain.Dealer{
			Code:      code,
			CodeASCII: workbook.Fold(code),
			Name:      name,
			NameASCII: workbook.Fold(name),

			DST: row.Text(colDealerDST),
			TTE: row.Text(colDealerTTE),
			DSM: row.Text(colDealerDSM),

			TypeCode:       row.Text(colDealerType),
			ClassPanorama:  row.Text(colDealerClassPanorama),
			ClassBySales:   row.Text(colDealerClassBySales),
			CoverageStatus: row.Text(colDealerCoverage),

			JTIStand:        row.Text(colDealerJTIStand),
			JTIStandCount:   row.Number(colDealerJTICount),
			CamelStand:      row.Text(colDealerCamelStand),
			CamelStandCount: row.Number(colDealerCamelCount),
			PMIStand:        row.Text(colDealerPMIStand),
			PMIStandCount:   row.Number(colDealerPMICount),
			BATStand:        row.Text(colDealerBATStand),
			BATStandCount:   row.Number(colDealerBATCount),

			LoyaltyPlan: row.Number(colDealerLoyaltyPlan),
			LoyaltyPaid: row.Number(colDealerLoyaltyPaid),

			Total2024: row.Number(colDealerTotal2024),
			Avg2024:   row.Number(colDealerAvg2024),
			Total2025: row.Number(colDealerTotal2025),
			Avg2025:   row.Number(colDealerAvg2025),
			Total2026: row.Number(colDealerTotal2026),
			Avg2026:   row.Number(colDealerAvg2026),
		}
		d.GrowthPct = GrowthPercent(d.Total2025, d.Total2024)

		monthBlocks := []struct {
			year int
			col  int
		}{
			{2024, colDealerMonths2024},
			{2025, colDealerMonths2025},
			{2026, colDealerMonths2026},
		}
		for _, blk := range monthBlocks {
			for m := 0; m < 12; m++ {
				d.MonthlySales = append(d.MonthlySales, domain.MonthlySale{
					DealerCode: code,
					Year:       blk.year,
					Month:      m + 1,
					Amount:     row.Number(blk.col + m),
				})
			}
		}

		dealers = append(dealers, d)
		rc.loaded(sheet.Name())
	}
	if err := it.Err(); err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	return rc.store.WriteDealers(ctx, rc.gen, dealers)
}

func loadInvoices(ctx context.Context, rc *run, sheet *workbook.Sheet) error {
	it, err := sheet.Rows(invoiceSkip)
	if err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	defer it.Close()

	var invoices []domain.Invoice
	for it.Next() {
		row := it.Row()
		code := row.Code(colInvoiceDealer)
		if code == "" {
			rc.skip(sheet.Name())
			continue
		}
		issueDate := row.Date(colInvoiceDate)
		invoices = append(invoices, domain.Invoice{
			DocNo:      row.Text(colInvoiceDocNo),
			DealerCode: code,
			IssueDate:  issueDate,
			DateKey:    workbook.DateSortKey(issueDate),
			NetAmount:  row.Number(colInvoiceNet),
		})
		rc.loaded(sheet.Name())
	}
	if err := it.Err(); err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	return rc.store.WriteInvoices(ctx, rc.gen, invoices)
}

func loadInvoiceLines(ctx context.Context, rc *run, sheet *workbook.Sheet) error {
	it, err := sheet.Rows(lineSkip)
	if err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	defer it.Close()

	var lines []domain.InvoiceLine
	for it.Next() {
		row := it.Row()
		docNo := row.Text(colLineDocNo)
		if docNo == "" {
			rc.skip(sheet.Name())
			continue
		}
		qty := row.Number(colLineQty)
		price := row.Number(colLinePrice)
		lines = append(lines, domain.InvoiceLine{
			DocNo:       docNo,
			ProductName: row.Text(colLineProduct),
			Quantity:    qty,
			UnitPrice:   price,
			LineAmount:  qty * price,
		})
		rc.loaded(sheet.Name())
	}
	if err := it.Err(); err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	return rc.store.WriteInvoiceLines(ctx, rc.gen, lines)
}

func loadCollections(ctx context.Context, rc *run, sheet *workbook.Sheet) error {
	it, err := sheet.Rows(collectionSkip)
	if err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	defer it.Close()

	var collections []domain.Collection
	for it.Next() {
		row := it.Row()
		code := row.Code(colCollectionDealer)
		if code == "" {
			rc.skip(sheet.Name())
			continue
		}
		paidAt := row.Date(colCollectionDate)
		collections = append(collections, domain.Collection{
			DealerCode: code,
			Kind:       row.Text(colCollectionKind),
			PaidAt:     paidAt,
			DateKey:    workbook.DateSortKey(paidAt),
			Amount:     row.Number(colCollectionAmount),
		})
		rc.loaded(sheet.Name())
	}
	if err := it.Err(); err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	return rc.store.WriteCollections(ctx, rc.gen, collections)
}

func loadDebtLedger(ctx context.Context, rc *run, sheet *workbook.Sheet) error {
	it, err := sheet.Rows(debtSkip)
	if err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	defer it.Close()

	var entries []domain.DebtLedger
	for it.Next() {
		row := it.Row()
		code := row.Code(colDebtDealer)
		if code == "" {
			rc.skip(sheet.Name())
			continue
		}
		balance := row.Number(colDebtBalance)
		aging := make([]float64, debtAgingBuckets)
		for i := range aging {
			aging[i] = row.Number(colDebtAging0 + i)
		}
		typeCode := row.Text(colDebtType)
		entries = append(entries, domain.DebtLedger{
			DealerCode: code,
			DealerName: row.Text(colDebtName),
			TypeCode:   typeCode,
			Channel:    ChannelOf(typeCode),
			Balance:    balance,
			DebtLabel:  DebtLabel(balance),
			Aging:      aging,
			Aging14:    row.Number(colDebtAging14),
		})
		rc.loaded(sheet.Name())
	}
	if err := it.Err(); err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	return rc.store.WriteDebtLedger(ctx, rc.gen, entries)
}

func loadStandReports(ctx context.Context, rc *run, sheet *workbook.Sheet) error {
	it, err := sheet.Rows(standSkip)
	if err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	defer it.Close()

	var reports []domain.StandReport
	for it.Next() {
		row := it.Row()
		code := row.Code(colStandDealer)
		if code == "" {
			rc.skip(sheet.Name())
			continue
		}
		var flags [7]float64
		for i := range flags {
			flags[i] = row.Number(colStandVisitMon + i)
		}
		reports = append(reports, domain.StandReport{
			DealerCode:     code,
			DealerName:     row.Text(colStandName),
			DST:            row.Text(colStandDST),
			TTE:            row.Text(colStandTTE),
			DSM:            row.Text(colStandDSM),
			CoverageStatus: row.Text(colStandCoverage),
			VisitDays:      VisitDays(flags),
			CoverageLabel:  row.Text(colStandLabel),
		})
		rc.loaded(sheet.Name())
	}
	if err := it.Err(); err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	return rc.store.WriteStandReports(ctx, rc.gen, reports)
}

// loadRollups is the one mapper family addressing absolute rows: the grand
// total and the named team/supervisor rollups are copied verbatim from
// fixed positions and must be present.
func loadRollups(ctx context.Context, rc *run, sheet *workbook.Sheet) error {
	rows, err := sheet.AllRows()
	if err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}

	fixedRow := func(idx int) (workbook.Row, error) {
		if idx >= len(rows) {
			return nil, &SheetError{Sheet: sheet.Name(), Row: idx + 1, Err: ErrRowOutOfRange}
		}
		return rows[idx], nil
	}

	totalRow, err := fixedRow(rowGrandTotal)
	if err != nil {
		return err
	}
	totals := domain.DistributorTotals{
		DailyQty:       totalRow.Number(colRollupDaily),
		MonthlyQty:     totalRow.Number(colRollupMonthly),
		TargetQty:      totalRow.Number(colRollupTarget),
		AchievementPct: totalRow.Number(colRollupAchieved),
	}

	var rollups []domain.HierarchyRollup
	appendFixed := func(kind string, indices []int) error {
		for _, idx := range indices {
			row, err := fixedRow(idx)
			if err != nil {
				return err
			}
			rollups = append(rollups, domain.HierarchyRollup{
				Kind:           kind,
				RefName:        row.Text(colRollupName),
				DailyQty:       row.Number(colRollupDaily),
				MonthlyQty:     row.Number(colRollupMonthly),
				TargetQty:      row.Number(colRollupTarget),
				AchievementPct: row.Number(colRollupAchieved),
			})
		}
		return nil
	}
	if err := appendFixed(domain.RollupTeam, rowTeamRollups); err != nil {
		return err
	}
	if err := appendFixed(domain.RollupSupervisor, rowSupervisorRollups); err != nil {
		return err
	}

	// Per-rep rows iterate with the usual predicate; the fixed rollup rows
	// keep their ref column empty so they are not double-counted here.
	for i := rollupSkip; i < len(rows); i++ {
		row := rows[i]
		ref := row.Text(colRollupRef)
		if ref == "" {
			rc.skip(sheet.Name())
			continue
		}
		rollups = append(rollups, domain.HierarchyRollup{
			Kind:           domain.RollupRep,
			RefID:          ref,
			RefName:        row.Text(colRollupName),
			Team:           row.Text(colRollupTeam),
			Supervisor:     row.Text(colRollupSupervisor),
			DailyQty:       row.Number(colRollupDaily),
			MonthlyQty:     row.Number(colRollupMonthly),
			TargetQty:      row.Number(colRollupTarget),
			AchievementPct: row.Number(colRollupAchieved),
		})
		rc.loaded(sheet.Name())
	}

	return rc.store.WriteRollups(ctx, rc.gen, rollups, totals)
}

func loadRoutes(ctx context.Context, rc *run, sheet *workbook.Sheet) error {
	it, err := sheet.Rows(routeSkip)
	if err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	defer it.Close()

	var stops []domain.RouteStop
	for it.Next() {
		row := it.Row()
		rep := row.Text(colRouteRep)
		if rep == "" {
			rc.skip(sheet.Name())
			continue
		}
		stops = append(stops, domain.RouteStop{
			Rep:        rep,
			Weekday:    row.Text(colRouteWeekday),
			Ordinal:    int(row.Number(colRouteOrdinal)),
			DealerCode: row.Code(colRouteDealer),
			DealerName: row.Text(colRouteName),
			Status:     row.Text(colRouteStatus),
			Group:      row.Text(colRouteGroup),
		})
		rc.loaded(sheet.Name())
	}
	if err := it.Err(); err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	return rc.store.WriteRouteStops(ctx, rc.gen, stops)
}

func loadTargets(ctx context.Context, rc *run, sheet *workbook.Sheet) error {
	it, err := sheet.Rows(targetSkip)
	if err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	defer it.Close()

	var targets []domain.SalesTarget
	for it.Next() {
		row := it.Row()
		code := row.Code(colTargetDealer)
		if code == "" {
			rc.skip(sheet.Name())
			continue
		}
		target := row.Number(colTargetQty)
		sold := row.Number(colTargetSold)
		pct := 0.0
		if target > 0 {
			pct = sold / target * 100
		}
		targets = append(targets, domain.SalesTarget{
			DealerCode:     code,
			DealerName:     row.Text(colTargetName),
			TargetQty:      target,
			SoldQty:        sold,
			AchievementPct: pct,
		})
		rc.loaded(sheet.Name())
	}
	if err := it.Err(); err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	return rc.store.WriteTargets(ctx, rc.gen, targets)
}

func loadLoyalty(ctx context.Context, rc *run, sheet *workbook.Sheet) error {
	it, err := sheet.Rows(loyaltySkip)
	if err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	defer it.Close()

	var dealers []domain.LoyaltyDealer
	for it.Next() {
		row := it.Row()
		code := row.Code(colLoyaltyDealer)
		if code == "" {
			rc.skip(sheet.Name())
			continue
		}
		dealers = append(dealers, domain.LoyaltyDealer{
			DealerCode: code,
			DealerName: row.Text(colLoyaltyName),
			PlanAmount: row.Number(colLoyaltyPlan),
			PaidAmount: row.Number(colLoyaltyPaid),
		})
		rc.loaded(sheet.Name())
	}
	if err := it.Err(); err != nil {
		return &SheetError{Sheet: sheet.Name(), Err: err}
	}
	return rc.store.WriteLoyalty(ctx, rc.gen, dealers)
}

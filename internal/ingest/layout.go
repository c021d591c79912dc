// backend-go/internal/ingest/layout.go
//
// Positional layout of every sheet in the back-office export. The export
// carries no headers worth trusting: sheets are addressed purely by column
// and row position, so each sheet's map lives here as named constants. The
// orchestrator checks each map's highest column against the sheet's observed
// width before mapping, so a layout change in the export fails loudly
// instead of silently defaulting.
package ingest

// Sheet names, matched exactly (case- and diacritic-sensitive).
const (
	SheetDealers      = "AÜ BAYİ LİST"
	SheetInvoices     = "Fatura"
	SheetInvoiceLines = "Belge detay"
	SheetCollections  = "tahsilat"
	SheetDebt         = "KONYA GÜN"
	SheetStands       = "STAND RAPORU"
	SheetRollups      = "GÜN SONU"
	SheetRoutes       = "RUT"
	SheetTargets      = "HEDEF"
	SheetLoyalty      = "SADAKAT"
)

// AÜ BAYİ LİST — dealer master. Two title rows, then one row per dealer.
const (
	dealerSkip = 2

	colDealerCode          = 0
	colDealerName          = 1
	colDealerDST           = 2
	colDealerTTE           = 3
	colDealerDSM           = 4
	colDealerType          = 5
	colDealerClassPanorama = 6
	colDealerClassBySales  = 7
	colDealerCoverage      = 9
	colDealerJTIStand      = 10
	colDealerJTICount      = 11
	colDealerCamelStand    = 12
	colDealerCamelCount    = 13
	colDealerPMIStand      = 14
	colDealerPMICount      = 15
	colDealerBATStand      = 16
	colDealerBATCount      = 17
	colDealerLoyaltyPlan   = 18
	colDealerLoyaltyPaid   = 19

	// Monthly sales blocks: 12 consecutive columns per fiscal year.
	colDealerMonths2025 = 33
	colDealerTotal2025  = 45
	colDealerAvg2025    = 48
	colDealerMonths2024 = 71
	colDealerTotal2024  = 83
	colDealerAvg2024    = 84
	colDealerMonths2026 = 85
	colDealerTotal2026  = 97
	colDealerAvg2026    = 98

	dealerMaxCol = colDealerAvg2026
)

// Fatura — invoice headers. One title row.
const (
	invoiceSkip = 1

	colInvoiceDealer = 0
	colInvoiceDate   = 3
	colInvoiceDocNo  = 5
	colInvoiceNet    = 13

	invoiceMaxCol = colInvoiceNet
)

// Belge detay — invoice lines keyed by document number.
const (
	lineSkip = 1

	colLineDocNo   = 0
	colLineProduct = 6
	colLineQty     = 7
	colLinePrice   = 8

	lineMaxCol = colLinePrice
)

// tahsilat — collections. Dealer code sits in the third column.
const (
	collectionSkip = 1

	colCollectionKind   = 1
	colCollectionDealer = 2
	colCollectionDate   = 5
	colCollectionAmount = 8

	collectionMaxCol = colCollectionAmount
)

// KONYA GÜN — debt ledger. Seven rows of embedded titles before data.
const (
	debtSkip = 7

	colDebtDealer  = 0
	colDebtName    = 1
	colDebtType    = 2
	colDebtBalance = 10
	colDebtAging0  = 11 // buckets 0..13 run through column 24
	colDebtAging14 = 25

	debtAgingBuckets = 14
	debtMaxCol       = colDebtAging14
)

// STAND RAPORU — coverage and weekly visit plan.
const (
	standSkip = 1

	colStandDST      = 2
	colStandTTE      = 3
	colStandDSM      = 4
	colStandDealer   = 5
	colStandName     = 6
	colStandCoverage = 12
	colStandVisitMon = 14 // Monday..Sunday through column 20
	colStandLabel    = 21

	standMaxCol = colStandLabel
)

// GÜN SONU — hierarchy KPI rollups. Per-rep rows follow a three-row header
// block; the grand total and the named team/supervisor rollups sit at fixed
// absolute rows and are copied verbatim.
const (
	rollupSkip = 3

	colRollupRef        = 0
	colRollupName       = 1
	colRollupTeam       = 2
	colRollupSupervisor = 3
	colRollupDaily      = 4
	colRollupMonthly    = 5
	colRollupTarget     = 6
	colRollupAchieved   = 7

	rollupMaxCol = colRollupAchieved

	// Absolute row indices (0-based over the whole sheet).
	rowGrandTotal = 1
)

var (
	rowTeamRollups       = []int{45, 46, 47}
	rowSupervisorRollups = []int{49, 50}
)

// RUT — route schedules: one row per stop.
const (
	routeSkip = 1

	colRouteRep     = 0
	colRouteWeekday = 1
	colRouteOrdinal = 2
	colRouteDealer  = 3
	colRouteName    = 4
	colRouteStatus  = 5
	colRouteGroup   = 6

	routeMaxCol = colRouteGroup
)

// HEDEF — per-dealer sales targets.
const (
	targetSkip = 1

	colTargetDealer = 0
	colTargetName   = 1
	colTargetQty    = 2
	colTargetSold   = 3

	targetMaxCol = colTargetSold
)

// SADAKAT — per-dealer loyalty figures.
const (
	loyaltySkip = 1

	colLoyaltyDealer = 0
	colLoyaltyName   = 1
	colLoyaltyPlan   = 2
	colLoyaltyPaid   = 3

	loyaltyMaxCol = colLoyaltyPaid
)

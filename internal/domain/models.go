// backend-go/internal/domain/models.go
package domain

import "time"

// Dealer is the master record for a retail outlet. Code is the canonical
// natural key every other entity joins against.
type Dealer struct {
	Code      string `json:"code" db:"code"`
	CodeASCII string `json:"-" db:"code_ascii"`
	Name      string `json:"name" db:"name"`
	NameASCII string `json:"-" db:"name_ascii"`

	// Sales hierarchy assignment
	DST string `json:"dst" db:"dst"` // territory rep
	TTE string `json:"tte" db:"tte"` // supervisor
	DSM string `json:"dsm" db:"dsm"` // regional manager

	TypeCode       string `json:"type_code" db:"type_code"`
	ClassPanorama  string `json:"class_panorama" db:"class_panorama"`
	ClassBySales   string `json:"class_by_sales" db:"class_by_sales"`
	CoverageStatus string `json:"coverage_status" db:"coverage_status"`

	// Per-brand-family stand placement
	JTIStand        string  `json:"jti_stand" db:"jti_stand"`
	JTIStandCount   float64 `json:"jti_stand_count" db:"jti_stand_count"`
	CamelStand      string  `json:"camel_stand" db:"camel_stand"`
	CamelStandCount float64 `json:"camel_stand_count" db:"camel_stand_count"`
	PMIStand        string  `json:"pmi_stand" db:"pmi_stand"`
	PMIStandCount   float64 `json:"pmi_stand_count" db:"pmi_stand_count"`
	BATStand        string  `json:"bat_stand" db:"bat_stand"`
	BATStandCount   float64 `json:"bat_stand_count" db:"bat_stand_count"`

	LoyaltyPlan float64 `json:"loyalty_plan" db:"loyalty_plan"`
	LoyaltyPaid float64 `json:"loyalty_paid" db:"loyalty_paid"`

	Total2024 float64 `json:"total_2024" db:"total_2024"`
	Avg2024   float64 `json:"avg_2024" db:"avg_2024"`
	Total2025 float64 `json:"total_2025" db:"total_2025"`
	Avg2025   float64 `json:"avg_2025" db:"avg_2025"`
	Total2026 float64 `json:"total_2026" db:"total_2026"`
	Avg2026   float64 `json:"avg_2026" db:"avg_2026"`

	// Derived at ingestion: 2025 vs 2024 totals
	GrowthPct float64 `json:"growth_pct" db:"growth_pct"`

	MonthlySales []MonthlySale `json:"monthly_sales,omitempty" db:"-"`
}

// MonthlySale is one month of a dealer's sales for one fiscal year.
type MonthlySale struct {
	DealerCode string  `json:"-" db:"dealer_code"`
	Year       int     `json:"year" db:"year"`
	Month      int     `json:"month" db:"month"`
	Amount     float64 `json:"amount" db:"amount"`
}

// Invoice is an invoice header row keyed by document number. DealerCode is a
// soft reference; orphans are tolerated.
type Invoice struct {
	DocNo      string  `json:"doc_no" db:"doc_no"`
	DealerCode string  `json:"dealer_code" db:"dealer_code"`
	IssueDate  string  `json:"issue_date" db:"issue_date"` // DD/MM/YYYY display form
	DateKey    int     `json:"-" db:"date_key"`            // yyyymmdd sort key
	NetAmount  float64 `json:"net_amount" db:"net_amount"`
}

// InvoiceLine belongs to an Invoice by document number.
type InvoiceLine struct {
	DocNo       string  `json:"doc_no" db:"doc_no"`
	ProductName string  `json:"product_name" db:"product_name"`
	Quantity    float64 `json:"quantity" db:"quantity"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	LineAmount  float64 `json:"line_amount" db:"line_amount"`
}

// Collection is a payment taken from a dealer.
type Collection struct {
	DealerCode string  `json:"dealer_code" db:"dealer_code"`
	Kind       string  `json:"kind" db:"kind"`
	PaidAt     string  `json:"paid_at" db:"paid_at"`
	DateKey    int     `json:"-" db:"date_key"`
	Amount     float64 `json:"amount" db:"amount"`
}

// DebtLedger is one row per dealer with the current balance and day-by-day
// aging buckets (0..13 days plus a 14+ bucket).
type DebtLedger struct {
	DealerCode string    `json:"dealer_code" db:"dealer_code"`
	DealerName string    `json:"dealer_name" db:"dealer_name"`
	TypeCode   string    `json:"type_code" db:"type_code"`
	Channel    string    `json:"channel" db:"channel"`
	Balance    float64   `json:"balance" db:"balance"`
	DebtLabel  string    `json:"debt_label" db:"debt_label"`
	Aging      []float64 `json:"aging" db:"-"`  // buckets for 0..13 days overdue
	Aging14    float64   `json:"aging_14_plus" db:"aging_14_plus"`
}

// StandReport carries a dealer's coverage state and weekly visit plan.
type StandReport struct {
	DealerCode     string   `json:"dealer_code" db:"dealer_code"`
	DealerName     string   `json:"dealer_name" db:"dealer_name"`
	DST            string   `json:"dst" db:"dst"`
	TTE            string   `json:"tte" db:"tte"`
	DSM            string   `json:"dsm" db:"dsm"`
	CoverageStatus string   `json:"coverage_status" db:"coverage_status"`
	VisitDays      []string `json:"visit_days" db:"-"`
	CoverageLabel  string   `json:"coverage_label" db:"coverage_label"`
}

// HierarchyRollup is a pre-aggregated KPI row copied verbatim from the
// workbook; it is not recomputable from the other entities.
type HierarchyRollup struct {
	Kind           string  `json:"kind" db:"kind"` // rep, team or supervisor
	RefID          string  `json:"ref_id" db:"ref_id"`
	RefName        string  `json:"ref_name" db:"ref_name"`
	Team           string  `json:"team" db:"team"`
	Supervisor     string  `json:"supervisor" db:"supervisor"`
	DailyQty       float64 `json:"daily_qty" db:"daily_qty"`
	MonthlyQty     float64 `json:"monthly_qty" db:"monthly_qty"`
	TargetQty      float64 `json:"target_qty" db:"target_qty"`
	AchievementPct float64 `json:"achievement_pct" db:"achievement_pct"`
}

// DistributorTotals is the singleton grand-total row.
type DistributorTotals struct {
	DailyQty       float64 `json:"daily_qty" db:"daily_qty"`
	MonthlyQty     float64 `json:"monthly_qty" db:"monthly_qty"`
	TargetQty      float64 `json:"target_qty" db:"target_qty"`
	AchievementPct float64 `json:"achievement_pct" db:"achievement_pct"`
}

// RouteStop is one ordered stop on a territory rep's weekday route.
type RouteStop struct {
	Rep        string `json:"rep" db:"rep"`
	Weekday    string `json:"weekday" db:"weekday"`
	Ordinal    int    `json:"ordinal" db:"ordinal"`
	DealerCode string `json:"dealer_code" db:"dealer_code"`
	DealerName string `json:"dealer_name" db:"dealer_name"`
	Status     string `json:"status" db:"status"`
	Group      string `json:"group" db:"grp"`
}

// RouteVisit groups the stops of one rep on one weekday for read-side
// consumers.
type RouteVisit struct {
	Rep     string      `json:"rep"`
	Weekday string      `json:"weekday"`
	Stops   []RouteStop `json:"stops"`
}

// SalesTarget is a flat per-dealer target row.
type SalesTarget struct {
	DealerCode     string  `json:"dealer_code" db:"dealer_code"`
	DealerName     string  `json:"dealer_name" db:"dealer_name"`
	TargetQty      float64 `json:"target_qty" db:"target_qty"`
	SoldQty        float64 `json:"sold_qty" db:"sold_qty"`
	AchievementPct float64 `json:"achievement_pct" db:"achievement_pct"`
}

// LoyaltyDealer is a flat per-dealer loyalty-plan row.
type LoyaltyDealer struct {
	DealerCode string  `json:"dealer_code" db:"dealer_code"`
	DealerName string  `json:"dealer_name" db:"dealer_name"`
	PlanAmount float64 `json:"plan_amount" db:"plan_amount"`
	PaidAmount float64 `json:"paid_amount" db:"paid_amount"`
}

// IngestRun is the status record for one ingestion run. The run ID doubles
// as the staging generation for stage-then-swap publishing.
type IngestRun struct {
	ID          int64      `json:"id" db:"id"`
	Status      string     `json:"status" db:"status"`
	Warnings    []string   `json:"warnings" db:"-"`
	Error       string     `json:"error,omitempty" db:"error_message"`
	RowsLoaded  int        `json:"rows_loaded" db:"rows_loaded"`
	RowsSkipped int        `json:"rows_skipped" db:"rows_skipped"`
	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// DashboardStats is the active/passive dealer count pair shown on the
// dashboard header.
type DashboardStats struct {
	ActiveDealers  int `json:"aktif_bayi" db:"aktif_bayi"`
	PassiveDealers int `json:"pasif_bayi" db:"pasif_bayi"`
}

// DealerSummary is the compact search-result row.
type DealerSummary struct {
	Code           string `json:"bayi_kodu" db:"code"`
	Name           string `json:"bayi_unvani" db:"name"`
	CoverageStatus string `json:"kapsam_durumu" db:"coverage_status"`
	TypeCode       string `json:"tip" db:"type_code"`
	Class          string `json:"sinif" db:"class_panorama"`
}

// InvoiceDetail is an invoice with its lines and summed quantity.
type InvoiceDetail struct {
	DocNo         string        `json:"matbu_no"`
	Lines         []InvoiceLine `json:"urunler"`
	TotalQuantity float64       `json:"toplam_miktar"`
}

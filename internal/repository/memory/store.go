// backend-go/internal/repository/memory/store.go
//
// In-memory implementation of the ingest store and the read-side queries.
// Used by tests and by dev mode when no database is configured. Staged
// generations live in a map; Publish swaps the published snapshot pointer
// under the lock, so readers never observe a half-loaded generation.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bayidash/backend-go/internal/domain"
	"github.com/bayidash/backend-go/internal/ingest"
	"github.com/bayidash/backend-go/internal/workbook"
)

type snapshot struct {
	dealers     []domain.Dealer
	invoices    []domain.Invoice
	lines       []domain.InvoiceLine
	collections []domain.Collection
	debt        []domain.DebtLedger
	stands      []domain.StandReport
	rollups     []domain.HierarchyRollup
	totals      domain.DistributorTotals
	routes      []domain.RouteStop
	targets     []domain.SalesTarget
	loyalty     []domain.LoyaltyDealer

	dealersByCode map[string]*domain.Dealer
}

type Store struct {
	mu          sync.RWMutex
	nextGen     int64
	staged      map[int64]*snapshot
	published   *snapshot
	current     int64
	publishedAt *time.Time
	runs        map[int64]*domain.IngestRun
}

func NewStore() *Store {
	return &Store{
		staged: make(map[int64]*snapshot),
		runs:   make(map[int64]*domain.IngestRun),
	}
}

var _ ingest.Store = (*Store)(nil)

func (s *Store) BeginRun(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextGen++
	gen := s.nextGen
	s.staged[gen] = &snapshot{}
	s.runs[gen] = &domain.IngestRun{
		ID:        gen,
		Status:    domain.RunRunning,
		StartedAt: time.Now().UTC(),
	}
	return gen, nil
}

func (s *Store) PurgeStale(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for gen, run := range s.runs {
		if gen != s.current && run.Status != domain.RunRunning {
			delete(s.staged, gen)
		}
	}
	return nil
}

func (s *Store) stagedFor(gen int64) *snapshot {
	if snap, ok := s.staged[gen]; ok {
		return snap
	}
	snap := &snapshot{}
	s.staged[gen] = snap
	return snap
}

func (s *Store) WriteDealers(ctx context.Context, gen int64, dealers []domain.Dealer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.stagedFor(gen)
	snap.dealers = append(snap.dealers, dealers...)
	return nil
}

func (s *Store) WriteInvoices(ctx context.Context, gen int64, invoices []domain.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.stagedFor(gen)
	snap.invoices = append(snap.invoices, invoices...)
	return nil
}

func (s *Store) WriteInvoiceLines(ctx context.Context, gen int64, lines []domain.InvoiceLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.stagedFor(gen)
	snap.lines = append(snap.lines, lines...)
	return nil
}

func (s *Store) WriteCollections(ctx context.Context, gen int64, collections []domain.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.stagedFor(gen)
	snap.collections = append(snap.collections, collections...)
	return nil
}

func (s *Store) WriteDebtLedger(ctx context.Context, gen int64, entries []domain.DebtLedger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.stagedFor(gen)
	snap.debt = append(snap.debt, entries...)
	return nil
}

func (s *Store) WriteStandReports(ctx context.Context, gen int64, reports []domain.StandReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.stagedFor(gen)
	snap.stands = append(snap.stands, reports...)
	return nil
}

func (s *Store) WriteRollups(ctx context.Context, gen int64, rollups []domain.HierarchyRollup, totals domain.DistributorTotals) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.stagedFor(gen)
	snap.rollups = append(snap.rollups, rollups...)
	snap.totals = totals
	return nil
}

func (s *Store) WriteRouteStops(ctx context.Context, gen int64, stops []domain.RouteStop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.stagedFor(gen)
	snap.routes = append(snap.routes, stops...)
	return nil
}

func (s *Store) WriteTargets(ctx context.Context, gen int64, targets []domain.SalesTarget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.stagedFor(gen)
	snap.targets = append(snap.targets, targets...)
	return nil
}

func (s *Store) WriteLoyalty(ctx context.Context, gen int64, dealers []domain.LoyaltyDealer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.stagedFor(gen)
	snap.loyalty = append(snap.loyalty, dealers...)
	return nil
}

func (s *Store) Index(ctx context.Context, gen int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.stagedFor(gen)
	snap.dealersByCode = make(map[string]*domain.Dealer, len(snap.dealers))
	for i := range snap.dealers {
		snap.dealersByCode[snap.dealers[i].Code] = &snap.dealers[i]
	}
	return nil
}

func (s *Store) Publish(ctx context.Context, gen int64, report ingest.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.stagedFor(gen)
	s.published = snap
	s.current = gen
	now := time.Now().UTC()
	s.publishedAt = &now
	if run, ok := s.runs[gen]; ok {
		run.Status = domain.RunCompleted
		run.Warnings = report.Warnings
		run.RowsLoaded = report.Loaded()
		run.RowsSkipped = report.Skipped()
		run.CompletedAt = &now
	}
	return nil
}

func (s *Store) Fail(ctx context.Context, gen int64, cause error, report ingest.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.staged, gen)
	if run, ok := s.runs[gen]; ok {
		now := time.Now().UTC()
		run.Status = domain.RunFailed
		run.Warnings = report.Warnings
		run.Error = cause.Error()
		run.RowsLoaded = report.Loaded()
		run.RowsSkipped = report.Skipped()
		run.CompletedAt = &now
	}
	return nil
}

// Run returns the status record for one ingestion run.
func (s *Store) Run(ctx context.Context, id int64) (*domain.IngestRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *run
	return &cp, nil
}

// view returns the published snapshot, or an empty one before any publish.
func (s *Store) view() *snapshot {
	if s.published != nil {
		return s.published
	}
	return &snapshot{}
}

func statusRank(status string) int {
	switch status {
	case domain.CoverageActive:
		return 0
	case domain.CoveragePassive:
		return 1
	case domain.CoverageCancelled:
		return 2
	}
	return 3
}

// DashboardStats counts coverage from the stand reports, not the dealer
// master: a dealer is only active on the dashboard once the coverage sheet
// says so.
func (s *Store) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats domain.DashboardStats
	for _, r := range s.view().stands {
		switch r.CoverageStatus {
		case domain.CoverageActive:
			stats.ActiveDealers++
		case domain.CoveragePassive:
			stats.PassiveDealers++
		}
	}
	return stats, nil
}

// LastPublishedAt returns the completion time of the last published run, or
// nil before the first publish.
func (s *Store) LastPublishedAt(ctx context.Context) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.publishedAt == nil {
		return nil, nil
	}
	cp := *s.publishedAt
	return &cp, nil
}

// SearchDealers matches the folded query against folded dealer codes and
// names, ordered by coverage status then name.
func (s *Store) SearchDealers(ctx context.Context, query string, limit int) ([]domain.DealerSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := workbook.Fold(query)
	var out []domain.DealerSummary
	for _, d := range s.view().dealers {
		if q != "" && !strings.Contains(d.CodeASCII, q) && !strings.Contains(d.NameASCII, q) {
			continue
		}
		out = append(out, domain.DealerSummary{
			Code:           d.Code,
			Name:           d.Name,
			CoverageStatus: d.CoverageStatus,
			TypeCode:       d.TypeCode,
			Class:          d.ClassPanorama,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := statusRank(out[i].CoverageStatus), statusRank(out[j].CoverageStatus)
		if ri != rj {
			return ri < rj
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) DealerByCode(ctx context.Context, code string) (*domain.Dealer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.view()
	if snap.dealersByCode != nil {
		if d, ok := snap.dealersByCode[code]; ok {
			cp := *d
			return &cp, nil
		}
		return nil, domain.ErrNotFound
	}
	for i := range snap.dealers {
		if snap.dealers[i].Code == code {
			cp := snap.dealers[i]
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// InvoicesByDealer returns the dealer's invoices, newest first.
func (s *Store) InvoicesByDealer(ctx context.Context, code string) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Invoice
	for _, inv := range s.view().invoices {
		if inv.DealerCode == code {
			out = append(out, inv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateKey > out[j].DateKey })
	return out, nil
}

func (s *Store) InvoiceDetail(ctx context.Context, docNo string) (*domain.InvoiceDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	detail := &domain.InvoiceDetail{DocNo: docNo}
	for _, ln := range s.view().lines {
		if ln.DocNo == docNo {
			detail.Lines = append(detail.Lines, ln)
			detail.TotalQuantity += ln.Quantity
		}
	}
	if len(detail.Lines) == 0 {
		return nil, domain.ErrNotFound
	}
	return detail, nil
}

// CollectionsByDealer returns the dealer's collections, newest first.
func (s *Store) CollectionsByDealer(ctx context.Context, code string) ([]domain.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Collection
	for _, c := range s.view().collections {
		if c.DealerCode == code {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateKey > out[j].DateKey })
	return out, nil
}

func (s *Store) DebtByDealer(ctx context.Context, code string) (*domain.DebtLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.view().debt {
		if d.DealerCode == code {
			cp := d
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) StandReportByDealer(ctx context.Context, code string) (*domain.StandReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.view().stands {
		if r.DealerCode == code {
			cp := r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// RoutesByDealer returns the visits whose route includes the dealer, grouped
// per rep and weekday with the full ordered stop list of each visit.
func (s *Store) RoutesByDealer(ctx context.Context, code string) ([]domain.RouteVisit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	routes := s.view().routes

	type visitKey struct{ rep, weekday string }
	hit := make(map[visitKey]bool)
	for _, stop := range routes {
		if stop.DealerCode == code {
			hit[visitKey{stop.Rep, stop.Weekday}] = true
		}
	}
	grouped := make(map[visitKey][]domain.RouteStop)
	for _, stop := range routes {
		k := visitKey{stop.Rep, stop.Weekday}
		if hit[k] {
			grouped[k] = append(grouped[k], stop)
		}
	}

	out := make([]domain.RouteVisit, 0, len(grouped))
	for k, stops := range grouped {
		sort.SliceStable(stops, func(i, j int) bool { return stops[i].Ordinal < stops[j].Ordinal })
		out = append(out, domain.RouteVisit{Rep: k.rep, Weekday: k.weekday, Stops: stops})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rep != out[j].Rep {
			return out[i].Rep < out[j].Rep
		}
		return out[i].Weekday < out[j].Weekday
	})
	return out, nil
}

func (s *Store) Rollups(ctx context.Context) ([]domain.HierarchyRollup, domain.DistributorTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.view()
	out := make([]domain.HierarchyRollup, len(snap.rollups))
	copy(out, snap.rollups)
	return out, snap.totals, nil
}

func (s *Store) DebtLedger(ctx context.Context) ([]domain.DebtLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DebtLedger, len(s.view().debt))
	copy(out, s.view().debt)
	return out, nil
}

func (s *Store) Targets(ctx context.Context) ([]domain.SalesTarget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SalesTarget, len(s.view().targets))
	copy(out, s.view().targets)
	return out, nil
}

func (s *Store) Loyalty(ctx context.Context) ([]domain.LoyaltyDealer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LoyaltyDealer, len(s.view().loyalty))
	copy(out, s.view().loyalty)
	return out, nil
}

package service

import (
	"context"
	"time"

	"github.com/bayidash/backend-go/internal/cache"
	"github.com/bayidash/backend-go/internal/domain"
	"github.com/bayidash/backend-go/pkg/logger"
)

// Repository is the read side over the published generation, implemented by
// the Postgres repository and by the in-memory store.
type Repository interface {
	RunReader
	DashboardStats(ctx context.Context) (domain.DashboardStats, error)
	SearchDealers(ctx context.Context, query string, limit int) ([]domain.DealerSummary, error)
	DealerByCode(ctx context.Context, code string) (*domain.Dealer, error)
	InvoicesByDealer(ctx context.Context, code string) ([]domain.Invoice, error)
	InvoiceDetail(ctx context.Context, docNo string) (*domain.InvoiceDetail, error)
	CollectionsByDealer(ctx context.Context, code string) ([]domain.Collection, error)
	DebtByDealer(ctx context.Context, code string) (*domain.DebtLedger, error)
	StandReportByDealer(ctx context.Context, code string) (*domain.StandReport, error)
	RoutesByDealer(ctx context.Context, code string) ([]domain.RouteVisit, error)
	Rollups(ctx context.Context) ([]domain.HierarchyRollup, domain.DistributorTotals, error)
	Targets(ctx context.Context) ([]domain.SalesTarget, error)
	Loyalty(ctx context.Context) ([]domain.LoyaltyDealer, error)
	LastPublishedAt(ctx context.Context) (*time.Time, error)
}

// DealerProfile is the full per-dealer view: master record plus debt, stand
// coverage and route membership.
type DealerProfile struct {
	Dealer *domain.Dealer      `json:"bayi"`
	Debt   *domain.DebtLedger  `json:"borc,omitempty"`
	Stand  *domain.StandReport `json:"stand,omitempty"`
	Routes []domain.RouteVisit `json:"rut,omitempty"`
}

// DistributorSummary is the end-of-day overview: grand totals, hierarchy
// rollups, targets and loyalty standing.
type DistributorSummary struct {
	Totals      domain.DistributorTotals `json:"toplam"`
	Rollups     []domain.HierarchyRollup `json:"kadro"`
	Targets     []domain.SalesTarget     `json:"hedefler"`
	Loyalty     []domain.LoyaltyDealer   `json:"sadakat"`
	PublishedAt *time.Time               `json:"son_yukleme,omitempty"`
}

type DealerService struct {
	repo  Repository
	cache cache.StatsCache
}

func NewDealerService(repo Repository, statsCache cache.StatsCache) *DealerService {
	return &DealerService{repo: repo, cache: statsCache}
}

// Stats returns the dashboard dealer counts, served from cache when warm.
func (s *DealerService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	if cached, ok, err := s.cache.GetStats(ctx); err != nil {
		logger.Log.Warn().Err(err).Msg("stats cache read failed")
	} else if ok {
		return *cached, nil
	}

	stats, err := s.repo.DashboardStats(ctx)
	if err != nil {
		return stats, err
	}
	if err := s.cache.SetStats(ctx, &stats); err != nil {
		logger.Log.Warn().Err(err).Msg("stats cache write failed")
	}
	return stats, nil
}

func (s *DealerService) Search(ctx context.Context, query string, limit int) ([]domain.DealerSummary, error) {
	return s.repo.SearchDealers(ctx, query, limit)
}

// Profile assembles the dealer detail page. Debt, stand and route data are
// best-effort: a dealer absent from those sheets still has a profile.
func (s *DealerService) Profile(ctx context.Context, code string) (*DealerProfile, error) {
	dealer, err := s.repo.DealerByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	profile := &DealerProfile{Dealer: dealer}

	if debt, err := s.repo.DebtByDealer(ctx, code); err == nil {
		profile.Debt = debt
	}
	if stand, err := s.repo.StandReportByDealer(ctx, code); err == nil {
		profile.Stand = stand
	}
	if routes, err := s.repo.RoutesByDealer(ctx, code); err == nil {
		profile.Routes = routes
	}
	return profile, nil
}

func (s *DealerService) Invoices(ctx context.Context, code string) ([]domain.Invoice, error) {
	return s.repo.InvoicesByDealer(ctx, code)
}

func (s *DealerService) InvoiceDetail(ctx context.Context, docNo string) (*domain.InvoiceDetail, error) {
	return s.repo.InvoiceDetail(ctx, docNo)
}

func (s *DealerService) Collections(ctx context.Context, code string) ([]domain.Collection, error) {
	return s.repo.CollectionsByDealer(ctx, code)
}

func (s *DealerService) Routes(ctx context.Context, code string) ([]domain.RouteVisit, error) {
	return s.repo.RoutesByDealer(ctx, code)
}

// Summary builds the distributor end-of-day overview.
func (s *DealerService) Summary(ctx context.Context) (*DistributorSummary, error) {
	rollups, totals, err := s.repo.Rollups(ctx)
	if err != nil {
		return nil, err
	}
	targets, err := s.repo.Targets(ctx)
	if err != nil {
		return nil, err
	}
	loyalty, err := s.repo.Loyalty(ctx)
	if err != nil {
		return nil, err
	}
	publishedAt, err := s.repo.LastPublishedAt(ctx)
	if err != nil {
		return nil, err
	}
	return &DistributorSummary{
		Totals:      totals,
		Rollups:     rollups,
		Targets:     targets,
		Loyalty:     loyalty,
		PublishedAt: publishedAt,
	}, nil
}

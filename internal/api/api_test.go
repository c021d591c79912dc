// internal/api/api_test.go
package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/bayidash/backend-go/internal/api"
	"github.com/bayidash/backend-go/internal/cache"
	"github.com/bayidash/backend-go/internal/config"
	"github.com/bayidash/backend-go/internal/domain"
	"github.com/bayidash/backend-go/internal/ingest"
	"github.com/bayidash/backend-go/internal/repository/memory"
	"github.com/bayidash/backend-go/internal/service"
	"github.com/bayidash/backend-go/internal/storage"
)

const testToken = "test-token"

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"*"}},
		App:    config.AppConfig{UploadDir: t.TempDir()},
		Auth: config.AuthConfig{
			AdminUser:     "admin",
			AdminPassword: "sifre",
			Token:         testToken,
		},
	}
}

func seedStore(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	gen, err := store.BeginRun(ctx)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	dealers := []domain.Dealer{
		{Code: "500", CodeASCII: "500", Name: "ÇAĞRI BÜFE", NameASCII: "cagri bufe", CoverageStatus: domain.CoverageActive},
		{Code: "501", CodeASCII: "501", Name: "YILDIZ MARKET", NameASCII: "yildiz market", CoverageStatus: domain.CoveragePassive},
	}
	if err := store.WriteDealers(ctx, gen, dealers); err != nil {
		t.Fatalf("WriteDealers: %v", err)
	}
	stands := []domain.StandReport{
		{DealerCode: "500", DealerName: "ÇAĞRI BÜFE", CoverageStatus: domain.CoverageActive},
		{DealerCode: "501", DealerName: "YILDIZ MARKET", CoverageStatus: domain.CoveragePassive},
	}
	if err := store.WriteStandReports(ctx, gen, stands); err != nil {
		t.Fatalf("WriteStandReports: %v", err)
	}
	if err := store.Index(ctx, gen); err != nil {
		t.Fatalf("Index: %v", err)
	}
	report := ingest.Report{Generation: gen, Sheets: map[string]ingest.SheetStats{}}
	if err := store.Publish(ctx, gen, report); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	seedStore(t, store)

	statsCache := cache.NewNoopStatsCache()
	services := &api.Services{
		DealerService: service.NewDealerService(store, statsCache),
		IngestService: service.NewIngestService(ingest.NewOrchestrator(store), store, storage.NoopArchive{}, statsCache),
	}
	return api.NewRouter(services, testConfig(t))
}

func do(router *gin.Engine, method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodPost, "/api/login", `{"username":"admin","password":"sifre"}`, false)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["token"] != testToken {
		t.Errorf("token = %q", resp["token"])
	}

	w = do(router, http.MethodPost, "/api/login", `{"username":"admin","password":"yanlis"}`, false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad credentials status = %d, want 401", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	if w := do(router, http.MethodGet, "/api/dashboard/stats", "", false); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", w.Code)
	}

	w := do(router, http.MethodGet, "/api/dashboard/stats", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	var stats domain.DashboardStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.ActiveDealers != 1 || stats.PassiveDealers != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDealerSearch(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/api/bayiler?q=cagri", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d", w.Code)
	}
	var results []domain.DealerSummary
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if len(results) != 1 || results[0].Code != "500" {
		t.Errorf("results = %+v, want dealer 500", results)
	}
}

func TestDealerProfileNotFound(t *testing.T) {
	router := newTestRouter(t)

	if w := do(router, http.MethodGet, "/api/bayiler/999", "", true); w.Code != http.StatusNotFound {
		t.Errorf("missing dealer status = %d, want 404", w.Code)
	}
}

func TestUploadRejectsMissingFile(t *testing.T) {
	router := newTestRouter(t)

	if w := do(router, http.MethodPost, "/api/upload", "", true); w.Code != http.StatusBadRequest {
		t.Errorf("empty upload status = %d, want 400", w.Code)
	}
}

package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bayidash/backend-go/internal/cache"
	"github.com/bayidash/backend-go/internal/domain"
	"github.com/bayidash/backend-go/internal/ingest"
	"github.com/bayidash/backend-go/internal/storage"
	"github.com/bayidash/backend-go/internal/workbook"
	"github.com/bayidash/backend-go/pkg/logger"
)

// RunReader looks up ingestion run records.
type RunReader interface {
	Run(ctx context.Context, id int64) (*domain.IngestRun, error)
}

// IngestService accepts uploaded workbooks and drives ingestion runs in the
// background.
type IngestService struct {
	orch    *ingest.Orchestrator
	runs    RunReader
	archive storage.Archive
	cache   cache.StatsCache
}

func NewIngestService(orch *ingest.Orchestrator, runs RunReader, archive storage.Archive, statsCache cache.StatsCache) *IngestService {
	return &IngestService{
		orch:    orch,
		runs:    runs,
		archive: archive,
		cache:   statsCache,
	}
}

// StartIngest opens the workbook at path, allocates a run and ingests it in
// the background. The returned run ID is immediately pollable.
func (s *IngestService) StartIngest(ctx context.Context, path string) (int64, error) {
	wb, err := workbook.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open workbook: %w", err)
	}

	id, err := s.orch.Begin(ctx)
	if err != nil {
		wb.Close()
		return 0, err
	}

	go s.ingest(id, path, wb)
	return id, nil
}

// IngestSync runs a full ingestion in the foreground. Used by the CLI.
func (s *IngestService) IngestSync(ctx context.Context, path string) (int64, error) {
	id, err := s.orch.Run(ctx, path)
	if err != nil {
		return id, err
	}
	s.afterPublish(ctx, id, path)
	return id, nil
}

func (s *IngestService) ingest(id int64, path string, wb *workbook.Workbook) {
	defer wb.Close()

	// The upload request is long gone by the time the run finishes.
	ctx := context.Background()
	if err := s.orch.Ingest(ctx, id, wb); err != nil {
		logger.Log.Error().Err(err).Int64("run_id", id).Msg("ingest run failed")
		return
	}
	s.afterPublish(ctx, id, path)
}

func (s *IngestService) afterPublish(ctx context.Context, id int64, path string) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Log.Warn().Err(err).Msg("failed to invalidate stats cache")
	}
	object := fmt.Sprintf("%s/run-%d-%s", time.Now().UTC().Format("2006-01-02"), id, filepath.Base(path))
	if err := s.archive.ArchiveWorkbook(ctx, path, object); err != nil {
		logger.Log.Warn().Err(err).Str("object", object).Msg("failed to archive workbook")
	}
}

// RunStatus returns the status record for a run.
func (s *IngestService) RunStatus(ctx context.Context, id int64) (*domain.IngestRun, error) {
	return s.runs.Run(ctx, id)
}

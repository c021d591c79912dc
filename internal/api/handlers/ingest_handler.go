// backend-go/internal/api/handlers/ingest_handler.go
package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/bayidash/backend-go/internal/domain"
	"github.com/bayidash/backend-go/internal/service"
)

type IngestHandler struct {
	ingestService *service.IngestService
	uploadDir     string
}

func NewIngestHandler(ingestService *service.IngestService, uploadDir string) *IngestHandler {
	return &IngestHandler{ingestService: ingestService, uploadDir: uploadDir}
}

// Upload accepts one workbook, kicks off a background ingestion run and
// returns the run ID for polling.
func (h *IngestHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .xlsx workbooks are accepted"})
		return
	}

	path := filepath.Join(h.uploadDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("failed to save uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save uploaded file"})
		return
	}

	id, err := h.ingestService.StartIngest(c.Request.Context(), path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to start ingest")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "workbook could not be opened"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"run_id": id, "status": domain.RunRunning})
}

// RunStatus returns the status record of one ingestion run.
func (h *IngestHandler) RunStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}
	run, err := h.ingestService.RunStatus(c.Request.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch run"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// backend-go/internal/api/handlers/dealer_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bayidash/backend-go/internal/domain"
	"github.com/bayidash/backend-go/internal/service"
)

type DealerHandler struct {
	dealerService *service.DealerService
}

func NewDealerHandler(dealerService *service.DealerService) *DealerHandler {
	return &DealerHandler{dealerService: dealerService}
}

// Stats returns the dashboard dealer counts.
func (h *DealerHandler) Stats(c *gin.Context) {
	stats, err := h.dealerService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Search returns dealers matching the q parameter, accent- and
// case-insensitively.
func (h *DealerHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	dealers, err := h.dealerService.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search dealers"})
		return
	}
	c.JSON(http.StatusOK, dealers)
}

// Profile returns the full dealer detail view.
func (h *DealerHandler) Profile(c *gin.Context) {
	profile, err := h.dealerService.Profile(c.Request.Context(), c.Param("code"))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "dealer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch dealer"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Invoices lists a dealer's invoices, newest first.
func (h *DealerHandler) Invoices(c *gin.Context) {
	invoices, err := h.dealerService.Invoices(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch invoices"})
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// InvoiceDetail returns one invoice with its product lines.
func (h *DealerHandler) InvoiceDetail(c *gin.Context) {
	detail, err := h.dealerService.InvoiceDetail(c.Request.Context(), c.Param("no"))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch invoice"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Collections lists a dealer's collections, newest first.
func (h *DealerHandler) Collections(c *gin.Context) {
	collections, err := h.dealerService.Collections(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch collections"})
		return
	}
	c.JSON(http.StatusOK, collections)
}

// Routes lists the route visits that include the dealer.
func (h *DealerHandler) Routes(c *gin.Context) {
	routes, err := h.dealerService.Routes(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch routes"})
		return
	}
	c.JSON(http.StatusOK, routes)
}

// Summary returns the distributor end-of-day overview.
func (h *DealerHandler) Summary(c *gin.Context) {
	summary, err := h.dealerService.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

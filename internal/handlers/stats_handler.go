package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/leasebook/internal/errors"
	"github.com/stwalsh4118/leasebook/internal/services"
)

// StatsHandler serves the ledger aggregates.
type StatsHandler struct {
	service services.StatsService
	now     func() time.Time
}

// NewStatsHandler creates a new StatsHandler instance.
func NewStatsHandler(service services.StatsService) *StatsHandler {
	return &StatsHandler{service: service, now: time.Now}
}

// Get handles GET /api/v1/stats.
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.service.Compute(c.Request.Context(), h.now())
	if err != nil {
		apierrors.FromServiceError(c, err, "Failed to compute statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}

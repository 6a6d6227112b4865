package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardStats - GET /api/admin/stats
// Staff only.
func (h *Handlers) DashboardStats(c *gin.Context) {
	stats, err := h.services.Stats.Dashboard(c.Request.Context())
	if err != nil {
		slog.Error("Failed to load dashboard stats", "error", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

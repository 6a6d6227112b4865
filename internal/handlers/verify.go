package handlers

import (
	"log/slog"
	"net/http"

	"evento/internal/models"

	"github.com/gin-gonic/gin"
)

// VerifyTicket - POST /api/verify
// Staff only. Rejections come back as 200 with accepted=false so the
// admission console always gets a structured decision.
func (h *Handlers) VerifyTicket(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.services.Verification.Verify(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to verify ticket", "error", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

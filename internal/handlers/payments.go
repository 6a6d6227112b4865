package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"evento/internal/models"

	"github.com/gin-gonic/gin"
)

// Payments handlers

// PayTicket - PATCH /api/tickets/pay
// Records a payment and marks the ticket paid, exactly once.
func (h *Handlers) PayTicket(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.services.Payments.Pay(c.Request.Context(), user.ID, &req)
	if err != nil {
		slog.Error("Failed to record payment", "error", err,
			"user_id", user.ID, "ticket_id", req.TicketID)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GetPayment - GET /api/tickets/:id/payment
// Owner or staff only.
func (h *Handlers) GetPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	payment, err := h.services.Payments.GetByTicket(c.Request.Context(), user, ticketID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

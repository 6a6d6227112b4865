package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"evento/internal/models"

	"github.com/gin-gonic/gin"
)

// Tickets handlers

// PurchaseTickets - POST /api/tickets
// Reserves a batch of tickets against one ticket type.
func (h *Handlers) PurchaseTickets(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tickets, err := h.services.Tickets.Reserve(c.Request.Context(), user.ID, &req)
	if err != nil {
		slog.Error("Failed to reserve tickets", "error", err,
			"user_id", user.ID, "ticket_type_id", req.TicketTypeID, "quantity", req.Quantity)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.PurchaseResponse{Tickets: tickets})
}

// ListMyTickets - GET /api/tickets
func (h *Handlers) ListMyTickets(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var q models.ListTicketsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tickets, err := h.services.Tickets.List(c.Request.Context(), user.ID, &q)
	if err != nil {
		slog.Error("Failed to list tickets", "error", err, "user_id", user.ID)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// AssignSeat - PATCH /api/tickets/seat
func (h *Handlers) AssignSeat(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.AssignSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.services.Tickets.AssignSeat(c.Request.Context(), user.ID, &req)
	if err != nil {
		slog.Error("Failed to assign seat", "error", err,
			"user_id", user.ID, "ticket_id", req.TicketID, "seat", req.SeatNumber)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// TicketQR - GET /api/tickets/:id/qr
// Returns the ticket code as a PNG image.
func (h *Handlers) TicketQR(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	png, err := h.services.Tickets.QR(c.Request.Context(), user, ticketID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

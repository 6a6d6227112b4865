package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"evento/internal/models"

	"github.com/gin-gonic/gin"
)

// Events handlers

// CreateEvent - POST /api/events
// Staff only.
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.services.Events.Create(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to create event", "error", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// ListEvents - GET /api/events
func (h *Handlers) ListEvents(c *gin.Context) {
	var q models.ListEventsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.services.Events.List(c.Request.Context(), &q)
	if err != nil {
		slog.Error("Failed to list events", "error", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetEvent - GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.services.Events.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// UpdateEvent - PATCH /api/events/:id
// Staff only. Omitted fields keep their current values.
func (h *Handlers) UpdateEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.services.Events.Update(c.Request.Context(), id, &req)
	if err != nil {
		slog.Error("Failed to update event", "error", err, "event_id", id)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent - DELETE /api/events/:id
// Staff only.
func (h *Handlers) DeleteEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if err := h.services.Events.Delete(c.Request.Context(), id); err != nil {
		slog.Error("Failed to delete event", "error", err, "event_id", id)
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateTicketType - POST /api/events/:id/ticket-types
// Staff only.
func (h *Handlers) CreateTicketType(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req models.CreateTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tt, err := h.services.Events.CreateTicketType(c.Request.Context(), eventID, &req)
	if err != nil {
		slog.Error("Failed to create ticket type", "error", err, "event_id", eventID)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tt)
}

// ListTicketTypes - GET /api/events/:id/ticket-types
func (h *Handlers) ListTicketTypes(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	types, err := h.services.Events.ListTicketTypes(c.Request.Context(), eventID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket_types": types})
}

package consumers

import (
	"context"
	"encoding/json"
	"log/slog"

	"evento/internal/models"
	"evento/internal/repository"

	"github.com/nats-io/stan.go"
)

type Handlers struct {
	repos *repository.Repositories
}

func NewHandlers(repos *repository.Repositories) *Handlers {
	return &Handlers{repos: repos}
}

func (h *Handlers) HandleTicketReserved(m *stan.Msg) {
	var event models.TicketReservedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal ticket reserved event", "error", err)
		return
	}

	slog.Info("Ticket reserved",
		"ticket_id", event.TicketID,
		"ticket_type_id", event.TicketTypeID,
		"event_id", event.EventID,
		"user_id", event.UserID)

	m.Ack()
}

func (h *Handlers) HandleSeatAssigned(m *stan.Msg) {
	var event models.SeatAssignedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal seat assigned event", "error", err)
		return
	}

	slog.Info("Seat assigned",
		"ticket_id", event.TicketID,
		"event_id", event.EventID,
		"seat", event.SeatNumber,
		"section", event.Section)

	m.Ack()
}

// HandleTicketPaid cross-checks that the payment row landed; a paid
// event without a payment record points at a bug worth alerting on.
func (h *Handlers) HandleTicketPaid(m *stan.Msg) {
	var event models.TicketPaidEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal ticket paid event", "error", err)
		return
	}

	ctx := context.Background()
	payment, err := h.repos.Payments.GetByTicket(ctx, event.TicketID)
	if err != nil {
		slog.Error("Failed to load payment for paid ticket", "ticket_id", event.TicketID, "error", err)
		return
	}
	if payment == nil {
		slog.Error("Paid event without payment record", "ticket_id", event.TicketID)
		return
	}

	slog.Info("Ticket paid",
		"ticket_id", event.TicketID,
		"payment_id", payment.ID,
		"amount", event.Amount,
		"method", event.Method)

	m.Ack()
}

func (h *Handlers) HandleTicketVerified(m *stan.Msg) {
	var event models.TicketVerifiedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal ticket verified event", "error", err)
		return
	}

	if event.Accepted {
		slog.Info("Ticket admitted", "ticket_id", event.TicketID, "code", event.Code)
	} else {
		slog.Warn("Ticket rejected at gate", "code", event.Code, "reason", event.Reason)
	}

	m.Ack()
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "evento/internal/errors"
	"evento/internal/lifecycle"
	"evento/internal/logger"
	"evento/internal/metrics"
	"evento/internal/models"
	"evento/internal/qr"
)

type ticketStore interface {
	ReserveBatch(ctx context.Context, tt *models.TicketType, userID int64, codes []string, expiresAt time.Time) ([]models.Ticket, error)
	GetByID(ctx context.Context, id int64) (*models.Ticket, error)
	ListByUser(ctx context.Context, userID int64, q *models.ListTicketsQuery) ([]models.TicketDetail, error)
	AssignSeat(ctx context.Context, ticketID int64, seatNumber, section string) (*models.Ticket, error)
}

type lifecyclePublisher interface {
	Publish(subject string, data interface{}) error
}

// TicketService drives the reservation half of the lifecycle: batch
// purchase against ticket-type inventory, seat assignment, listings and
// QR issuance.
type TicketService struct {
	tickets  ticketStore
	types    ticketTypeStore
	events   eventStore
	nats     lifecyclePublisher
	renderer *qr.Renderer
	expiry   time.Duration
}

func NewTicketService(tickets ticketStore, types ticketTypeStore, events eventStore, nats lifecyclePublisher, renderer *qr.Renderer, expiry time.Duration) *TicketService {
	return &TicketService{
		tickets:  tickets,
		types:    types,
		events:   events,
		nats:     nats,
		renderer: renderer,
		expiry:   expiry,
	}
}

// Reserve creates req.Quantity tickets for the user, or none. The
// inventory decrement and the ticket inserts commit atomically in the
// store; this layer only checks that the event is still upcoming and
// fixes the expiration window.
func (s *TicketService) Reserve(ctx context.Context, userID int64, req *models.PurchaseRequest) ([]models.Ticket, error) {
	tt, err := s.types.GetByID(ctx, req.TicketTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket type: %w", err)
	}
	if tt == nil {
		return nil, apperrors.ErrTicketTypeNotFound
	}

	event, err := s.events.GetByID(ctx, tt.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}
	if !event.IsUpcoming(time.Now()) {
		return nil, apperrors.ErrInvalidDate
	}

	codes := make([]string, req.Quantity)
	for i := range codes {
		codes[i] = uuid.New().String()
	}
	expiresAt := lifecycle.ExpiresAt(event.StartsAt, s.expiry)

	tickets, err := s.tickets.ReserveBatch(ctx, tt, userID, codes, expiresAt)
	if err != nil {
		return nil, err
	}

	metrics.TicketsReserved.Add(float64(len(tickets)))

	for _, ticket := range tickets {
		data := models.TicketReservedEvent{
			TicketID:     ticket.ID,
			TicketTypeID: tt.ID,
			EventID:      event.ID,
			UserID:       userID,
			Quantity:     req.Quantity,
			Timestamp:    time.Now(),
		}
		if err := s.nats.Publish(models.SubjectTicketReserved, data); err != nil {
			logger.WithContext(ctx).Error("Failed to publish ticket reserved event",
				"error", err,
				"ticket_id", ticket.ID)
		}
	}

	return tickets, nil
}

// AssignSeat pins a seat to an unpaid ticket of a seated event. Only the
// ticket owner may assign.
func (s *TicketService) AssignSeat(ctx context.Context, userID int64, req *models.AssignSeatRequest) (*models.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, req.TicketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, apperrors.ErrTicketNotFound
	}
	if ticket.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	updated, err := s.tickets.AssignSeat(ctx, req.TicketID, req.SeatNumber, req.Section)
	if err != nil {
		return nil, err
	}

	data := models.SeatAssignedEvent{
		TicketID:   updated.ID,
		EventID:    updated.EventID,
		SeatNumber: req.SeatNumber,
		Section:    req.Section,
		Timestamp:  time.Now(),
	}
	if err := s.nats.Publish(models.SubjectTicketSeatAssigned, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish seat assigned event",
			"error", err,
			"ticket_id", updated.ID)
	}

	return updated, nil
}

func (s *TicketService) List(ctx context.Context, userID int64, q *models.ListTicketsQuery) ([]models.TicketDetail, error) {
	tickets, err := s.tickets.ListByUser(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// QR renders the scannable PNG for a ticket code. Owners see QR codes
// for their paid tickets; staff can render any ticket's code.
func (s *TicketService) QR(ctx context.Context, principal *models.User, ticketID int64) ([]byte, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, apperrors.ErrTicketNotFound
	}
	if ticket.UserID != principal.ID && !principal.IsStaff {
		return nil, apperrors.ErrForbidden
	}
	if !ticket.IsPaid && !principal.IsStaff {
		return nil, apperrors.ErrNotPaid
	}

	return s.renderer.Render(ticket.Code)
}

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
)

type paymentStore interface {
	Record(ctx context.Context, payment *models.Payment) error
	GetByTicket(ctx context.Context, ticketID int64) (*models.Payment, error)
}

type ticketGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Ticket, error)
}

// PaymentService is the payment recorder: exactly one completed payment
// per ticket, amount taken from the ticket type price.
type PaymentService struct {
	payments paymentStore
	tickets  ticketGetter
	types    ticketTypeStore
	nats     lifecyclePublisher
}

func NewPaymentService(payments paymentStore, tickets ticketGetter, types ticketTypeStore, nats lifecyclePublisher) *PaymentService {
	return &PaymentService{payments: payments, tickets: tickets, types: types, nats: nats}
}

// Pay validates the method, derives the masked card metadata for card
// methods, and records the payment. The paid flip and the payment row
// commit together in the store; ErrAlreadyPaid surfaces from either the
// early guard or the conditional update losing a race.
func (s *PaymentService) Pay(ctx context.Context, userID int64, req *models.PayRequest) (*models.Payment, error) {
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
	if err := lifecycle.CanPay(ticket); err != nil {
		return nil, err
	}

	tt, err := s.types.GetByID(ctx, ticket.TicketTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket type: %w", err)
	}
	if tt == nil {
		return nil, apperrors.ErrTicketTypeNotFound
	}

	payment := &models.Payment{
		TicketID: ticket.ID,
		UserID:   userID,
		Amount:   tt.Price,
		Method:   req.Method,
		Status:   models.PaymentCompleted,
	}

	txID := uuid.New().String()[:8]
	payment.TransactionID = &txID

	if lifecycle.IsCardMethod(req.Method) {
		card, err := lifecycle.ParseCard(req.CardNumber)
		if err != nil {
			return nil, err
		}
		payment.CardLastDigits = &card.LastDigits
		payment.CardType = &card.Brand
	}

	if err := s.payments.Record(ctx, payment); err != nil {
		return nil, err
	}

	metrics.PaymentsRecorded.Inc()

	data := models.TicketPaidEvent{
		TicketID:  ticket.ID,
		PaymentID: payment.ID,
		Amount:    payment.Amount.String(),
		Method:    payment.Method,
		Timestamp: time.Now(),
	}
	if err := s.nats.Publish(models.SubjectTicketPaid, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish ticket paid event",
			"error", err,
			"ticket_id", ticket.ID)
	}

	return payment, nil
}

// GetByTicket returns a ticket's payment record. Only the ticket owner
// and staff may read it; the amount, transaction id and masked card
// metadata are not public.
func (s *PaymentService) GetByTicket(ctx context.Context, principal *models.User, ticketID int64) (*models.Payment, error) {
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

	payment, err := s.payments.GetByTicket(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return nil, apperrors.ErrNotPaid
	}
	return payment, nil
}

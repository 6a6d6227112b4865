package service

import (
	"context"
	"errors"
	"time"

	apperrors "evento/internal/errors"
	"evento/internal/logger"
	"evento/internal/metrics"
	"evento/internal/models"
)

type ticketVerifier interface {
	VerifyByCode(ctx context.Context, code string, entryTime, now time.Time) (*models.TicketDetail, error)
}

// VerificationService is the admission gate: a single-shot check that
// converts a paid, unused, unexpired ticket into a used one. It is the
// only caller of the verify transition; the interactive console and the
// admission API both go through it.
type VerificationService struct {
	tickets ticketVerifier
	nats    lifecyclePublisher
}

func NewVerificationService(tickets ticketVerifier, nats lifecyclePublisher) *VerificationService {
	return &VerificationService{tickets: tickets, nats: nats}
}

// Verify checks a scanned code. A rejected scan reports its reason and,
// when the code resolved to a ticket, a snapshot for the console; the
// ticket itself is never mutated on rejection.
func (s *VerificationService) Verify(ctx context.Context, req *models.VerifyRequest) (*models.VerifyResponse, error) {
	now := time.Now()
	entryTime := now
	if req.EntryTime != nil {
		entryTime = *req.EntryTime
	}

	detail, err := s.tickets.VerifyByCode(ctx, req.TicketCode, entryTime, now)

	resp := &models.VerifyResponse{}
	switch {
	case err == nil:
		resp.Accepted = true
		resp.Message = "Ticket verified successfully."
	case errors.Is(err, apperrors.ErrAlreadyUsed):
		resp.Message = "This ticket has already been used."
	case errors.Is(err, apperrors.ErrExpired):
		resp.Message = "This ticket has expired."
	case errors.Is(err, apperrors.ErrNotPaid):
		resp.Message = "This ticket has not been paid."
	case errors.Is(err, apperrors.ErrInvalidCode):
		resp.Message = "Ticket code invalid or not found."
	default:
		return nil, err
	}

	if detail != nil {
		resp.Ticket = snapshot(detail)
	}

	result := "accepted"
	if !resp.Accepted {
		result = reasonLabel(err)
	}
	metrics.Verifications.WithLabelValues(result).Inc()

	event := models.TicketVerifiedEvent{
		Code:      req.TicketCode,
		Accepted:  resp.Accepted,
		Timestamp: now,
	}
	if detail != nil {
		event.TicketID = detail.ID
	}
	if !resp.Accepted {
		event.Reason = result
	}
	if err := s.nats.Publish(models.SubjectTicketVerified, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish ticket verified event",
			"error", err,
			"code", req.TicketCode)
	}

	return resp, nil
}

func snapshot(d *models.TicketDetail) *models.TicketSnapshot {
	s := &models.TicketSnapshot{
		ID:          d.ID,
		Code:        d.Code,
		EventName:   d.EventName,
		TicketType:  d.TicketTypeName,
		PurchasedAt: d.PurchasedAt,
		EntryTime:   d.EntryTime,
		ScanCount:   d.ScanCount,
	}
	if d.SeatNumber != nil {
		s.SeatNumber = *d.SeatNumber
	}
	if d.Section != nil {
		s.Section = *d.Section
	}
	return s
}

func reasonLabel(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrAlreadyUsed):
		return "already_used"
	case errors.Is(err, apperrors.ErrExpired):
		return "expired"
	case errors.Is(err, apperrors.ErrNotPaid):
		return "not_paid"
	case errors.Is(err, apperrors.ErrInvalidCode):
		return "invalid_code"
	default:
		return "error"
	}
}

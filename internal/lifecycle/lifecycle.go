// Package lifecycle holds the pure decision logic of the ticket state
// machine. It does no I/O: repositories evaluate these guards inside
// their transactions, and tests exercise them directly.
package lifecycle

import (
	"time"

	apperrors "evento/internal/errors"
	"evento/internal/models"
)

// State is the explicit lifecycle state of a ticket, derived from its
// persisted flags. The flags stay in storage for compatibility with the
// admission tooling; the enum is the single place their combinations
// are interpreted.
type State string

const (
	StateReserved     State = "reserved"
	StateSeatAssigned State = "seat_assigned"
	StatePaid         State = "paid"
	StateUsed         State = "used"
	StateExpired      State = "expired"
)

// StateOf maps a ticket to its lifecycle state at the given instant.
// Used wins over expired: a ticket scanned in time stays used.
func StateOf(t *models.Ticket, now time.Time) State {
	switch {
	case t.IsUsed:
		return StateUsed
	case t.IsExpired(now):
		return StateExpired
	case t.IsPaid:
		return StatePaid
	case t.SeatNumber != nil:
		return StateSeatAssigned
	default:
		return StateReserved
	}
}

// ExpiresAt computes the fixed expiration for a ticket reserved against
// an event starting at startsAt.
func ExpiresAt(startsAt time.Time, offset time.Duration) time.Time {
	return startsAt.Add(offset)
}

// CanAssignSeat checks the seat-assignment guards: the event must have
// numbered seats and the ticket must not be paid yet. Seat uniqueness is
// left to the storage constraint.
func CanAssignSeat(t *models.Ticket, event *models.Event) error {
	if !event.HasSeats {
		return apperrors.ErrSeatsNotSupported
	}
	if t.IsPaid {
		return apperrors.ErrAlreadyPaid
	}
	return nil
}

// CanPay checks the pay-once guard.
func CanPay(t *models.Ticket) error {
	if t.IsPaid {
		return apperrors.ErrAlreadyPaid
	}
	return nil
}

// VerifyDecision evaluates the admission guards in their fixed order:
// used, then expired, then unpaid. A rejected scan must not mutate the
// ticket; callers only apply the used/entry_time/scan_count update when
// this returns nil.
func VerifyDecision(t *models.Ticket, now time.Time) error {
	if t.IsUsed {
		return apperrors.ErrAlreadyUsed
	}
	if t.IsExpired(now) {
		return apperrors.ErrExpired
	}
	if !t.IsPaid {
		return apperrors.ErrNotPaid
	}
	return nil
}

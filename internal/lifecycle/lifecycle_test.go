package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "evento/internal/errors"
	"evento/internal/models"
)

var testNow = time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

func ticket(mut func(*models.Ticket)) *models.Ticket {
	t := &models.Ticket{
		ID:        1,
		Code:      "b3c9e1f2-0000-0000-0000-000000000000",
		ExpiresAt: testNow.Add(4 * time.Hour),
	}
	if mut != nil {
		mut(t)
	}
	return t
}

func TestStateOf(t *testing.T) {
	seat := "A1"

	tests := []struct {
		name string
		mut  func(*models.Ticket)
		want State
	}{
		{"fresh reservation", nil, StateReserved},
		{"seat assigned", func(tk *models.Ticket) { tk.SeatNumber = &seat }, StateSeatAssigned},
		{"paid", func(tk *models.Ticket) { tk.IsPaid = true }, StatePaid},
		{"used", func(tk *models.Ticket) { tk.IsPaid = true; tk.IsUsed = true }, StateUsed},
		{"expired", func(tk *models.Ticket) { tk.ExpiresAt = testNow.Add(-time.Minute) }, StateExpired},
		{"used wins over expired", func(tk *models.Ticket) {
			tk.IsUsed = true
			tk.ExpiresAt = testNow.Add(-time.Minute)
		}, StateUsed},
		{"expired wins over paid", func(tk *models.Ticket) {
			tk.IsPaid = true
			tk.ExpiresAt = testNow.Add(-time.Minute)
		}, StateExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StateOf(ticket(tt.mut), testNow))
		})
	}
}

func TestExpiresAt(t *testing.T) {
	starts := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, starts.Add(4*time.Hour), ExpiresAt(starts, 4*time.Hour))
}

func TestCanAssignSeat(t *testing.T) {
	seated := &models.Event{HasSeats: true}
	general := &models.Event{HasSeats: false}

	assert.NoError(t, CanAssignSeat(ticket(nil), seated))
	assert.ErrorIs(t, CanAssignSeat(ticket(nil), general), apperrors.ErrSeatsNotSupported)

	paid := ticket(func(tk *models.Ticket) { tk.IsPaid = true })
	assert.ErrorIs(t, CanAssignSeat(paid, seated), apperrors.ErrAlreadyPaid)
}

func TestCanPay(t *testing.T) {
	assert.NoError(t, CanPay(ticket(nil)))

	paid := ticket(func(tk *models.Ticket) { tk.IsPaid = true })
	assert.ErrorIs(t, CanPay(paid), apperrors.ErrAlreadyPaid)
}

func TestVerifyDecision(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*models.Ticket)
		want error
	}{
		{"paid unused unexpired", func(tk *models.Ticket) { tk.IsPaid = true }, nil},
		{"already used", func(tk *models.Ticket) { tk.IsPaid = true; tk.IsUsed = true }, apperrors.ErrAlreadyUsed},
		{"unpaid", nil, apperrors.ErrNotPaid},
		{"expired paid", func(tk *models.Ticket) {
			tk.IsPaid = true
			tk.ExpiresAt = testNow.Add(-time.Minute)
		}, apperrors.ErrExpired},
		// Expired is reported before unpaid when both apply.
		{"expired and unpaid", func(tk *models.Ticket) {
			tk.ExpiresAt = testNow.Add(-time.Minute)
		}, apperrors.ErrExpired},
		// Used is reported first even for an expired, unpaid ticket.
		{"used and expired and unpaid", func(tk *models.Ticket) {
			tk.IsUsed = true
			tk.ExpiresAt = testNow.Add(-time.Minute)
		}, apperrors.ErrAlreadyUsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyDecision(ticket(tt.mut), testNow)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestVerifyExactlyAtExpiry(t *testing.T) {
	// now == expires_at is still valid; only now > expires_at rejects.
	tk := ticket(func(tk *models.Ticket) {
		tk.IsPaid = true
		tk.ExpiresAt = testNow
	})
	assert.NoError(t, VerifyDecision(tk, testNow))
}

func TestVerifyFourHourWindow(t *testing.T) {
	starts := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	tk := ticket(func(tk *models.Ticket) {
		tk.IsPaid = true
		tk.ExpiresAt = ExpiresAt(starts, 4*time.Hour)
	})

	assert.NoError(t, VerifyDecision(tk, starts.Add(3*time.Hour)))
	assert.ErrorIs(t, VerifyDecision(tk, starts.Add(5*time.Hour)), apperrors.ErrExpired)
}

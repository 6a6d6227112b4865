package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evento/internal/models"
)

func paidTicket(t *testing.T, f *fixture) models.Ticket {
	t.Helper()
	ticket := reserveOne(t, f, 1)
	_, err := f.paymentSvc.Pay(context.Background(), 1, &models.PayRequest{
		TicketID: ticket.ID,
		Method:   models.MethodCash,
	})
	require.NoError(t, err)
	return ticket
}

func TestVerifyAcceptsPaidTicketOnce(t *testing.T) {
	f := newFixture()
	ticket := paidTicket(t, f)

	resp, err := f.verifySvc.Verify(context.Background(), &models.VerifyRequest{
		TicketCode: ticket.Code,
	})
	require.NoError(t, err)
	assert.True(t, resp.Accepted)
	assert.Equal(t, "Ticket verified successfully.", resp.Message)
	require.NotNil(t, resp.Ticket)
	assert.Equal(t, ticket.ID, resp.Ticket.ID)
	assert.NotNil(t, resp.Ticket.EntryTime)
	assert.Equal(t, 1, resp.Ticket.ScanCount)

	// Second scan of the same code is rejected.
	resp, err = f.verifySvc.Verify(context.Background(), &models.VerifyRequest{
		TicketCode: ticket.Code,
	})
	require.NoError(t, err)
	assert.False(t, resp.Accepted)
	assert.Equal(t, "This ticket has already been used.", resp.Message)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ScanCount, "rejected scan must not bump the scan count")

	events := f.nats.bySubject(models.SubjectTicketVerified)
	require.Len(t, events, 2, "every decision is published")
}

func TestVerifyUnpaidRejectedWithoutMutation(t *testing.T) {
	f := newFixture()
	ticket := reserveOne(t, f, 1)

	resp, err := f.verifySvc.Verify(context.Background(), &models.VerifyRequest{
		TicketCode: ticket.Code,
	})
	require.NoError(t, err)
	assert.False(t, resp.Accepted)
	assert.Equal(t, "This ticket has not been paid.", resp.Message)
	require.NotNil(t, resp.Ticket, "console still gets the snapshot")

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsUsed)
	assert.Nil(t, stored.EntryTime)
	assert.Equal(t, 0, stored.ScanCount)
}

func TestVerifyExpiredBeatsUnpaid(t *testing.T) {
	f := newFixture()
	ticket := reserveOne(t, f, 1)

	// Force the ticket past its expiration while leaving it unpaid.
	f.tickets.mu.Lock()
	f.tickets.tickets[ticket.ID].ExpiresAt = time.Now().Add(-time.Minute)
	f.tickets.mu.Unlock()

	resp, err := f.verifySvc.Verify(context.Background(), &models.VerifyRequest{
		TicketCode: ticket.Code,
	})
	require.NoError(t, err)
	assert.False(t, resp.Accepted)
	assert.Equal(t, "This ticket has expired.", resp.Message)
}

func TestVerifyUnknownCode(t *testing.T) {
	f := newFixture()

	resp, err := f.verifySvc.Verify(context.Background(), &models.VerifyRequest{
		TicketCode: "no-such-code",
	})
	require.NoError(t, err)
	assert.False(t, resp.Accepted)
	assert.Equal(t, "Ticket code invalid or not found.", resp.Message)
	assert.Nil(t, resp.Ticket)
}

func TestVerifyHonorsClientEntryTime(t *testing.T) {
	f := newFixture()
	ticket := paidTicket(t, f)

	entry := time.Now().Add(-10 * time.Minute).Truncate(time.Second)
	resp, err := f.verifySvc.Verify(context.Background(), &models.VerifyRequest{
		TicketCode: ticket.Code,
		EntryTime:  &entry,
	})
	require.NoError(t, err)
	require.True(t, resp.Accepted)
	require.NotNil(t, resp.Ticket.EntryTime)
	assert.True(t, resp.Ticket.EntryTime.Equal(entry))
}

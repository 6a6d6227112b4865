package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"evento/internal/database"
	apperrors "evento/internal/errors"
	"evento/internal/lifecycle"
	"evento/internal/models"
)

const pqUniqueViolation = "23505"

type TicketRepository struct {
	db *database.DB
}

func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// ReserveBatch creates one ticket per code and decrements the ticket type
// inventory by len(codes), all in a single transaction. The conditional
// decrement is the serialization point: concurrent reservations against
// the same ticket type queue on the row lock and the loser sees the
// reduced quantity, so available_quantity can never go below zero.
func (r *TicketRepository) ReserveBatch(ctx context.Context, tt *models.TicketType, userID int64, codes []string, expiresAt time.Time) ([]models.Ticket, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE ticket_types
		SET available_quantity = available_quantity - $2, updated_at = NOW()
		WHERE id = $1 AND available_quantity >= $2`,
		tt.ID, len(codes))
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperrors.ErrInsufficientInventory
	}

	tickets := make([]models.Ticket, 0, len(codes))
	for _, code := range codes {
		ticket := models.Ticket{
			TicketTypeID: tt.ID,
			EventID:      tt.EventID,
			UserID:       userID,
			Code:         code,
			ExpiresAt:    expiresAt,
		}

		err := tx.QueryRowContext(ctx, `
			INSERT INTO tickets (ticket_type_id, event_id, user_id, code, expires_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, purchased_at`,
			ticket.TicketTypeID, ticket.EventID, ticket.UserID, ticket.Code, ticket.ExpiresAt,
		).Scan(&ticket.ID, &ticket.PurchasedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert ticket: %w", err)
		}

		tickets = append(tickets, ticket)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*models.Ticket, error) {
	return r.get(ctx, "id = $1", id)
}

func (r *TicketRepository) GetByCode(ctx context.Context, code string) (*models.Ticket, error) {
	return r.get(ctx, "code = $1", code)
}

func (r *TicketRepository) get(ctx context.Context, where string, arg interface{}) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	query := `
		SELECT id, ticket_type_id, event_id, user_id, code, seat_number, section,
		       is_paid, is_used, entry_time, exit_time, expires_at, scan_count, purchased_at
		FROM tickets
		WHERE ` + where

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.TicketTypeID,
		&ticket.EventID,
		&ticket.UserID,
		&ticket.Code,
		&ticket.SeatNumber,
		&ticket.Section,
		&ticket.IsPaid,
		&ticket.IsUsed,
		&ticket.EntryTime,
		&ticket.ExitTime,
		&ticket.ExpiresAt,
		&ticket.ScanCount,
		&ticket.PurchasedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return ticket, err
}

// ListByUser returns a purchaser's tickets with event and ticket type
// names joined in, optionally filtered by event and flag status.
func (r *TicketRepository) ListByUser(ctx context.Context, userID int64, q *models.ListTicketsQuery) ([]models.TicketDetail, error) {
	var args []interface{}

	query := `
		SELECT t.id, t.ticket_type_id, t.event_id, t.user_id, t.code, t.seat_number, t.section,
		       t.is_paid, t.is_used, t.entry_time, t.exit_time, t.expires_at, t.scan_count, t.purchased_at,
		       e.name, e.starts_at, tt.name
		FROM tickets t
		JOIN ticket_types tt ON tt.id = t.ticket_type_id
		JOIN events e ON e.id = t.event_id
		WHERE t.user_id = $1`
	args = append(args, userID)
	argIndex := 2

	if q.EventID != 0 {
		query += fmt.Sprintf(" AND t.event_id = $%d", argIndex)
		args = append(args, q.EventID)
		argIndex++
	}

	switch q.Status {
	case "used":
		query += " AND t.is_used"
	case "unused":
		query += " AND NOT t.is_used"
	case "paid":
		query += " AND t.is_paid"
	case "unpaid":
		query += " AND NOT t.is_paid"
	}

	query += " ORDER BY t.purchased_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.TicketDetail
	for rows.Next() {
		var d models.TicketDetail
		err := rows.Scan(
			&d.ID, &d.TicketTypeID, &d.EventID, &d.UserID, &d.Code, &d.SeatNumber, &d.Section,
			&d.IsPaid, &d.IsUsed, &d.EntryTime, &d.ExitTime, &d.ExpiresAt, &d.ScanCount, &d.PurchasedAt,
			&d.EventName, &d.EventStartsAt, &d.TicketTypeName,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, d)
	}

	return tickets, rows.Err()
}

// AssignSeat pins a seat to a ticket. The not-paid guard is re-checked
// under a row lock, and seat uniqueness per event is the partial unique
// index on (event_id, seat_number) rather than any application scan.
func (r *TicketRepository) AssignSeat(ctx context.Context, ticketID int64, seatNumber, section string) (*models.Ticket, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ticket := &models.Ticket{}
	event := &models.Event{}
	err = tx.QueryRowContext(ctx, `
		SELECT t.id, t.ticket_type_id, t.event_id, t.user_id, t.code, t.seat_number, t.section,
		       t.is_paid, t.is_used, t.entry_time, t.exit_time, t.expires_at, t.scan_count, t.purchased_at,
		       e.has_seats
		FROM tickets t
		JOIN events e ON e.id = t.event_id
		WHERE t.id = $1
		FOR UPDATE OF t`, ticketID).Scan(
		&ticket.ID, &ticket.TicketTypeID, &ticket.EventID, &ticket.UserID, &ticket.Code,
		&ticket.SeatNumber, &ticket.Section, &ticket.IsPaid, &ticket.IsUsed,
		&ticket.EntryTime, &ticket.ExitTime, &ticket.ExpiresAt, &ticket.ScanCount, &ticket.PurchasedAt,
		&event.HasSeats,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := lifecycle.CanAssignSeat(ticket, event); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE tickets SET seat_number = $2, section = NULLIF($3, '') WHERE id = $1`,
		ticketID, seatNumber, section)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, apperrors.ErrSeatTaken
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	ticket.SeatNumber = &seatNumber
	if section != "" {
		ticket.Section = &section
	}
	return ticket, nil
}

// VerifyByCode runs the admission check for a scanned code. Guards are
// evaluated under a row lock in their fixed order (used, expired,
// unpaid); only an accepted scan mutates the ticket. The joined detail
// is returned for the console even when the scan is rejected.
func (r *TicketRepository) VerifyByCode(ctx context.Context, code string, entryTime, now time.Time) (*models.TicketDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	d := &models.TicketDetail{}
	err = tx.QueryRowContext(ctx, `
		SELECT t.id, t.ticket_type_id, t.event_id, t.user_id, t.code, t.seat_number, t.section,
		       t.is_paid, t.is_used, t.entry_time, t.exit_time, t.expires_at, t.scan_count, t.purchased_at,
		       e.name, e.starts_at, tt.name
		FROM tickets t
		JOIN ticket_types tt ON tt.id = t.ticket_type_id
		JOIN events e ON e.id = t.event_id
		WHERE t.code = $1
		FOR UPDATE OF t`, code).Scan(
		&d.ID, &d.TicketTypeID, &d.EventID, &d.UserID, &d.Code, &d.SeatNumber, &d.Section,
		&d.IsPaid, &d.IsUsed, &d.EntryTime, &d.ExitTime, &d.ExpiresAt, &d.ScanCount, &d.PurchasedAt,
		&d.EventName, &d.EventStartsAt, &d.TicketTypeName,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}

	if err := lifecycle.VerifyDecision(&d.Ticket, now); err != nil {
		return d, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE tickets
		SET is_used = TRUE, entry_time = $2, scan_count = scan_count + 1
		WHERE id = $1`,
		d.ID, entryTime)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	d.IsUsed = true
	d.EntryTime = &entryTime
	d.ScanCount++
	return d, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"evento/internal/database"
	apperrors "evento/internal/errors"
	"evento/internal/models"
)

type PaymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Record flips the ticket's paid flag and inserts the payment row in one
// transaction. The conditional update is the pay-once guard: a second
// attempt matches zero rows and the whole transaction rolls back, so a
// ticket can never carry two payments.
func (r *PaymentRepository) Record(ctx context.Context, payment *models.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE tickets SET is_paid = TRUE WHERE id = $1 AND is_paid = FALSE`,
		payment.TicketID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrAlreadyPaid
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO payments (ticket_id, user_id, amount, method, status, transaction_id,
		                      card_last_digits, card_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, paid_at`,
		payment.TicketID,
		payment.UserID,
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.TransactionID,
		payment.CardLastDigits,
		payment.CardType,
	).Scan(&payment.ID, &payment.PaidAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return tx.Commit()
}

func (r *PaymentRepository) GetByTicket(ctx context.Context, ticketID int64) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `
		SELECT id, ticket_id, user_id, amount, method, status, transaction_id,
		       card_last_digits, card_type, paid_at
		FROM payments
		WHERE ticket_id = $1`

	err := r.db.QueryRowContext(ctx, query, ticketID).Scan(
		&payment.ID,
		&payment.TicketID,
		&payment.UserID,
		&payment.Amount,
		&payment.Method,
		&payment.Status,
		&payment.TransactionID,
		&payment.CardLastDigits,
		&payment.CardType,
		&payment.PaidAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return payment, err
}

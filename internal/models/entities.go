package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is an authenticated principal. Staff users can create events,
// verify tickets at the door and read dashboard stats.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	Surname      string    `json:"surname" db:"surname"`
	IsStaff      bool      `json:"is_staff" db:"is_staff"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

// Event is a catalog entry. Capacity is informational; the hard inventory
// limit lives on each ticket type.
type Event struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Location    string    `json:"location" db:"location"`
	Category    string    `json:"category" db:"category"`
	StartsAt    time.Time `json:"starts_at" db:"starts_at"`
	Capacity    int       `json:"capacity" db:"capacity"`
	HasSeats    bool      `json:"has_seats" db:"has_seats"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// IsUpcoming reports whether the event has not started yet.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.StartsAt.After(now)
}

// TicketType is a priced admission category with finite inventory.
type TicketType struct {
	ID                int64           `json:"id" db:"id"`
	EventID           int64           `json:"event_id" db:"event_id"`
	Name              string          `json:"name" db:"name"`
	Price             decimal.Decimal `json:"price" db:"price"`
	AvailableQuantity int             `json:"available_quantity" db:"available_quantity"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// Ticket is a single admission. EventID duplicates the ticket type's event
// so the (event_id, seat_number) uniqueness constraint is expressible.
type Ticket struct {
	ID           int64      `json:"id" db:"id"`
	TicketTypeID int64      `json:"ticket_type_id" db:"ticket_type_id"`
	EventID      int64      `json:"event_id" db:"event_id"`
	UserID       int64      `json:"user_id" db:"user_id"`
	Code         string     `json:"code" db:"code"`
	SeatNumber   *string    `json:"seat_number" db:"seat_number"`
	Section      *string    `json:"section" db:"section"`
	IsPaid       bool       `json:"is_paid" db:"is_paid"`
	IsUsed       bool       `json:"is_used" db:"is_used"`
	EntryTime    *time.Time `json:"entry_time" db:"entry_time"`
	ExitTime     *time.Time `json:"exit_time" db:"exit_time"`
	ExpiresAt    time.Time  `json:"expires_at" db:"expires_at"`
	ScanCount    int        `json:"scan_count" db:"scan_count"`
	PurchasedAt  time.Time  `json:"purchased_at" db:"purchased_at"`
}

// IsExpired reports whether the ticket can no longer be verified.
func (t *Ticket) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// TicketDetail is a ticket joined with its event and ticket type names,
// as loaded for listings and the verification gate.
type TicketDetail struct {
	Ticket
	EventName      string    `json:"event_name"`
	EventStartsAt  time.Time `json:"event_starts_at"`
	TicketTypeName string    `json:"ticket_type_name"`
}

// Payment records the single payment attempt accepted for a ticket.
type Payment struct {
	ID             int64           `json:"id" db:"id"`
	TicketID       int64           `json:"ticket_id" db:"ticket_id"`
	UserID         int64           `json:"user_id" db:"user_id"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	Method         string          `json:"method" db:"method"`
	Status         string          `json:"status" db:"status"`
	TransactionID  *string         `json:"transaction_id" db:"transaction_id"`
	CardLastDigits *string         `json:"card_last_digits" db:"card_last_digits"`
	CardType       *string         `json:"card_type" db:"card_type"`
	PaidAt         time.Time       `json:"paid_at" db:"paid_at"`
}

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment methods accepted by the recorder. Card methods require card
// details; the rest are recorded as-is.
const (
	MethodCreditCard = "credit_card"
	MethodDebitCard  = "debit_card"
	MethodCash       = "cash"
	MethodTransfer   = "bank_transfer"
)

// Event categories mirrored in the events table check constraint.
var EventCategories = []string{"music", "sports", "culture", "education", "business", "other"}

package models

import "time"

// NATS subjects for ticket lifecycle events.
const (
	SubjectTicketReserved     = "ticket.reserved"
	SubjectTicketSeatAssigned = "ticket.seat_assigned"
	SubjectTicketPaid         = "ticket.paid"
	SubjectTicketVerified     = "ticket.verified"
)

// TicketReservedEvent is published once per ticket created by a reservation.
type TicketReservedEvent struct {
	TicketID     int64     `json:"ticket_id"`
	TicketTypeID int64     `json:"ticket_type_id"`
	EventID      int64     `json:"event_id"`
	UserID       int64     `json:"user_id"`
	Quantity     int       `json:"quantity"`
	Timestamp    time.Time `json:"timestamp"`
}

// SeatAssignedEvent is published after a seat sticks to a ticket.
type SeatAssignedEvent struct {
	TicketID   int64     `json:"ticket_id"`
	EventID    int64     `json:"event_id"`
	SeatNumber string    `json:"seat_number"`
	Section    string    `json:"section"`
	Timestamp  time.Time `json:"timestamp"`
}

// TicketPaidEvent is published after the payment row commits.
type TicketPaidEvent struct {
	TicketID  int64     `json:"ticket_id"`
	PaymentID int64     `json:"payment_id"`
	Amount    string    `json:"amount"`
	Method    string    `json:"method"`
	Timestamp time.Time `json:"timestamp"`
}

// TicketVerifiedEvent is published for every admission decision,
// accepted or not.
type TicketVerifiedEvent struct {
	TicketID  int64     `json:"ticket_id,omitempty"`
	Code      string    `json:"code"`
	Accepted  bool      `json:"accepted"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

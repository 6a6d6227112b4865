package errors

import "errors"

// Domain failures of the ticket lifecycle. Services return these (possibly
// wrapped); handlers translate them into HTTP statuses.
var (
	ErrInsufficientInventory = errors.New("not enough tickets available")
	ErrInvalidDate           = errors.New("date is in the past")
	ErrAlreadyPaid           = errors.New("ticket is already paid")
	ErrSeatTaken             = errors.New("seat is already taken")
	ErrNotPaid               = errors.New("ticket is not paid")
	ErrAlreadyUsed           = errors.New("ticket has already been used")
	ErrExpired               = errors.New("ticket has expired")
	ErrInvalidCode           = errors.New("ticket code not found")
	ErrInvalidCard           = errors.New("invalid card number")

	ErrEventNotFound      = errors.New("event not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrSeatsNotSupported  = errors.New("event has no numbered seats")
	ErrForbidden          = errors.New("operation is forbidden for user")
)

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateEventRequest - POST /api/events
type CreateEventRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	Capacity    int       `json:"capacity" binding:"required,min=1"`
	HasSeats    bool      `json:"has_seats"`
}

// CreateEventResponse carries the id of the created event.
type CreateEventResponse struct {
	ID int64 `json:"id"`
}

// UpdateEventRequest - PATCH /api/events/:id. Nil fields keep their
// current values.
type UpdateEventRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Category    *string    `json:"category" binding:"omitempty,oneof=music sports culture education business other"`
	StartsAt    *time.Time `json:"starts_at"`
	Capacity    *int       `json:"capacity" binding:"omitempty,min=1"`
	HasSeats    *bool      `json:"has_seats"`
}

// ListEventsQuery - GET /api/events query parameters.
type ListEventsQuery struct {
	Query    string `form:"q"`
	Date     string `form:"date" binding:"omitempty,oneof=upcoming past"`
	Category string `form:"category"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"pageSize,default=20" binding:"min=1,max=100"`
}

// CreateTicketTypeRequest - POST /api/events/:id/ticket-types
type CreateTicketTypeRequest struct {
	Name              string          `json:"name" binding:"required"`
	Price             decimal.Decimal `json:"price" binding:"required"`
	AvailableQuantity int             `json:"available_quantity" binding:"required,min=1"`
}

// PurchaseRequest - POST /api/tickets
type PurchaseRequest struct {
	TicketTypeID int64 `json:"ticket_type_id" binding:"required"`
	Quantity     int   `json:"quantity" binding:"required,min=1"`
}

// PurchaseResponse lists the tickets created by one reservation.
type PurchaseResponse struct {
	Tickets []Ticket `json:"tickets"`
}

// AssignSeatRequest - PATCH /api/tickets/seat
type AssignSeatRequest struct {
	TicketID   int64  `json:"ticket_id" binding:"required"`
	SeatNumber string `json:"seat_number" binding:"required"`
	Section    string `json:"section"`
}

// PayRequest - PATCH /api/tickets/pay
type PayRequest struct {
	TicketID   int64  `json:"ticket_id" binding:"required"`
	Method     string `json:"payment_method" binding:"required"`
	CardNumber string `json:"card_number"`
}

// VerifyRequest - POST /api/verify
type VerifyRequest struct {
	TicketCode string     `json:"ticket_code" binding:"required"`
	EntryTime  *time.Time `json:"entry_time"`
}

// VerifyResponse is the structured result of an admission check.
type VerifyResponse struct {
	Accepted bool            `json:"accepted"`
	Message  string          `json:"message"`
	Ticket   *TicketSnapshot `json:"ticket,omitempty"`
}

// TicketSnapshot is the read-only view of a ticket returned to the
// admission console. Never carries the full entity.
type TicketSnapshot struct {
	ID          int64      `json:"id"`
	Code        string     `json:"code"`
	EventName   string     `json:"event"`
	TicketType  string     `json:"ticket_type"`
	SeatNumber  string     `json:"seat_number"`
	Section     string     `json:"section"`
	PurchasedAt time.Time  `json:"purchased_at"`
	EntryTime   *time.Time `json:"entry_time,omitempty"`
	ScanCount   int        `json:"scan_count"`
}

// ListTicketsQuery - GET /api/tickets query parameters.
type ListTicketsQuery struct {
	EventID int64  `form:"event_id"`
	Status  string `form:"status" binding:"omitempty,oneof=used unused paid unpaid"`
}

// DashboardStats - GET /api/admin/stats
type DashboardStats struct {
	TotalEvents    int64           `json:"total_events"`
	UpcomingEvents int64           `json:"upcoming_events"`
	TotalTickets   int64           `json:"total_tickets"`
	UsedTickets    int64           `json:"used_tickets"`
	PaidTickets    int64           `json:"paid_tickets"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	PopularEvents  []EventSales    `json:"popular_events"`
}

// EventSales is one row of the per-event sales breakdown.
type EventSales struct {
	EventID     int64           `json:"event_id"`
	EventName   string          `json:"event_name"`
	TicketsSold int64           `json:"tickets_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

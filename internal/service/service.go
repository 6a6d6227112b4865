package service

import (
	"time"

	"evento/internal/messaging"
	"evento/internal/qr"
	"evento/internal/repository"
	"evento/internal/search"
)

type Services struct {
	Events       *EventService
	Tickets      *TicketService
	Payments     *PaymentService
	Verification *VerificationService
	Stats        *StatsService
}

func NewServices(repos *repository.Repositories, nats *messaging.NATSClient, index *search.EventIndex, renderer *qr.Renderer, ticketExpiry time.Duration) *Services {
	tickets := NewTicketService(repos.Tickets, repos.TicketTypes, repos.Events, nats, renderer, ticketExpiry)
	return &Services{
		Events:       NewEventService(repos.Events, repos.TicketTypes, index),
		Tickets:      tickets,
		Payments:     NewPaymentService(repos.Payments, repos.Tickets, repos.TicketTypes, nats),
		Verification: NewVerificationService(repos.Tickets, nats),
		Stats:        NewStatsService(repos.Stats),
	}
}

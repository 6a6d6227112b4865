package repository

import (
	"evento/internal/database"
)

type Repositories struct {
	Events      *EventRepository
	TicketTypes *TicketTypeRepository
	Tickets     *TicketRepository
	Payments    *PaymentRepository
	Users       *UserRepository
	Stats       *StatsRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Events:      NewEventRepository(db),
		TicketTypes: NewTicketTypeRepository(db),
		Tickets:     NewTicketRepository(db),
		Payments:    NewPaymentRepository(db),
		Users:       NewUserRepository(db),
		Stats:       NewStatsRepository(db),
	}
}

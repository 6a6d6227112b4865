package service

import (
	"context"
	"sync"
	"time"

	apperrors "evento/internal/errors"
	"evento/internal/lifecycle"
	"evento/internal/models"
	"evento/internal/qr"
)

// In-memory stores mirroring the transactional guarantees of the
// Postgres repositories, so service behavior is testable without a
// database.

type fakeEventStore struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]*models.Event
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[int64]*models.Event)}
}

func (f *fakeEventStore) Create(_ context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	event.ID = f.nextID
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	cp := *event
	f.events[event.ID] = &cp
	return nil
}

func (f *fakeEventStore) GetByID(_ context.Context, id int64) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	cp := *event
	return &cp, nil
}

func (f *fakeEventStore) Update(_ context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[event.ID]; !ok {
		return apperrors.ErrEventNotFound
	}
	event.UpdatedAt = time.Now()
	cp := *event
	f.events[event.ID] = &cp
	return nil
}

func (f *fakeEventStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventStore) List(_ context.Context, _ *models.ListEventsQuery) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, *e)
	}
	return out, nil
}

type fakeTicketTypeStore struct {
	mu     sync.Mutex
	nextID int64
	types  map[int64]*models.TicketType
}

func newFakeTicketTypeStore() *fakeTicketTypeStore {
	return &fakeTicketTypeStore{types: make(map[int64]*models.TicketType)}
}

func (f *fakeTicketTypeStore) Create(_ context.Context, tt *models.TicketType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	tt.ID = f.nextID
	cp := *tt
	f.types[tt.ID] = &cp
	return nil
}

func (f *fakeTicketTypeStore) GetByID(_ context.Context, id int64) (*models.TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tt, ok := f.types[id]
	if !ok {
		return nil, nil
	}
	cp := *tt
	return &cp, nil
}

func (f *fakeTicketTypeStore) ListByEvent(_ context.Context, eventID int64) ([]models.TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TicketType
	for _, tt := range f.types {
		if tt.EventID == eventID {
			out = append(out, *tt)
		}
	}
	return out, nil
}

type fakeTicketStore struct {
	mu      sync.Mutex
	nextID  int64
	tickets map[int64]*models.Ticket
	types   *fakeTicketTypeStore
	events  *fakeEventStore
}

func newFakeTicketStore(types *fakeTicketTypeStore, events *fakeEventStore) *fakeTicketStore {
	return &fakeTicketStore{
		tickets: make(map[int64]*models.Ticket),
		types:   types,
		events:  events,
	}
}

func (f *fakeTicketStore) ReserveBatch(_ context.Context, tt *models.TicketType, userID int64, codes []string, expiresAt time.Time) ([]models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.types.mu.Lock()
	stored := f.types.types[tt.ID]
	if stored == nil || stored.AvailableQuantity < len(codes) {
		f.types.mu.Unlock()
		return nil, apperrors.ErrInsufficientInventory
	}
	stored.AvailableQuantity -= len(codes)
	f.types.mu.Unlock()

	tickets := make([]models.Ticket, len(codes))
	for i, code := range codes {
		f.nextID++
		t := &models.Ticket{
			ID:           f.nextID,
			TicketTypeID: tt.ID,
			EventID:      tt.EventID,
			UserID:       userID,
			Code:         code,
			ExpiresAt:    expiresAt,
			PurchasedAt:  time.Now(),
		}
		f.tickets[t.ID] = t
		tickets[i] = *t
	}
	return tickets, nil
}

func (f *fakeTicketStore) GetByID(_ context.Context, id int64) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTicketStore) ListByUser(_ context.Context, userID int64, q *models.ListTicketsQuery) ([]models.TicketDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TicketDetail
	for _, t := range f.tickets {
		if t.UserID != userID {
			continue
		}
		if q.EventID != 0 && t.EventID != q.EventID {
			continue
		}
		switch q.Status {
		case "used":
			if !t.IsUsed {
				continue
			}
		case "unused":
			if t.IsUsed {
				continue
			}
		case "paid":
			if !t.IsPaid {
				continue
			}
		case "unpaid":
			if t.IsPaid {
				continue
			}
		}
		out = append(out, models.TicketDetail{Ticket: *t})
	}
	return out, nil
}

func (f *fakeTicketStore) AssignSeat(_ context.Context, ticketID int64, seatNumber, section string) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tickets[ticketID]
	if !ok {
		return nil, apperrors.ErrTicketNotFound
	}

	event, _ := f.events.GetByID(context.Background(), t.EventID)
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}
	if err := lifecycle.CanAssignSeat(t, event); err != nil {
		return nil, err
	}

	for _, other := range f.tickets {
		if other.ID != t.ID && other.EventID == t.EventID &&
			other.SeatNumber != nil && *other.SeatNumber == seatNumber {
			return nil, apperrors.ErrSeatTaken
		}
	}

	t.SeatNumber = &seatNumber
	if section != "" {
		t.Section = &section
	} else {
		t.Section = nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTicketStore) VerifyByCode(_ context.Context, code string, entryTime, now time.Time) (*models.TicketDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var t *models.Ticket
	for _, candidate := range f.tickets {
		if candidate.Code == code {
			t = candidate
			break
		}
	}
	if t == nil {
		return nil, apperrors.ErrInvalidCode
	}

	if err := lifecycle.VerifyDecision(t, now); err != nil {
		cp := *t
		return &models.TicketDetail{Ticket: cp}, err
	}

	t.IsUsed = true
	t.EntryTime = &entryTime
	t.ScanCount++
	cp := *t
	return &models.TicketDetail{Ticket: cp}, nil
}

type fakePaymentStore struct {
	mu       sync.Mutex
	nextID   int64
	payments map[int64]*models.Payment
	tickets  *fakeTicketStore
}

func newFakePaymentStore(tickets *fakeTicketStore) *fakePaymentStore {
	return &fakePaymentStore{payments: make(map[int64]*models.Payment), tickets: tickets}
}

func (f *fakePaymentStore) Record(_ context.Context, payment *models.Payment) error {
	f.tickets.mu.Lock()
	defer f.tickets.mu.Unlock()

	t, ok := f.tickets.tickets[payment.TicketID]
	if !ok || t.IsPaid {
		return apperrors.ErrAlreadyPaid
	}
	t.IsPaid = true

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	payment.ID = f.nextID
	payment.PaidAt = time.Now()
	cp := *payment
	f.payments[payment.TicketID] = &cp
	return nil
}

func (f *fakePaymentStore) GetByTicket(_ context.Context, ticketID int64) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[ticketID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

type published struct {
	subject string
	data    interface{}
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
}

func (f *fakePublisher) Publish(subject string, data interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, published{subject: subject, data: data})
	return nil
}

func (f *fakePublisher) bySubject(subject string) []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []published
	for _, m := range f.msgs {
		if m.subject == subject {
			out = append(out, m)
		}
	}
	return out
}

// fixture bundles the fakes behind a fully wired service set.
type fixture struct {
	events   *fakeEventStore
	types    *fakeTicketTypeStore
	tickets  *fakeTicketStore
	payments *fakePaymentStore
	nats     *fakePublisher

	eventSvc   *EventService
	ticketSvc  *TicketService
	paymentSvc *PaymentService
	verifySvc  *VerificationService
}

func newFixture() *fixture {
	events := newFakeEventStore()
	types := newFakeTicketTypeStore()
	tickets := newFakeTicketStore(types, events)
	payments := newFakePaymentStore(tickets)
	nats := &fakePublisher{}
	renderer, _ := qr.NewRenderer("M", 128)

	return &fixture{
		events:     events,
		types:      types,
		tickets:    tickets,
		payments:   payments,
		nats:       nats,
		eventSvc:   NewEventService(events, types, nil),
		ticketSvc:  NewTicketService(tickets, types, events, nats, renderer, 4*time.Hour),
		paymentSvc: NewPaymentService(payments, tickets, types, nats),
		verifySvc:  NewVerificationService(tickets, nats),
	}
}

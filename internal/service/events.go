package service

import (
	"context"
	"fmt"
	"time"

	apperrors "evento/internal/errors"
	"evento/internal/logger"
	"evento/internal/models"
	"evento/internal/search"
)

type eventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q *models.ListEventsQuery) ([]models.Event, error)
}

type ticketTypeStore interface {
	Create(ctx context.Context, tt *models.TicketType) error
	GetByID(ctx context.Context, id int64) (*models.TicketType, error)
	ListByEvent(ctx context.Context, eventID int64) ([]models.TicketType, error)
}

// EventService owns the catalog: events and their ticket types. The
// search index is optional; when absent, free-text queries fall back to
// the Postgres ILIKE path.
type EventService struct {
	events eventStore
	types  ticketTypeStore
	index  *search.EventIndex
}

func NewEventService(events eventStore, types ticketTypeStore, index *search.EventIndex) *EventService {
	return &EventService{events: events, types: types, index: index}
}

func (s *EventService) Create(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error) {
	if req.StartsAt.Before(time.Now()) {
		return nil, apperrors.ErrInvalidDate
	}

	category := req.Category
	if category == "" {
		category = "other"
	}

	event := &models.Event{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Category:    category,
		StartsAt:    req.StartsAt,
		Capacity:    req.Capacity,
		HasSeats:    req.HasSeats,
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if s.index != nil {
		if err := s.index.Index(ctx, event); err != nil {
			// The catalog row is authoritative; a stale index is tolerable.
			logger.WithContext(ctx).Error("Failed to index event",
				"error", err,
				"event_id", event.ID)
		}
	}

	return event, nil
}

func (s *EventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}
	return event, nil
}

// Update applies the request's non-nil fields and refreshes the search
// document. Moving an event into the past is rejected like creating one
// there.
func (s *EventService) Update(ctx context.Context, id int64, req *models.UpdateEventRequest) (*models.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StartsAt != nil {
		if req.StartsAt.Before(time.Now()) {
			return nil, apperrors.ErrInvalidDate
		}
		event.StartsAt = *req.StartsAt
	}
	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.Capacity != nil {
		event.Capacity = *req.Capacity
	}
	if req.HasSeats != nil {
		event.HasSeats = *req.HasSeats
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	if s.index != nil {
		if err := s.index.Index(ctx, event); err != nil {
			logger.WithContext(ctx).Error("Failed to reindex event",
				"error", err,
				"event_id", event.ID)
		}
	}

	return event, nil
}

// Delete removes an event together with its ticket types and tickets
// (schema cascade) and drops the search document.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.Delete(ctx, id); err != nil {
			logger.WithContext(ctx).Error("Failed to delete event document",
				"error", err,
				"event_id", id)
		}
	}

	return nil
}

func (s *EventService) List(ctx context.Context, q *models.ListEventsQuery) ([]models.Event, error) {
	if s.index != nil && q.Query != "" {
		events, err := s.index.Search(ctx, q)
		if err == nil {
			return events, nil
		}
		logger.WithContext(ctx).Error("Event search failed, falling back to database",
			"error", err,
			"query", q.Query)
	}

	events, err := s.events.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// CreateTicketType adds a priced admission category to an upcoming event.
func (s *EventService) CreateTicketType(ctx context.Context, eventID int64, req *models.CreateTicketTypeRequest) (*models.TicketType, error) {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsUpcoming(time.Now()) {
		return nil, apperrors.ErrInvalidDate
	}

	tt := &models.TicketType{
		EventID:           event.ID,
		Name:              req.Name,
		Price:             req.Price,
		AvailableQuantity: req.AvailableQuantity,
	}

	if err := s.types.Create(ctx, tt); err != nil {
		return nil, fmt.Errorf("failed to create ticket type: %w", err)
	}

	return tt, nil
}

func (s *EventService) ListTicketTypes(ctx context.Context, eventID int64) ([]models.TicketType, error) {
	types, err := s.types.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket types: %w", err)
	}
	return types, nil
}

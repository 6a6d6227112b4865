package repository

import (
	"context"
	"database/sql"
	"fmt"

	"evento/internal/database"
	apperrors "evento/internal/errors"
	"evento/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (name, description, location, category, starts_at, capacity, has_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		event.Name,
		event.Description,
		event.Location,
		event.Category,
		event.StartsAt,
		event.Capacity,
		event.HasSeats,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event := &models.Event{}
	query := `
		SELECT id, name, description, location, category, starts_at, capacity, has_seats,
		       created_at, updated_at
		FROM events
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.Location,
		&event.Category,
		&event.StartsAt,
		&event.Capacity,
		&event.HasSeats,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return event, err
}

func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET name = $2, description = $3, location = $4, category = $5,
		    starts_at = $6, capacity = $7, has_seats = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		event.ID,
		event.Name,
		event.Description,
		event.Location,
		event.Category,
		event.StartsAt,
		event.Capacity,
		event.HasSeats,
	).Scan(&event.UpdatedAt)

	if err == sql.ErrNoRows {
		return apperrors.ErrEventNotFound
	}

	return err
}

// Delete removes an event; ticket types and tickets follow via the
// schema's ON DELETE CASCADE.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

// List applies the catalog filters: free-text query over name, description
// and location, an upcoming/past split, and a category filter.
func (r *EventRepository) List(ctx context.Context, q *models.ListEventsQuery) ([]models.Event, error) {
	var args []interface{}
	argIndex := 1

	query := `
		SELECT id, name, description, location, category, starts_at, capacity, has_seats,
		       created_at, updated_at
		FROM events
		WHERE TRUE`

	if q.Query != "" {
		query += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)`,
			argIndex, argIndex, argIndex)
		args = append(args, "%"+q.Query+"%")
		argIndex++
	}

	switch q.Date {
	case "upcoming":
		query += " AND starts_at >= NOW()"
	case "past":
		query += " AND starts_at < NOW()"
	}

	if q.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, q.Category)
		argIndex++
	}

	query += " ORDER BY starts_at DESC"

	if q.Page > 0 && q.PageSize > 0 {
		offset := (q.Page - 1) * q.PageSize
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, q.PageSize, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.Description,
			&event.Location,
			&event.Category,
			&event.StartsAt,
			&event.Capacity,
			&event.HasSeats,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

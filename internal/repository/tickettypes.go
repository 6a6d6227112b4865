package repository

import (
	"context"
	"database/sql"

	"evento/internal/database"
	"evento/internal/models"
)

type TicketTypeRepository struct {
	db *database.DB
}

func NewTicketTypeRepository(db *database.DB) *TicketTypeRepository {
	return &TicketTypeRepository{db: db}
}

func (r *TicketTypeRepository) Create(ctx context.Context, tt *models.TicketType) error {
	query := `
		INSERT INTO ticket_types (event_id, name, price, available_quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		tt.EventID,
		tt.Name,
		tt.Price,
		tt.AvailableQuantity,
	).Scan(&tt.ID, &tt.CreatedAt, &tt.UpdatedAt)
}

func (r *TicketTypeRepository) GetByID(ctx context.Context, id int64) (*models.TicketType, error) {
	tt := &models.TicketType{}
	query := `
		SELECT id, event_id, name, price, available_quantity, created_at, updated_at
		FROM ticket_types
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tt.ID,
		&tt.EventID,
		&tt.Name,
		&tt.Price,
		&tt.AvailableQuantity,
		&tt.CreatedAt,
		&tt.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return tt, err
}

func (r *TicketTypeRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.TicketType, error) {
	query := `
		SELECT id, event_id, name, price, available_quantity, created_at, updated_at
		FROM ticket_types
		WHERE event_id = $1
		ORDER BY price`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []models.TicketType
	for rows.Next() {
		var tt models.TicketType
		err := rows.Scan(
			&tt.ID,
			&tt.EventID,
			&tt.Name,
			&tt.Price,
			&tt.AvailableQuantity,
			&tt.CreatedAt,
			&tt.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		types = append(types, tt)
	}

	return types, rows.Err()
}

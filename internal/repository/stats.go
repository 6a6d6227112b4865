package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"evento/internal/database"
	"evento/internal/models"
)

type StatsRepository struct {
	db *database.DB
}

func NewStatsRepository(db *database.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Dashboard aggregates the admin dashboard counters in one round trip
// plus the per-event sales breakdown.
func (r *StatsRepository) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	var revenue decimal.NullDecimal
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM events WHERE starts_at >= NOW()),
			(SELECT COUNT(*) FROM tickets),
			(SELECT COUNT(*) FROM tickets WHERE is_used),
			(SELECT COUNT(*) FROM tickets WHERE is_paid),
			(SELECT SUM(amount) FROM payments WHERE status = 'completed')`,
	).Scan(
		&stats.TotalEvents,
		&stats.UpcomingEvents,
		&stats.TotalTickets,
		&stats.UsedTickets,
		&stats.PaidTickets,
		&revenue,
	)
	if err != nil {
		return nil, err
	}
	if revenue.Valid {
		stats.TotalRevenue = revenue.Decimal
	}

	sales, err := r.topEventSales(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.PopularEvents = sales

	return stats, nil
}

func (r *StatsRepository) topEventSales(ctx context.Context, limit int) ([]models.EventSales, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.name, COUNT(t.id), COALESCE(SUM(tt.price), 0)
		FROM events e
		JOIN tickets t ON t.event_id = e.id AND t.is_paid
		JOIN ticket_types tt ON tt.id = t.ticket_type_id
		GROUP BY e.id, e.name
		ORDER BY COUNT(t.id) DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []models.EventSales
	for rows.Next() {
		var s models.EventSales
		if err := rows.Scan(&s.EventID, &s.EventName, &s.TicketsSold, &s.Revenue); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}

	return sales, rows.Err()
}

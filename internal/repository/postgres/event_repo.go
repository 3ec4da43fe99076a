package postgres

import (
	"context"
	"database/sql"
	"errors"

	"giftregistry/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT e.id, e.name, e.owner_id, e.currency, u.payout_account_id, e.closed_at, e.created_at
		FROM events e
		JOIN users u ON u.id = e.owner_id
		WHERE e.id = $1
	`
	e := &domain.Event{}
	var payoutNull sql.NullString
	var closedNull sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.OwnerID, &e.Currency, &payoutNull, &closedNull, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	e.Currency = domain.NormalizeCurrency(e.Currency)
	if payoutNull.Valid {
		e.PayoutAccountID = payoutNull.String
	}
	if closedNull.Valid {
		e.ClosedAt = &closedNull.Time
	}
	return e, nil
}

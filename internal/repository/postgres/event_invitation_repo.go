package postgres

import (
	"context"
	"database/sql"
	"errors"

	"giftregistry/internal/domain"
)

type eventInvitationRepository struct {
	DB *sql.DB
}

func NewEventInvitationRepository(db *sql.DB) domain.EventInvitationRepository {
	return &eventInvitationRepository{
		DB: db,
	}
}

func (r *eventInvitationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventInvitation, error) {
	query := `
		SELECT id, event_id, user_id, status, updated_at
		FROM event_invitations
		WHERE event_id = $1 AND user_id = $2
	`
	inv := &domain.EventInvitation{}
	var status string
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).
		Scan(&inv.ID, &inv.EventID, &inv.UserID, &status, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	inv.Status = domain.InvitationStatus(status)
	return inv, nil
}

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"giftregistry/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	cols := []string{"id", "name", "owner_id", "currency", "payout_account_id", "closed_at", "created_at"}
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	closed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Event
		wantErr error
	}{
		{
			name: "success with payout account",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT e.id, e.name, e.owner_id, e.currency, u.payout_account_id`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows(cols).AddRow("ev-1", "Baby shower", "user-1", "eur", "acct_1", closed, created))
			},
			want: &domain.Event{
				ID: "ev-1", Name: "Baby shower", OwnerID: "user-1", Currency: "EUR",
				PayoutAccountID: "acct_1", ClosedAt: &closed, CreatedAt: created,
			},
		},
		{
			name: "organizer without payout account",
			id:   "ev-2",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM events e\s+JOIN users u`).
					WithArgs("ev-2").
					WillReturnRows(sqlmock.NewRows(cols).AddRow("ev-2", "Wedding", "user-2", "USD", nil, nil, created))
			},
			want: &domain.Event{ID: "ev-2", Name: "Wedding", OwnerID: "user-2", Currency: "USD", CreatedAt: created},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM events e`).
					WithArgs("ev-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewEventRepository(db).GetByID(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventInvitationRepository_GetByEventAndUser(t *testing.T) {
	ctx := context.Background()
	updated := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM event_invitations\s+WHERE event_id = \$1 AND user_id = \$2`).
		WithArgs("ev-1", "guest-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "user_id", "status", "updated_at"}).
			AddRow("inv-1", "ev-1", "guest-1", "accepted", updated))
	mock.ExpectQuery(`FROM event_invitations`).
		WithArgs("ev-1", "stranger").
		WillReturnError(sql.ErrNoRows)

	repo := NewEventInvitationRepository(db)
	inv, err := repo.GetByEventAndUser(ctx, "ev-1", "guest-1")
	require.NoError(t, err)
	require.True(t, inv.IsAccepted())

	_, err = repo.GetByEventAndUser(ctx, "ev-1", "stranger")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM articles a\s+JOIN events e ON e.id = a.event_id\s+WHERE a.id = \$1`).
		WithArgs("art-1").
		WillReturnRows(sqlmock.NewRows(articleCols).AddRow("art-1", "ev-1", "Stroller", int64(20000), "EUR", true))
	mock.ExpectQuery(`FROM articles a`).
		WithArgs("art-x").
		WillReturnError(sql.ErrNoRows)

	repo := NewArticleRepository(db)
	got, err := repo.GetByID(ctx, "art-1")
	require.NoError(t, err)
	require.Equal(t, &domain.Article{ID: "art-1", EventID: "ev-1", Name: "Stroller", Price: domain.NewMoney(20000, "EUR"), TransferCompleted: true}, got)

	_, err = repo.GetByID(ctx, "art-x")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

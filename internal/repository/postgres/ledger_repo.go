package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"giftregistry/internal/domain"
)

type ledgerRepository struct {
	DB *sql.DB
}

func NewLedgerRepository(db *sql.DB) domain.LedgerRepository {
	return &ledgerRepository{
		DB: db,
	}
}

func (r *ledgerRepository) ContributionSum(ctx context.Context, articleID string) (int64, error) {
	return contributionSum(ctx, r.DB, articleID)
}

func (r *ledgerRepository) GetMark(ctx context.Context, articleID string) (*domain.Mark, error) {
	return getMark(ctx, r.DB, articleID)
}

func getMark(ctx context.Context, q queryer, articleID string) (*domain.Mark, error) {
	query := `
		SELECT id, event_id, article_id, user_id, kind, created_at
		FROM article_marks
		WHERE article_id = $1
	`
	m := &domain.Mark{}
	var kind string
	err := q.QueryRowContext(ctx, query, articleID).
		Scan(&m.ID, &m.EventID, &m.ArticleID, &m.UserID, &kind, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	m.Kind = domain.MarkKind(kind)
	return m, nil
}

// RemoveUserClaims always succeeds for the caller. Once the article's payout is
// committed its contributions are part of that payout and stay; only the mark goes.
func (r *ledgerRepository) RemoveUserClaims(ctx context.Context, eventID, articleID, userID string) error {
	return runInTx(ctx, r.DB, func(tx *sql.Tx) error {
		committed, err := lockArticle(ctx, tx, articleID)
		if err != nil {
			return err
		}
		if !committed {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM contributions WHERE event_id = $1 AND article_id = $2 AND user_id = $3`,
				eventID, articleID, userID,
			); err != nil {
				return fmt.Errorf("delete contributions: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM article_marks WHERE event_id = $1 AND article_id = $2 AND user_id = $3`,
			eventID, articleID, userID,
		); err != nil {
			return fmt.Errorf("delete marks: %w", err)
		}
		return nil
	})
}

func (r *ledgerRepository) ReplaceMark(ctx context.Context, mark *domain.Mark) error {
	return runInTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := lockArticle(ctx, tx, mark.ArticleID); err != nil {
			return err
		}
		existing, err := getMark(ctx, tx, mark.ArticleID)
		switch {
		case err == nil:
			if existing.UserID != mark.UserID {
				return fmt.Errorf("%w: article already marked by another user", domain.ErrConflict)
			}
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("get mark: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM article_marks WHERE article_id = $1`, mark.ArticleID); err != nil {
			return fmt.Errorf("delete mark: %w", err)
		}
		query := `
			INSERT INTO article_marks (event_id, article_id, user_id, kind, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		err = tx.QueryRowContext(ctx, query, mark.EventID, mark.ArticleID, mark.UserID, string(mark.Kind), mark.CreatedAt).
			Scan(&mark.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: article already marked", domain.ErrConflict)
			}
			return fmt.Errorf("insert mark: %w", err)
		}
		return nil
	})
}

func (r *ledgerRepository) AddContribution(ctx context.Context, c *domain.Contribution, limit int64) error {
	return runInTx(ctx, r.DB, func(tx *sql.Tx) error {
		committed, err := lockArticle(ctx, tx, c.ArticleID)
		if err != nil {
			return err
		}
		if committed {
			return domain.ErrPayoutCommitted
		}
		sum, err := contributionSum(ctx, tx, c.ArticleID)
		if err != nil {
			return fmt.Errorf("sum contributions: %w", err)
		}
		if sum+c.Amount.Amount > limit {
			return fmt.Errorf("%w: collected %d + %d > %d", domain.ErrOverfund, sum, c.Amount.Amount, limit)
		}
		query := `
			INSERT INTO contributions (event_id, article_id, user_id, amount, currency, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		return tx.QueryRowContext(ctx, query, c.EventID, c.ArticleID, c.UserID, c.Amount.Amount, c.Amount.Currency, c.CreatedAt).
			Scan(&c.ID)
	})
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"giftregistry/internal/domain"
)

type settlementRepository struct {
	DB *sql.DB
}

func NewSettlementRepository(db *sql.DB) domain.SettlementRepository {
	return &settlementRepository{
		DB: db,
	}
}

func (r *settlementRepository) ListPendingArticles(ctx context.Context, eventID string) ([]*domain.Article, error) {
	return listPendingArticles(ctx, r.DB, eventID)
}

func (r *settlementRepository) ContributionSum(ctx context.Context, articleID string) (int64, error) {
	return contributionSum(ctx, r.DB, articleID)
}

func (r *settlementRepository) GetTransferIntent(ctx context.Context, articleID string) (*domain.TransferIntent, error) {
	query := `
		SELECT id, event_id, article_id, phase, idempotency_key, amount, currency, destination,
		       status, processor_transfer_id, created_at
		FROM transfer_intents
		WHERE article_id = $1
	`
	ti := &domain.TransferIntent{}
	var phase, status, currency string
	var transferIDNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, articleID).Scan(
		&ti.ID, &ti.EventID, &ti.ArticleID, &phase, &ti.IdempotencyKey, &ti.Amount.Amount, &currency,
		&ti.Destination, &status, &transferIDNull, &ti.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	ti.Phase = domain.SettlementPhase(phase)
	ti.Status = domain.TransferStatus(status)
	ti.Amount.Currency = domain.NormalizeCurrency(currency)
	if transferIDNull.Valid {
		ti.ProcessorTransferID = transferIDNull.String
	}
	return ti, nil
}

func (r *settlementRepository) CreateTransferIntent(ctx context.Context, ti *domain.TransferIntent, collected int64) error {
	return runInTx(ctx, r.DB, func(tx *sql.Tx) error {
		committed, err := lockArticle(ctx, tx, ti.ArticleID)
		if err != nil {
			return err
		}
		if committed {
			return fmt.Errorf("%w: article already has a transfer intent", domain.ErrConflict)
		}
		sum, err := contributionSum(ctx, tx, ti.ArticleID)
		if err != nil {
			return fmt.Errorf("sum contributions: %w", err)
		}
		if sum != collected {
			return fmt.Errorf("%w: contributions changed from %d to %d", domain.ErrConflict, collected, sum)
		}
		query := `
			INSERT INTO transfer_intents (event_id, article_id, phase, idempotency_key, amount, currency, destination, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`
		err = tx.QueryRowContext(ctx, query,
			ti.EventID, ti.ArticleID, string(ti.Phase), ti.IdempotencyKey, ti.Amount.Amount, ti.Amount.Currency,
			ti.Destination, string(ti.Status), ti.CreatedAt,
		).Scan(&ti.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: article already has a transfer intent", domain.ErrConflict)
			}
			return err
		}
		return nil
	})
}

func (r *settlementRepository) CompleteArticle(ctx context.Context, articleID string, intent *domain.TransferIntent, processorTransferID string) error {
	return runInTx(ctx, r.DB, func(tx *sql.Tx) error {
		if intent == nil {
			if _, err := lockArticle(ctx, tx, articleID); err != nil {
				return err
			}
			sum, err := contributionSum(ctx, tx, articleID)
			if err != nil {
				return fmt.Errorf("sum contributions: %w", err)
			}
			if sum != 0 {
				return fmt.Errorf("%w: %d collected since the article was read", domain.ErrConflict, sum)
			}
		} else {
			if _, err := tx.ExecContext(ctx, `
				UPDATE transfer_intents
				SET status = $2, processor_transfer_id = $3, updated_at = NOW()
				WHERE id = $1
			`, intent.ID, string(domain.TransferSucceeded), processorTransferID); err != nil {
				return fmt.Errorf("update transfer intent: %w", err)
			}
		}
		// Conditional so the flag can only ever move from false to true.
		if _, err := tx.ExecContext(ctx, `
			UPDATE articles
			SET transfer_completed = TRUE, updated_at = NOW()
			WHERE id = $1 AND transfer_completed = FALSE
		`, articleID); err != nil {
			return fmt.Errorf("complete article: %w", err)
		}
		return nil
	})
}

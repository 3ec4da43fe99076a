package postgres

import (
	"context"
	"database/sql"
	"errors"

	"giftregistry/internal/domain"
)

const articleColumns = `a.id, a.event_id, a.name, a.price_amount, e.currency, a.transfer_completed`

type articleRepository struct {
	DB *sql.DB
}

func NewArticleRepository(db *sql.DB) domain.ArticleRepository {
	return &articleRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*domain.Article, error) {
	a := &domain.Article{}
	var currency string
	if err := row.Scan(&a.ID, &a.EventID, &a.Name, &a.Price.Amount, &currency, &a.TransferCompleted); err != nil {
		return nil, err
	}
	a.Price.Currency = domain.NormalizeCurrency(currency)
	return a, nil
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles a
		JOIN events e ON e.id = a.event_id
		WHERE a.id = $1
	`
	a, err := scanArticle(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func listPendingArticles(ctx context.Context, db *sql.DB, eventID string) ([]*domain.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles a
		JOIN events e ON e.id = a.event_id
		WHERE a.event_id = $1 AND a.transfer_completed = FALSE
		ORDER BY a.created_at, a.id
	`
	rows, err := db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]*domain.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func contributionSum(ctx context.Context, q queryer, articleID string) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM contributions WHERE article_id = $1`
	var sum int64
	if err := q.QueryRowContext(ctx, query, articleID).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

// lockArticle takes a row lock on the article for the rest of the transaction,
// serializing every ledger write that targets it. It reports whether the payout
// is committed: a transfer intent exists or the transfer completed. Contributions
// of a committed article are frozen.
func lockArticle(ctx context.Context, tx *sql.Tx, articleID string) (bool, error) {
	query := `
		SELECT a.transfer_completed OR EXISTS (SELECT 1 FROM transfer_intents ti WHERE ti.article_id = a.id)
		FROM articles a
		WHERE a.id = $1
		FOR UPDATE OF a
	`
	var committed bool
	err := tx.QueryRowContext(ctx, query, articleID).Scan(&committed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, domain.ErrNotFound
	}
	return committed, err
}

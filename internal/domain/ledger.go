package domain

import (
	"context"
	"time"
)

// Contribution is a cash pledge by one guest toward one article.
// swagger:model Contribution
type Contribution struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	ArticleID string    `json:"article_id"`
	UserID    string    `json:"user_id"`
	Amount    Money     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// MarkKind is the kind of claim recorded by a Mark.
type MarkKind string

// MarkPurchased claims the article was bought outside the platform.
const MarkPurchased MarkKind = "purchased"

// Mark is a claim that an article was purchased outside the platform.
// At most one Mark exists per article.
// swagger:model Mark
type Mark struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	ArticleID string    `json:"article_id"`
	UserID    string    `json:"user_id"`
	Kind      MarkKind  `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// LedgerRepository is the write side of the ledger store. Every mutating
// method is applied as one atomic unit against the store.
type LedgerRepository interface {
	// ContributionSum returns the collected amount (minor units) for the article.
	ContributionSum(ctx context.Context, articleID string) (int64, error)
	// GetMark returns the active mark for the article or ErrNotFound.
	GetMark(ctx context.Context, articleID string) (*Mark, error)
	// RemoveUserClaims deletes the user's own marks for the article and, unless the
	// article's payout is committed, the user's own contributions.
	RemoveUserClaims(ctx context.Context, eventID, articleID, userID string) error
	// ReplaceMark removes any mark on the article and stores mark in its place.
	// It returns ErrConflict if the existing mark belongs to another user.
	ReplaceMark(ctx context.Context, mark *Mark) error
	// AddContribution inserts c only if the collected sum plus c.Amount stays within limit.
	// It returns ErrOverfund otherwise, and ErrPayoutCommitted once a transfer intent
	// exists or the transfer completed. The checks and the insert are serialized per article.
	AddContribution(ctx context.Context, c *Contribution, limit int64) error
}

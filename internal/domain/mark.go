package domain

import "context"

// MarkService is the synchronous entry point for guest actions on articles.
type MarkService interface {
	// ApplyMark applies action on behalf of userID. Failures wrap ErrInvalidInput, ErrNotFound,
	// ErrForbidden, ErrConflict or ErrOverfund and leave the ledger unchanged.
	ApplyMark(ctx context.Context, eventID, articleID, userID string, action Action) error
	// GetArticleStatus returns the derived state of the article, with the same authorization as ApplyMark.
	GetArticleStatus(ctx context.Context, eventID, articleID, userID string) (*ArticleStatus, error)
}

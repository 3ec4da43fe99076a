package domain

import (
	"context"
)

// Article is a wishlist item instance attached to one event.
// Price is fixed for settlement purposes; TransferCompleted only ever moves from false to true.
// swagger:model Article
type Article struct {
	ID                string `json:"id"`
	EventID           string `json:"event_id"`
	Name              string `json:"name"`
	Price             Money  `json:"price"`
	TransferCompleted bool   `json:"transfer_completed"`
}

// ArticleState is the derived, never persisted, funding state of an article.
type ArticleState string

const (
	ArticleStateNone         ArticleState = "none"
	ArticleStateExternal     ArticleState = "external"
	ArticleStateContributing ArticleState = "contributing"
)

// DeriveArticleState computes the read-time state from the presence of a mark
// and the collected contribution sum. A mark wins over contributions.
func DeriveArticleState(mark *Mark, collected Money) ArticleState {
	if mark != nil {
		return ArticleStateExternal
	}
	if collected.IsPositive() {
		return ArticleStateContributing
	}
	return ArticleStateNone
}

// ArticleStatus is the reporting view of an article returned to guests.
// swagger:model ArticleStatus
type ArticleStatus struct {
	Article   *Article     `json:"article"`
	State     ArticleState `json:"state"`
	Collected Money        `json:"collected"`
	Remaining Money        `json:"remaining"`
	MarkedBy  string       `json:"marked_by,omitempty"`
}

// NewArticleStatus builds the reporting view for an article.
func NewArticleStatus(article *Article, mark *Mark, collected Money) *ArticleStatus {
	remaining := article.Price.Amount - collected.Amount
	if remaining < 0 {
		remaining = 0
	}
	status := &ArticleStatus{
		Article:   article,
		State:     DeriveArticleState(mark, collected),
		Collected: collected,
		Remaining: Money{Amount: remaining, Currency: article.Price.Currency},
	}
	if mark != nil {
		status.MarkedBy = mark.UserID
	}
	return status
}

// ArticleRepository defines read access to articles.
type ArticleRepository interface {
	GetByID(ctx context.Context, id string) (*Article, error)
}

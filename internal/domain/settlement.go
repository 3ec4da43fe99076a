package domain

import (
	"context"
	"time"
)

// SettlementPhase identifies one of the two settlement sweeps.
type SettlementPhase string

const (
	// PhaseFullPrice pays out articles whose contributions reached the price.
	PhaseFullPrice SettlementPhase = "full_price"
	// PhaseRemainder pays out whatever was collected once the event is closed.
	PhaseRemainder SettlementPhase = "remainder"
)

// TransferStatus tracks a transfer intent.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferSucceeded TransferStatus = "succeeded"
)

// TransferIntent is persisted before a transfer is requested so that any later run
// re-issues the same request (same key, same amount) instead of building a new one.
// There is at most one intent per article.
type TransferIntent struct {
	ID                  string          `json:"id"`
	EventID             string          `json:"event_id"`
	ArticleID           string          `json:"article_id"`
	Phase               SettlementPhase `json:"phase"`
	IdempotencyKey      string          `json:"idempotency_key"`
	Amount              Money           `json:"amount"`
	Destination         string          `json:"destination"`
	Status              TransferStatus  `json:"status"`
	ProcessorTransferID string          `json:"processor_transfer_id,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// ArticleExcess records contributions above the price that Phase A left on the platform.
type ArticleExcess struct {
	ArticleID string `json:"article_id"`
	Amount    Money  `json:"amount"`
}

// SettlementReport summarises one run of a settlement phase.
// swagger:model SettlementReport
type SettlementReport struct {
	EventID     string          `json:"event_id"`
	Phase       SettlementPhase `json:"phase"`
	Settled     []string        `json:"settled"`
	Skipped     []string        `json:"skipped"`
	Failed      []string        `json:"failed"`
	Transferred Money           `json:"transferred"`
	Excess      []ArticleExcess `json:"excess"`
}

// NewSettlementReport returns an empty report with non-nil slices.
func NewSettlementReport(eventID string, phase SettlementPhase, currency string) *SettlementReport {
	return &SettlementReport{
		EventID:     eventID,
		Phase:       phase,
		Settled:     []string{},
		Skipped:     []string{},
		Failed:      []string{},
		Transferred: Money{Currency: currency},
		Excess:      []ArticleExcess{},
	}
}

// SettlementRepository is the ledger-store surface used by the settlement engine.
type SettlementRepository interface {
	ListPendingArticles(ctx context.Context, eventID string) ([]*Article, error)
	ContributionSum(ctx context.Context, articleID string) (int64, error)
	// GetTransferIntent returns the article's intent or ErrNotFound.
	GetTransferIntent(ctx context.Context, articleID string) (*TransferIntent, error)
	// CreateTransferIntent stores intent while holding the article lock. It returns
	// ErrConflict if the article already has one or its payout completed, or if the
	// contribution sum is no longer collected. From then on contributions are frozen.
	CreateTransferIntent(ctx context.Context, intent *TransferIntent, collected int64) error
	// CompleteArticle sets transfer_completed (never clears it) and, when intent is non-nil,
	// marks the intent succeeded with processorTransferID, in one transaction. Without an
	// intent it returns ErrConflict if any contribution exists for the article.
	CompleteArticle(ctx context.Context, articleID string, intent *TransferIntent, processorTransferID string) error
}

// RunLocker serializes settlement runs for the same event across processes.
type RunLocker interface {
	// Acquire takes the lock for ttl or returns ErrLocked.
	Acquire(ctx context.Context, key string, ttl time.Duration) (RunLease, error)
}

// RunLease is a held run lock. It expires unless extended.
type RunLease interface {
	// Extend resets the expiry to ttl from now. It returns ErrLocked if the lease
	// expired, whether or not another run has taken it since.
	Extend(ctx context.Context, ttl time.Duration) error
	Release(ctx context.Context) error
}

// SettlementService is the two-phase settlement engine.
type SettlementService interface {
	SettleFullyFundedArticles(ctx context.Context, eventID string) (*SettlementReport, error)
	SettleRemainder(ctx context.Context, eventID string) (*SettlementReport, error)
}

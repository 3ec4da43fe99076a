package domain

import "context"

// TransferRequest asks the payment processor to move money from the platform
// balance to a connected payout account.
type TransferRequest struct {
	Amount         Money
	Destination    string
	IdempotencyKey string
	Metadata       map[string]string
}

// TransferResult is the processor's record of a created transfer.
type TransferResult struct {
	ID     string `json:"id"`
	Amount Money  `json:"amount"`
}

// AccountStatus is the payout capability of a connected account.
type AccountStatus struct {
	ID             string `json:"id"`
	PayoutsEnabled bool   `json:"payouts_enabled"`
}

// PaymentProcessor is the external payment service. Every call is safe to retry;
// CreateTransfer with the same idempotency key produces at most one transfer.
type PaymentProcessor interface {
	CreateTransfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
	GetAccountStatus(ctx context.Context, accountID string) (*AccountStatus, error)
	GetAvailableBalance(ctx context.Context, currency string) (Money, error)
}

package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services, repositories and adapters.
// Callers classify failures with errors.Is; lower layers wrap them with context.
var (
	// ErrInvalidInput is returned for bad amounts, unknown actions, or an article that is not part of the event.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when an event, article, invitation or transfer intent does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the acting user is neither the event creator nor an accepted guest.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned when an article is already marked purchased by a different user.
	ErrConflict = errors.New("conflict")
	// ErrOverfund is returned when a contribution would push the collected sum above the article price.
	ErrOverfund = errors.New("contribution exceeds remaining price")
	// ErrExternalService is returned when the payment processor fails or refuses a request.
	ErrExternalService = errors.New("external service error")
	// ErrLocked is returned when another settlement run holds the event's lock.
	ErrLocked = errors.New("settlement already running")
	// ErrPayoutCommitted is returned for a contribution to an article whose payout is
	// already decided: a transfer intent exists or the transfer completed.
	ErrPayoutCommitted = fmt.Errorf("%w: article payout already committed", ErrInvalidInput)
)

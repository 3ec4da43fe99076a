package domain

import (
	"context"
	"time"
)

// Event is the registry event that owns a wishlist. Only the fields needed
// for contribution accounting and settlement are loaded here.
type Event struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
	// Currency is the settlement currency shared by every article of the event.
	Currency string `json:"currency"`
	// PayoutAccountID is the organizer's connected payout account; empty when not onboarded.
	PayoutAccountID string     `json:"-"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// IsCreator reports whether userID created the event.
func (e *Event) IsCreator(userID string) bool {
	return e.OwnerID != "" && e.OwnerID == userID
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
}

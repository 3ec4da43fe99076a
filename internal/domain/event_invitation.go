package domain

import (
	"context"
	"time"
)

// InvitationStatus is the guest's answer to an event invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// EventInvitation represents a guest invited to an event.
// swagger:model EventInvitation
type EventInvitation struct {
	ID        string           `json:"id"`
	EventID   string           `json:"event_id"`
	UserID    string           `json:"user_id"`
	Status    InvitationStatus `json:"status"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// IsAccepted reports whether the guest accepted the invitation.
func (i *EventInvitation) IsAccepted() bool {
	return i != nil && i.Status == InvitationAccepted
}

// EventInvitationRepository defines storage operations for event invitations.
type EventInvitationRepository interface {
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*EventInvitation, error)
}

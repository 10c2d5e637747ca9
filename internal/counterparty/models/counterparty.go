// Package models defines the core domain models for the Counterparty entity.
// It includes definitions for Counterparty, the Status enumeration and the
// Notice and Summary values handed to the presentation layer.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status represents the relationship state of a counterparty.
type Status string

const (
	// StatusPending marks a counterparty that has not been invited yet.
	StatusPending Status = "pending"
	StatusInvited Status = "invited"
	StatusActive  Status = "active"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPending, StatusInvited, StatusActive}

// Valid reports whether s is one of the known variants.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInvited, StatusActive:
		return true
	default:
		return false
	}
}

// ParseStatus converts raw input into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// Counterparty defines the domain model for a business entity subject to invitation.
type Counterparty struct {
	// ID is an opaque identifier supplied by whoever created the record.
	ID string `json:"id"`
	// CompanyName is the display name, also used as a search target.
	CompanyName string `json:"company_name"`
	// TaxID is the numeric tax identifier (INN).
	TaxID string `json:"tax_id"`
	// Status is the current relationship state.
	Status Status `json:"status"`
}

// NoticeKind categorizes a user-visible acknowledgement.
type NoticeKind string

const (
	NoticeFileReceived   NoticeKind = "file_received"
	NoticeInvitationSent NoticeKind = "invitation_sent"
)

// Notice is a single acknowledgement shown to the user.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Summary holds the per-status counters used by badges.
type Summary struct {
	Pending int `json:"pending"`
	Invited int `json:"invited"`
	Active  int `json:"active"`
	Total   int `json:"total"`
}

// FilterResult is a filtered view plus the empty-state text shown when
// nothing matched.
type FilterResult struct {
	Counterparties []Counterparty `json:"counterparties"`
	EmptyState     string         `json:"empty_state,omitempty"`
}

// Session identifies one presentation session and the token that proves it.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

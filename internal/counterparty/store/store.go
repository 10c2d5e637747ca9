// Package store holds the authoritative in-memory collection of counterparties
// for one session and derives the filtered views rendered by the UI.
//
// A Store is not safe for concurrent use. Callers serialize access.
package store

import (
	"fmt"
	"strings"

	e "github.com/gartstein/counterparty/internal/counterparty/errors"
	"github.com/gartstein/counterparty/internal/counterparty/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Store is an insertion-ordered collection of counterparties.
type Store struct {
	records     []models.Counterparty
	lower       cases.Caser
	pendingOnly bool
}

// Option configures a Store.
type Option func(*Store)

// WithPendingOnlyInvites makes Invite refuse records that are not pending.
// Without it Invite sets the invited status unconditionally, so an active
// record would be downgraded.
func WithPendingOnlyInvites() Option {
	return func(s *Store) {
		s.pendingOnly = true
	}
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		lower: cases.Lower(language.Und),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the whole collection with records, keeping their order.
// Duplicate ids are accepted; lookups resolve to the first match.
func (s *Store) Load(records []models.Counterparty) {
	s.records = make([]models.Counterparty, len(records))
	copy(s.records, records)
}

// Filter returns the records whose company name contains query ignoring case,
// or whose tax id contains query literally. The query is not trimmed.
func (s *Store) Filter(query string) []models.Counterparty {
	needle := s.lower.String(query)
	matches := make([]models.Counterparty, 0, len(s.records))
	for _, cp := range s.records {
		if strings.Contains(s.lower.String(cp.CompanyName), needle) ||
			strings.Contains(cp.TaxID, query) {
			matches = append(matches, cp)
		}
	}
	return matches
}

// Invite moves the record with the given id to the invited status and
// returns the updated record.
func (s *Store) Invite(id string) (models.Counterparty, error) {
	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		if s.pendingOnly && s.records[i].Status != models.StatusPending {
			return s.records[i], fmt.Errorf("%w: counterparty %s is %s",
				e.ErrInvalidTransition, id, s.records[i].Status)
		}
		s.records[i].Status = models.StatusInvited
		return s.records[i], nil
	}
	return models.Counterparty{}, fmt.Errorf("counterparty %s: %w", id, e.ErrNotFound)
}

// CountByStatus returns how many records currently have status.
func (s *Store) CountByStatus(status models.Status) int {
	n := 0
	for _, cp := range s.records {
		if cp.Status == status {
			n++
		}
	}
	return n
}

// Summary returns the counters for every status and the total.
func (s *Store) Summary() models.Summary {
	return models.Summary{
		Pending: s.CountByStatus(models.StatusPending),
		Invited: s.CountByStatus(models.StatusInvited),
		Active:  s.CountByStatus(models.StatusActive),
		Total:   len(s.records),
	}
}

// All returns a copy of the collection.
func (s *Store) All() []models.Counterparty {
	out := make([]models.Counterparty, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

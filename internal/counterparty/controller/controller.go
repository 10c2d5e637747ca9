// Package controller implements the service layer that owns one counterparty
// store per presentation session, forwarding user intents into it and
// publishing the resulting events.
package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gartstein/counterparty/internal/counterparty/auth"
	e "github.com/gartstein/counterparty/internal/counterparty/errors"
	"github.com/gartstein/counterparty/internal/counterparty/events"
	"github.com/gartstein/counterparty/internal/counterparty/models"
	"github.com/gartstein/counterparty/internal/counterparty/notices"
	"github.com/gartstein/counterparty/internal/counterparty/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(event events.Event)
}

// SeedSource provides the demo collection loaded into new sessions.
type SeedSource interface {
	ListSeed(ctx context.Context) ([]models.Counterparty, error)
}

// Options tunes session handling.
type Options struct {
	JWTSecret string
	// TokenTTL bounds the lifetime of a session token.
	TokenTTL time.Duration
	// IdleTimeout is how long a session may go unused before SweepIdle drops it.
	IdleTimeout time.Duration
	HistorySize int
	// PendingOnlyInvites refuses to invite records that are not pending.
	PendingOnlyInvites bool
}

type session struct {
	mu       sync.Mutex
	store    *store.Store
	history  *store.History
	lastSeen time.Time
}

// CounterpartyService manages per-session counterparty stores.
type CounterpartyService struct {
	seeds    SeedSource
	producer EventProducer
	notifier *notices.Notifier
	logger   *zap.Logger
	opts     Options
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

// NewCounterpartyService constructs a CounterpartyService with a seed source,
// an event producer, a notifier and a logger.
func NewCounterpartyService(
	seeds SeedSource,
	producer EventProducer,
	notifier *notices.Notifier,
	logger *zap.Logger,
	opts Options,
) *CounterpartyService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = auth.DefaultTokenTTL
	}
	return &CounterpartyService{
		seeds:    seeds,
		producer: producer,
		notifier: notifier,
		logger:   logger.Named("counterparty_service"),
		opts:     opts,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*session),
	}
}

// OpenSession starts a session holding the demo collection and returns its
// signed token.
func (s *CounterpartyService) OpenSession(ctx context.Context) (*models.Session, error) {
	seed, err := s.seeds.ListSeed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed: %w", err)
	}

	id := uuid.New()
	token, err := auth.GenerateToken(id, s.opts.JWTSecret, s.opts.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	sess := &session{
		store:    store.New(s.storeOptions()...),
		history:  store.NewHistory(s.opts.HistorySize),
		lastSeen: s.now(),
	}
	sess.store.Load(seed)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.Info("Session opened",
		zap.String("session_id", id.String()),
		zap.Int("records", len(seed)),
	)

	return &models.Session{
		ID:        id,
		Token:     token,
		ExpiresAt: s.now().Add(s.opts.TokenTTL),
	}, nil
}

// CloseSession drops a session and its collection.
func (s *CounterpartyService) CloseSession(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return e.ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.logger.Info("Session closed", zap.String("session_id", id.String()))
	return nil
}

// Load replaces the session collection with records.
func (s *CounterpartyService) Load(_ context.Context, id uuid.UUID, records []models.Counterparty) (int, error) {
	for _, cp := range records {
		if !cp.Status.Valid() {
			return 0, fmt.Errorf("%w: counterparty %s has status %q", e.ErrInvalidInput, cp.ID, cp.Status)
		}
	}

	err := s.withSession(id, func(sess *session) error {
		sess.store.Load(records)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.producer.Produce(events.Event{
		Type:      events.CounterpartiesLoaded,
		SessionID: id.String(),
		Count:     len(records),
	})
	return len(records), nil
}

// LoadDemo restores the demo collection, discarding the current one.
func (s *CounterpartyService) LoadDemo(ctx context.Context, id uuid.UUID) (int, error) {
	seed, err := s.seeds.ListSeed(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load seed: %w", err)
	}
	return s.Load(ctx, id, seed)
}

// Filter returns the matching records in collection order.
func (s *CounterpartyService) Filter(_ context.Context, id uuid.UUID, query string) (*models.FilterResult, error) {
	var matches []models.Counterparty
	err := s.withSession(id, func(sess *session) error {
		matches = sess.store.Filter(query)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &models.FilterResult{Counterparties: matches}
	if len(matches) == 0 {
		result.EmptyState = s.notifier.NothingFound()
	}
	return result, nil
}

// Invite moves a counterparty to the invited status and acknowledges it.
func (s *CounterpartyService) Invite(_ context.Context, id uuid.UUID, counterpartyID string) (*models.Counterparty, *models.Notice, error) {
	if counterpartyID == "" {
		return nil, nil, fmt.Errorf("%w: counterparty id required", e.ErrInvalidInput)
	}

	var updated models.Counterparty
	err := s.withSession(id, func(sess *session) error {
		var err error
		updated, err = sess.store.Invite(counterpartyID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.producer.Produce(events.Event{
		Type:         events.CounterpartyInvited,
		SessionID:    id.String(),
		Counterparty: &updated,
	})

	notice := s.notifier.InvitationSent()
	return &updated, &notice, nil
}

// CountByStatus returns the number of records with status.
func (s *CounterpartyService) CountByStatus(_ context.Context, id uuid.UUID, status models.Status) (int, error) {
	var n int
	err := s.withSession(id, func(sess *session) error {
		n = sess.store.CountByStatus(status)
		return nil
	})
	return n, err
}

// Summary returns all status counters of the session.
func (s *CounterpartyService) Summary(_ context.Context, id uuid.UUID) (*models.Summary, error) {
	var sum models.Summary
	err := s.withSession(id, func(sess *session) error {
		sum = sess.store.Summary()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// AcknowledgeFile confirms that a file was received. Its contents are never read.
func (s *CounterpartyService) AcknowledgeFile(_ context.Context, id uuid.UUID, fileName string) (*models.Notice, error) {
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name required", e.ErrInvalidInput)
	}
	if err := s.withSession(id, func(*session) error { return nil }); err != nil {
		return nil, err
	}

	s.producer.Produce(events.Event{
		Type:      events.FileReceived,
		SessionID: id.String(),
		FileName:  fileName,
	})

	notice := s.notifier.FileReceived(fileName)
	return &notice, nil
}

// SaveSearch appends query to the search history and returns the history.
func (s *CounterpartyService) SaveSearch(_ context.Context, id uuid.UUID, query string) ([]string, error) {
	var entries []string
	err := s.withSession(id, func(sess *session) error {
		sess.history.Add(query)
		entries = sess.history.Entries()
		return nil
	})
	return entries, err
}

// SearchHistory returns the saved searches, newest first.
func (s *CounterpartyService) SearchHistory(_ context.Context, id uuid.UUID) ([]string, error) {
	var entries []string
	err := s.withSession(id, func(sess *session) error {
		entries = sess.history.Entries()
		return nil
	})
	return entries, err
}

// StatusLabel returns the localized badge label of status.
func (s *CounterpartyService) StatusLabel(status models.Status) string {
	return s.notifier.StatusLabel(status)
}

// withSession runs fn with exclusive access to the session's store.
func (s *CounterpartyService) withSession(id uuid.UUID, fn func(*session) error) error {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return e.ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.now()
	return fn(sess)
}

func (s *CounterpartyService) storeOptions() []store.Option {
	var opts []store.Option
	if s.opts.PendingOnlyInvites {
		opts = append(opts, store.WithPendingOnlyInvites())
	}
	return opts
}

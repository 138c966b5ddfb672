package quotesession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
	"github.com/jiaming2012/quote-builder/src/expiry"
	"github.com/jiaming2012/quote-builder/src/quotebuilder"
	"github.com/jiaming2012/quote-builder/src/referencedata"
	"github.com/jiaming2012/quote-builder/src/workingset"
)

// Store owns every open session. Sessions share only the builder and the reference data, both read-only.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	builder *quotebuilder.Builder
	refdata *referencedata.Snapshot
	dealer  eventmodels.CounterParty
	sink    workingset.Sink
	now     func() time.Time
	newID   func() uuid.UUID

	submitted metric.Int64Counter
}

type StoreOption func(*Store)

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

func WithIDGenerator(newID func() uuid.UUID) StoreOption {
	return func(s *Store) {
		s.newID = newID
	}
}

// NewStore books every quote with dealerTicker as the dealer. A nil sink makes Submit fail with ErrNoSink.
func NewStore(builder *quotebuilder.Builder, refdata *referencedata.Snapshot, dealerTicker string, sink workingset.Sink, opts ...StoreOption) (*Store, error) {
	dealer, err := refdata.CounterPartyByTicker(dealerTicker)
	if err != nil {
		return nil, fmt.Errorf("NewStore: dealer: %w", err)
	}

	s := &Store{
		sessions: map[uuid.UUID]*Session{},
		builder:  builder,
		refdata:  refdata,
		dealer:   dealer,
		sink:     sink,
		now:      time.Now,
		newID:    uuid.New,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.submitted, err = otel.Meter(instrumentationName).Int64Counter("quotes.submitted", metric.WithDescription("Number of quote legs handed to the sink"))
	if err != nil {
		return nil, fmt.Errorf("NewStore: failed to create counter: %w", err)
	}

	return s, nil
}

func (s *Store) Dealer() eventmodels.CounterParty {
	return s.dealer
}

func (s *Store) ReferenceData() *referencedata.Snapshot {
	return s.refdata
}

func (s *Store) Create(ctx context.Context) *Session {
	session := &Session{
		ID:        s.newID(),
		CreatedAt: s.now().UTC(),
		store:     s,
		ws:        workingset.New(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	log.WithContext(ctx).WithField("session", session.ID).Info("session created")

	return session
}

func (s *Store) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, found := s.sessions[id]
	if !found {
		return nil, fmt.Errorf("session %s: %w", id, eventmodels.ErrSessionNotFound)
	}

	return session, nil
}

func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.sessions[id]; !found {
		return fmt.Errorf("session %s: %w", id, eventmodels.ErrSessionNotFound)
	}

	delete(s.sessions, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

// PruneStale drops every session created more than 24 hours ago and returns how many went.
func (s *Store) PruneStale(ctx context.Context) int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for id, session := range s.sessions {
		if expiry.IsOlderThan24Hours(session.CreatedAt, now) {
			delete(s.sessions, id)
			pruned++
		}
	}

	if pruned > 0 {
		log.WithContext(ctx).Infof("pruned %d stale sessions", pruned)
	}

	return pruned
}

package quotesession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
	"github.com/jiaming2012/quote-builder/src/eventpubsub"
	"github.com/jiaming2012/quote-builder/src/expiry"
	"github.com/jiaming2012/quote-builder/src/quotestore"
	"github.com/jiaming2012/quote-builder/src/referencedata"
	"github.com/jiaming2012/quote-builder/src/workingset"
)

var ErrNoSink = fmt.Errorf("no quote sink configured")

const instrumentationName = "quotesession"

type AddQuoteRequest struct {
	PairID         eventmodels.CurrencyPairID   `json:"pair_id"`
	CounterpartyID eventmodels.PartyID          `json:"counterparty_id"`
	Input          eventmodels.PricedQuoteInput `json:"quote"`
}

// Session is one user's quote-building state. All mutations go through mu, so a session has a single writer.
type Session struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	mu             sync.Mutex
	ws             workingset.WorkingSet
	counterpartyID eventmodels.PartyID
	store          *Store
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ws.Len()
}

func (s *Session) Quotes() []eventmodels.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ws.Quotes()
}

// CounterpartyID is the counterparty of the last reassignment, or zero.
func (s *Session) CounterpartyID() eventmodels.PartyID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.counterpartyID
}

// TimeRemaining reports how long each group's quotes stay valid, keyed by group id.
func (s *Session) TimeRemaining() (map[uuid.UUID]string, error) {
	now := s.store.now()

	out := map[uuid.UUID]string{}
	for _, q := range s.Quotes() {
		if _, found := out[q.GroupID]; found {
			continue
		}

		left, err := expiry.TimeRemaining(q.QuoteExpiry, q.GTC, now)
		if err != nil {
			return nil, fmt.Errorf("Session.TimeRemaining: group %s: %w", q.GroupID, err)
		}

		out[q.GroupID] = left
	}

	return out, nil
}

// AddQuote builds a mirrored pair from req and appends it. When req names no counterparty the
// session's current one is used.
func (s *Session) AddQuote(ctx context.Context, req AddQuoteRequest) (*eventmodels.QuotePair, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "Session.AddQuote")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	refdata := s.store.refdata

	counterpartyID := req.CounterpartyID
	if counterpartyID == 0 {
		counterpartyID = s.counterpartyID
	}

	counterparty, err := refdata.CounterPartyByID(counterpartyID)
	if err != nil {
		return nil, recordError(span, fmt.Errorf("Session.AddQuote: %w", err))
	}

	pair, err := refdata.PairByID(req.PairID)
	if err != nil {
		return nil, recordError(span, fmt.Errorf("Session.AddQuote: %w", err))
	}

	ccy := pair.Base
	if req.Input.AmountCcy != 0 {
		var found bool
		if ccy, found = pair.CurrencyByID(req.Input.AmountCcy); !found {
			return nil, recordError(span, fmt.Errorf("Session.AddQuote: currency %d is not part of %s: %w", req.Input.AmountCcy, pair.Name, referencedata.ErrNotFound))
		}
	}

	span.SetAttributes(
		attribute.String("session", s.ID.String()),
		attribute.String("pair", pair.Name),
		attribute.String("kind", string(req.Input.Kind)),
	)

	quotePair, err := s.store.builder.BuildPair(req.Input, s.store.dealer, counterparty, pair, ccy)
	if err != nil {
		return nil, recordError(span, fmt.Errorf("Session.AddQuote: %w", err))
	}

	ws, err := s.ws.Add(quotePair)
	if err != nil {
		return nil, recordError(span, fmt.Errorf("Session.AddQuote: %w", err))
	}

	s.ws = ws

	eventpubsub.Publish(eventpubsub.QuotePairAdded, eventmodels.QuotePairAddedEvent{
		SessionID: s.ID,
		Pair:      quotePair,
	})

	log.WithContext(ctx).WithFields(log.Fields{
		"session":    s.ID,
		"group":      quotePair.Dealer.GroupID,
		"instrument": quotePair.Dealer.InstrumentName,
	}).Info("quote pair added")

	return quotePair, nil
}

func (s *Session) RemoveGroup(groupID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, err := s.ws.Remove(groupID)
	if err != nil {
		return fmt.Errorf("Session.RemoveGroup: %w", err)
	}

	s.ws = ws
	return nil
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ws = s.ws.Clear()
}

func (s *Session) ReassignCounterparty(ctx context.Context, counterpartyID eventmodels.PartyID) error {
	_, span := otel.Tracer(instrumentationName).Start(ctx, "Session.ReassignCounterparty")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	counterparty, err := s.store.refdata.CounterPartyByID(counterpartyID)
	if err != nil {
		return recordError(span, fmt.Errorf("Session.ReassignCounterparty: %w", err))
	}

	ws, err := s.ws.ReassignCounterparty(s.store.dealer.ID, counterparty, s.store.refdata)
	if err != nil {
		return recordError(span, fmt.Errorf("Session.ReassignCounterparty: %w", err))
	}

	s.ws = ws
	s.counterpartyID = counterparty.ID
	return nil
}

func (s *Session) ChangeQuoteExpiry(minutes uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ws = s.ws.ChangeQuoteExpiry(minutes, s.store.now())
}

func (s *Session) ChangePayoutCcy(groupID uuid.UUID, payout eventmodels.PayoutCcy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, err := s.ws.ChangePayoutCcy(groupID, payout)
	if err != nil {
		return fmt.Errorf("Session.ChangePayoutCcy: %w", err)
	}

	s.ws = ws
	return nil
}

func (s *Session) Totals(pairID eventmodels.CurrencyPairID) (workingset.Totals, error) {
	pair, err := s.store.refdata.PairByID(pairID)
	if err != nil {
		return workingset.Totals{}, fmt.Errorf("Session.Totals: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ws.Totals(s.store.dealer.ID, pair)
}

// Submit persists every leg in one batch. The session keeps its legs when the sink fails.
func (s *Session) Submit(ctx context.Context) ([]eventmodels.Quote, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "Session.Submit")
	defer span.End()

	if s.store.sink == nil {
		return nil, recordError(span, fmt.Errorf("Session.Submit: %w", ErrNoSink))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	quotes := s.ws.Quotes()
	span.SetAttributes(attribute.String("session", s.ID.String()), attribute.Int("quotes", len(quotes)))

	ws, err := s.ws.Submit(quotestore.WithSessionID(ctx, s.ID), s.store.sink)
	if err != nil {
		return nil, recordError(span, fmt.Errorf("Session.Submit: %w", err))
	}

	s.ws = ws

	if len(quotes) == 0 {
		return nil, nil
	}

	s.store.submitted.Add(ctx, int64(len(quotes)))

	eventpubsub.Publish(eventpubsub.QuotesSubmitted, eventmodels.QuotesSubmittedEvent{
		SessionID:   s.ID,
		Quotes:      quotes,
		SubmittedAt: s.store.now().UTC(),
	})

	log.WithContext(ctx).WithFields(log.Fields{
		"session": s.ID,
		"quotes":  len(quotes),
	}).Info("quotes submitted")

	return quotes, nil
}

func recordError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

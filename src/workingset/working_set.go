package workingset

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
	"github.com/jiaming2012/quote-builder/src/expiry"
	"github.com/jiaming2012/quote-builder/src/precision"
)

// Sink persists a submitted batch of legs.
type Sink interface {
	SubmitQuotes(ctx context.Context, quotes []eventmodels.Quote) error
}

// CounterPartyLookup resolves the counterparty a leg is currently booked against.
type CounterPartyLookup interface {
	CounterPartyByID(id eventmodels.PartyID) (eventmodels.CounterParty, error)
}

// WorkingSet is the not yet submitted legs of one session. It is a value: every operation
// returns a new WorkingSet and leaves the receiver untouched.
type WorkingSet struct {
	quotes []eventmodels.Quote
}

type Totals struct {
	PxInBaseCcy  float64 `json:"px_in_base_ccy"`
	PxInQuoteCcy float64 `json:"px_in_quote_ccy"`
}

func New() WorkingSet {
	return WorkingSet{}
}

func (w WorkingSet) Len() int {
	return len(w.quotes)
}

func (w WorkingSet) IsEmpty() bool {
	return len(w.quotes) == 0
}

// Quotes returns a copy of the legs in insertion order.
func (w WorkingSet) Quotes() []eventmodels.Quote {
	return append([]eventmodels.Quote(nil), w.quotes...)
}

func (w WorkingSet) GroupIDs() []uuid.UUID {
	var ids []uuid.UUID
	seen := map[uuid.UUID]struct{}{}

	for _, q := range w.quotes {
		if _, found := seen[q.GroupID]; found {
			continue
		}

		seen[q.GroupID] = struct{}{}
		ids = append(ids, q.GroupID)
	}

	return ids
}

func (w WorkingSet) Group(groupID uuid.UUID) ([]eventmodels.Quote, bool) {
	var legs []eventmodels.Quote
	for _, q := range w.quotes {
		if q.GroupID == groupID {
			legs = append(legs, q)
		}
	}

	return legs, len(legs) > 0
}

func (w WorkingSet) Add(pair *eventmodels.QuotePair) (WorkingSet, error) {
	if pair == nil {
		return w, fmt.Errorf("WorkingSet.Add: nil pair: %w", eventmodels.ErrIncompletePair)
	}

	if err := pair.Validate(); err != nil {
		return w, fmt.Errorf("WorkingSet.Add: %w", err)
	}

	if _, found := w.Group(pair.Dealer.GroupID); found {
		return w, fmt.Errorf("WorkingSet.Add: %s: %w", pair.Dealer.GroupID, eventmodels.ErrDuplicateGroup)
	}

	quotes := make([]eventmodels.Quote, 0, len(w.quotes)+2)
	quotes = append(quotes, w.quotes...)
	quotes = append(quotes, pair.Legs()...)

	return WorkingSet{quotes: quotes}, nil
}

// Remove drops both legs of groupID.
func (w WorkingSet) Remove(groupID uuid.UUID) (WorkingSet, error) {
	quotes := make([]eventmodels.Quote, 0, len(w.quotes))
	for _, q := range w.quotes {
		if q.GroupID != groupID {
			quotes = append(quotes, q)
		}
	}

	if len(quotes) == len(w.quotes) {
		return w, fmt.Errorf("WorkingSet.Remove: %s: %w", groupID, eventmodels.ErrGroupNotFound)
	}

	return WorkingSet{quotes: quotes}, nil
}

func (w WorkingSet) Clear() WorkingSet {
	return WorkingSet{}
}

// ReassignCounterparty books every non dealer leg against cp. Each trade expiry keeps the contract date
// it was booked on, read in the timezone of the leg's current counterparty from booked, and takes cp's
// settlement time. Either every leg is updated or the set is returned unchanged.
func (w WorkingSet) ReassignCounterparty(dealerID eventmodels.PartyID, cp eventmodels.CounterParty, booked CounterPartyLookup) (WorkingSet, error) {
	if cp.ID == dealerID {
		return w, fmt.Errorf("WorkingSet.ReassignCounterparty: counterparty %d is the dealer: %w", cp.ID, eventmodels.ErrInvalidCounterParty)
	}

	loc, err := cp.Location()
	if err != nil {
		return w, fmt.Errorf("WorkingSet.ReassignCounterparty: %w", err)
	}

	locations := map[eventmodels.PartyID]*time.Location{cp.ID: loc}

	quotes := w.Quotes()
	for i := range quotes {
		q := &quotes[i]

		previous := q.PartyA
		if q.PartyA == dealerID {
			previous = q.PartyB
		}

		if q.CounterpartyID != dealerID {
			q.CounterpartyID = cp.ID
		}

		if q.PartyA == dealerID {
			q.PartyB = cp.ID
		} else {
			q.PartyA = cp.ID
		}

		if q.ExpiryTimestamp == "" {
			continue
		}

		from, found := locations[previous]
		if !found {
			old, err := booked.CounterPartyByID(previous)
			if err != nil {
				return w, fmt.Errorf("WorkingSet.ReassignCounterparty: group %s: %w", q.GroupID, err)
			}

			if from, err = old.Location(); err != nil {
				return w, fmt.Errorf("WorkingSet.ReassignCounterparty: group %s: %w", q.GroupID, err)
			}

			locations[previous] = from
		}

		t, err := expiry.RederiveTradeExpiry(q.ExpiryTimestamp, from, cp.SettlementTimeOfDay(), loc)
		if err != nil {
			return w, fmt.Errorf("WorkingSet.ReassignCounterparty: group %s: %w", q.GroupID, err)
		}

		q.ExpiryTimestamp = expiry.FormatWire(t)
	}

	return WorkingSet{quotes: quotes}, nil
}

// ChangeQuoteExpiry resets the validity of every leg. Zero minutes marks them good-till-canceled.
func (w WorkingSet) ChangeQuoteExpiry(minutes uint16, now time.Time) WorkingSet {
	quoteExpiry, gtc := expiry.QuoteExpiry(minutes, now)

	quotes := w.Quotes()
	for i := range quotes {
		quotes[i].QuoteExpiry = quoteExpiry
		quotes[i].GTC = gtc
	}

	return WorkingSet{quotes: quotes}
}

func (w WorkingSet) ChangePayoutCcy(groupID uuid.UUID, payout eventmodels.PayoutCcy) (WorkingSet, error) {
	if err := payout.Validate(); err != nil {
		return w, fmt.Errorf("WorkingSet.ChangePayoutCcy: %w", err)
	}

	found := false
	quotes := w.Quotes()
	for i := range quotes {
		if quotes[i].GroupID == groupID {
			quotes[i].PayoutCcy = payout
			found = true
		}
	}

	if !found {
		return w, fmt.Errorf("WorkingSet.ChangePayoutCcy: %s: %w", groupID, eventmodels.ErrGroupNotFound)
	}

	return WorkingSet{quotes: quotes}, nil
}

// Totals sums the dealer legs' premiums, floored onto the pair's base and quote ticks.
func (w WorkingSet) Totals(dealerID eventmodels.PartyID, pair eventmodels.CurrencyPair) (Totals, error) {
	var base, quote []float64
	for _, q := range w.quotes {
		if q.CounterpartyID != dealerID {
			continue
		}

		base = append(base, q.PxInBaseCcy)
		quote = append(quote, q.PxInQuoteCcy)
	}

	if len(base) == 0 {
		return Totals{}, nil
	}

	baseSum, err := stats.Sum(base)
	if err != nil {
		return Totals{}, fmt.Errorf("WorkingSet.Totals: failed to sum base premiums: %w", err)
	}

	quoteSum, err := stats.Sum(quote)
	if err != nil {
		return Totals{}, fmt.Errorf("WorkingSet.Totals: failed to sum quote premiums: %w", err)
	}

	if err := pair.Validate(); err != nil {
		return Totals{}, fmt.Errorf("WorkingSet.Totals: %w", err)
	}

	return Totals{
		PxInBaseCcy:  precision.RoundToSpec(baseSum, pair.BaseTickSize(), pair.BaseTickSize(), precision.RoundFloor, true),
		PxInQuoteCcy: precision.RoundToSpec(quoteSum, pair.QuoteTickSize(), pair.QuoteTickSize(), precision.RoundFloor, true),
	}, nil
}

// Submit hands the whole batch to sink. The returned set is empty on success and unchanged on failure.
func (w WorkingSet) Submit(ctx context.Context, sink Sink) (WorkingSet, error) {
	if w.IsEmpty() {
		return w, nil
	}

	if err := sink.SubmitQuotes(ctx, w.Quotes()); err != nil {
		return w, fmt.Errorf("WorkingSet.Submit: failed to submit %d quotes: %w", w.Len(), err)
	}

	return w.Clear(), nil
}

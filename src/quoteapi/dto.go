package quoteapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
	"github.com/jiaming2012/quote-builder/src/workingset"
)

type SessionResponse struct {
	ID             uuid.UUID           `json:"id"`
	CreatedAt      time.Time           `json:"created_at"`
	CounterpartyID eventmodels.PartyID `json:"counterparty_id,omitempty"`
	Legs           int                 `json:"legs"`
}

type QuotesResponse struct {
	Quotes        []eventmodels.Quote  `json:"quotes"`
	TimeRemaining map[uuid.UUID]string `json:"time_remaining,omitempty"`
}

type SubmitResponse struct {
	Submitted int                 `json:"submitted"`
	Quotes    []eventmodels.Quote `json:"quotes"`
}

type TotalsResponse struct {
	PairID eventmodels.CurrencyPairID `json:"pair_id"`
	workingset.Totals
}

type ReassignCounterpartyRequest struct {
	CounterpartyID eventmodels.PartyID `json:"counterparty_id"`
}

type ChangeQuoteExpiryRequest struct {
	Minutes uint16 `json:"minutes"`
}

type ChangePayoutCcyRequest struct {
	PayoutCcy eventmodels.PayoutCcy `json:"payout_ccy"`
}

// QuoteFilter narrows GET /quotes. Zero fields match everything.
type QuoteFilter struct {
	GroupID        string `schema:"group_id"`
	CounterpartyID uint16 `schema:"counterparty_id"`
	Side           string `schema:"side"`
	Kind           string `schema:"kind"`
}

func (f QuoteFilter) Match(q eventmodels.Quote) bool {
	if f.GroupID != "" && q.GroupID.String() != f.GroupID {
		return false
	}

	if f.CounterpartyID != 0 && uint16(q.CounterpartyID) != f.CounterpartyID {
		return false
	}

	if f.Side != "" && string(q.Side) != f.Side {
		return false
	}

	if f.Kind != "" && string(q.Kind) != f.Kind {
		return false
	}

	return true
}

type TotalsQuery struct {
	PairID uint16 `schema:"pair_id,required"`
}

package eventmodels

import (
	"github.com/google/uuid"
)

// Quote is a single ledger leg. Both legs of a trade share GroupID.
type Quote struct {
	TempID              uuid.UUID      `json:"temp_id"`
	CounterpartyID      PartyID        `json:"counterparty_id"`
	PairID              CurrencyPairID `json:"pair_id"`
	CcyID               CurrencyID     `json:"ccy_id"`
	Kind                QuoteKind      `json:"quote_kind"`
	Amount              float64        `json:"amount"`
	OptionKind          OptionKind     `json:"option_kind"`
	TTM                 float64        `json:"ttm"`
	R1                  float64        `json:"r1"`
	R2                  float64        `json:"r2"`
	OffstrikePercentage float64        `json:"offstrike_percentage"`
	Spot                float64        `json:"spot"`
	Strike              float64        `json:"strike"`
	IV                  float64        `json:"iv"`
	PxInBaseCcy         float64        `json:"px_in_base_ccy"`
	PxInQuoteCcy        float64        `json:"px_in_quote_ccy"`
	Side                QuoteSide      `json:"side"`
	QuoteStatus         QuoteStatus    `json:"quote_status"`
	QuoteOrigin         string         `json:"quote_origin"`
	InstrumentName      InstrumentName `json:"instrument_name"`
	QuoteExpiry         string         `json:"quote_expiry"`
	GTC                 bool           `json:"gtc"`
	GroupID             uuid.UUID      `json:"group_id"`
	PartyA              PartyID        `json:"party_a"`
	PartyB              PartyID        `json:"party_b"`
	Delta               float64        `json:"delta"`
	Gamma               float64        `json:"gamma"`
	Theta               float64        `json:"theta"`
	PayoutCcy           PayoutCcy      `json:"payout_ccy"`
	ExpiryTimestamp     string         `json:"expiry_timestamp"`
}

func (q Quote) Greeks() Greeks {
	return Greeks{Delta: q.Delta, Gamma: q.Gamma, Theta: q.Theta}
}

// Mirror returns the opposite leg: every signed field negated, parties swapped and side flipped.
// The mirrored leg is booked against counterpartyID and gets its own tempID.
func (q Quote) Mirror(counterpartyID PartyID, tempID uuid.UUID) Quote {
	m := q
	m.TempID = tempID
	m.CounterpartyID = counterpartyID
	m.Amount = Negate(q.Amount)
	m.PxInBaseCcy = Negate(q.PxInBaseCcy)
	m.PxInQuoteCcy = Negate(q.PxInQuoteCcy)
	m.Delta = Negate(q.Delta)
	m.Gamma = Negate(q.Gamma)
	m.Theta = Negate(q.Theta)
	m.Side = q.Side.Opposite()
	m.PartyA, m.PartyB = q.PartyB, q.PartyA

	return m
}

package quotestore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
)

type QuoteRecord struct {
	gorm.Model
	GroupID             uuid.UUID `gorm:"type:uuid;not null;index"`
	TempID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CounterpartyID      uint16    `gorm:"column:counterparty_id;not null"`
	PairID              uint16    `gorm:"column:pair_id;not null"`
	CcyID               uint16    `gorm:"column:ccy_id;not null"`
	Kind                string    `gorm:"column:quote_kind;type:text;not null"`
	InstrumentName      string    `gorm:"column:instrument_name;type:text;not null"`
	Side                string    `gorm:"column:side;type:text;not null"`
	Amount              float64   `gorm:"column:amount;type:numeric;not null"`
	OptionKind          string    `gorm:"column:option_kind;type:text"`
	Strike              float64   `gorm:"column:strike;type:numeric"`
	Spot                float64   `gorm:"column:spot;type:numeric"`
	TTM                 float64   `gorm:"column:ttm;type:numeric"`
	R1                  float64   `gorm:"column:r1;type:numeric"`
	R2                  float64   `gorm:"column:r2;type:numeric"`
	IV                  float64   `gorm:"column:iv;type:numeric"`
	OffstrikePercentage float64   `gorm:"column:offstrike_percentage;type:numeric"`
	PxInBaseCcy         float64   `gorm:"column:px_in_base_ccy;type:numeric;not null"`
	PxInQuoteCcy        float64   `gorm:"column:px_in_quote_ccy;type:numeric;not null"`
	Delta               float64   `gorm:"column:delta;type:numeric"`
	Gamma               float64   `gorm:"column:gamma;type:numeric"`
	Theta               float64   `gorm:"column:theta;type:numeric"`
	QuoteStatus         string    `gorm:"column:quote_status;type:text;not null"`
	QuoteOrigin         string    `gorm:"column:quote_origin;type:text"`
	QuoteExpiry         string    `gorm:"column:quote_expiry;type:text"`
	GTC                 bool      `gorm:"column:gtc;not null"`
	PartyA              uint16    `gorm:"column:party_a;not null"`
	PartyB              uint16    `gorm:"column:party_b;not null"`
	PayoutCcy           string    `gorm:"column:payout_ccy;type:text;not null"`
	ExpiryTimestamp     string    `gorm:"column:expiry_timestamp;type:text"`
}

func NewQuoteRecord(q eventmodels.Quote) *QuoteRecord {
	return &QuoteRecord{
		GroupID:             q.GroupID,
		TempID:              q.TempID,
		CounterpartyID:      uint16(q.CounterpartyID),
		PairID:              uint16(q.PairID),
		CcyID:               uint16(q.CcyID),
		Kind:                string(q.Kind),
		InstrumentName:      string(q.InstrumentName),
		Side:                string(q.Side),
		Amount:              q.Amount,
		OptionKind:          string(q.OptionKind),
		Strike:              q.Strike,
		Spot:                q.Spot,
		TTM:                 q.TTM,
		R1:                  q.R1,
		R2:                  q.R2,
		IV:                  q.IV,
		OffstrikePercentage: q.OffstrikePercentage,
		PxInBaseCcy:         q.PxInBaseCcy,
		PxInQuoteCcy:        q.PxInQuoteCcy,
		Delta:               q.Delta,
		Gamma:               q.Gamma,
		Theta:               q.Theta,
		QuoteStatus:         string(q.QuoteStatus),
		QuoteOrigin:         q.QuoteOrigin,
		QuoteExpiry:         q.QuoteExpiry,
		GTC:                 q.GTC,
		PartyA:              uint16(q.PartyA),
		PartyB:              uint16(q.PartyB),
		PayoutCcy:           string(q.PayoutCcy),
		ExpiryTimestamp:     q.ExpiryTimestamp,
	}
}

func (r *QuoteRecord) ToQuote() eventmodels.Quote {
	return eventmodels.Quote{
		TempID:              r.TempID,
		CounterpartyID:      eventmodels.PartyID(r.CounterpartyID),
		PairID:              eventmodels.CurrencyPairID(r.PairID),
		CcyID:               eventmodels.CurrencyID(r.CcyID),
		Kind:                eventmodels.QuoteKind(r.Kind),
		Amount:              r.Amount,
		OptionKind:          eventmodels.OptionKind(r.OptionKind),
		TTM:                 r.TTM,
		R1:                  r.R1,
		R2:                  r.R2,
		OffstrikePercentage: r.OffstrikePercentage,
		Spot:                r.Spot,
		Strike:              r.Strike,
		IV:                  r.IV,
		PxInBaseCcy:         r.PxInBaseCcy,
		PxInQuoteCcy:        r.PxInQuoteCcy,
		Side:                eventmodels.QuoteSide(r.Side),
		QuoteStatus:         eventmodels.QuoteStatus(r.QuoteStatus),
		QuoteOrigin:         r.QuoteOrigin,
		InstrumentName:      eventmodels.InstrumentName(r.InstrumentName),
		QuoteExpiry:         r.QuoteExpiry,
		GTC:                 r.GTC,
		GroupID:             r.GroupID,
		PartyA:              eventmodels.PartyID(r.PartyA),
		PartyB:              eventmodels.PartyID(r.PartyB),
		Delta:               r.Delta,
		Gamma:               r.Gamma,
		Theta:               r.Theta,
		PayoutCcy:           eventmodels.PayoutCcy(r.PayoutCcy),
		ExpiryTimestamp:     r.ExpiryTimestamp,
	}
}

// PostgresSink inserts a batch inside one transaction.
type PostgresSink struct {
	db *gorm.DB
}

func NewPostgresSink(db *gorm.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) SubmitQuotes(ctx context.Context, quotes []eventmodels.Quote) error {
	if _, err := groupLegs(quotes); err != nil {
		return fmt.Errorf("PostgresSink.SubmitQuotes: %w", err)
	}

	records := make([]*QuoteRecord, 0, len(quotes))
	for _, q := range quotes {
		records = append(records, NewQuoteRecord(q))
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	}); err != nil {
		return fmt.Errorf("PostgresSink.SubmitQuotes: failed to insert %d quotes: %w", len(records), err)
	}

	log.WithContext(ctx).Debugf("PostgresSink: inserted %d quotes", len(records))

	return nil
}

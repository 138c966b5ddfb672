package quotestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
)

type quoteCSVRow struct {
	GroupID             string  `csv:"group_id"`
	TempID              string  `csv:"temp_id"`
	CounterpartyID      uint16  `csv:"counterparty_id"`
	PairID              uint16  `csv:"pair_id"`
	CcyID               uint16  `csv:"ccy_id"`
	Kind                string  `csv:"quote_kind"`
	InstrumentName      string  `csv:"instrument_name"`
	Side                string  `csv:"side"`
	Amount              float64 `csv:"amount"`
	OptionKind          string  `csv:"option_kind"`
	Strike              float64 `csv:"strike"`
	Spot                float64 `csv:"spot"`
	TTM                 float64 `csv:"ttm"`
	R1                  float64 `csv:"r1"`
	R2                  float64 `csv:"r2"`
	IV                  float64 `csv:"iv"`
	OffstrikePercentage float64 `csv:"offstrike_percentage"`
	PxInBaseCcy         float64 `csv:"px_in_base_ccy"`
	PxInQuoteCcy        float64 `csv:"px_in_quote_ccy"`
	Delta               float64 `csv:"delta"`
	Gamma               float64 `csv:"gamma"`
	Theta               float64 `csv:"theta"`
	QuoteStatus         string  `csv:"quote_status"`
	QuoteOrigin         string  `csv:"quote_origin"`
	QuoteExpiry         string  `csv:"quote_expiry"`
	GTC                 bool    `csv:"gtc"`
	PartyA              uint16  `csv:"party_a"`
	PartyB              uint16  `csv:"party_b"`
	PayoutCcy           string  `csv:"payout_ccy"`
	ExpiryTimestamp     string  `csv:"expiry_timestamp"`
}

func newQuoteCSVRow(q eventmodels.Quote) *quoteCSVRow {
	return &quoteCSVRow{
		GroupID:             q.GroupID.String(),
		TempID:              q.TempID.String(),
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

// CSVSink appends every submitted leg as one CSV row. The header is written once, ahead of the first batch.
type CSVSink struct {
	mu          sync.Mutex
	w           io.Writer
	wroteHeader bool
}

func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: w}
}

// NewCSVFileSink appends to path, creating it when missing.
func NewCSVFileSink(path string) (*CSVSink, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("NewCSVFileSink: failed to open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("NewCSVFileSink: failed to stat %s: %w", path, err)
	}

	return &CSVSink{w: f, wroteHeader: info.Size() > 0}, f, nil
}

func (s *CSVSink) SubmitQuotes(ctx context.Context, quotes []eventmodels.Quote) error {
	if _, err := groupLegs(quotes); err != nil {
		return fmt.Errorf("CSVSink.SubmitQuotes: %w", err)
	}

	rows := make([]*quoteCSVRow, 0, len(quotes))
	for _, q := range quotes {
		rows = append(rows, newQuoteCSVRow(q))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.wroteHeader {
		err = gocsv.MarshalWithoutHeaders(&rows, s.w)
	} else {
		err = gocsv.Marshal(&rows, s.w)
	}

	if err != nil {
		return fmt.Errorf("CSVSink.SubmitQuotes: failed to write rows: %w", err)
	}

	s.wroteHeader = true
	return nil
}

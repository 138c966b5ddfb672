package quotebuilder

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
	"github.com/jiaming2012/quote-builder/src/expiry"
	"github.com/jiaming2012/quote-builder/src/instrumentspecs"
	"github.com/jiaming2012/quote-builder/src/precision"
)

const DefaultQuoteOrigin = "JabraAdminGUI"

// Builder turns one priced quote into a pair of mirrored ledger legs.
// It holds no mutable state and can be shared between sessions.
type Builder struct {
	registry      *instrumentspecs.Registry
	defaultLimits *eventmodels.LimitAndPrecision
	strictMinimum bool
	quoteOrigin   string
	now           func() time.Time
	newID         func() uuid.UUID
}

type Option func(*Builder)

// WithDefaultLimits is used when the registry has no row for the traded instrument.
func WithDefaultLimits(limits eventmodels.LimitAndPrecision) Option {
	return func(b *Builder) {
		b.defaultLimits = &limits
	}
}

// WithStrictMinimum rejects notionals below the order size instead of clamping them.
func WithStrictMinimum() Option {
	return func(b *Builder) {
		b.strictMinimum = true
	}
}

func WithQuoteOrigin(origin string) Option {
	return func(b *Builder) {
		b.quoteOrigin = origin
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(b *Builder) {
		b.newID = newID
	}
}

func NewBuilder(registry *instrumentspecs.Registry, opts ...Option) (*Builder, error) {
	b := &Builder{
		registry:    registry,
		quoteOrigin: DefaultQuoteOrigin,
		now:         time.Now,
		newID:       uuid.New,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.defaultLimits != nil {
		if err := b.defaultLimits.Validate(); err != nil {
			return nil, fmt.Errorf("NewBuilder: default limits: %w", err)
		}
	}

	return b, nil
}

// BuildPair returns both legs of the trade or an error; it never returns a single leg.
func (b *Builder) BuildPair(req eventmodels.PricedQuoteInput, dealer, counterparty eventmodels.CounterParty, pair eventmodels.CurrencyPair, ccy eventmodels.Currency) (*eventmodels.QuotePair, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("Builder.BuildPair: %w", err)
	}

	if dealer.ID == counterparty.ID {
		return nil, fmt.Errorf("Builder.BuildPair: dealer and counterparty are both %d: %w", dealer.ID, eventmodels.ErrInvalidCounterParty)
	}

	if err := pair.Validate(); err != nil {
		return nil, fmt.Errorf("Builder.BuildPair: %w", err)
	}

	variant := legsFor(req.Kind)

	limits, err := b.resolveLimits(pair.Base.Ticker, req.Kind)
	if err != nil {
		return nil, fmt.Errorf("Builder.BuildPair: %w", err)
	}

	amount, err := b.baseAmount(req, pair, ccy, limits)
	if err != nil {
		return nil, fmt.Errorf("Builder.BuildPair: %w", err)
	}

	now := b.now()
	quoteExpiry, gtc := expiry.QuoteExpiry(req.QuoteExpiryMinutes, now)

	payout := req.PayoutCcy
	if payout == "" {
		payout = eventmodels.PayoutCcyBase
	}

	leg := eventmodels.Quote{
		TempID:              b.newID(),
		CounterpartyID:      dealer.ID,
		PairID:              pair.ID,
		CcyID:               ccy.ID,
		Kind:                req.Kind,
		Amount:              amount * req.Side.Sign(),
		TTM:                 req.TTM,
		R1:                  req.R1,
		R2:                  req.R2,
		OffstrikePercentage: req.OffstrikePercentage,
		IV:                  req.IV,
		Side:                req.Side,
		QuoteStatus:         eventmodels.QuoteStatusActive,
		QuoteOrigin:         b.quoteOrigin,
		QuoteExpiry:         quoteExpiry,
		GTC:                 gtc,
		GroupID:             b.newID(),
		PartyA:              dealer.ID,
		PartyB:              counterparty.ID,
		PayoutCcy:           payout,
	}

	ctx := legContext{
		req:          req,
		counterparty: counterparty,
		pair:         pair,
		now:          now,
	}

	if err := variant.fill(&leg, ctx); err != nil {
		return nil, fmt.Errorf("Builder.BuildPair: %s: %w", req.Kind, err)
	}

	leg.PxInBaseCcy = precision.RoundToSpec(leg.PxInBaseCcy, pair.BaseTickSize(), pair.BaseOrderSize(), precision.RoundFloor, true)
	leg.PxInQuoteCcy = precision.RoundToSpec(leg.PxInQuoteCcy, pair.QuoteTickSize(), pair.QuoteOrderSize(), precision.RoundFloor, true)

	result := &eventmodels.QuotePair{
		Dealer:       leg,
		Counterparty: leg.Mirror(counterparty.ID, b.newID()),
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("Builder.BuildPair: %w", err)
	}

	return result, nil
}

func (b *Builder) resolveLimits(ticker string, kind eventmodels.QuoteKind) (eventmodels.LimitAndPrecision, error) {
	if limits, ok := b.registry.Resolve(ticker, kind.InstrumentType()); ok {
		return limits, nil
	}

	if b.defaultLimits != nil {
		return *b.defaultLimits, nil
	}

	return eventmodels.LimitAndPrecision{}, fmt.Errorf("%s/%s: %w", ticker, kind.InstrumentType(), eventmodels.ErrSpecNotFound)
}

// baseAmount converts the notional into the base currency and rounds it onto the order grid.
func (b *Builder) baseAmount(req eventmodels.PricedQuoteInput, pair eventmodels.CurrencyPair, ccy eventmodels.Currency, limits eventmodels.LimitAndPrecision) (float64, error) {
	amount := req.Amount

	if pair.IsQuoteCurrency(ccy) {
		if req.Spot <= 0 {
			return 0, fmt.Errorf("converting %v %s: %w", req.Amount, ccy.Ticker, eventmodels.ErrInvalidSpot)
		}

		amount = decimal.NewFromFloat(req.Amount).Div(decimal.NewFromFloat(req.Spot)).InexactFloat64()
	}

	if b.strictMinimum && amount < limits.OrderSize {
		return 0, fmt.Errorf("%v < %v: %w", amount, limits.OrderSize, eventmodels.ErrAmountBelowMinimum)
	}

	return precision.RoundToSpec(amount, limits.TickSize, limits.OrderSize, precision.RoundFloor, false), nil
}

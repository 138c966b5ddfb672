package quotebuilder

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
	"github.com/jiaming2012/quote-builder/src/instrumentspecs"
)

var (
	jabra = eventmodels.CounterParty{ID: 1, Ticker: "JABRA", Name: "Jabra Trading", DefaultExpiry: "08:00:00"}
	cp42  = eventmodels.CounterParty{ID: 42, Ticker: "CP42", Name: "Counterparty 42", DefaultExpiry: "08:00:00"}

	btc = eventmodels.Currency{ID: 1, Ticker: "BTC", InstrumentOption: eventmodels.OptionInstrumentSpecification{
		CcyID: 1, ContractMultiplier: 1, MinPriceIncrement: 0.0001, MinContractIncrement: 0.01,
	}}
	usd = eventmodels.Currency{ID: 2, Ticker: "USD", InstrumentOption: eventmodels.OptionInstrumentSpecification{
		CcyID: 2, ContractMultiplier: 1, MinPriceIncrement: 0.01, MinContractIncrement: 0.01,
	}}
	btcusd = eventmodels.CurrencyPair{ID: 7, Name: "BTC/USD", Base: btc, Quote: usd}

	fixedNow = time.Date(2023, 3, 7, 12, 0, 0, 0, time.UTC)
)

func sequentialIDs() func() uuid.UUID {
	n := 0
	return func() uuid.UUID {
		n++
		return uuid.MustParse(fmt.Sprintf("00000000-0000-4000-8000-%012d", n))
	}
}

func newTestBuilder(t *testing.T, opts ...Option) *Builder {
	registry, err := instrumentspecs.NewRegistry([]eventmodels.InstrumentSpec{
		{Ticker: "BTC", InstrumentType: "option", ContractMultiplier: 1, MinPriceIncrement: 0.01, MinContractIncrement: 0.01},
		{Ticker: "BTC", InstrumentType: "spot", ContractMultiplier: 1, MinPriceIncrement: 0.0001, MinContractIncrement: 0.001},
	})
	require.NoError(t, err)

	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), WithIDGenerator(sequentialIDs())}, opts...)

	b, err := NewBuilder(registry, opts...)
	require.NoError(t, err)

	return b
}

func optionRequest() eventmodels.PricedQuoteInput {
	return eventmodels.PricedQuoteInput{
		Kind:               eventmodels.QuoteKindOption,
		OptionKind:         eventmodels.OptionKindCall,
		Side:               eventmodels.QuoteSideBuy,
		Amount:             3.33,
		AmountCcy:          btc.ID,
		Strike:             62034.7,
		TTM:                6.85,
		Spot:               60000,
		R1:                 0.01,
		R2:                 0.02,
		IV:                 0.55,
		PxInBaseCcy:        0.012345,
		PxInQuoteCcy:       740.678,
		Greeks:             eventmodels.Greeks{Delta: 0.52, Gamma: 0.00003, Theta: -25.1},
		QuoteExpiryMinutes: 15,
	}
}

func TestBuildPair(t *testing.T) {
	t.Run("dealer buys a BTC call from counterparty 42", func(t *testing.T) {
		b := newTestBuilder(t)

		pair, err := b.BuildPair(optionRequest(), jabra, cp42, btcusd, btc)
		require.NoError(t, err)

		dealer, cp := pair.Dealer, pair.Counterparty

		assert.Equal(t, dealer.GroupID, cp.GroupID)
		assert.NotEqual(t, dealer.TempID, cp.TempID)
		assert.Equal(t, eventmodels.QuoteSideBuy, dealer.Side)
		assert.Equal(t, eventmodels.QuoteSideSell, cp.Side)
		assert.Equal(t, 3.33, dealer.Amount)
		assert.Equal(t, -3.33, cp.Amount)
		assert.Equal(t, eventmodels.InstrumentName("BTC-14MAR23-62034-C"), dealer.InstrumentName)
		assert.Equal(t, dealer.InstrumentName, cp.InstrumentName)
		assert.Equal(t, "2023-03-14T08:00:00", dealer.ExpiryTimestamp)
		assert.Equal(t, dealer.ExpiryTimestamp, cp.ExpiryTimestamp)

		assert.Equal(t, eventmodels.PartyID(1), dealer.PartyA)
		assert.Equal(t, eventmodels.PartyID(42), dealer.PartyB)
		assert.Equal(t, eventmodels.PartyID(42), cp.PartyA)
		assert.Equal(t, eventmodels.PartyID(1), cp.PartyB)
		assert.Equal(t, eventmodels.PartyID(1), dealer.CounterpartyID)
		assert.Equal(t, eventmodels.PartyID(42), cp.CounterpartyID)
	})

	t.Run("non signed fields are copied verbatim", func(t *testing.T) {
		b := newTestBuilder(t)

		pair, err := b.BuildPair(optionRequest(), jabra, cp42, btcusd, btc)
		require.NoError(t, err)

		for _, leg := range pair.Legs() {
			assert.Equal(t, 62034.7, leg.Strike)
			assert.Equal(t, 60000.0, leg.Spot)
			assert.Equal(t, 0.55, leg.IV)
			assert.Equal(t, 6.85, leg.TTM)
			assert.Equal(t, eventmodels.OptionKindCall, leg.OptionKind)
			assert.Equal(t, eventmodels.QuoteStatusActive, leg.QuoteStatus)
			assert.Equal(t, DefaultQuoteOrigin, leg.QuoteOrigin)
			assert.Equal(t, eventmodels.PayoutCcyBase, leg.PayoutCcy)
			assert.Equal(t, "2023-03-07T12:15:00", leg.QuoteExpiry)
			assert.False(t, leg.GTC)
		}
	})

	t.Run("premiums are floored onto the pair ticks and greeks negated", func(t *testing.T) {
		b := newTestBuilder(t)

		pair, err := b.BuildPair(optionRequest(), jabra, cp42, btcusd, btc)
		require.NoError(t, err)

		assert.Equal(t, 0.0123, pair.Dealer.PxInBaseCcy)
		assert.Equal(t, -0.0123, pair.Counterparty.PxInBaseCcy)
		assert.Equal(t, 740.67, pair.Dealer.PxInQuoteCcy)
		assert.Equal(t, -740.67, pair.Counterparty.PxInQuoteCcy)
		assert.Equal(t, -0.52, pair.Counterparty.Delta)
		assert.Equal(t, -0.00003, pair.Counterparty.Gamma)
		assert.Equal(t, 25.1, pair.Counterparty.Theta)
	})

	t.Run("dealer selling signs the amount negative", func(t *testing.T) {
		b := newTestBuilder(t)

		req := optionRequest()
		req.Side = eventmodels.QuoteSideSell

		pair, err := b.BuildPair(req, jabra, cp42, btcusd, btc)
		require.NoError(t, err)
		assert.Equal(t, -3.33, pair.Dealer.Amount)
		assert.Equal(t, 3.33, pair.Counterparty.Amount)
		assert.Equal(t, eventmodels.QuoteSideBuy, pair.Counterparty.Side)
	})

	t.Run("notional below the order size is clamped", func(t *testing.T) {
		b := newTestBuilder(t)

		req := optionRequest()
		req.Amount = 0.001

		pair, err := b.BuildPair(req, jabra, cp42, btcusd, btc)
		require.NoError(t, err)
		assert.Equal(t, 0.01, pair.Dealer.Amount)
	})

	t.Run("notional is floored onto the order grid", func(t *testing.T) {
		b := newTestBuilder(t)

		req := optionRequest()
		req.Amount = 3.339

		pair, err := b.BuildPair(req, jabra, cp42, btcusd, btc)
		require.NoError(t, err)
		assert.Equal(t, 3.33, pair.Dealer.Amount)
	})

	t.Run("strict minimum rejects small notionals", func(t *testing.T) {
		b := newTestBuilder(t, WithStrictMinimum())

		req := optionRequest()
		req.Amount = 0.001

		pair, err := b.BuildPair(req, jabra, cp42, btcusd, btc)
		assert.Nil(t, pair)
		assert.True(t, errors.Is(err, eventmodels.ErrAmountBelowMinimum))
	})

	t.Run("quote currency notional is converted at spot", func(t *testing.T) {
		b := newTestBuilder(t)

		req := optionRequest()
		req.Amount = 120000
		req.AmountCcy = usd.ID

		pair, err := b.BuildPair(req, jabra, cp42, btcusd, usd)
		require.NoError(t, err)
		assert.Equal(t, 2.0, pair.Dealer.Amount)
		assert.Equal(t, usd.ID, pair.Dealer.CcyID)
	})

	t.Run("quote currency notional without spot", func(t *testing.T) {
		b := newTestBuilder(t)

		req := optionRequest()
		req.Spot = 0

		_, err := b.BuildPair(req, jabra, cp42, btcusd, usd)
		assert.True(t, errors.Is(err, eventmodels.ErrInvalidSpot))
	})

	t.Run("explicit expiry uses the counterparty settlement time", func(t *testing.T) {
		b := newTestBuilder(t)

		req := optionRequest()
		req.Expiry = "2023-03-31 00:00:00"

		cp := cp42
		cp.DefaultExpiry = ""

		pair, err := b.BuildPair(req, jabra, cp, btcusd, btc)
		require.NoError(t, err)
		assert.Equal(t, "2023-03-31T10:00:00", pair.Dealer.ExpiryTimestamp)
		assert.Equal(t, eventmodels.InstrumentName("BTC-31MAR23-62034-C"), pair.Dealer.InstrumentName)
	})

	t.Run("zero quote expiry minutes is good-till-canceled", func(t *testing.T) {
		b := newTestBuilder(t)

		req := optionRequest()
		req.QuoteExpiryMinutes = 0

		pair, err := b.BuildPair(req, jabra, cp42, btcusd, btc)
		require.NoError(t, err)
		assert.True(t, pair.Dealer.GTC)
		assert.True(t, pair.Counterparty.GTC)
	})

	t.Run("strike derived from offstrike when missing", func(t *testing.T) {
		b := newTestBuilder(t)

		req := optionRequest()
		req.Strike = 0
		req.OffstrikePercentage = 5

		pair, err := b.BuildPair(req, jabra, cp42, btcusd, btc)
		require.NoError(t, err)
		assert.Equal(t, 63000.0, pair.Dealer.Strike)
		assert.Equal(t, eventmodels.InstrumentName("BTC-14MAR23-63000-C"), pair.Dealer.InstrumentName)
	})
}

func TestBuildPairFailures(t *testing.T) {
	t.Run("spec not found without defaults", func(t *testing.T) {
		b := newTestBuilder(t)

		eth := eventmodels.Currency{ID: 3, Ticker: "ETH", InstrumentOption: eventmodels.DefaultOptionInstrumentSpecification()}
		ethusd := eventmodels.CurrencyPair{ID: 8, Name: "ETH/USD", Base: eth, Quote: usd}

		pair, err := b.BuildPair(optionRequest(), jabra, cp42, ethusd, eth)
		assert.Nil(t, pair)
		assert.True(t, errors.Is(err, eventmodels.ErrSpecNotFound))
	})

	t.Run("caller defaults replace a missing spec", func(t *testing.T) {
		b := newTestBuilder(t, WithDefaultLimits(eventmodels.DefaultLimitAndPrecision()))

		eth := eventmodels.Currency{ID: 3, Ticker: "ETH", InstrumentOption: eventmodels.DefaultOptionInstrumentSpecification()}
		ethusd := eventmodels.CurrencyPair{ID: 8, Name: "ETH/USD", Base: eth, Quote: usd}

		pair, err := b.BuildPair(optionRequest(), jabra, cp42, ethusd, eth)
		require.NoError(t, err)
		assert.Equal(t, 3.33, pair.Dealer.Amount)
		assert.Equal(t, eventmodels.InstrumentName("ETH-14MAR23-62034-C"), pair.Dealer.InstrumentName)
	})

	t.Run("invalid default limits", func(t *testing.T) {
		_, err := NewBuilder(nil, WithDefaultLimits(eventmodels.LimitAndPrecision{TickSize: 0, OrderSize: 1}))
		assert.True(t, errors.Is(err, eventmodels.ErrInvalidLimits))
	})

	t.Run("unparseable expiry produces no legs", func(t *testing.T) {
		b := newTestBuilder(t)

		req := optionRequest()
		req.Expiry = "next friday"

		pair, err := b.BuildPair(req, jabra, cp42, btcusd, btc)
		assert.Nil(t, pair)
		assert.True(t, errors.Is(err, eventmodels.ErrInvalidExpiry))
	})

	t.Run("no expiry and no ttm", func(t *testing.T) {
		b := newTestBuilder(t)

		req := optionRequest()
		req.TTM = 0

		_, err := b.BuildPair(req, jabra, cp42, btcusd, btc)
		assert.True(t, errors.Is(err, eventmodels.ErrInvalidExpiry))
	})

	t.Run("malformed settlement time", func(t *testing.T) {
		b := newTestBuilder(t)

		cp := cp42
		cp.DefaultExpiry = "8am"

		pair, err := b.BuildPair(optionRequest(), jabra, cp, btcusd, btc)
		assert.Nil(t, pair)
		assert.True(t, errors.Is(err, eventmodels.ErrInvalidTimeOfDay))
	})

	t.Run("unknown quote kind", func(t *testing.T) {
		b := newTestBuilder(t)

		req := optionRequest()
		req.Kind = "Swap"

		_, err := b.BuildPair(req, jabra, cp42, btcusd, btc)
		assert.True(t, errors.Is(err, eventmodels.ErrInvalidQuoteKind))
	})

	t.Run("option without an option kind", func(t *testing.T) {
		b := newTestBuilder(t)

		req := optionRequest()
		req.OptionKind = ""

		_, err := b.BuildPair(req, jabra, cp42, btcusd, btc)
		assert.True(t, errors.Is(err, eventmodels.ErrInvalidOptionKind))
	})

	t.Run("non-finite numbers are rejected without panicking", func(t *testing.T) {
		b := newTestBuilder(t)

		cases := map[string]func(*eventmodels.PricedQuoteInput){
			"infinite amount":   func(r *eventmodels.PricedQuoteInput) { r.Amount = math.Inf(1) },
			"NaN amount":        func(r *eventmodels.PricedQuoteInput) { r.Amount = math.NaN() },
			"NaN spot":          func(r *eventmodels.PricedQuoteInput) { r.Spot = math.NaN() },
			"infinite strike":   func(r *eventmodels.PricedQuoteInput) { r.Strike = math.Inf(-1) },
			"NaN quote premium": func(r *eventmodels.PricedQuoteInput) { r.PxInQuoteCcy = math.NaN() },
			"infinite delta":    func(r *eventmodels.PricedQuoteInput) { r.Delta = math.Inf(1) },
		}

		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				req := optionRequest()
				mutate(&req)

				var pair *eventmodels.QuotePair
				var err error
				require.NotPanics(t, func() { pair, err = b.BuildPair(req, jabra, cp42, btcusd, btc) })
				assert.Nil(t, pair)
				assert.True(t, errors.Is(err, eventmodels.ErrNonFiniteInput))
			})
		}

		spot := optionRequest()
		spot.Kind = eventmodels.QuoteKindSpot
		spot.Price = math.Inf(1)

		_, err := b.BuildPair(spot, jabra, cp42, btcusd, btc)
		assert.True(t, errors.Is(err, eventmodels.ErrNonFiniteInput))
	})

	t.Run("non-finite default limits", func(t *testing.T) {
		_, err := NewBuilder(nil, WithDefaultLimits(eventmodels.LimitAndPrecision{TickSize: math.NaN(), OrderSize: 1}))
		assert.True(t, errors.Is(err, eventmodels.ErrInvalidLimits))

		_, err = NewBuilder(nil, WithDefaultLimits(eventmodels.LimitAndPrecision{TickSize: 0.01, OrderSize: math.Inf(1)}))
		assert.True(t, errors.Is(err, eventmodels.ErrInvalidLimits))
	})

	t.Run("non-finite registry increments", func(t *testing.T) {
		_, err := instrumentspecs.NewRegistry([]eventmodels.InstrumentSpec{
			{Ticker: "BTC", InstrumentType: "option", ContractMultiplier: 1, MinPriceIncrement: math.NaN(), MinContractIncrement: 0.01},
		})
		assert.True(t, errors.Is(err, instrumentspecs.ErrInvalidInstrumentSpec))
	})

	t.Run("dealer quoting itself", func(t *testing.T) {
		b := newTestBuilder(t)

		_, err := b.BuildPair(optionRequest(), jabra, jabra, btcusd, btc)
		assert.True(t, errors.Is(err, eventmodels.ErrInvalidCounterParty))
	})
}

func TestBuildPairLinear(t *testing.T) {
	t.Run("spot", func(t *testing.T) {
		b := newTestBuilder(t)

		req := eventmodels.PricedQuoteInput{
			Kind:               eventmodels.QuoteKindSpot,
			Side:               eventmodels.QuoteSideSell,
			Amount:             1.5,
			Price:              25000.5,
			QuoteExpiryMinutes: 5,
		}

		pair, err := b.BuildPair(req, jabra, cp42, btcusd, btc)
		require.NoError(t, err)

		assert.Equal(t, eventmodels.InstrumentName("BTC-USD"), pair.Dealer.InstrumentName)
		assert.Equal(t, "", pair.Dealer.ExpiryTimestamp)
		assert.Equal(t, eventmodels.OptionKind(""), pair.Dealer.OptionKind)
		assert.Equal(t, -1.5, pair.Dealer.Amount)
		assert.Equal(t, 25000.5, pair.Dealer.Strike)
		assert.Equal(t, -37500.75, pair.Dealer.PxInQuoteCcy)
		assert.Equal(t, 37500.75, pair.Counterparty.PxInQuoteCcy)
		assert.Equal(t, -1.5, pair.Dealer.Delta)
		assert.Equal(t, 1.5, pair.Counterparty.Delta)
	})

	t.Run("spot without a price", func(t *testing.T) {
		b := newTestBuilder(t)

		req := eventmodels.PricedQuoteInput{Kind: eventmodels.QuoteKindSpot, Side: eventmodels.QuoteSideBuy, Amount: 1}

		_, err := b.BuildPair(req, jabra, cp42, btcusd, btc)
		assert.True(t, errors.Is(err, eventmodels.ErrInvalidSpot))
	})

	t.Run("future", func(t *testing.T) {
		b := newTestBuilder(t, WithDefaultLimits(eventmodels.LimitAndPrecision{TickSize: 0.5, OrderSize: 1}))

		req := eventmodels.PricedQuoteInput{
			Kind:   eventmodels.QuoteKindFuture,
			Side:   eventmodels.QuoteSideBuy,
			Amount: 2.7,
			Price:  26000,
			Expiry: "2023-06-30T00:00",
		}

		pair, err := b.BuildPair(req, jabra, cp42, btcusd, btc)
		require.NoError(t, err)

		assert.Equal(t, eventmodels.InstrumentName("BTC-30JUN23"), pair.Dealer.InstrumentName)
		assert.Equal(t, "2023-06-30T08:00:00", pair.Dealer.ExpiryTimestamp)
		assert.Equal(t, 2.5, pair.Dealer.Amount)
		assert.Equal(t, -2.5, pair.Counterparty.Amount)
		assert.Equal(t, 65000.0, pair.Dealer.PxInQuoteCcy)
		assert.True(t, pair.Dealer.GTC)
	})
}

func TestStrikeFromOffstrike(t *testing.T) {
	assert.Equal(t, 63000.0, StrikeFromOffstrike(60000, 5, btcusd))
	assert.Equal(t, 57000.0, StrikeFromOffstrike(60000, -5, btcusd))
	assert.Equal(t, 62034.71, StrikeFromOffstrike(62034.719, 0, btcusd))
}

package run

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
	"github.com/jiaming2012/quote-builder/src/eventservices"
	"github.com/jiaming2012/quote-builder/src/instrumentspecs"
	"github.com/jiaming2012/quote-builder/src/quotebuilder"
	"github.com/jiaming2012/quote-builder/src/quotestore"
	"github.com/jiaming2012/quote-builder/src/referencedata"
)

type RunArgs struct {
	ReferenceDataPath  string
	InstrumentSpecCSV  string
	Pair               string
	Dealer             string
	Counterparty       string
	AmountCcy          string
	Input              eventmodels.PricedQuoteInput
	DefaultLimits      *eventmodels.LimitAndPrecision
	StrictMinimum      bool
	PricingURL         string
	PricingBearerToken string
	OutCSV             string
}

type RunResult struct {
	Pair *eventmodels.QuotePair
}

func Run(ctx context.Context, args RunArgs) (RunResult, error) {
	refdata, err := referencedata.LoadFile(args.ReferenceDataPath)
	if err != nil {
		return RunResult{}, fmt.Errorf("run: %w", err)
	}

	if args.InstrumentSpecCSV != "" {
		specs, err := instrumentspecs.LoadCSVFile(args.InstrumentSpecCSV)
		if err != nil {
			return RunResult{}, fmt.Errorf("run: %w", err)
		}

		refdata = refdata.WithSpecs(specs)
	}

	pair, err := refdata.PairByName(args.Pair)
	if err != nil {
		return RunResult{}, fmt.Errorf("run: %w", err)
	}

	dealer, err := refdata.CounterPartyByTicker(args.Dealer)
	if err != nil {
		return RunResult{}, fmt.Errorf("run: dealer: %w", err)
	}

	counterparty, err := refdata.CounterPartyByTicker(args.Counterparty)
	if err != nil {
		return RunResult{}, fmt.Errorf("run: counterparty: %w", err)
	}

	ccy := pair.Base
	if args.AmountCcy != "" {
		var found bool
		if ccy, found = pair.CurrencyByTicker(args.AmountCcy); !found {
			return RunResult{}, fmt.Errorf("run: %s is not part of %s: %w", args.AmountCcy, pair.Name, referencedata.ErrNotFound)
		}
	}

	input := args.Input
	if args.PricingURL != "" {
		resp, err := eventservices.FetchQuoteOption(ctx, args.PricingURL, args.PricingBearerToken, eventmodels.NewQuoteOptionRequest(input))
		if err != nil {
			return RunResult{}, fmt.Errorf("run: %w", err)
		}

		input = resp.Data.Apply(input)
		log.Infof("priced %s %s at %v %s", input.Side, input.OptionKind, input.PxInQuoteCcy, pair.Quote.Ticker)
	}

	var opts []quotebuilder.Option
	if args.DefaultLimits != nil {
		opts = append(opts, quotebuilder.WithDefaultLimits(*args.DefaultLimits))
	}

	if args.StrictMinimum {
		opts = append(opts, quotebuilder.WithStrictMinimum())
	}

	builder, err := quotebuilder.NewBuilder(refdata.Specs, opts...)
	if err != nil {
		return RunResult{}, fmt.Errorf("run: %w", err)
	}

	quotePair, err := builder.BuildPair(input, dealer, counterparty, pair, ccy)
	if err != nil {
		return RunResult{}, fmt.Errorf("run: %w", err)
	}

	if args.OutCSV != "" {
		sink, f, err := quotestore.NewCSVFileSink(args.OutCSV)
		if err != nil {
			return RunResult{}, fmt.Errorf("run: %w", err)
		}
		defer f.Close()

		if err := sink.SubmitQuotes(ctx, quotePair.Legs()); err != nil {
			return RunResult{}, fmt.Errorf("run: %w", err)
		}

		log.Infof("wrote %d legs to %s", len(quotePair.Legs()), args.OutCSV)
	}

	return RunResult{Pair: quotePair}, nil
}

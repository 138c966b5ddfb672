package main

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/quote-builder/src/cmd/build_quote/run"
	"github.com/jiaming2012/quote-builder/src/eventmodels"
)

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/build_quote/main.go --reference reference.yaml --pair BTC/USD --counterparty CP42 --kind Option --option-kind Call --side buy --amount 3.33 --strike 62034.7 --ttm 6.85",
	Short: "Build both mirrored legs of one priced quote",
	Long:  "Resolves the instrument precision, rounds the notional, derives the expiries and prints the dealer and counterparty legs.",
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()

		getString := func(name string) string {
			v, err := flags.GetString(name)
			if err != nil {
				log.Fatalf("error getting %s: %v", name, err)
			}
			return v
		}

		getFloat := func(name string) float64 {
			v, err := flags.GetFloat64(name)
			if err != nil {
				log.Fatalf("error getting %s: %v", name, err)
			}
			return v
		}

		minutes, err := flags.GetUint16("quote-expiry-minutes")
		if err != nil {
			log.Fatalf("error getting quote-expiry-minutes: %v", err)
		}

		strict, err := flags.GetBool("strict")
		if err != nil {
			log.Fatalf("error getting strict: %v", err)
		}

		asJSON, err := flags.GetBool("json")
		if err != nil {
			log.Fatalf("error getting json: %v", err)
		}

		var defaults *eventmodels.LimitAndPrecision
		if tick, lot := getFloat("default-tick"), getFloat("default-lot"); tick > 0 || lot > 0 {
			defaults = &eventmodels.LimitAndPrecision{TickSize: tick, OrderSize: lot}
		}

		result, err := run.Run(context.Background(), run.RunArgs{
			ReferenceDataPath: getString("reference"),
			InstrumentSpecCSV: getString("specs-csv"),
			Pair:              getString("pair"),
			Dealer:            getString("dealer"),
			Counterparty:      getString("counterparty"),
			AmountCcy:         getString("amount-ccy"),
			Input: eventmodels.PricedQuoteInput{
				Kind:                eventmodels.QuoteKind(getString("kind")),
				OptionKind:          eventmodels.OptionKind(getString("option-kind")),
				Side:                eventmodels.QuoteSide(getString("side")),
				Amount:              getFloat("amount"),
				Strike:              getFloat("strike"),
				OffstrikePercentage: getFloat("offstrike"),
				TTM:                 getFloat("ttm"),
				Spot:                getFloat("spot"),
				Price:               getFloat("price"),
				R1:                  getFloat("r1"),
				R2:                  getFloat("r2"),
				IV:                  getFloat("iv"),
				PxInBaseCcy:         getFloat("px-base"),
				PxInQuoteCcy:        getFloat("px-quote"),
				Greeks: eventmodels.Greeks{
					Delta: getFloat("delta"),
					Gamma: getFloat("gamma"),
					Theta: getFloat("theta"),
				},
				Expiry:             getString("expiry"),
				QuoteExpiryMinutes: minutes,
				PayoutCcy:          eventmodels.PayoutCcy(getString("payout")),
			},
			DefaultLimits:      defaults,
			StrictMinimum:      strict,
			PricingURL:         getString("pricing-url"),
			PricingBearerToken: getString("pricing-token"),
			OutCSV:             getString("out"),
		})
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		if asJSON {
			data, err := json.MarshalIndent(result.Pair, "", "  ")
			if err != nil {
				log.Fatalf("Failed to marshal pair: %v", err)
			}

			fmt.Println(string(data))
			return
		}

		fmt.Println(result.Pair.String())
	},
}

func main() {
	flags := runCmd.PersistentFlags()

	flags.String("reference", "", "Reference data YAML: pairs, counterparties and instrument specs.")
	flags.String("specs-csv", "", "Optional CSV replacing the instrument spec table.")
	flags.String("pair", "", "Currency pair name, e.g. BTC/USD or BTC-USD.")
	flags.String("dealer", "JABRA", "Ticker of the dealing desk.")
	flags.String("counterparty", "", "Ticker of the counterparty.")
	flags.String("kind", string(eventmodels.QuoteKindOption), "Quote kind: Spot, Option or Future.")
	flags.String("option-kind", "", "Call or Put.")
	flags.String("side", string(eventmodels.QuoteSideBuy), "Dealer side: buy or sell.")
	flags.Float64("amount", 0, "Notional, in amount-ccy.")
	flags.String("amount-ccy", "", "Ticker of the notional currency. Defaults to the base currency.")
	flags.Float64("strike", 0, "Strike. When zero it is derived from spot and offstrike.")
	flags.Float64("offstrike", 0, "Offstrike percentage.")
	flags.Float64("ttm", 0, "Time to maturity in days.")
	flags.String("expiry", "", "Contract expiry date. Derived from ttm when empty.")
	flags.Float64("spot", 0, "Spot price.")
	flags.Float64("price", 0, "Traded price for spot and future quotes.")
	flags.Float64("r1", 0, "Base currency rate.")
	flags.Float64("r2", 0, "Quote currency rate.")
	flags.Float64("iv", 0, "Implied volatility.")
	flags.Float64("px-base", 0, "Premium in base currency.")
	flags.Float64("px-quote", 0, "Premium in quote currency.")
	flags.Float64("delta", 0, "Delta.")
	flags.Float64("gamma", 0, "Gamma.")
	flags.Float64("theta", 0, "Theta.")
	flags.Uint16("quote-expiry-minutes", 15, "Quote validity in minutes. Zero is good-till-canceled.")
	flags.String("payout", "", "Payout currency: base or quote.")
	flags.Float64("default-tick", 0, "Tick size used when no instrument spec matches.")
	flags.Float64("default-lot", 0, "Order size used when no instrument spec matches.")
	flags.Bool("strict", false, "Reject notionals below the order size instead of clamping.")
	flags.String("pricing-url", "", "Pricing provider endpoint. When set, premiums and greeks are fetched.")
	flags.String("pricing-token", "", "Bearer token for the pricing provider.")
	flags.String("out", "", "Append both legs to this CSV file.")
	flags.Bool("json", false, "Print the pair as JSON instead of a table.")

	runCmd.MarkPersistentFlagRequired("reference")
	runCmd.MarkPersistentFlagRequired("pair")
	runCmd.MarkPersistentFlagRequired("counterparty")

	cobra.CheckErr(runCmd.Execute())
}

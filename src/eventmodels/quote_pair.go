package eventmodels

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// QuotePair holds the two mirrored legs of one trade.
type QuotePair struct {
	Dealer       Quote `json:"dealer"`
	Counterparty Quote `json:"counterparty"`
}

func (p *QuotePair) Legs() []Quote {
	return []Quote{p.Dealer, p.Counterparty}
}

func (p *QuotePair) Validate() error {
	d, c := p.Dealer, p.Counterparty

	checks := []struct {
		ok   bool
		desc string
	}{
		{d.Amount == -c.Amount, "amount"},
		{d.PxInBaseCcy == -c.PxInBaseCcy, "px_in_base_ccy"},
		{d.PxInQuoteCcy == -c.PxInQuoteCcy, "px_in_quote_ccy"},
		{d.Delta == -c.Delta, "delta"},
		{d.Gamma == -c.Gamma, "gamma"},
		{d.Theta == -c.Theta, "theta"},
		{d.Side != c.Side && d.Side.Validate() == nil && c.Side.Validate() == nil, "side"},
		{d.PartyA == c.PartyB && d.PartyB == c.PartyA, "parties"},
		{d.InstrumentName == c.InstrumentName, "instrument_name"},
		{d.Strike == c.Strike, "strike"},
		{d.ExpiryTimestamp == c.ExpiryTimestamp, "expiry_timestamp"},
		{d.GroupID == c.GroupID, "group_id"},
	}

	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("QuotePair.Validate: group %s: %s: %w", d.GroupID, check.desc, ErrMirrorInvariant)
		}
	}

	return nil
}

func (p *QuotePair) String() string {
	display := &strings.Builder{}
	pr := message.NewPrinter(language.English)

	table := tablewriter.NewWriter(display)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")
	table.SetHeader([]string{"Leg", "Side", "Party A", "Party B", "Amount", "Px Base", "Px Quote", "Delta"})

	display.WriteString(fmt.Sprintf("%s (group %s, expires %s)\n", p.Dealer.InstrumentName, p.Dealer.GroupID, p.Dealer.ExpiryTimestamp))

	for i, leg := range p.Legs() {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			string(leg.Side),
			fmt.Sprintf("%d", leg.PartyA),
			fmt.Sprintf("%d", leg.PartyB),
			pr.Sprintf("%v", leg.Amount),
			pr.Sprintf("%v", leg.PxInBaseCcy),
			pr.Sprintf("%.2f", leg.PxInQuoteCcy),
			pr.Sprintf("%v", leg.Delta),
		})
	}

	table.Render()
	return display.String()
}

package referencedata

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
	"github.com/jiaming2012/quote-builder/src/instrumentspecs"
)

var ErrNotFound = fmt.Errorf("reference data not found")

type snapshotYAML struct {
	Pairs           []eventmodels.CurrencyPair   `yaml:"pairs"`
	CounterParties  []eventmodels.CounterParty   `yaml:"counterparties"`
	InstrumentSpecs []eventmodels.InstrumentSpec `yaml:"instrument_specs"`
}

// Snapshot is a read-only copy of the reference data. The caller refreshes it by loading a new one.
type Snapshot struct {
	pairs          []eventmodels.CurrencyPair
	counterParties []eventmodels.CounterParty
	Specs          *instrumentspecs.Registry
}

func NewSnapshot(pairs []eventmodels.CurrencyPair, counterParties []eventmodels.CounterParty, specs *instrumentspecs.Registry) (*Snapshot, error) {
	for _, p := range pairs {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("NewSnapshot: pair %d: %w", p.ID, err)
		}
	}

	seen := map[eventmodels.PartyID]struct{}{}
	for _, cp := range counterParties {
		if _, found := seen[cp.ID]; found {
			return nil, fmt.Errorf("NewSnapshot: counterparty %d listed twice: %w", cp.ID, eventmodels.ErrInvalidCounterParty)
		}

		if _, err := cp.Location(); err != nil {
			return nil, fmt.Errorf("NewSnapshot: counterparty %s: %w", cp.Ticker, err)
		}

		seen[cp.ID] = struct{}{}
	}

	return &Snapshot{
		pairs:          pairs,
		counterParties: counterParties,
		Specs:          specs,
	}, nil
}

func Load(r io.Reader) (*Snapshot, error) {
	var doc snapshotYAML
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("referencedata.Load: failed to decode: %w", err)
	}

	specs, err := instrumentspecs.NewRegistry(doc.InstrumentSpecs)
	if err != nil {
		return nil, fmt.Errorf("referencedata.Load: %w", err)
	}

	return NewSnapshot(doc.Pairs, doc.CounterParties, specs)
}

func LoadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("referencedata.LoadFile: failed to open %s: %w", path, err)
	}
	defer f.Close()

	snapshot, err := Load(f)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"path":           path,
		"pairs":          len(snapshot.pairs),
		"counterparties": len(snapshot.counterParties),
		"specs":          snapshot.Specs.Len(),
	}).Info("loaded reference data")

	return snapshot, nil
}

// WithSpecs returns a copy of the snapshot using specs as its instrument table.
func (s *Snapshot) WithSpecs(specs *instrumentspecs.Registry) *Snapshot {
	out := *s
	out.Specs = specs
	return &out
}

func (s *Snapshot) Pairs() []eventmodels.CurrencyPair {
	return append([]eventmodels.CurrencyPair(nil), s.pairs...)
}

func (s *Snapshot) CounterParties() []eventmodels.CounterParty {
	return append([]eventmodels.CounterParty(nil), s.counterParties...)
}

func (s *Snapshot) PairByID(id eventmodels.CurrencyPairID) (eventmodels.CurrencyPair, error) {
	for _, p := range s.pairs {
		if p.ID == id {
			return p, nil
		}
	}

	return eventmodels.CurrencyPair{}, fmt.Errorf("pair %d: %w", id, ErrNotFound)
}

func (s *Snapshot) PairByName(name string) (eventmodels.CurrencyPair, error) {
	for _, p := range s.pairs {
		if p.Name == name || p.CoinbaseName() == name {
			return p, nil
		}
	}

	return eventmodels.CurrencyPair{}, fmt.Errorf("pair %s: %w", name, ErrNotFound)
}

func (s *Snapshot) CounterPartyByID(id eventmodels.PartyID) (eventmodels.CounterParty, error) {
	for _, cp := range s.counterParties {
		if cp.ID == id {
			return cp, nil
		}
	}

	return eventmodels.CounterParty{}, fmt.Errorf("counterparty %d: %w", id, ErrNotFound)
}

func (s *Snapshot) CounterPartyByTicker(ticker string) (eventmodels.CounterParty, error) {
	for _, cp := range s.counterParties {
		if cp.Ticker == ticker {
			return cp, nil
		}
	}

	return eventmodels.CounterParty{}, fmt.Errorf("counterparty %s: %w", ticker, ErrNotFound)
}

func (s *Snapshot) IDByTicker(ticker string) (eventmodels.PartyID, error) {
	cp, err := s.CounterPartyByTicker(ticker)
	if err != nil {
		return 0, err
	}

	return cp.ID, nil
}

// DefaultExpiryByID returns the counterparty's settlement time of day, or the house default
// when the counterparty is unknown.
func (s *Snapshot) DefaultExpiryByID(id eventmodels.PartyID) string {
	cp, err := s.CounterPartyByID(id)
	if err != nil {
		return eventmodels.DefaultSettlementTimeOfDay
	}

	return cp.SettlementTimeOfDay()
}

package instrumentspecs

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
)

type specsYAML struct {
	InstrumentSpecs []eventmodels.InstrumentSpec `yaml:"instrument_specs"`
}

// LoadYAML reads a document with a top level instrument_specs list.
func LoadYAML(r io.Reader) (*Registry, error) {
	var doc specsYAML
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("LoadYAML: failed to decode instrument specs: %w", err)
	}

	return NewRegistry(doc.InstrumentSpecs)
}

// LoadCSV reads rows with the header
// ticker,instrument_type,contract_multiplier,min_price_increment,min_contract_increment.
func LoadCSV(r io.Reader) (*Registry, error) {
	var specs []eventmodels.InstrumentSpec
	if err := gocsv.Unmarshal(r, &specs); err != nil {
		return nil, fmt.Errorf("LoadCSV: failed to unmarshal instrument specs: %w", err)
	}

	return NewRegistry(specs)
}

func LoadCSVFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadCSVFile: failed to open %s: %w", path, err)
	}
	defer f.Close()

	return LoadCSV(f)
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
)

type Config struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	GoEnv             string        `env:"GO_ENV" envDefault:"development"`
	ServiceName       string        `env:"OTEL_SERVICE_NAME" envDefault:"quote-builder"`
	TelemetryEnabled  bool          `env:"TELEMETRY_ENABLED" envDefault:"false"`
	ReferenceDataPath string        `env:"REFERENCE_DATA_PATH,required,notEmpty"`
	InstrumentSpecCSV string        `env:"INSTRUMENT_SPEC_CSV"`
	DealerTicker      string        `env:"DEALER_TICKER" envDefault:"JABRA"`
	QuoteOrigin       string        `env:"QUOTE_ORIGIN" envDefault:"JabraAdminGUI"`
	StrictMinimum     bool          `env:"STRICT_MINIMUM" envDefault:"false"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	DefaultLimits eventmodels.LimitAndPrecision `envPrefix:"DEFAULT_"`

	PostgresURL     string   `env:"POSTGRES_URL"`
	EventStoreDBURL string   `env:"EVENTSTOREDB_URL"`
	QuotesStream    string   `env:"EVENTSTOREDB_QUOTES_STREAM" envDefault:"quotes-submitted"`
	KafkaBrokers    []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic      string   `env:"KAFKA_QUOTES_TOPIC" envDefault:"quotes"`
	QuotesCSVPath   string   `env:"QUOTES_CSV_PATH"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}

	if cfg.DefaultLimits != (eventmodels.LimitAndPrecision{}) {
		if err := cfg.DefaultLimits.Validate(); err != nil {
			return Config{}, fmt.Errorf("config.Load: DEFAULT_TICK_SIZE/DEFAULT_ORDER_SIZE: %w", err)
		}
	}

	for i, b := range cfg.KafkaBrokers {
		cfg.KafkaBrokers[i] = strings.TrimSpace(b)
	}

	return cfg, nil
}

// Defaults returns the fallback precision used when no instrument spec matches, or nil when unset.
func (c Config) Defaults() *eventmodels.LimitAndPrecision {
	if c.DefaultLimits == (eventmodels.LimitAndPrecision{}) {
		return nil
	}

	limits := c.DefaultLimits
	return &limits
}

func (c Config) HasSinks() bool {
	return c.PostgresURL != "" || c.EventStoreDBURL != "" || len(c.KafkaBrokers) > 0 || c.QuotesCSVPath != ""
}

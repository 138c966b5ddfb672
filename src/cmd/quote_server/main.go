package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EventStore/EventStore-Client-Go/v4/esdb"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jiaming2012/quote-builder/src/config"
	"github.com/jiaming2012/quote-builder/src/dbutils"
	"github.com/jiaming2012/quote-builder/src/eventmodels"
	"github.com/jiaming2012/quote-builder/src/eventpubsub"
	"github.com/jiaming2012/quote-builder/src/instrumentspecs"
	"github.com/jiaming2012/quote-builder/src/quoteapi"
	"github.com/jiaming2012/quote-builder/src/quotebuilder"
	"github.com/jiaming2012/quote-builder/src/quotesession"
	"github.com/jiaming2012/quote-builder/src/quotestore"
	"github.com/jiaming2012/quote-builder/src/referencedata"
	"github.com/jiaming2012/quote-builder/src/telemetry"
	"github.com/jiaming2012/quote-builder/src/utils"
)

func setupSinks(cfg config.Config) (quotestore.QuoteSink, func(), error) {
	var sinks []quotestore.QuoteSink
	var closers []func()

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.QuotesCSVPath != "" {
		sink, f, err := quotestore.NewCSVFileSink(cfg.QuotesCSVPath)
		if err != nil {
			return nil, closeAll, err
		}

		sinks = append(sinks, sink)
		closers = append(closers, func() { f.Close() })
		log.Infof("csv sink: %s", cfg.QuotesCSVPath)
	}

	if cfg.PostgresURL != "" {
		db, err := dbutils.InitPostgresWithUrl(cfg.PostgresURL, &quotestore.QuoteRecord{})
		if err != nil {
			return nil, closeAll, fmt.Errorf("failed to init db: %w", err)
		}

		sinks = append(sinks, quotestore.NewPostgresSink(db))
		log.Info("postgres sink enabled")
	}

	if cfg.EventStoreDBURL != "" {
		settings, err := esdb.ParseConnectionString(cfg.EventStoreDBURL)
		if err != nil {
			return nil, closeAll, fmt.Errorf("error parsing connection string: %w", err)
		}

		client, err := esdb.NewClient(settings)
		if err != nil {
			return nil, closeAll, fmt.Errorf("error creating new client: %w", err)
		}

		sinks = append(sinks, quotestore.NewEventStoreSink(client, cfg.QuotesStream))
		closers = append(closers, func() { client.Close() })
		log.Infof("eventstoredb sink: stream %s", cfg.QuotesStream)
	}

	if len(cfg.KafkaBrokers) > 0 {
		sink := quotestore.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)

		sinks = append(sinks, sink)
		closers = append(closers, func() { sink.Close() })
		log.Infof("kafka sink: topic %s on %v", cfg.KafkaTopic, cfg.KafkaBrokers)
	}

	if len(sinks) == 0 {
		return nil, closeAll, nil
	}

	return quotestore.NewMultiSink(sinks...), closeAll, nil
}

func pruneSessions(ctx context.Context, store *quotesession.Store, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			store.PruneStale(ctx)
		}
	}
}

func run() (err error) {
	goEnv := utils.GetEnvOrDefault("GO_ENV", "development")
	if err := utils.InitEnvironmentVariables(utils.GetEnvOrDefault("ENV_DIR", "."), goEnv); err != nil {
		log.Warnf("Main: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.SetOutput(os.Stdout)
	log.Infof("Log level set to %v", log.GetLevel())

	if cfg.TelemetryEnabled {
		telemetry.AddLogHook()

		otelShutdown, err := telemetry.SetupOTelSDK(ctx, cfg.ServiceName)
		if err != nil {
			return fmt.Errorf("failed to setup otel sdk: %w", err)
		}

		defer func() {
			err = errors.Join(err, otelShutdown(context.Background()))
		}()
	}

	eventpubsub.Init()

	refdata, err := referencedata.LoadFile(cfg.ReferenceDataPath)
	if err != nil {
		return err
	}

	if cfg.InstrumentSpecCSV != "" {
		specs, err := instrumentspecs.LoadCSVFile(cfg.InstrumentSpecCSV)
		if err != nil {
			return err
		}

		refdata = refdata.WithSpecs(specs)
	}

	opts := []quotebuilder.Option{quotebuilder.WithQuoteOrigin(cfg.QuoteOrigin)}
	if limits := cfg.Defaults(); limits != nil {
		opts = append(opts, quotebuilder.WithDefaultLimits(*limits))
	}

	if cfg.StrictMinimum {
		opts = append(opts, quotebuilder.WithStrictMinimum())
	}

	builder, err := quotebuilder.NewBuilder(refdata.Specs, opts...)
	if err != nil {
		return err
	}

	if !cfg.HasSinks() {
		log.Warn("no quote sink configured: submissions will be refused")
	}

	sink, closeSinks, err := setupSinks(cfg)
	defer closeSinks()
	if err != nil {
		return err
	}

	store, err := quotesession.NewStore(builder, refdata, cfg.DealerTicker, sink)
	if err != nil {
		return err
	}

	if err := eventpubsub.Subscribe(eventpubsub.QuotesSubmitted, func(ev eventmodels.QuotesSubmittedEvent) {
		log.WithFields(log.Fields{
			"session": ev.SessionID,
			"groups":  len(ev.GroupIDs()),
		}).Info("Main: quotes submitted")
	}); err != nil {
		return err
	}

	go pruneSessions(ctx, store, time.Hour)

	router := mux.NewRouter()
	quoteapi.SetupHandler(router.PathPrefix("/sessions").Subrouter(), "/sessions", store)

	srv := &http.Server{
		Handler: otelhttp.NewHandler(router, "quote-server"),
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		log.Infof("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("failed to start server: %v", err)
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	signal.Notify(stop, syscall.SIGTERM)

	log.Info("Main: init complete")

	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Main: failed to shut down server: %v", err)
	}

	cancel()
	eventpubsub.WaitAsync()

	log.Info("Main: gracefully stopped!")

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("Main: %v", err)
	}
}

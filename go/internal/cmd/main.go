package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goosetap/goosetap/go/internal/gateway"
	"github.com/goosetap/goosetap/go/internal/outbox"
	"github.com/goosetap/goosetap/go/internal/outbox/worker"
	"github.com/goosetap/goosetap/go/internal/reconcile"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}
	setupLogging()

	config, err := loadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	database, dbCfg, err := setupDatabase()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	defer database.Close()

	jsCfg := worker.DefaultJetStreamConfig()
	jsCfg.URL = getEnv("NATS_URL", jsCfg.URL)
	publisher, err := worker.NewJetStreamPublisher(jsCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up JetStream publisher")
	}
	defer publisher.Close()

	reconcileCfg := reconcile.Config{
		Interval: config.ReconcileInterval(),
		Lookback: config.ReconcileLookback(),
	}
	services := setupServices(database, publisher, reconcileCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Outbox listener: LISTEN/NOTIFY with polling fallback
	listenerCfg := outbox.DefaultListenerConfig()
	listenerCfg.DatabaseURL = dbCfg.DSN()
	listener, err := outbox.NewListener(database, outbox.NewJetStreamAdapter(publisher), listenerCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up outbox listener")
	}
	go func() {
		if err := listener.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("outbox listener stopped")
		}
	}()

	// WebSocket fan-out: JetStream consumer feeding per-round connection pools
	connManager := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	go connManager.Start(ctx)

	consumerCfg := gateway.DefaultJetStreamConsumerConfig()
	consumerCfg.URL = jsCfg.URL
	consumer, err := gateway.NewEventConsumer(connManager, consumerCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up event consumer")
	}
	defer consumer.Stop()
	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event consumer stopped")
		}
	}()

	go func() {
		if err := services.Reconciler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("reconciler stopped")
		}
	}()

	server := setupServer(services, config, gateway.NewWebSocketHandler(connManager))
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

func setupLogging() {
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if getEnv("LOG_FORMAT", "json") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

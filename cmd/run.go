package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"casinobot/bot"
	"casinobot/config"
	"casinobot/database"
	"casinobot/events"
	"casinobot/infrastructure"
	"casinobot/infrastructure/observability"
	"casinobot/infrastructure/oracle"
	"casinobot/infrastructure/yoomoney"
	"casinobot/repository"
	"casinobot/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// Load configuration
	cfg := config.Get()
	ConfigureLogging(cfg)

	log.Info("Starting casino bot...")

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize metrics before anything emits
	metrics := observability.NewMetricsProvider(cfg)
	if err := metrics.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	metrics.SubscribeToEvents(eventBus)

	// Initialize NATS event forwarding
	var natsClient *infrastructure.NATSClient
	if cfg.NATSEnabled {
		natsClient, err = startEventForwarding(ctx, cfg, eventBus, metrics)
		if err != nil {
			return err
		}
	}

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	locks := service.NewUserLocks()

	// Initialize infrastructure adapters
	drawOracle := oracle.NewCryptoOracle()
	paymentProvider := yoomoney.NewClient(cfg, nil)
	paymentProvider.SetObserver(metrics.RecordProviderRequest)

	// Initialize services
	log.Info("Initializing services...")
	services := bot.Services{
		Users:       service.NewUserService(uowFactory, locks),
		Settlement:  service.NewSettlementService(uowFactory, drawOracle, locks, cfg),
		Payments:    service.NewPaymentService(uowFactory, paymentProvider, locks, cfg),
		Withdrawals: service.NewWithdrawalService(uowFactory, locks, cfg),
	}

	// Release abandoned reservations and expire stale deposits in the background
	sweeper := service.NewSweeper(services.Settlement, services.Payments, cfg)
	stopSweeper := sweeper.Start(ctx)

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(cfg, services, eventBus)
	if err != nil {
		stopSweeper()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")
	stopSweeper()

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.Errorf("Error closing NATS connection: %v", err)
		}
	}

	if err := metrics.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error shutting down metrics: %v", err)
	}

	log.Info("Shutdown completed")
	return nil
}

// startEventForwarding connects to NATS and mirrors every bus event to JetStream
func startEventForwarding(ctx context.Context, cfg *config.Config, eventBus *events.Bus, metrics *observability.MetricsProvider) (*infrastructure.NATSClient, error) {
	log.Info("Connecting to NATS...")
	client := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	mapper := infrastructure.NewEventSubjectMapper()
	if err := client.EnsureStream(infrastructure.EventStreamName, mapper.GetAllSubjects()); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ensure NATS stream: %w", err)
	}

	bridge := infrastructure.NewNATSEventBridge(client, mapper)
	bridge.OnPublished(metrics.RecordNATSPublished)
	bridge.Attach(eventBus)

	log.WithField("servers", cfg.NATSServers).Info("Event forwarding to NATS enabled")
	return client, nil
}

// ConfigureLogging applies the configured level and switches to JSON output in production
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Invalid log level %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"casinobot/config"
	"casinobot/events"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// MetricsProvider manages OpenTelemetry metrics for the casino
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	// Metric instruments
	betsSettledCounter         metric.Int64Counter
	amountWageredCounter       metric.Int64Counter
	amountPaidOutCounter       metric.Int64Counter
	depositsCreditedCounter    metric.Int64Counter
	depositAmountCounter       metric.Int64Counter
	withdrawalsCounter         metric.Int64Counter
	providerRequestsCounter    metric.Int64Counter
	providerDurationHist       metric.Float64Histogram
	balanceTransactionsCounter metric.Int64Counter
	natsPublishedCounter       metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.markInitialized()
		return nil
	}

	var exporter sdkmetric.Exporter
	var err error
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.markInitialized()
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
	)
	if err := mp.initializeWithReader(reader); err != nil {
		return err
	}

	otel.SetMeterProvider(mp.meterProvider)
	log.Info("Metrics provider initialized successfully")
	return nil
}

// initializeWithReader builds the meter provider around reader and creates the instruments
func (mp *MetricsProvider) initializeWithReader(reader sdkmetric.Reader) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	mp.meter = mp.meterProvider.Meter("casinobot")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	return nil
}

func (mp *MetricsProvider) markInitialized() {
	mp.mu.Lock()
	mp.initialized = true
	mp.mu.Unlock()
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
		unit        string
	}{
		{&mp.betsSettledCounter, BetsSettledTotal, "Total number of settled bets", "1"},
		{&mp.amountWageredCounter, AmountWageredTotal, "Total amount wagered on settled bets", "{currency}"},
		{&mp.amountPaidOutCounter, AmountPaidOutTotal, "Total amount paid out on settled bets", "{currency}"},
		{&mp.depositsCreditedCounter, DepositsCreditedTotal, "Total number of credited deposits", "1"},
		{&mp.depositAmountCounter, DepositAmountTotal, "Total amount credited by deposits", "{currency}"},
		{&mp.withdrawalsCounter, WithdrawalsTotal, "Total number of withdrawal transitions", "1"},
		{&mp.providerRequestsCounter, ProviderRequestsTotal, "Total number of payment provider requests", "1"},
		{&mp.balanceTransactionsCounter, BalanceTransactionsTotal, "Total number of balance transactions", "1"},
		{&mp.natsPublishedCounter, NATSMessagesPublishedTotal, "Total number of NATS messages published", "1"},
	}

	for _, c := range counters {
		counter, err := mp.meter.Int64Counter(c.name, metric.WithDescription(c.description), metric.WithUnit(c.unit))
		if err != nil {
			return fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
		*c.target = counter
	}

	var err error
	mp.providerDurationHist, err = mp.meter.Float64Histogram(
		ProviderRequestDuration,
		metric.WithDescription("Duration of payment provider requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 15.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create provider duration histogram: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.enabled = false
	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// SubscribeToEvents records metrics for committed events on the bus
func (mp *MetricsProvider) SubscribeToEvents(bus *events.Bus) {
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		switch e := event.(type) {
		case events.BetSettledEvent:
			mp.RecordBetSettled(ctx, e)
		case events.DepositCreditedEvent:
			mp.RecordDepositCredited(ctx, e.Amount)
		case events.WithdrawalRequestedEvent:
			mp.RecordWithdrawal(ctx, "requested")
		case events.WithdrawalResolvedEvent:
			mp.RecordWithdrawal(ctx, string(e.Status))
		case events.BalanceChangeEvent:
			mp.RecordBalanceTransaction(ctx, string(e.TransactionType))
		}
	})
}

// RecordBetSettled records one settled bet with its stake and payout
func (mp *MetricsProvider) RecordBetSettled(ctx context.Context, e events.BetSettledEvent) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelGame, string(e.Game)),
		attribute.String(LabelOutcome, string(e.Outcome)),
	)
	mp.betsSettledCounter.Add(ctx, 1, attrs)
	mp.amountWageredCounter.Add(ctx, e.Amount, attrs)
	mp.amountPaidOutCounter.Add(ctx, e.Payout, attrs)
}

// RecordDepositCredited records a credited deposit
func (mp *MetricsProvider) RecordDepositCredited(ctx context.Context, amount int64) {
	if !mp.isEnabled() {
		return
	}

	mp.depositsCreditedCounter.Add(ctx, 1)
	mp.depositAmountCounter.Add(ctx, amount)
}

// RecordWithdrawal records a withdrawal entering the given status
func (mp *MetricsProvider) RecordWithdrawal(ctx context.Context, status string) {
	if !mp.isEnabled() {
		return
	}

	mp.withdrawalsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(LabelStatus, status)))
}

// RecordBalanceTransaction records a balance transaction
func (mp *MetricsProvider) RecordBalanceTransaction(ctx context.Context, transactionType string) {
	if !mp.isEnabled() {
		return
	}

	mp.balanceTransactionsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(LabelType, transactionType)))
}

// RecordProviderRequest records a payment provider round trip
func (mp *MetricsProvider) RecordProviderRequest(ctx context.Context, endpoint string, elapsed time.Duration, err error) {
	if !mp.isEnabled() {
		return
	}

	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	attrs := metric.WithAttributes(
		attribute.String(LabelEndpoint, endpoint),
		attribute.String(LabelResult, result),
	)
	mp.providerRequestsCounter.Add(ctx, 1, attrs)
	mp.providerDurationHist.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordNATSPublished records an event forwarded to NATS
func (mp *MetricsProvider) RecordNATSPublished(eventType events.EventType) {
	if !mp.isEnabled() {
		return
	}

	mp.natsPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, string(eventType))),
	)
}

// isEnabled checks if metrics are enabled and initialized
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}

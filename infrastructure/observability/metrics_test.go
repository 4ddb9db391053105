package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"casinobot/config"
	"casinobot/events"
	"casinobot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestProvider(t *testing.T) (*MetricsProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := NewMetricsProvider(config.NewTestConfig())
	require.NoError(t, mp.initializeWithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := make(map[string]metricdata.Aggregation)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			found[m.Name] = m.Data
		}
	}
	return found
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", data)

	var total int64
	for _, point := range sum.DataPoints {
		total += point.Value
	}
	return total
}

func TestMetricsProvider_RecordBetSettled(t *testing.T) {
	mp, reader := newTestProvider(t)
	ctx := context.Background()

	mp.RecordBetSettled(ctx, events.BetSettledEvent{Game: models.GameDice, Amount: 100, Payout: 300, Outcome: models.OutcomeWin})
	mp.RecordBetSettled(ctx, events.BetSettledEvent{Game: models.GameSlots, Amount: 50, Payout: 0, Outcome: models.OutcomeLoss})

	metrics := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, metrics[BetsSettledTotal]))
	assert.Equal(t, int64(150), sumOf(t, metrics[AmountWageredTotal]))
	assert.Equal(t, int64(300), sumOf(t, metrics[AmountPaidOutTotal]))
}

func TestMetricsProvider_RecordProviderRequest(t *testing.T) {
	mp, reader := newTestProvider(t)
	ctx := context.Background()

	mp.RecordProviderRequest(ctx, "/api/operation-history", 120*time.Millisecond, nil)
	mp.RecordProviderRequest(ctx, "/api/operation-history", 3*time.Second, errors.New("timeout"))

	metrics := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, metrics[ProviderRequestsTotal]))

	hist, ok := metrics[ProviderRequestDuration].(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, point := range hist.DataPoints {
		count += point.Count
	}
	assert.Equal(t, uint64(2), count)
}

func TestMetricsProvider_SubscribeToEvents(t *testing.T) {
	mp, reader := newTestProvider(t)
	bus := events.NewBus()
	mp.SubscribeToEvents(bus)

	ctx := context.Background()
	bus.Emit(ctx, events.DepositCreditedEvent{UserID: 1, Amount: 500})
	bus.Emit(ctx, events.WithdrawalRequestedEvent{UserID: 1, Amount: 700})
	bus.Emit(ctx, events.WithdrawalResolvedEvent{UserID: 1, Amount: 700, Status: models.WithdrawalStatusCompleted})
	bus.Emit(ctx, events.BalanceChangeEvent{UserID: 1, TransactionType: models.TransactionTypeDeposit})

	require.Eventually(t, func() bool {
		var rm metricdata.ResourceMetrics
		if err := reader.Collect(ctx, &rm); err != nil {
			return false
		}
		totals := make(map[string]int64)
		for _, scope := range rm.ScopeMetrics {
			for _, m := range scope.Metrics {
				if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
					for _, point := range sum.DataPoints {
						totals[m.Name] += point.Value
					}
				}
			}
		}
		return totals[WithdrawalsTotal] == 2 &&
			totals[DepositAmountTotal] == 500 &&
			totals[BalanceTransactionsTotal] == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMetricsProvider_DisabledIsNoop(t *testing.T) {
	mp := NewMetricsProvider(config.NewTestConfig())
	require.NoError(t, mp.Initialize(context.Background()))

	assert.NotPanics(t, func() {
		mp.RecordBetSettled(context.Background(), events.BetSettledEvent{Amount: 1})
		mp.RecordDepositCredited(context.Background(), 10)
		mp.RecordNATSPublished(events.EventTypeUserCreated)
		mp.RecordProviderRequest(context.Background(), "/oauth/token", time.Second, nil)
	})
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "carrier-pigeon"

	err := NewMetricsProvider(cfg).Initialize(context.Background())
	assert.ErrorContains(t, err, "unknown exporter type")
}

package observability

// Metric name prefixes
const (
	MetricPrefix = "casinobot"
)

// Metric names
const (
	// Settlement metrics
	BetsSettledTotal   = MetricPrefix + ".bets.settled_total"
	AmountWageredTotal = MetricPrefix + ".bets.wagered_total"
	AmountPaidOutTotal = MetricPrefix + ".bets.paid_out_total"

	// Payment metrics
	DepositsCreditedTotal = MetricPrefix + ".payments.deposits_credited_total"
	DepositAmountTotal    = MetricPrefix + ".payments.deposit_amount_total"
	WithdrawalsTotal      = MetricPrefix + ".payments.withdrawals_total"

	// Provider metrics
	ProviderRequestsTotal   = MetricPrefix + ".provider.requests_total"
	ProviderRequestDuration = MetricPrefix + ".provider.request_duration"

	// Balance metrics
	BalanceTransactionsTotal = MetricPrefix + ".balance.transactions_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelGame      = "game"
	LabelOutcome   = "outcome"
	LabelStatus    = "status"
	LabelEndpoint  = "endpoint"
	LabelResult    = "result"
)

// Provider request results
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"casinobot/config"
	"casinobot/events"
	"casinobot/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// providerSuccessStatus is the operation status the provider reports for settled incoming payments
const providerSuccessStatus = "success"

type paymentService struct {
	uowFactory UnitOfWorkFactory
	provider   PaymentProvider
	locks      *UserLocks
	config     *config.Config
}

// NewPaymentService creates a new payment reconciliation service
func NewPaymentService(uowFactory UnitOfWorkFactory, provider PaymentProvider, locks *UserLocks, cfg *config.Config) PaymentService {
	return &paymentService{
		uowFactory: uowFactory,
		provider:   provider,
		locks:      locks,
		config:     cfg,
	}
}

// newReference builds a label that is unique per request and names its owner
func (s *paymentService) newReference(discordID int64) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s", s.config.PaymentLabelPrefix, discordID, suffix)
}

func (s *paymentService) InitiateDeposit(ctx context.Context, discordID int64, amount int64) (*models.PaymentRequest, error) {
	if amount < s.config.MinDeposit || amount > s.config.MaxDeposit {
		return nil, fmt.Errorf("%w: must be between %d and %d, got %d", models.ErrDepositOutOfRange, s.config.MinDeposit, s.config.MaxDeposit, amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %d", models.ErrUserNotFound, discordID)
	}

	request := &models.PaymentRequest{
		Reference: s.newReference(discordID),
		DiscordID: discordID,
		Amount:    amount,
		Status:    models.PaymentStatusPending,
	}
	if err := uow.PaymentRepository().Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	request.PaymentURL = s.provider.PaymentURL(request.Reference, amount)

	log.WithFields(log.Fields{
		"discordID": discordID,
		"reference": request.Reference,
		"amount":    amount,
	}).Info("Deposit initiated")

	return request, nil
}

func (s *paymentService) ConfirmDeposit(ctx context.Context, discordID int64, reference string) (*models.DepositResult, error) {
	unlock := s.locks.Lock(discordID)
	defer unlock()

	request, err := s.getOwnedRequest(ctx, discordID, reference)
	if err != nil {
		return nil, err
	}
	if request.Status == models.PaymentStatusCredited {
		return nil, fmt.Errorf("%w: %s", models.ErrAlreadyCredited, reference)
	}

	// The provider is queried outside any transaction so a slow wallet API
	// never holds a database connection.
	providerCtx, cancel := context.WithTimeout(ctx, s.config.PaymentTimeout)
	operations, err := s.provider.OperationHistory(providerCtx, reference)
	cancel()
	if err != nil {
		log.WithFields(log.Fields{
			"discordID": discordID,
			"reference": reference,
		}).WithError(err).Warn("Payment provider query failed")
		return nil, fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
	}

	operation := findSuccessfulOperation(operations, reference)
	if operation == nil {
		if request.Status == models.PaymentStatusExpired {
			return nil, fmt.Errorf("%w: %s", models.ErrPaymentExpired, reference)
		}
		return &models.DepositResult{Matched: false, Request: request}, nil
	}

	if s.config.PaymentStrictAmount && !s.amountAccepted(request.Amount, operation.Amount) {
		log.WithFields(log.Fields{
			"reference":      reference,
			"expectedAmount": request.Amount,
			"providerAmount": operation.Amount.String(),
		}).Warn("Provider amount below expected deposit")
		return nil, fmt.Errorf("%w: expected %d, provider reported %s", models.ErrAmountMismatch, request.Amount, operation.Amount.String())
	}

	return s.credit(ctx, request, operation)
}

func (s *paymentService) getOwnedRequest(ctx context.Context, discordID int64, reference string) (*models.PaymentRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	request, err := uow.PaymentRepository().GetByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment request: %w", err)
	}
	if request == nil || request.DiscordID != discordID {
		return nil, fmt.Errorf("%w: %s", models.ErrPaymentNotFound, reference)
	}
	return request, nil
}

// amountAccepted allows the provider amount to fall short of the request
// by the configured fee tolerance percentage.
func (s *paymentService) amountAccepted(expected int64, received decimal.Decimal) bool {
	minimum := decimal.NewFromInt(expected).
		Mul(decimal.NewFromInt(100 - s.config.PaymentFeeTolerance)).
		Div(decimal.NewFromInt(100))
	return received.GreaterThanOrEqual(minimum)
}

func findSuccessfulOperation(operations []models.ProviderOperation, reference string) *models.ProviderOperation {
	for i := range operations {
		if operations[i].Status == providerSuccessStatus && operations[i].Label == reference {
			return &operations[i]
		}
	}
	return nil
}

func (s *paymentService) credit(ctx context.Context, request *models.PaymentRequest, operation *models.ProviderOperation) (*models.DepositResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	providerAmount := operation.Amount.String()
	if err := uow.PaymentRepository().MarkCredited(ctx, request.Reference, operation.OperationID, providerAmount); err != nil {
		if errors.Is(err, models.ErrAlreadyCredited) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to mark payment credited: %w", err)
	}

	newBalance, err := uow.UserRepository().AddBalance(ctx, request.DiscordID, request.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to credit balance: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       request.DiscordID,
		BalanceBefore:   newBalance - request.Amount,
		BalanceAfter:    newBalance,
		ChangeAmount:    request.Amount,
		TransactionType: models.TransactionTypeDeposit,
		TransactionMetadata: map[string]any{
			"reference":             request.Reference,
			"provider_operation_id": operation.OperationID,
			"provider_amount":       providerAmount,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	uow.EventBus().Publish(events.DepositCreditedEvent{
		UserID:              request.DiscordID,
		Reference:           request.Reference,
		Amount:              request.Amount,
		ProviderOperationID: operation.OperationID,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit deposit: %w", err)
	}

	now := time.Now()
	operationID := operation.OperationID
	request.Status = models.PaymentStatusCredited
	request.ProviderOperationID = &operationID
	request.ProviderAmount = &providerAmount
	request.CreditedAt = &now

	log.WithFields(log.Fields{
		"discordID":   request.DiscordID,
		"reference":   request.Reference,
		"amount":      request.Amount,
		"operationID": operationID,
		"newBalance":  newBalance,
	}).Info("Deposit credited")

	return &models.DepositResult{
		Matched:    true,
		Request:    request,
		NewBalance: newBalance,
	}, nil
}

func (s *paymentService) LatestOpenDeposit(ctx context.Context, discordID int64) (*models.PaymentRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	request, err := uow.PaymentRepository().GetLatestOpen(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get open payment request: %w", err)
	}
	if request != nil {
		request.PaymentURL = s.provider.PaymentURL(request.Reference, request.Amount)
	}
	return request, nil
}

func (s *paymentService) ExpireStaleDeposits(ctx context.Context, olderThan time.Duration) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	expired, err := uow.PaymentRepository().ExpireBefore(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to expire payment requests: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return expired, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"casinobot/database"
	"casinobot/models"

	"github.com/jackc/pgx/v5"
)

const paymentColumns = `reference, discord_id, amount, status, provider_operation_id, provider_amount, created_at, credited_at`

// PaymentRepository implements the PaymentRepository interface
type PaymentRepository struct {
	q queryable
}

// NewPaymentRepository creates a new payment request repository
func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{q: db.Pool}
}

// newPaymentRepositoryWithTx creates a new payment request repository with a transaction
func newPaymentRepositoryWithTx(tx queryable) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

func scanPayment(row pgx.Row) (*models.PaymentRequest, error) {
	var request models.PaymentRequest
	err := row.Scan(
		&request.Reference,
		&request.DiscordID,
		&request.Amount,
		&request.Status,
		&request.ProviderOperationID,
		&request.ProviderAmount,
		&request.CreatedAt,
		&request.CreditedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Create persists a new pending request
func (r *PaymentRepository) Create(ctx context.Context, request *models.PaymentRequest) error {
	if request.Status == "" {
		request.Status = models.PaymentStatusPending
	}

	query := `
		INSERT INTO payment_requests (reference, discord_id, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query, request.Reference, request.DiscordID, request.Amount, request.Status).Scan(&request.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment request %s: %w", request.Reference, err)
	}
	return nil
}

// GetByReference retrieves a request by its reference
func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) (*models.PaymentRequest, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_requests WHERE reference = $1`

	request, err := scanPayment(r.q.QueryRow(ctx, query, reference))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment request %s: %w", reference, err)
	}
	return request, nil
}

// GetLatestOpen returns the newest pending request of a user
func (r *PaymentRepository) GetLatestOpen(ctx context.Context, discordID int64) (*models.PaymentRequest, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payment_requests
		WHERE discord_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
		LIMIT 1
	`

	request, err := scanPayment(r.q.QueryRow(ctx, query, discordID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open payment request for user %d: %w", discordID, err)
	}
	return request, nil
}

// MarkCredited consumes the request. The status guard makes the transition
// happen at most once, so a second confirmation finds no row to update.
func (r *PaymentRepository) MarkCredited(ctx context.Context, reference string, operationID string, providerAmount string) error {
	query := `
		UPDATE payment_requests
		SET status = 'credited',
		    provider_operation_id = $1,
		    provider_amount = $2,
		    credited_at = NOW()
		WHERE reference = $3 AND status IN ('pending', 'expired')
	`

	result, err := r.q.Exec(ctx, query, operationID, providerAmount, reference)
	if err != nil {
		return fmt.Errorf("failed to mark payment request %s credited: %w", reference, err)
	}
	if result.RowsAffected() == 0 {
		existing, err := r.GetByReference(ctx, reference)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("%w: %s", models.ErrPaymentNotFound, reference)
		}
		return fmt.Errorf("%w: %s", models.ErrAlreadyCredited, reference)
	}
	return nil
}

// ExpireBefore marks pending requests created before the cutoff as expired
func (r *PaymentRepository) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE payment_requests
		SET status = 'expired'
		WHERE status = 'pending' AND created_at < $1
	`

	result, err := r.q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire payment requests: %w", err)
	}
	return result.RowsAffected(), nil
}

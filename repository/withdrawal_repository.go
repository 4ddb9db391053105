package repository

import (
	"context"
	"errors"
	"fmt"

	"casinobot/database"
	"casinobot/models"

	"github.com/jackc/pgx/v5"
)

const withdrawalColumns = `id, discord_id, amount, status, created_at, resolved_at, resolved_by`

// WithdrawalRepository implements the WithdrawalRepository interface
type WithdrawalRepository struct {
	q queryable
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *database.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db.Pool}
}

// newWithdrawalRepositoryWithTx creates a new withdrawal repository with a transaction
func newWithdrawalRepositoryWithTx(tx queryable) *WithdrawalRepository {
	return &WithdrawalRepository{q: tx}
}

func scanWithdrawal(row pgx.Row) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	err := row.Scan(
		&request.ID,
		&request.DiscordID,
		&request.Amount,
		&request.Status,
		&request.CreatedAt,
		&request.ResolvedAt,
		&request.ResolvedBy,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Create persists a new pending withdrawal
func (r *WithdrawalRepository) Create(ctx context.Context, request *models.WithdrawalRequest) error {
	if request.Status == "" {
		request.Status = models.WithdrawalStatusPending
	}

	query := `
		INSERT INTO withdrawal_requests (discord_id, amount, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, request.DiscordID, request.Amount, request.Status).Scan(&request.ID, &request.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal for user %d: %w", request.DiscordID, err)
	}
	return nil
}

// GetByID retrieves a withdrawal by its ID
func (r *WithdrawalRepository) GetByID(ctx context.Context, id int64) (*models.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1`

	request, err := scanWithdrawal(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal %d: %w", id, err)
	}
	return request, nil
}

// Resolve moves a pending withdrawal to its final status
func (r *WithdrawalRepository) Resolve(ctx context.Context, id int64, status models.WithdrawalStatus, resolvedBy int64) error {
	query := `
		UPDATE withdrawal_requests
		SET status = $1, resolved_at = NOW(), resolved_by = $2
		WHERE id = $3 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, status, resolvedBy, id)
	if err != nil {
		return fmt.Errorf("failed to resolve withdrawal %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("%w: %d", models.ErrWithdrawalNotFound, id)
		}
		return fmt.Errorf("%w: %d is %s", models.ErrWithdrawalResolved, id, existing.Status)
	}
	return nil
}

// GetPending lists pending withdrawals, oldest first
func (r *WithdrawalRepository) GetPending(ctx context.Context) ([]*models.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + `
		FROM withdrawal_requests
		WHERE status = 'pending'
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending withdrawals: %w", err)
	}
	defer rows.Close()

	var requests []*models.WithdrawalRequest
	for rows.Next() {
		request, err := scanWithdrawal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating withdrawals: %w", err)
	}
	return requests, nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

type BalanceRepository struct {
	pool *pgxpool.Pool
}

func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

func (r *BalanceRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// LockProducer takes a transaction-scoped advisory lock keyed on the
// producer id, serializing the check-then-insert of withdrawal requests so
// two concurrent requests cannot both pass the balance check.
func (r *BalanceRepository) LockProducer(ctx context.Context, producerID string) error {
	if _, err := exec(ctx, r.pool, `SELECT pg_advisory_xact_lock(hashtext($1))`, producerID); err != nil {
		return fmt.Errorf("lock producer: %w", err)
	}
	return nil
}

func (r *BalanceRepository) GetProducer(ctx context.Context, producerID string) (domain.Producer, error) {
	const q = `SELECT id, name, document, created_at FROM producers WHERE id = $1`

	var p domain.Producer
	err := queryRow(ctx, r.pool, q, producerID).Scan(&p.ID, &p.Name, &p.Document, &p.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Producer{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Producer{}, domain.ErrProducerNotFound
		}
		return domain.Producer{}, fmt.Errorf("get producer: %w", err)
	}
	return p, nil
}

func (r *BalanceRepository) SumPaidProducerAmount(ctx context.Context, producerID string) (domain.Money, error) {
	const q = `
SELECT COALESCE(SUM(s.producer_amount_cents), 0)
FROM sales s
JOIN events e ON e.id = s.event_id
WHERE e.producer_id = $1 AND s.payment_status = 'paid'`

	var total int64
	if err := queryRow(ctx, r.pool, q, producerID).Scan(&total); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("sum paid producer amount: %w", err)
	}
	return domain.Money(total), nil
}

func (r *BalanceRepository) SumReservedWithdrawals(ctx context.Context, producerID string) (domain.Money, error) {
	const q = `
SELECT COALESCE(SUM(amount_cents), 0)
FROM withdrawal_requests
WHERE producer_id = $1 AND status IN ('pending', 'approved', 'processing', 'completed')`

	var total int64
	if err := queryRow(ctx, r.pool, q, producerID).Scan(&total); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("sum reserved withdrawals: %w", err)
	}
	return domain.Money(total), nil
}

func (r *BalanceRepository) ActiveFeeConfig(ctx context.Context) (domain.FeeConfig, error) {
	return activeFeeConfig(ctx, r.pool)
}

func (r *BalanceRepository) CreateWithdrawal(ctx context.Context, req domain.WithdrawalRequest) error {
	const stmt = `
INSERT INTO withdrawal_requests (id, producer_id, amount_cents, status, producer_document, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := exec(ctx, r.pool, stmt,
		req.ID,
		req.ProducerID,
		int64(req.Amount),
		string(req.Status),
		req.ProducerDocument,
		req.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create withdrawal: %w", err)
	}
	return nil
}

func (r *BalanceRepository) GetWithdrawal(ctx context.Context, id string) (domain.WithdrawalRequest, error) {
	const q = `
SELECT id, producer_id, amount_cents, status, producer_document, created_at, approved_at
FROM withdrawal_requests
WHERE id = $1`

	var req domain.WithdrawalRequest
	var amount int64
	var status string
	err := queryRow(ctx, r.pool, q, id).Scan(
		&req.ID,
		&req.ProducerID,
		&amount,
		&status,
		&req.ProducerDocument,
		&req.CreatedAt,
		&req.ApprovedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.WithdrawalRequest{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.WithdrawalRequest{}, domain.ErrWithdrawalNotFound
		}
		return domain.WithdrawalRequest{}, fmt.Errorf("get withdrawal: %w", err)
	}
	req.Amount = domain.Money(amount)
	req.Status = domain.WithdrawalStatus(status)
	return req, nil
}

func (r *BalanceRepository) UpdateWithdrawalStatus(ctx context.Context, id string, from, to domain.WithdrawalStatus, approvedAt *time.Time) error {
	const stmt = `
UPDATE withdrawal_requests
SET status = $3, approved_at = COALESCE($4, approved_at)
WHERE id = $1 AND status = $2`

	tag, err := exec(ctx, r.pool, stmt, id, string(from), string(to), approvedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update withdrawal status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidStatusTransition
	}
	return nil
}

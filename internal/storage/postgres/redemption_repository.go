package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

type RedemptionRepository struct {
	pool *pgxpool.Pool
}

func NewRedemptionRepository(pool *pgxpool.Pool) *RedemptionRepository {
	return &RedemptionRepository{pool: pool}
}

func (r *RedemptionRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// FindSaleByToken looks the sale up by its opaque token. Primary-key lookup
// is deliberately absent from this repository to rule out enumeration.
func (r *RedemptionRepository) FindSaleByToken(ctx context.Context, token string) (*domain.Sale, error) {
	q := fmt.Sprintf(`SELECT %s FROM sales WHERE qr_token = $1`, saleColumns)
	s, err := scanSale(queryRow(ctx, r.pool, q, token))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find sale by token: %w", err)
	}
	return &s, nil
}

func (r *RedemptionRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	return getEvent(ctx, r.pool, eventID)
}

func (r *RedemptionRepository) GetBatch(ctx context.Context, batchID string) (domain.TicketBatch, error) {
	q := fmt.Sprintf(`SELECT %s FROM ticket_batches WHERE id = $1`, batchColumns)
	b, err := scanBatch(queryRow(ctx, r.pool, q, batchID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.TicketBatch{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.TicketBatch{}, domain.ErrBatchNotFound
		}
		return domain.TicketBatch{}, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// MarkValidated is the double-admission enforcement point: the write is
// conditioned on validated_at still being NULL, so of two simultaneous scans
// exactly one sees a row affected.
func (r *RedemptionRepository) MarkValidated(ctx context.Context, saleID string, at time.Time, by string) (bool, error) {
	const stmt = `
UPDATE sales
SET validated_at = $2, validated_by = $3
WHERE id = $1 AND validated_at IS NULL`

	tag, err := exec(ctx, r.pool, stmt, saleID, at, by)
	if err != nil {
		return false, fmt.Errorf("mark validated: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

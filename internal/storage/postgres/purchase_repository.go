package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

type PurchaseRepository struct {
	pool *pgxpool.Pool
}

func NewPurchaseRepository(pool *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{pool: pool}
}

func (r *PurchaseRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *PurchaseRepository) GetBatch(ctx context.Context, batchID string) (domain.TicketBatch, error) {
	query := fmt.Sprintf(`SELECT %s FROM ticket_batches WHERE id = $1`, batchColumns)
	b, err := scanBatch(queryRow(ctx, r.pool, query, batchID))
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

func (r *PurchaseRepository) ListBatchesByEvent(ctx context.Context, eventID string) ([]domain.TicketBatch, error) {
	q := fmt.Sprintf(`SELECT %s FROM ticket_batches WHERE event_id = $1 ORDER BY position, created_at, id`, batchColumns)
	rows, err := query(ctx, r.pool, q, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var batches []domain.TicketBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

// ReserveUnits is the oversell enforcement point: a single conditional
// UPDATE evaluated against the stored row, never a read-then-write from
// application memory.
func (r *PurchaseRepository) ReserveUnits(ctx context.Context, batchID string, qty int) (domain.Money, error) {
	const stmt = `
UPDATE ticket_batches
SET quantity_sold = quantity_sold + $2
WHERE id = $1 AND quantity_sold + $2 <= quantity_total
RETURNING price_cents`

	var price int64
	err := queryRow(ctx, r.pool, stmt, batchID, qty).Scan(&price)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			// Either the batch does not exist or the increment would exceed
			// capacity; a re-read tells them apart.
			if _, getErr := r.GetBatch(ctx, batchID); getErr != nil {
				return 0, getErr
			}
			return 0, domain.ErrSoldOut
		}
		return 0, fmt.Errorf("reserve units: %w", err)
	}
	return domain.Money(price), nil
}

// ReleaseUnits returns units to the batch after a failed or refunded
// payment, floored at zero sold.
func (r *PurchaseRepository) ReleaseUnits(ctx context.Context, batchID string, qty int) error {
	const stmt = `
UPDATE ticket_batches
SET quantity_sold = quantity_sold - $2
WHERE id = $1 AND quantity_sold - $2 >= 0`

	tag, err := exec(ctx, r.pool, stmt, batchID, qty)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("release units: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}

func (r *PurchaseRepository) ActiveFeeConfig(ctx context.Context) (domain.FeeConfig, error) {
	return activeFeeConfig(ctx, r.pool)
}

func (r *PurchaseRepository) FindUtmLinkByCode(ctx context.Context, code string) (*domain.UtmLink, error) {
	return findUtmLinkByCode(ctx, r.pool, code)
}

func (r *PurchaseRepository) CreateSale(ctx context.Context, sale domain.Sale) error {
	const stmt = `
INSERT INTO sales (id, event_id, ticket_batch_id, buyer_id, quantity, unit_price_cents, total_price_cents, platform_fee_cents, gateway_fee_cents, producer_amount_cents, payment_status, qr_token, utm_link_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := exec(ctx, r.pool, stmt,
		sale.ID,
		sale.EventID,
		sale.TicketBatchID,
		sale.BuyerID,
		sale.Quantity,
		int64(sale.UnitPrice),
		int64(sale.TotalPrice),
		int64(sale.PlatformFee),
		int64(sale.GatewayFee),
		int64(sale.ProducerAmount),
		string(sale.PaymentStatus),
		sale.QRToken,
		sale.UtmLinkID,
		sale.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

func (r *PurchaseRepository) GetSale(ctx context.Context, saleID string) (domain.Sale, error) {
	q := fmt.Sprintf(`SELECT %s FROM sales WHERE id = $1`, saleColumns)
	s, err := scanSale(queryRow(ctx, r.pool, q, saleID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Sale{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Sale{}, domain.ErrSaleNotFound
		}
		return domain.Sale{}, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

func (r *PurchaseRepository) UpdatePaymentStatus(ctx context.Context, saleID string, from, to domain.PaymentStatus) error {
	const stmt = `UPDATE sales SET payment_status = $3 WHERE id = $1 AND payment_status = $2`

	tag, err := exec(ctx, r.pool, stmt, saleID, string(from), string(to))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidStatusTransition
	}
	return nil
}

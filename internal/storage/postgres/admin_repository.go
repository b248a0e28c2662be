package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *AdminRepository) CreateProducer(ctx context.Context, p domain.Producer) error {
	const stmt = `INSERT INTO producers (id, name, document, created_at) VALUES ($1, $2, $3, $4)`

	if _, err := exec(ctx, r.pool, stmt, p.ID, p.Name, p.Document, p.CreatedAt); err != nil {
		return fmt.Errorf("create producer: %w", err)
	}
	return nil
}

func (r *AdminRepository) CreateEvent(ctx context.Context, e domain.Event) error {
	const stmt = `INSERT INTO events (id, producer_id, name, starts_at, created_at) VALUES ($1, $2, $3, $4, $5)`

	if _, err := exec(ctx, r.pool, stmt, e.ID, e.ProducerID, e.Name, e.StartsAt, e.CreatedAt); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *AdminRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	return getEvent(ctx, r.pool, eventID)
}

func (r *AdminRepository) CreateBatch(ctx context.Context, b domain.TicketBatch) error {
	const stmt = `
INSERT INTO ticket_batches (id, event_id, sector, name, price_cents, quantity_total, quantity_sold, sale_start, sale_end, position, created_at)
VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9, $10)`

	_, err := exec(ctx, r.pool, stmt,
		b.ID,
		b.EventID,
		b.Sector,
		b.Name,
		int64(b.Price),
		b.QuantityTotal,
		b.SaleStart,
		b.SaleEnd,
		b.Position,
		b.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

func (r *AdminRepository) ListBatchesByEvent(ctx context.Context, eventID string) ([]domain.TicketBatch, error) {
	return NewPurchaseRepository(r.pool).ListBatchesByEvent(ctx, eventID)
}

func (r *AdminRepository) UpdateBatchDetails(ctx context.Context, batchID, name string, saleStart, saleEnd *time.Time) error {
	const stmt = `UPDATE ticket_batches SET name = $2, sale_start = $3, sale_end = $4 WHERE id = $1`

	tag, err := exec(ctx, r.pool, stmt, batchID, name, saleStart, saleEnd)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update batch details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}

func (r *AdminRepository) CreateUtmLink(ctx context.Context, link domain.UtmLink) error {
	const stmt = `
INSERT INTO utm_links (id, producer_id, utm_code, applies_to_all_events, commission_type, commission_value, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	return withTx(ctx, r.pool, func(txCtx context.Context) error {
		_, err := exec(txCtx, r.pool, stmt,
			link.ID,
			link.ProducerID,
			link.UtmCode,
			link.AppliesToAllEvent,
			string(link.CommissionType),
			link.CommissionValue,
			link.IsActive,
			link.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateUtmCode
			}
			if isInvalidUUID(err) {
				return domain.ErrInvalidID
			}
			return fmt.Errorf("create utm link: %w", err)
		}
		for _, eventID := range link.EventIDs {
			_, err := exec(txCtx, r.pool, `INSERT INTO utm_link_events (utm_link_id, event_id) VALUES ($1, $2)`, link.ID, eventID)
			if err != nil {
				if isInvalidUUID(err) {
					return domain.ErrInvalidID
				}
				return fmt.Errorf("create utm link event: %w", err)
			}
		}
		return nil
	})
}

func (r *AdminRepository) DeactivateFeeConfigs(ctx context.Context) error {
	if _, err := exec(ctx, r.pool, `UPDATE fee_config SET is_active = FALSE WHERE is_active`); err != nil {
		return fmt.Errorf("deactivate fee configs: %w", err)
	}
	return nil
}

func (r *AdminRepository) InsertFeeConfig(ctx context.Context, cfg domain.FeeConfig) error {
	const stmt = `
INSERT INTO fee_config (id, platform_fee_percentage, gateway_fee_percentage, min_withdrawal_cents, is_active)
VALUES ($1, $2, $3, $4, $5)`

	_, err := exec(ctx, r.pool, stmt,
		cfg.ID,
		cfg.PlatformFeePercent,
		cfg.GatewayFeePercent,
		int64(cfg.MinWithdrawalAmount),
		cfg.IsActive,
	)
	if err != nil {
		return fmt.Errorf("insert fee config: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

type AttributionRepository struct {
	pool *pgxpool.Pool
}

func NewAttributionRepository(pool *pgxpool.Pool) *AttributionRepository {
	return &AttributionRepository{pool: pool}
}

// AppendAnalyticsEvent inserts one fact row. There is no update or delete
// path for analytics_events anywhere in this package.
func (r *AttributionRepository) AppendAnalyticsEvent(ctx context.Context, ev domain.AnalyticsEvent) error {
	const stmt = `
INSERT INTO analytics_events (id, event_id, event_type, ticket_batch_id, utm_link_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := exec(ctx, r.pool, stmt,
		ev.ID,
		ev.EventID,
		string(ev.EventType),
		ev.TicketBatchID,
		ev.UtmLinkID,
		ev.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("append analytics event: %w", err)
	}
	return nil
}

func (r *AttributionRepository) FindUtmLinkByCode(ctx context.Context, code string) (*domain.UtmLink, error) {
	return findUtmLinkByCode(ctx, r.pool, code)
}

func (r *AttributionRepository) GetUtmLink(ctx context.Context, id string) (domain.UtmLink, error) {
	return getUtmLink(ctx, r.pool, id)
}

func (r *AttributionRepository) ListAttributedSales(ctx context.Context, utmLinkID string) ([]domain.Sale, error) {
	q := fmt.Sprintf(`SELECT %s FROM sales WHERE utm_link_id = $1 AND payment_status = 'paid' ORDER BY created_at`, saleColumns)
	rows, err := query(ctx, r.pool, q, utmLinkID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list attributed sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list attributed sales: %w", err)
	}
	return sales, nil
}

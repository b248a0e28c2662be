package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

// activeFeeConfig loads the single active fee configuration. No active row
// is a hard configuration error: settlement must never default fees to zero.
func activeFeeConfig(ctx context.Context, pool *pgxpool.Pool) (domain.FeeConfig, error) {
	const q = `
SELECT id, platform_fee_percentage, gateway_fee_percentage, min_withdrawal_cents, is_active
FROM fee_config
WHERE is_active`

	var cfg domain.FeeConfig
	var minWithdrawal int64
	err := queryRow(ctx, pool, q).Scan(
		&cfg.ID,
		&cfg.PlatformFeePercent,
		&cfg.GatewayFeePercent,
		&minWithdrawal,
		&cfg.IsActive,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.FeeConfig{}, domain.ErrInvalidFeeConfig
		}
		return domain.FeeConfig{}, fmt.Errorf("active fee config: %w", err)
	}
	cfg.MinWithdrawalAmount = domain.Money(minWithdrawal)
	return cfg, nil
}

func findUtmLinkByCode(ctx context.Context, pool *pgxpool.Pool, code string) (*domain.UtmLink, error) {
	q := fmt.Sprintf(`SELECT %s FROM utm_links WHERE utm_code = $1`, utmLinkColumns)
	link, err := scanUtmLink(queryRow(ctx, pool, q, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find utm link: %w", err)
	}
	if err := loadUtmLinkEvents(ctx, pool, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func getUtmLink(ctx context.Context, pool *pgxpool.Pool, id string) (domain.UtmLink, error) {
	q := fmt.Sprintf(`SELECT %s FROM utm_links WHERE id = $1`, utmLinkColumns)
	link, err := scanUtmLink(queryRow(ctx, pool, q, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.UtmLink{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.UtmLink{}, domain.ErrUtmLinkNotFound
		}
		return domain.UtmLink{}, fmt.Errorf("get utm link: %w", err)
	}
	if err := loadUtmLinkEvents(ctx, pool, &link); err != nil {
		return domain.UtmLink{}, err
	}
	return link, nil
}

func loadUtmLinkEvents(ctx context.Context, pool *pgxpool.Pool, link *domain.UtmLink) error {
	if link.AppliesToAllEvent {
		return nil
	}
	rows, err := query(ctx, pool, `SELECT event_id FROM utm_link_events WHERE utm_link_id = $1`, link.ID)
	if err != nil {
		return fmt.Errorf("load utm link events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan utm link event: %w", err)
		}
		link.EventIDs = append(link.EventIDs, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load utm link events: %w", err)
	}
	return nil
}

func getEvent(ctx context.Context, pool *pgxpool.Pool, eventID string) (domain.Event, error) {
	const q = `SELECT id, producer_id, name, starts_at, created_at FROM events WHERE id = $1`

	var e domain.Event
	err := queryRow(ctx, pool, q, eventID).Scan(&e.ID, &e.ProducerID, &e.Name, &e.StartsAt, &e.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

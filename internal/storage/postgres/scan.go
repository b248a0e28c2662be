package postgres

import (
	"github.com/jackc/pgx/v5"

	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

const batchColumns = `id, event_id, sector, name, price_cents, quantity_total, quantity_sold, sale_start, sale_end, position, created_at`

func scanBatch(row pgx.Row) (domain.TicketBatch, error) {
	var b domain.TicketBatch
	var price int64
	err := row.Scan(
		&b.ID,
		&b.EventID,
		&b.Sector,
		&b.Name,
		&price,
		&b.QuantityTotal,
		&b.QuantitySold,
		&b.SaleStart,
		&b.SaleEnd,
		&b.Position,
		&b.CreatedAt,
	)
	if err != nil {
		return domain.TicketBatch{}, err
	}
	b.Price = domain.Money(price)
	return b, nil
}

const saleColumns = `id, event_id, ticket_batch_id, buyer_id, quantity, unit_price_cents, total_price_cents, platform_fee_cents, gateway_fee_cents, producer_amount_cents, payment_status, qr_token, validated_at, validated_by, utm_link_id, created_at`

func scanSale(row pgx.Row) (domain.Sale, error) {
	var s domain.Sale
	var unit, total, platform, gateway, producer int64
	var status string
	err := row.Scan(
		&s.ID,
		&s.EventID,
		&s.TicketBatchID,
		&s.BuyerID,
		&s.Quantity,
		&unit,
		&total,
		&platform,
		&gateway,
		&producer,
		&status,
		&s.QRToken,
		&s.ValidatedAt,
		&s.ValidatedBy,
		&s.UtmLinkID,
		&s.CreatedAt,
	)
	if err != nil {
		return domain.Sale{}, err
	}
	s.UnitPrice = domain.Money(unit)
	s.TotalPrice = domain.Money(total)
	s.PlatformFee = domain.Money(platform)
	s.GatewayFee = domain.Money(gateway)
	s.ProducerAmount = domain.Money(producer)
	s.PaymentStatus = domain.PaymentStatus(status)
	return s, nil
}

const utmLinkColumns = `id, producer_id, utm_code, applies_to_all_events, commission_type, commission_value, is_active, created_at`

func scanUtmLink(row pgx.Row) (domain.UtmLink, error) {
	var l domain.UtmLink
	var commissionType string
	err := row.Scan(
		&l.ID,
		&l.ProducerID,
		&l.UtmCode,
		&l.AppliesToAllEvent,
		&commissionType,
		&l.CommissionValue,
		&l.IsActive,
		&l.CreatedAt,
	)
	if err != nil {
		return domain.UtmLink{}, err
	}
	l.CommissionType = domain.CommissionType(commissionType)
	return l, nil
}

package app

import (
	"github.com/shopspring/decimal"

	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Settle splits a sale's gross price into platform fee, gateway fee and
// producer net using the given fee config snapshot. Each fee is rounded
// half-up to the cent; the producer amount is derived by subtraction so the
// three parts always sum to the gross exactly.
func Settle(unitPrice domain.Money, quantity int, cfg domain.FeeConfig) (domain.FeeBreakdown, error) {
	if quantity <= 0 {
		return domain.FeeBreakdown{}, domain.ErrInvalidQuantity
	}
	if !cfg.IsActive {
		return domain.FeeBreakdown{}, domain.ErrInvalidFeeConfig
	}

	gross := decimal.NewFromInt(int64(unitPrice) * int64(quantity))

	platform := gross.Mul(cfg.PlatformFeePercent).Div(hundred).Round(0)
	gateway := gross.Mul(cfg.GatewayFeePercent).Div(hundred).Round(0)

	platformFee := domain.Money(platform.IntPart())
	gatewayFee := domain.Money(gateway.IntPart())
	grossMoney := unitPrice * domain.Money(quantity)

	return domain.FeeBreakdown{
		PlatformFee:    platformFee,
		GatewayFee:     gatewayFee,
		ProducerAmount: grossMoney - platformFee - gatewayFee,
	}, nil
}

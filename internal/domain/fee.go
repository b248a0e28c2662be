package domain

import "github.com/shopspring/decimal"

// FeeConfig is the fee split configuration. Exactly one row is active at any
// moment; a sale settles against the snapshot active at sale time.
type FeeConfig struct {
	ID                  string
	PlatformFeePercent  decimal.Decimal
	GatewayFeePercent   decimal.Decimal
	MinWithdrawalAmount Money
	IsActive            bool
}

// FeeBreakdown is the three-way split of a sale's gross price. The invariant
// PlatformFee + GatewayFee + ProducerAmount == gross holds exactly.
type FeeBreakdown struct {
	PlatformFee    Money
	GatewayFee     Money
	ProducerAmount Money
}

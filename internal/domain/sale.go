package domain

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Sale is an issued ticket purchase. Fee fields are latched from the fee
// config active at settlement time and never recomputed. ValidatedAt is set
// at most once, by the redemption gate.
type Sale struct {
	ID             string
	EventID        string
	TicketBatchID  string
	BuyerID        string
	Quantity       int
	UnitPrice      Money
	TotalPrice     Money
	PlatformFee    Money
	GatewayFee     Money
	ProducerAmount Money
	PaymentStatus  PaymentStatus
	QRToken        string
	ValidatedAt    *time.Time
	ValidatedBy    *string
	UtmLinkID      *string
	CreatedAt      time.Time
}

// Validated reports whether the sale's ticket has already been admitted.
func (s Sale) Validated() bool {
	return s.ValidatedAt != nil
}

// CanTransitionTo restricts payment status changes to the transitions the
// external gateway seam is allowed to make.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentPending:
		return next == PaymentPaid || next == PaymentFailed
	case PaymentPaid:
		return next == PaymentRefunded
	default:
		return false
	}
}

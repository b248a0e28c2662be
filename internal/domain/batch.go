package domain

import "time"

// TicketBatch is a priced block of tickets with its own capacity and sale
// window. quantity_sold is mutated only through the conditional reserve
// statement in storage; everything else treats it as read-only.
type TicketBatch struct {
	ID            string
	EventID       string
	Sector        *string
	Name          string
	Price         Money
	QuantityTotal int
	QuantitySold  int
	SaleStart     *time.Time
	SaleEnd       *time.Time
	Position      int
	CreatedAt     time.Time
}

// SoldOut reports whether every unit of the batch has been sold.
func (b TicketBatch) SoldOut() bool {
	return b.QuantitySold >= b.QuantityTotal
}

// Expired reports whether the batch's sale window has closed. Batches
// without an end date never expire by time.
func (b TicketBatch) Expired(now time.Time) bool {
	return b.SaleEnd != nil && now.After(*b.SaleEnd)
}

// WindowOpen reports whether now falls inside [SaleStart, SaleEnd]. Missing
// bounds are open-ended on that side.
func (b TicketBatch) WindowOpen(now time.Time) bool {
	if b.SaleStart != nil && now.Before(*b.SaleStart) {
		return false
	}
	if b.SaleEnd != nil && now.After(*b.SaleEnd) {
		return false
	}
	return true
}

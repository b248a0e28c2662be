package domain

import "time"

// Producer owns events and withdraws accumulated net revenue. Document is
// the payout document required before any withdrawal request.
type Producer struct {
	ID        string
	Name      string
	Document  *string
	CreatedAt time.Time
}

// Event is a ticketed event; batches hang off it.
type Event struct {
	ID         string
	ProducerID string
	Name       string
	StartsAt   time.Time
	CreatedAt  time.Time
}

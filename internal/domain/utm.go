package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommissionType string

const (
	CommissionPercentage CommissionType = "percentage"
	CommissionFixed      CommissionType = "fixed"
)

// UtmLink is a referral link owned by a producer. A sale is attributed to at
// most one link, bound at sale creation.
type UtmLink struct {
	ID                string
	ProducerID        string
	UtmCode           string
	AppliesToAllEvent bool
	CommissionType    CommissionType
	// CommissionValue is a percent of the sale total for percentage links
	// and cents per ticket for fixed links.
	CommissionValue decimal.Decimal
	IsActive        bool
	EventIDs        []string
	CreatedAt       time.Time
}

// CoversEvent reports whether the link can attribute sales for the event.
func (l UtmLink) CoversEvent(eventID string) bool {
	if l.AppliesToAllEvent {
		return true
	}
	for _, id := range l.EventIDs {
		if id == eventID {
			return true
		}
	}
	return false
}

package domain

import "time"

type AnalyticsEventType string

const (
	AnalyticsPageView      AnalyticsEventType = "page_view"
	AnalyticsTicketClick   AnalyticsEventType = "ticket_click"
	AnalyticsCheckoutClick AnalyticsEventType = "checkout_click"
)

func (t AnalyticsEventType) Valid() bool {
	switch t {
	case AnalyticsPageView, AnalyticsTicketClick, AnalyticsCheckoutClick:
		return true
	}
	return false
}

// AnalyticsEvent is an append-only fact row. Rows are never mutated or
// deduplicated; commission is computed from sales, never from these.
type AnalyticsEvent struct {
	ID            string
	EventID       string
	EventType     AnalyticsEventType
	TicketBatchID *string
	UtmLinkID     *string
	CreatedAt     time.Time
}

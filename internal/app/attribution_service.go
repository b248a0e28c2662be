package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nodebridgetech/misterticket-sub000/internal/clock"
	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

type AttributionRepository interface {
	AppendAnalyticsEvent(ctx context.Context, ev domain.AnalyticsEvent) error
	FindUtmLinkByCode(ctx context.Context, code string) (*domain.UtmLink, error)
	GetUtmLink(ctx context.Context, id string) (domain.UtmLink, error)
	// ListAttributedSales returns paid sales bound to the link.
	ListAttributedSales(ctx context.Context, utmLinkID string) ([]domain.Sale, error)
}

type AttributionService struct {
	repo  AttributionRepository
	clock clock.Clock
}

func NewAttributionService(repo AttributionRepository, clk clock.Clock) *AttributionService {
	return &AttributionService{repo: repo, clock: clk}
}

type RecordEventInput struct {
	EventID       string
	EventType     domain.AnalyticsEventType
	TicketBatchID *string
	UtmLinkID     *string
}

// RecordEvent appends one analytics row. Duplicates are intentional: the
// table is an append-only fact log and commission never reads it.
func (s *AttributionService) RecordEvent(ctx context.Context, in RecordEventInput) (domain.AnalyticsEvent, error) {
	if in.EventID == "" {
		return domain.AnalyticsEvent{}, domain.ErrInvalidID
	}
	if !in.EventType.Valid() {
		return domain.AnalyticsEvent{}, domain.ErrInvalidEventType
	}

	ev := domain.AnalyticsEvent{
		ID:            newID(),
		EventID:       in.EventID,
		EventType:     in.EventType,
		TicketBatchID: in.TicketBatchID,
		UtmLinkID:     in.UtmLinkID,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.repo.AppendAnalyticsEvent(ctx, ev); err != nil {
		return domain.AnalyticsEvent{}, err
	}
	return ev, nil
}

// ResolveCode resolves a referral query parameter to its active link.
func (s *AttributionService) ResolveCode(ctx context.Context, code string) (domain.UtmLink, error) {
	if code == "" {
		return domain.UtmLink{}, domain.ErrUtmLinkNotFound
	}
	link, err := s.repo.FindUtmLinkByCode(ctx, code)
	if err != nil {
		return domain.UtmLink{}, err
	}
	if link == nil || !link.IsActive {
		return domain.UtmLink{}, domain.ErrUtmLinkNotFound
	}
	return *link, nil
}

// AttributedCommission sums the link's commission over its paid attributed
// sales: percentage of total price, or a fixed amount per ticket. Only the
// link owner or an admin may read it.
func (s *AttributionService) AttributedCommission(ctx context.Context, utmLinkID string, actor domain.Actor) (domain.Money, error) {
	link, err := s.repo.GetUtmLink(ctx, utmLinkID)
	if err != nil {
		return 0, err
	}
	if !actor.IsAdmin() && actor.ID != link.ProducerID {
		return 0, domain.ErrForbidden
	}

	sales, err := s.repo.ListAttributedSales(ctx, utmLinkID)
	if err != nil {
		return 0, err
	}

	total := decimal.Zero
	for _, sale := range sales {
		switch link.CommissionType {
		case domain.CommissionPercentage:
			gross := decimal.NewFromInt(int64(sale.TotalPrice))
			total = total.Add(gross.Mul(link.CommissionValue).Div(hundred).Round(0))
		case domain.CommissionFixed:
			total = total.Add(link.CommissionValue.Mul(decimal.NewFromInt(int64(sale.Quantity))))
		}
	}
	return domain.Money(total.Round(0).IntPart()), nil
}

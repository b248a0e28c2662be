package app

import (
	"context"

	"github.com/nodebridgetech/misterticket-sub000/internal/clock"
	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

type PurchaseRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetBatch(ctx context.Context, batchID string) (domain.TicketBatch, error)
	ListBatchesByEvent(ctx context.Context, eventID string) ([]domain.TicketBatch, error)
	// ReserveUnits atomically adds qty to quantity_sold when the result stays
	// within quantity_total, returning the batch price latched by the same
	// statement. Fails with ErrSoldOut otherwise.
	ReserveUnits(ctx context.Context, batchID string, qty int) (domain.Money, error)
	ReleaseUnits(ctx context.Context, batchID string, qty int) error
	ActiveFeeConfig(ctx context.Context) (domain.FeeConfig, error)
	FindUtmLinkByCode(ctx context.Context, code string) (*domain.UtmLink, error)
	CreateSale(ctx context.Context, sale domain.Sale) error
	GetSale(ctx context.Context, saleID string) (domain.Sale, error)
	// UpdatePaymentStatus transitions payment_status conditioned on the
	// current value, so concurrent confirmations cannot double-apply.
	UpdatePaymentStatus(ctx context.Context, saleID string, from, to domain.PaymentStatus) error
}

type PurchaseService struct {
	repo  PurchaseRepository
	clock clock.Clock
}

func NewPurchaseService(repo PurchaseRepository, clk clock.Clock) *PurchaseService {
	return &PurchaseService{repo: repo, clock: clk}
}

type PurchaseInput struct {
	EventID       string
	TicketBatchID string
	BuyerID       string
	Quantity      int
	// UtmCode is the referral code carried through checkout, if any. An
	// unknown, inactive or out-of-scope code leaves the sale unattributed
	// rather than failing the purchase.
	UtmCode string
}

// Purchase runs the whole buy path in one transaction: scheduling check,
// conditional reservation, settlement against the active fee config, and
// sale creation with the attribution bound at creation time.
func (s *PurchaseService) Purchase(ctx context.Context, in PurchaseInput) (domain.Sale, error) {
	if in.EventID == "" || in.TicketBatchID == "" || in.BuyerID == "" {
		return domain.Sale{}, domain.ErrInvalidID
	}
	if in.Quantity <= 0 {
		return domain.Sale{}, domain.ErrInvalidQuantity
	}

	now := s.clock.Now()
	var result domain.Sale

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		batch, err := s.repo.GetBatch(txCtx, in.TicketBatchID)
		if err != nil {
			return err
		}
		if batch.EventID != in.EventID {
			return domain.ErrBatchNotFound
		}

		siblings, err := s.repo.ListBatchesByEvent(txCtx, in.EventID)
		if err != nil {
			return err
		}
		if !IsPurchasable(batch, siblings, now) {
			return domain.ErrOutOfWindow
		}

		// The conditional update is the oversell enforcement point; the
		// scheduling check above is advisory under concurrency.
		price, err := s.repo.ReserveUnits(txCtx, in.TicketBatchID, in.Quantity)
		if err != nil {
			return err
		}

		cfg, err := s.repo.ActiveFeeConfig(txCtx)
		if err != nil {
			return err
		}
		fees, err := Settle(price, in.Quantity, cfg)
		if err != nil {
			return err
		}

		var utmLinkID *string
		if in.UtmCode != "" {
			link, err := s.repo.FindUtmLinkByCode(txCtx, in.UtmCode)
			if err != nil {
				return err
			}
			if link != nil && link.IsActive && link.CoversEvent(in.EventID) {
				utmLinkID = &link.ID
			}
		}

		sale := domain.Sale{
			ID:             newID(),
			EventID:        in.EventID,
			TicketBatchID:  in.TicketBatchID,
			BuyerID:        in.BuyerID,
			Quantity:       in.Quantity,
			UnitPrice:      price,
			TotalPrice:     price * domain.Money(in.Quantity),
			PlatformFee:    fees.PlatformFee,
			GatewayFee:     fees.GatewayFee,
			ProducerAmount: fees.ProducerAmount,
			PaymentStatus:  domain.PaymentPending,
			QRToken:        newQRToken(),
			UtmLinkID:      utmLinkID,
			CreatedAt:      now,
		}

		if err := s.repo.CreateSale(txCtx, sale); err != nil {
			return err
		}
		result = sale
		return nil
	})
	if err != nil {
		return domain.Sale{}, err
	}
	return result, nil
}

// UpdatePayment applies an external payment result to a sale. A transition
// to failed or refunded releases the reserved units.
func (s *PurchaseService) UpdatePayment(ctx context.Context, saleID string, next domain.PaymentStatus) (domain.Sale, error) {
	var result domain.Sale
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		sale, err := s.repo.GetSale(txCtx, saleID)
		if err != nil {
			return err
		}
		if !sale.PaymentStatus.CanTransitionTo(next) {
			return domain.ErrInvalidStatusTransition
		}
		if err := s.repo.UpdatePaymentStatus(txCtx, saleID, sale.PaymentStatus, next); err != nil {
			return err
		}
		if next == domain.PaymentFailed || next == domain.PaymentRefunded {
			if err := s.repo.ReleaseUnits(txCtx, sale.TicketBatchID, sale.Quantity); err != nil {
				return err
			}
		}
		sale.PaymentStatus = next
		result = sale
		return nil
	})
	if err != nil {
		return domain.Sale{}, err
	}
	return result, nil
}

// IncrementSold exposes the bounded capacity increment used by external
// payment plumbing. It shares the reserve statement, so it can never push
// quantity_sold past quantity_total.
func (s *PurchaseService) IncrementSold(ctx context.Context, batchID string, qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	_, err := s.repo.ReserveUnits(ctx, batchID, qty)
	return err
}

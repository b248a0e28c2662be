package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nodebridgetech/misterticket-sub000/internal/clock"
	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

type AdminRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateProducer(ctx context.Context, p domain.Producer) error
	CreateEvent(ctx context.Context, e domain.Event) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	CreateBatch(ctx context.Context, b domain.TicketBatch) error
	ListBatchesByEvent(ctx context.Context, eventID string) ([]domain.TicketBatch, error)
	// UpdateBatchDetails touches only non-capacity fields; capacity columns
	// belong to the reserve statement.
	UpdateBatchDetails(ctx context.Context, batchID, name string, saleStart, saleEnd *time.Time) error
	CreateUtmLink(ctx context.Context, link domain.UtmLink) error
	// Deactivate-then-insert runs inside one transaction so exactly one fee
	// config row is active at any moment.
	DeactivateFeeConfigs(ctx context.Context) error
	InsertFeeConfig(ctx context.Context, cfg domain.FeeConfig) error
}

type AdminService struct {
	repo  AdminRepository
	clock clock.Clock
}

func NewAdminService(repo AdminRepository, clk clock.Clock) *AdminService {
	return &AdminService{repo: repo, clock: clk}
}

type CreateProducerInput struct {
	Name     string
	Document *string
}

func (s *AdminService) CreateProducer(ctx context.Context, in CreateProducerInput, actor domain.Actor) (domain.Producer, error) {
	if !actor.IsAdmin() {
		return domain.Producer{}, domain.ErrForbidden
	}
	if in.Name == "" {
		return domain.Producer{}, domain.ErrInvalidID
	}
	p := domain.Producer{
		ID:        newID(),
		Name:      in.Name,
		Document:  in.Document,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateProducer(ctx, p); err != nil {
		return domain.Producer{}, err
	}
	return p, nil
}

type CreateEventInput struct {
	ProducerID string
	Name       string
	StartsAt   time.Time
}

func (s *AdminService) CreateEvent(ctx context.Context, in CreateEventInput, actor domain.Actor) (domain.Event, error) {
	if !actor.IsAdmin() && actor.ID != in.ProducerID {
		return domain.Event{}, domain.ErrForbidden
	}
	if in.ProducerID == "" || in.Name == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	e := domain.Event{
		ID:         newID(),
		ProducerID: in.ProducerID,
		Name:       in.Name,
		StartsAt:   in.StartsAt,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.CreateEvent(ctx, e); err != nil {
		return domain.Event{}, err
	}
	return e, nil
}

type CreateBatchInput struct {
	EventID       string
	Sector        *string
	Name          string
	Price         domain.Money
	QuantityTotal int
	SaleStart     *time.Time
	SaleEnd       *time.Time
	Position      int
}

func (s *AdminService) CreateBatch(ctx context.Context, in CreateBatchInput, actor domain.Actor) (domain.TicketBatch, error) {
	if in.EventID == "" || in.Name == "" {
		return domain.TicketBatch{}, domain.ErrInvalidID
	}
	if in.QuantityTotal <= 0 {
		return domain.TicketBatch{}, domain.ErrInvalidQuantity
	}
	if in.Price < 0 {
		return domain.TicketBatch{}, domain.ErrInvalidAmount
	}

	var result domain.TicketBatch
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEvent(txCtx, in.EventID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && actor.ID != event.ProducerID {
			return domain.ErrForbidden
		}

		b := domain.TicketBatch{
			ID:            newID(),
			EventID:       in.EventID,
			Sector:        in.Sector,
			Name:          in.Name,
			Price:         in.Price,
			QuantityTotal: in.QuantityTotal,
			SaleStart:     in.SaleStart,
			SaleEnd:       in.SaleEnd,
			Position:      in.Position,
			CreatedAt:     s.clock.Now(),
		}
		if err := s.repo.CreateBatch(txCtx, b); err != nil {
			return err
		}
		result = b
		return nil
	})
	if err != nil {
		return domain.TicketBatch{}, err
	}
	return result, nil
}

func (s *AdminService) ListBatches(ctx context.Context, eventID string) ([]domain.TicketBatch, error) {
	if eventID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListBatchesByEvent(ctx, eventID)
}

type UpdateBatchInput struct {
	EventID   string
	BatchID   string
	Name      string
	SaleStart *time.Time
	SaleEnd   *time.Time
}

// UpdateBatch edits the non-capacity fields of a batch. Price and quantities
// are immutable once selling has started.
func (s *AdminService) UpdateBatch(ctx context.Context, in UpdateBatchInput, actor domain.Actor) error {
	if in.EventID == "" || in.BatchID == "" || in.Name == "" {
		return domain.ErrInvalidID
	}
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEvent(txCtx, in.EventID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && actor.ID != event.ProducerID {
			return domain.ErrForbidden
		}
		return s.repo.UpdateBatchDetails(txCtx, in.BatchID, in.Name, in.SaleStart, in.SaleEnd)
	})
}

type CreateUtmLinkInput struct {
	ProducerID        string
	UtmCode           string
	AppliesToAllEvent bool
	CommissionType    domain.CommissionType
	CommissionValue   decimal.Decimal
	EventIDs          []string
}

func (s *AdminService) CreateUtmLink(ctx context.Context, in CreateUtmLinkInput, actor domain.Actor) (domain.UtmLink, error) {
	if !actor.IsAdmin() && actor.ID != in.ProducerID {
		return domain.UtmLink{}, domain.ErrForbidden
	}
	if in.ProducerID == "" || in.UtmCode == "" {
		return domain.UtmLink{}, domain.ErrInvalidID
	}
	if in.CommissionType != domain.CommissionPercentage && in.CommissionType != domain.CommissionFixed {
		return domain.UtmLink{}, domain.ErrInvalidAmount
	}

	link := domain.UtmLink{
		ID:                newID(),
		ProducerID:        in.ProducerID,
		UtmCode:           in.UtmCode,
		AppliesToAllEvent: in.AppliesToAllEvent,
		CommissionType:    in.CommissionType,
		CommissionValue:   in.CommissionValue,
		IsActive:          true,
		EventIDs:          in.EventIDs,
		CreatedAt:         s.clock.Now(),
	}
	if err := s.repo.CreateUtmLink(ctx, link); err != nil {
		return domain.UtmLink{}, err
	}
	return link, nil
}

type SetFeeConfigInput struct {
	PlatformFeePercent  decimal.Decimal
	GatewayFeePercent   decimal.Decimal
	MinWithdrawalAmount domain.Money
}

// SetFeeConfig replaces the active fee configuration. Already-settled sales
// keep the fees they were settled with.
func (s *AdminService) SetFeeConfig(ctx context.Context, in SetFeeConfigInput, actor domain.Actor) (domain.FeeConfig, error) {
	if !actor.IsAdmin() {
		return domain.FeeConfig{}, domain.ErrForbidden
	}
	if in.PlatformFeePercent.IsNegative() || in.GatewayFeePercent.IsNegative() || in.MinWithdrawalAmount < 0 {
		return domain.FeeConfig{}, domain.ErrInvalidAmount
	}

	cfg := domain.FeeConfig{
		ID:                  newID(),
		PlatformFeePercent:  in.PlatformFeePercent,
		GatewayFeePercent:   in.GatewayFeePercent,
		MinWithdrawalAmount: in.MinWithdrawalAmount,
		IsActive:            true,
	}
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.DeactivateFeeConfigs(txCtx); err != nil {
			return err
		}
		return s.repo.InsertFeeConfig(txCtx, cfg)
	})
	if err != nil {
		return domain.FeeConfig{}, err
	}
	return cfg, nil
}

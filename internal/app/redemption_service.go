package app

import (
	"context"
	"time"

	"github.com/nodebridgetech/misterticket-sub000/internal/clock"
	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

type RedemptionRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// FindSaleByToken looks a sale up by its QR token, never by primary key.
	FindSaleByToken(ctx context.Context, token string) (*domain.Sale, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	GetBatch(ctx context.Context, batchID string) (domain.TicketBatch, error)
	// MarkValidated sets validated_at/validated_by conditioned on
	// validated_at IS NULL and reports whether this caller won the write.
	MarkValidated(ctx context.Context, saleID string, at time.Time, by string) (bool, error)
}

type RedemptionService struct {
	repo  RedemptionRepository
	clock clock.Clock
}

func NewRedemptionService(repo RedemptionRepository, clk clock.Clock) *RedemptionService {
	return &RedemptionService{repo: repo, clock: clk}
}

// Admission is what the gate displays after a successful scan.
type Admission struct {
	Sale      domain.Sale
	BatchName string
	EventName string
}

// AlreadyValidatedError carries the original validation so the gate can show
// who admitted the ticket and when.
type AlreadyValidatedError struct {
	ValidatedAt time.Time
	ValidatedBy string
}

func (e *AlreadyValidatedError) Error() string {
	return domain.ErrAlreadyValidated.Error()
}

func (e *AlreadyValidatedError) Unwrap() error {
	return domain.ErrAlreadyValidated
}

// Validate admits the ticket behind token exactly once. The conditional
// write in MarkValidated is the enforcement point; two simultaneous scans of
// the same token produce one success and one AlreadyValidatedError.
func (s *RedemptionService) Validate(ctx context.Context, token string, actor domain.Actor) (Admission, error) {
	if token == "" {
		return Admission{}, domain.ErrTokenNotFound
	}

	now := s.clock.Now()
	var result Admission

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		sale, err := s.repo.FindSaleByToken(txCtx, token)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrTokenNotFound
		}

		event, err := s.repo.GetEvent(txCtx, sale.EventID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && actor.ID != event.ProducerID {
			return domain.ErrForbidden
		}

		if sale.Validated() {
			return alreadyValidated(*sale)
		}
		if sale.PaymentStatus != domain.PaymentPaid {
			return domain.ErrSaleNotPaid
		}

		won, err := s.repo.MarkValidated(txCtx, sale.ID, now, actor.ID)
		if err != nil {
			return err
		}
		if !won {
			// Lost the race; re-read for the original validator and time.
			current, err := s.repo.FindSaleByToken(txCtx, token)
			if err != nil {
				return err
			}
			if current != nil && current.Validated() {
				return alreadyValidated(*current)
			}
			return domain.ErrAlreadyValidated
		}

		batch, err := s.repo.GetBatch(txCtx, sale.TicketBatchID)
		if err != nil {
			return err
		}

		validated := *sale
		validated.ValidatedAt = &now
		validated.ValidatedBy = &actor.ID
		result = Admission{
			Sale:      validated,
			BatchName: batch.Name,
			EventName: event.Name,
		}
		return nil
	})
	if err != nil {
		return Admission{}, err
	}
	return result, nil
}

func alreadyValidated(sale domain.Sale) error {
	e := &AlreadyValidatedError{}
	if sale.ValidatedAt != nil {
		e.ValidatedAt = *sale.ValidatedAt
	}
	if sale.ValidatedBy != nil {
		e.ValidatedBy = *sale.ValidatedBy
	}
	return e
}

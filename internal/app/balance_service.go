package app

import (
	"context"
	"time"

	"github.com/nodebridgetech/misterticket-sub000/internal/clock"
	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

type BalanceRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// LockProducer serializes withdrawal requests per producer for the
	// duration of the surrounding transaction.
	LockProducer(ctx context.Context, producerID string) error
	GetProducer(ctx context.Context, producerID string) (domain.Producer, error)
	// SumPaidProducerAmount sums producer_amount over paid sales of the
	// producer's events.
	SumPaidProducerAmount(ctx context.Context, producerID string) (domain.Money, error)
	// SumReservedWithdrawals sums withdrawal amounts in completed and
	// non-terminal (pending/approved/processing) states.
	SumReservedWithdrawals(ctx context.Context, producerID string) (domain.Money, error)
	ActiveFeeConfig(ctx context.Context) (domain.FeeConfig, error)
	CreateWithdrawal(ctx context.Context, req domain.WithdrawalRequest) error
	GetWithdrawal(ctx context.Context, id string) (domain.WithdrawalRequest, error)
	// UpdateWithdrawalStatus transitions conditioned on the current status.
	UpdateWithdrawalStatus(ctx context.Context, id string, from, to domain.WithdrawalStatus, approvedAt *time.Time) error
}

type BalanceService struct {
	repo  BalanceRepository
	clock clock.Clock
}

func NewBalanceService(repo BalanceRepository, clk clock.Clock) *BalanceService {
	return &BalanceService{repo: repo, clock: clk}
}

// AvailableBalance is the producer's withdrawable net: paid sale revenue
// minus everything already paid out or still reserved by open requests.
func (s *BalanceService) AvailableBalance(ctx context.Context, producerID string) (domain.Money, error) {
	earned, err := s.repo.SumPaidProducerAmount(ctx, producerID)
	if err != nil {
		return 0, err
	}
	reserved, err := s.repo.SumReservedWithdrawals(ctx, producerID)
	if err != nil {
		return 0, err
	}
	return earned - reserved, nil
}

type WithdrawalInput struct {
	ProducerID string
	Amount     domain.Money
	// Document is the payout document sent with the request; when empty the
	// producer's document on file is used.
	Document string
}

// RequestWithdrawal gates a new request on the producer's available balance.
// The whole check-then-insert runs under a per-producer lock so concurrent
// requests cannot jointly overdraw a stale balance.
func (s *BalanceService) RequestWithdrawal(ctx context.Context, in WithdrawalInput) (domain.WithdrawalRequest, error) {
	if in.ProducerID == "" {
		return domain.WithdrawalRequest{}, domain.ErrInvalidID
	}
	if in.Amount <= 0 {
		return domain.WithdrawalRequest{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	var result domain.WithdrawalRequest

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.LockProducer(txCtx, in.ProducerID); err != nil {
			return err
		}

		producer, err := s.repo.GetProducer(txCtx, in.ProducerID)
		if err != nil {
			return err
		}
		document := in.Document
		if document == "" && producer.Document != nil {
			document = *producer.Document
		}
		if document == "" {
			return domain.ErrMissingPayoutDocument
		}

		cfg, err := s.repo.ActiveFeeConfig(txCtx)
		if err != nil {
			return err
		}
		if in.Amount < cfg.MinWithdrawalAmount {
			return domain.ErrBelowMinimum
		}

		earned, err := s.repo.SumPaidProducerAmount(txCtx, in.ProducerID)
		if err != nil {
			return err
		}
		reserved, err := s.repo.SumReservedWithdrawals(txCtx, in.ProducerID)
		if err != nil {
			return err
		}
		if in.Amount > earned-reserved {
			return domain.ErrInsufficientBalance
		}

		req := domain.WithdrawalRequest{
			ID:               newID(),
			ProducerID:       in.ProducerID,
			Amount:           in.Amount,
			Status:           domain.WithdrawalPending,
			ProducerDocument: document,
			CreatedAt:        now,
		}
		if err := s.repo.CreateWithdrawal(txCtx, req); err != nil {
			return err
		}
		result = req
		return nil
	})
	if err != nil {
		return domain.WithdrawalRequest{}, err
	}
	return result, nil
}

// TransitionWithdrawal applies an admin-side status change. Payout gateway
// outcomes enter here as completed or failed; they are never retried
// automatically.
func (s *BalanceService) TransitionWithdrawal(ctx context.Context, id string, next domain.WithdrawalStatus, actor domain.Actor) (domain.WithdrawalRequest, error) {
	if !actor.IsAdmin() {
		return domain.WithdrawalRequest{}, domain.ErrForbidden
	}

	now := s.clock.Now()
	var result domain.WithdrawalRequest

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		req, err := s.repo.GetWithdrawal(txCtx, id)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(next) {
			return domain.ErrInvalidStatusTransition
		}

		var approvedAt *time.Time
		if next == domain.WithdrawalApproved {
			approvedAt = &now
		}
		if err := s.repo.UpdateWithdrawalStatus(txCtx, id, req.Status, next, approvedAt); err != nil {
			return err
		}

		req.Status = next
		if approvedAt != nil {
			req.ApprovedAt = approvedAt
		}
		result = req
		return nil
	})
	if err != nil {
		return domain.WithdrawalRequest{}, err
	}
	return result, nil
}

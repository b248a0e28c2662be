package app

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nodebridgetech/misterticket-sub000/internal/clock"
	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

type fakeBalanceRepo struct {
	producers   map[string]domain.Producer
	withdrawals map[string]domain.WithdrawalRequest
	earned      map[string]domain.Money
	cfg         domain.FeeConfig

	locked []string
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{
		producers:   make(map[string]domain.Producer),
		withdrawals: make(map[string]domain.WithdrawalRequest),
		earned:      make(map[string]domain.Money),
		cfg: domain.FeeConfig{
			ID:                  "cfg-1",
			PlatformFeePercent:  decimal.RequireFromString("10"),
			GatewayFeePercent:   decimal.RequireFromString("5"),
			MinWithdrawalAmount: 5000,
			IsActive:            true,
		},
	}
}

func (f *fakeBalanceRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeBalanceRepo) LockProducer(_ context.Context, producerID string) error {
	f.locked = append(f.locked, producerID)
	return nil
}

func (f *fakeBalanceRepo) GetProducer(_ context.Context, producerID string) (domain.Producer, error) {
	p, ok := f.producers[producerID]
	if !ok {
		return domain.Producer{}, domain.ErrProducerNotFound
	}
	return p, nil
}

func (f *fakeBalanceRepo) SumPaidProducerAmount(_ context.Context, producerID string) (domain.Money, error) {
	return f.earned[producerID], nil
}

func (f *fakeBalanceRepo) SumReservedWithdrawals(_ context.Context, producerID string) (domain.Money, error) {
	var sum domain.Money
	for _, w := range f.withdrawals {
		if w.ProducerID == producerID && w.Status.Reserves() {
			sum += w.Amount
		}
	}
	return sum, nil
}

func (f *fakeBalanceRepo) ActiveFeeConfig(_ context.Context) (domain.FeeConfig, error) {
	return f.cfg, nil
}

func (f *fakeBalanceRepo) CreateWithdrawal(_ context.Context, req domain.WithdrawalRequest) error {
	f.withdrawals[req.ID] = req
	return nil
}

func (f *fakeBalanceRepo) GetWithdrawal(_ context.Context, id string) (domain.WithdrawalRequest, error) {
	w, ok := f.withdrawals[id]
	if !ok {
		return domain.WithdrawalRequest{}, domain.ErrWithdrawalNotFound
	}
	return w, nil
}

func (f *fakeBalanceRepo) UpdateWithdrawalStatus(_ context.Context, id string, from, to domain.WithdrawalStatus, approvedAt *time.Time) error {
	w, ok := f.withdrawals[id]
	if !ok || w.Status != from {
		return domain.ErrInvalidStatusTransition
	}
	w.Status = to
	if approvedAt != nil {
		w.ApprovedAt = approvedAt
	}
	f.withdrawals[id] = w
	return nil
}

func docptr(s string) *string { return &s }

func TestBalanceService_AvailableBalance(t *testing.T) {
	t.Parallel()

	repo := newFakeBalanceRepo()
	repo.earned["producer-1"] = 100000
	repo.withdrawals["w1"] = domain.WithdrawalRequest{ID: "w1", ProducerID: "producer-1", Amount: 30000, Status: domain.WithdrawalPending}
	repo.withdrawals["w2"] = domain.WithdrawalRequest{ID: "w2", ProducerID: "producer-1", Amount: 20000, Status: domain.WithdrawalCompleted}
	repo.withdrawals["w3"] = domain.WithdrawalRequest{ID: "w3", ProducerID: "producer-1", Amount: 15000, Status: domain.WithdrawalRejected}
	repo.withdrawals["w4"] = domain.WithdrawalRequest{ID: "w4", ProducerID: "producer-2", Amount: 99999, Status: domain.WithdrawalPending}

	svc := NewBalanceService(repo, clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)))

	balance, err := svc.AvailableBalance(context.Background(), "producer-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Pending and completed reserve; rejected releases; other producers are ignored.
	if balance != 50000 {
		t.Fatalf("expected balance 50000, got %d", balance)
	}
}

func TestBalanceService_RequestWithdrawal(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	seed := func() *fakeBalanceRepo {
		repo := newFakeBalanceRepo()
		repo.producers["producer-1"] = domain.Producer{ID: "producer-1", Name: "Acme", Document: docptr("12345678900")}
		repo.earned["producer-1"] = 100000
		return repo
	}

	t.Run("creates pending request under the producer lock", func(t *testing.T) {
		repo := seed()
		svc := NewBalanceService(repo, clock.NewFixed(now))

		req, err := svc.RequestWithdrawal(context.Background(), WithdrawalInput{
			ProducerID: "producer-1",
			Amount:     60000,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if req.Status != domain.WithdrawalPending {
			t.Fatalf("expected pending, got %s", req.Status)
		}
		if req.ProducerDocument != "12345678900" {
			t.Fatalf("expected document from file, got %q", req.ProducerDocument)
		}
		if len(repo.locked) != 1 || repo.locked[0] != "producer-1" {
			t.Fatalf("expected producer lock taken, got %v", repo.locked)
		}
	})

	t.Run("request document overrides the one on file", func(t *testing.T) {
		repo := seed()
		svc := NewBalanceService(repo, clock.NewFixed(now))

		req, err := svc.RequestWithdrawal(context.Background(), WithdrawalInput{
			ProducerID: "producer-1",
			Amount:     60000,
			Document:   "98765432100",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if req.ProducerDocument != "98765432100" {
			t.Fatalf("expected request document, got %q", req.ProducerDocument)
		}
	})

	t.Run("rejects producer without payout document", func(t *testing.T) {
		repo := seed()
		repo.producers["producer-1"] = domain.Producer{ID: "producer-1", Name: "Acme"}
		svc := NewBalanceService(repo, clock.NewFixed(now))

		_, err := svc.RequestWithdrawal(context.Background(), WithdrawalInput{
			ProducerID: "producer-1",
			Amount:     60000,
		})
		if err != domain.ErrMissingPayoutDocument {
			t.Fatalf("expected ErrMissingPayoutDocument, got %v", err)
		}
	})

	t.Run("rejects amount below the configured minimum", func(t *testing.T) {
		repo := seed()
		svc := NewBalanceService(repo, clock.NewFixed(now))

		_, err := svc.RequestWithdrawal(context.Background(), WithdrawalInput{
			ProducerID: "producer-1",
			Amount:     4999,
		})
		if err != domain.ErrBelowMinimum {
			t.Fatalf("expected ErrBelowMinimum, got %v", err)
		}
	})

	t.Run("rejects amount above available balance", func(t *testing.T) {
		repo := seed()
		repo.withdrawals["w1"] = domain.WithdrawalRequest{
			ID:         "w1",
			ProducerID: "producer-1",
			Amount:     80000,
			Status:     domain.WithdrawalPending,
		}
		svc := NewBalanceService(repo, clock.NewFixed(now))

		_, err := svc.RequestWithdrawal(context.Background(), WithdrawalInput{
			ProducerID: "producer-1",
			Amount:     30000,
		})
		if err != domain.ErrInsufficientBalance {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		repo := seed()
		svc := NewBalanceService(repo, clock.NewFixed(now))

		if _, err := svc.RequestWithdrawal(context.Background(), WithdrawalInput{ProducerID: "producer-1", Amount: 0}); err != domain.ErrInvalidAmount {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestBalanceService_TransitionWithdrawal(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}

	seed := func(status domain.WithdrawalStatus) *fakeBalanceRepo {
		repo := newFakeBalanceRepo()
		repo.withdrawals["w1"] = domain.WithdrawalRequest{
			ID:         "w1",
			ProducerID: "producer-1",
			Amount:     60000,
			Status:     status,
		}
		return repo
	}

	t.Run("approval stamps approved_at", func(t *testing.T) {
		repo := seed(domain.WithdrawalPending)
		svc := NewBalanceService(repo, clock.NewFixed(now))

		req, err := svc.TransitionWithdrawal(context.Background(), "w1", domain.WithdrawalApproved, admin)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if req.Status != domain.WithdrawalApproved {
			t.Fatalf("expected approved, got %s", req.Status)
		}
		if req.ApprovedAt == nil || !req.ApprovedAt.Equal(now) {
			t.Fatalf("expected approved_at %v, got %v", now, req.ApprovedAt)
		}
	})

	t.Run("walks the payout lifecycle", func(t *testing.T) {
		repo := seed(domain.WithdrawalPending)
		svc := NewBalanceService(repo, clock.NewFixed(now))

		for _, next := range []domain.WithdrawalStatus{
			domain.WithdrawalApproved,
			domain.WithdrawalProcessing,
			domain.WithdrawalCompleted,
		} {
			if _, err := svc.TransitionWithdrawal(context.Background(), "w1", next, admin); err != nil {
				t.Fatalf("transition to %s: %v", next, err)
			}
		}
		if repo.withdrawals["w1"].Status != domain.WithdrawalCompleted {
			t.Fatalf("expected completed, got %s", repo.withdrawals["w1"].Status)
		}
	})

	t.Run("rejects invalid transitions", func(t *testing.T) {
		repo := seed(domain.WithdrawalPending)
		svc := NewBalanceService(repo, clock.NewFixed(now))

		if _, err := svc.TransitionWithdrawal(context.Background(), "w1", domain.WithdrawalCompleted, admin); err != domain.ErrInvalidStatusTransition {
			t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
		}

		repo = seed(domain.WithdrawalRejected)
		svc = NewBalanceService(repo, clock.NewFixed(now))
		if _, err := svc.TransitionWithdrawal(context.Background(), "w1", domain.WithdrawalApproved, admin); err != domain.ErrInvalidStatusTransition {
			t.Fatalf("expected terminal status to be final, got %v", err)
		}
	})

	t.Run("only admins transition withdrawals", func(t *testing.T) {
		repo := seed(domain.WithdrawalPending)
		svc := NewBalanceService(repo, clock.NewFixed(now))

		producer := domain.Actor{ID: "producer-1", Role: domain.RoleProducer}
		if _, err := svc.TransitionWithdrawal(context.Background(), "w1", domain.WithdrawalApproved, producer); err != domain.ErrForbidden {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("missing request", func(t *testing.T) {
		repo := newFakeBalanceRepo()
		svc := NewBalanceService(repo, clock.NewFixed(now))

		if _, err := svc.TransitionWithdrawal(context.Background(), "missing", domain.WithdrawalApproved, admin); err != domain.ErrWithdrawalNotFound {
			t.Fatalf("expected ErrWithdrawalNotFound, got %v", err)
		}
	})
}

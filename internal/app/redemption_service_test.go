package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nodebridgetech/misterticket-sub000/internal/clock"
	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

type fakeRedemptionRepo struct {
	sales   map[string]domain.Sale
	events  map[string]domain.Event
	batches map[string]domain.TicketBatch

	// loseRace simulates another gate winning the conditional write between
	// the read and MarkValidated.
	loseRace bool
}

func newFakeRedemptionRepo() *fakeRedemptionRepo {
	return &fakeRedemptionRepo{
		sales:   make(map[string]domain.Sale),
		events:  make(map[string]domain.Event),
		batches: make(map[string]domain.TicketBatch),
	}
}

func (f *fakeRedemptionRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeRedemptionRepo) FindSaleByToken(_ context.Context, token string) (*domain.Sale, error) {
	for _, sale := range f.sales {
		if sale.QRToken == token {
			copy := sale
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeRedemptionRepo) GetEvent(_ context.Context, eventID string) (domain.Event, error) {
	event, ok := f.events[eventID]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event, nil
}

func (f *fakeRedemptionRepo) GetBatch(_ context.Context, batchID string) (domain.TicketBatch, error) {
	batch, ok := f.batches[batchID]
	if !ok {
		return domain.TicketBatch{}, domain.ErrBatchNotFound
	}
	return batch, nil
}

func (f *fakeRedemptionRepo) MarkValidated(_ context.Context, saleID string, at time.Time, by string) (bool, error) {
	sale, ok := f.sales[saleID]
	if !ok {
		return false, domain.ErrSaleNotFound
	}
	if f.loseRace && sale.ValidatedAt == nil {
		raceAt := at.Add(-time.Second)
		raceBy := "other-gate"
		sale.ValidatedAt = &raceAt
		sale.ValidatedBy = &raceBy
		f.sales[saleID] = sale
		return false, nil
	}
	if sale.ValidatedAt != nil {
		return false, nil
	}
	sale.ValidatedAt = &at
	sale.ValidatedBy = &by
	f.sales[saleID] = sale
	return true, nil
}

func TestRedemptionService_Validate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	producer := domain.Actor{ID: "producer-1", Role: domain.RoleProducer}
	admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}

	seed := func(status domain.PaymentStatus) *fakeRedemptionRepo {
		repo := newFakeRedemptionRepo()
		repo.events["event-1"] = domain.Event{ID: "event-1", ProducerID: "producer-1", Name: "Festival"}
		repo.batches["batch-1"] = domain.TicketBatch{ID: "batch-1", EventID: "event-1", Name: "Lote 1"}
		repo.sales["sale-1"] = domain.Sale{
			ID:            "sale-1",
			EventID:       "event-1",
			TicketBatchID: "batch-1",
			QRToken:       "tok-1",
			PaymentStatus: status,
		}
		return repo
	}

	t.Run("producer validates a paid ticket once", func(t *testing.T) {
		repo := seed(domain.PaymentPaid)
		svc := NewRedemptionService(repo, clock.NewFixed(now))

		adm, err := svc.Validate(context.Background(), "tok-1", producer)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if adm.EventName != "Festival" || adm.BatchName != "Lote 1" {
			t.Fatalf("unexpected admission context: %+v", adm)
		}
		if adm.Sale.ValidatedAt == nil || !adm.Sale.ValidatedAt.Equal(now) {
			t.Fatalf("expected validated at %v, got %v", now, adm.Sale.ValidatedAt)
		}
		if adm.Sale.ValidatedBy == nil || *adm.Sale.ValidatedBy != "producer-1" {
			t.Fatalf("expected validated by producer-1")
		}
	})

	t.Run("second scan reports first validation", func(t *testing.T) {
		repo := seed(domain.PaymentPaid)
		svc := NewRedemptionService(repo, clock.NewFixed(now))

		if _, err := svc.Validate(context.Background(), "tok-1", producer); err != nil {
			t.Fatalf("first scan: %v", err)
		}
		_, err := svc.Validate(context.Background(), "tok-1", admin)
		if !errors.Is(err, domain.ErrAlreadyValidated) {
			t.Fatalf("expected ErrAlreadyValidated, got %v", err)
		}
		var already *AlreadyValidatedError
		if !errors.As(err, &already) {
			t.Fatalf("expected AlreadyValidatedError, got %T", err)
		}
		if !already.ValidatedAt.Equal(now) || already.ValidatedBy != "producer-1" {
			t.Fatalf("expected original validation details, got %+v", already)
		}
	})

	t.Run("losing the conditional write reports the winner", func(t *testing.T) {
		repo := seed(domain.PaymentPaid)
		repo.loseRace = true
		svc := NewRedemptionService(repo, clock.NewFixed(now))

		_, err := svc.Validate(context.Background(), "tok-1", producer)
		var already *AlreadyValidatedError
		if !errors.As(err, &already) {
			t.Fatalf("expected AlreadyValidatedError after lost race, got %v", err)
		}
		if already.ValidatedBy != "other-gate" {
			t.Fatalf("expected winner other-gate, got %s", already.ValidatedBy)
		}
	})

	t.Run("unpaid sale is rejected", func(t *testing.T) {
		for _, status := range []domain.PaymentStatus{domain.PaymentPending, domain.PaymentFailed, domain.PaymentRefunded} {
			repo := seed(status)
			svc := NewRedemptionService(repo, clock.NewFixed(now))

			if _, err := svc.Validate(context.Background(), "tok-1", producer); err != domain.ErrSaleNotPaid {
				t.Fatalf("status %s: expected ErrSaleNotPaid, got %v", status, err)
			}
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		repo := seed(domain.PaymentPaid)
		svc := NewRedemptionService(repo, clock.NewFixed(now))

		if _, err := svc.Validate(context.Background(), "nope", producer); err != domain.ErrTokenNotFound {
			t.Fatalf("expected ErrTokenNotFound, got %v", err)
		}
		if _, err := svc.Validate(context.Background(), "", producer); err != domain.ErrTokenNotFound {
			t.Fatalf("expected ErrTokenNotFound for empty token, got %v", err)
		}
	})

	t.Run("other producers cannot validate", func(t *testing.T) {
		repo := seed(domain.PaymentPaid)
		svc := NewRedemptionService(repo, clock.NewFixed(now))

		other := domain.Actor{ID: "producer-2", Role: domain.RoleProducer}
		if _, err := svc.Validate(context.Background(), "tok-1", other); err != domain.ErrForbidden {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("admin validates any event", func(t *testing.T) {
		repo := seed(domain.PaymentPaid)
		svc := NewRedemptionService(repo, clock.NewFixed(now))

		if _, err := svc.Validate(context.Background(), "tok-1", admin); err != nil {
			t.Fatalf("expected admin to validate, got %v", err)
		}
	})
}

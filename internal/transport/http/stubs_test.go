package http

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/nodebridgetech/misterticket-sub000/internal/app"
	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

type stubPurchaser struct {
	sale domain.Sale
	err  error

	gotInput app.PurchaseInput
	gotNext  domain.PaymentStatus
	gotQty   int
}

func (s *stubPurchaser) Purchase(_ context.Context, in app.PurchaseInput) (domain.Sale, error) {
	s.gotInput = in
	return s.sale, s.err
}

func (s *stubPurchaser) UpdatePayment(_ context.Context, _ string, next domain.PaymentStatus) (domain.Sale, error) {
	s.gotNext = next
	return s.sale, s.err
}

func (s *stubPurchaser) IncrementSold(_ context.Context, _ string, qty int) error {
	s.gotQty = qty
	return s.err
}

type stubRedeemer struct {
	admission app.Admission
	err       error

	gotToken string
	gotActor domain.Actor
}

func (s *stubRedeemer) Validate(_ context.Context, token string, actor domain.Actor) (app.Admission, error) {
	s.gotToken = token
	s.gotActor = actor
	return s.admission, s.err
}

type stubWithdrawer struct {
	balance    domain.Money
	withdrawal domain.WithdrawalRequest
	err        error

	gotInput app.WithdrawalInput
}

func (s *stubWithdrawer) AvailableBalance(_ context.Context, _ string) (domain.Money, error) {
	return s.balance, s.err
}

func (s *stubWithdrawer) RequestWithdrawal(_ context.Context, in app.WithdrawalInput) (domain.WithdrawalRequest, error) {
	s.gotInput = in
	return s.withdrawal, s.err
}

func (s *stubWithdrawer) TransitionWithdrawal(_ context.Context, _ string, _ domain.WithdrawalStatus, _ domain.Actor) (domain.WithdrawalRequest, error) {
	return s.withdrawal, s.err
}

type stubAttributor struct {
	event      domain.AnalyticsEvent
	link       domain.UtmLink
	commission domain.Money
	err        error
}

func (s *stubAttributor) RecordEvent(_ context.Context, _ app.RecordEventInput) (domain.AnalyticsEvent, error) {
	return s.event, s.err
}

func (s *stubAttributor) ResolveCode(_ context.Context, _ string) (domain.UtmLink, error) {
	return s.link, s.err
}

func (s *stubAttributor) AttributedCommission(_ context.Context, _ string, _ domain.Actor) (domain.Money, error) {
	return s.commission, s.err
}

type stubAdministrator struct {
	producer domain.Producer
	event    domain.Event
	batch    domain.TicketBatch
	batches  []domain.TicketBatch
	link     domain.UtmLink
	cfg      domain.FeeConfig
	err      error
}

func (s *stubAdministrator) CreateProducer(_ context.Context, _ app.CreateProducerInput, _ domain.Actor) (domain.Producer, error) {
	return s.producer, s.err
}

func (s *stubAdministrator) CreateEvent(_ context.Context, _ app.CreateEventInput, _ domain.Actor) (domain.Event, error) {
	return s.event, s.err
}

func (s *stubAdministrator) CreateBatch(_ context.Context, _ app.CreateBatchInput, _ domain.Actor) (domain.TicketBatch, error) {
	return s.batch, s.err
}

func (s *stubAdministrator) ListBatches(_ context.Context, _ string) ([]domain.TicketBatch, error) {
	return s.batches, s.err
}

func (s *stubAdministrator) UpdateBatch(_ context.Context, _ app.UpdateBatchInput, _ domain.Actor) error {
	return s.err
}

func (s *stubAdministrator) CreateUtmLink(_ context.Context, _ app.CreateUtmLinkInput, _ domain.Actor) (domain.UtmLink, error) {
	return s.link, s.err
}

func (s *stubAdministrator) SetFeeConfig(_ context.Context, _ app.SetFeeConfigInput, _ domain.Actor) (domain.FeeConfig, error) {
	return s.cfg, s.err
}

type routerStubs struct {
	purchases   *stubPurchaser
	redemptions *stubRedeemer
	withdrawals *stubWithdrawer
	attribution *stubAttributor
	admin       *stubAdministrator
}

func newStubRouter() (http.Handler, *routerStubs) {
	stubs := &routerStubs{
		purchases:   &stubPurchaser{},
		redemptions: &stubRedeemer{},
		withdrawals: &stubWithdrawer{},
		attribution: &stubAttributor{},
		admin:       &stubAdministrator{},
	}
	router := NewRouter(stubs.purchases, stubs.redemptions, stubs.withdrawals, stubs.attribution, stubs.admin)
	return router, stubs
}

func doRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func asAdmin(req *http.Request) *http.Request {
	req.Header.Set(headerActorID, "admin-1")
	req.Header.Set(headerActorRole, string(domain.RoleAdmin))
	return req
}

func asProducer(req *http.Request, id string) *http.Request {
	req.Header.Set(headerActorID, id)
	req.Header.Set(headerActorRole, string(domain.RoleProducer))
	return req
}

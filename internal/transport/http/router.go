package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires every endpoint of the core onto a gorilla/mux router.
func NewRouter(purchases Purchaser, redemptions Redeemer, withdrawals Withdrawer, attribution Attributor, admin Administrator) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)

	r.Handle("/purchases", HandlePurchase(purchases)).Methods(http.MethodPost)
	r.Handle("/sales/{id}/payment", HandlePaymentUpdate(purchases)).Methods(http.MethodPost)
	r.Handle("/redemptions", HandleRedeem(redemptions)).Methods(http.MethodPost)

	r.Handle("/withdrawals", HandleRequestWithdrawal(withdrawals)).Methods(http.MethodPost)
	r.Handle("/producers/{id}/balance", HandleBalance(withdrawals)).Methods(http.MethodGet)

	r.Handle("/analytics", HandleRecordEvent(attribution)).Methods(http.MethodPost)
	r.Handle("/utm/{code}", HandleResolveUtm(attribution)).Methods(http.MethodGet)

	r.Handle("/admin/producers", HandleCreateProducer(admin)).Methods(http.MethodPost)
	r.Handle("/admin/events", HandleCreateEvent(admin)).Methods(http.MethodPost)
	r.Handle("/admin/events/{id}/batches", HandleCreateBatch(admin)).Methods(http.MethodPost)
	r.Handle("/admin/events/{id}/batches", HandleListBatches(admin)).Methods(http.MethodGet)
	r.Handle("/admin/events/{id}/batches/{batchID}", HandleUpdateBatch(admin)).Methods(http.MethodPut)
	r.Handle("/admin/batches/{id}/increment-sold", HandleIncrementSold(purchases)).Methods(http.MethodPost)
	r.Handle("/admin/utm-links", HandleCreateUtmLink(admin)).Methods(http.MethodPost)
	r.Handle("/admin/utm/{id}/commission", HandleCommission(attribution)).Methods(http.MethodGet)
	r.Handle("/admin/withdrawals/{id}/status", HandleWithdrawalTransition(withdrawals)).Methods(http.MethodPost)
	r.Handle("/admin/fee-config", HandleSetFeeConfig(admin)).Methods(http.MethodPost)

	r.NotFoundHandler = NotFoundHandler()
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	return r
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/nodebridgetech/misterticket-sub000/internal/app"
	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

// Purchaser is the slice of PurchaseService the checkout path needs.
type Purchaser interface {
	Purchase(ctx context.Context, in app.PurchaseInput) (domain.Sale, error)
	UpdatePayment(ctx context.Context, saleID string, next domain.PaymentStatus) (domain.Sale, error)
	IncrementSold(ctx context.Context, batchID string, qty int) error
}

// HandlePurchase creates a pending sale for a batch, reserving its units.
func HandlePurchase(svc Purchaser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req purchaseRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		sale, err := svc.Purchase(r.Context(), app.PurchaseInput{
			EventID:       req.EventID,
			TicketBatchID: req.TicketBatchID,
			BuyerID:       req.BuyerID,
			Quantity:      req.Quantity,
			UtmCode:       req.UtmCode,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, saleResponseFrom(sale))
	}
}

// HandlePaymentUpdate applies an external payment result to a sale.
func HandlePaymentUpdate(svc Purchaser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentUpdateRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		next := domain.PaymentStatus(req.Status)
		switch next {
		case domain.PaymentPaid, domain.PaymentFailed, domain.PaymentRefunded:
		default:
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid payment status")
			return
		}

		sale, err := svc.UpdatePayment(r.Context(), mux.Vars(r)["id"], next)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, saleResponseFrom(sale))
	}
}

// HandleIncrementSold exposes the bounded capacity increment used by the
// external payment plumbing.
func HandleIncrementSold(svc Purchaser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		if !actor.IsAdmin() {
			writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
			return
		}

		var req incrementSoldRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		if err := svc.IncrementSold(r.Context(), mux.Vars(r)["id"], req.Quantity); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type purchaseRequest struct {
	EventID       string `json:"event_id"`
	TicketBatchID string `json:"ticket_batch_id"`
	BuyerID       string `json:"buyer_id"`
	Quantity      int    `json:"quantity"`
	UtmCode       string `json:"utm_code,omitempty"`
}

type paymentUpdateRequest struct {
	Status string `json:"status"`
}

type incrementSoldRequest struct {
	Quantity int `json:"quantity"`
}

type saleResponse struct {
	ID             string     `json:"id"`
	EventID        string     `json:"event_id"`
	TicketBatchID  string     `json:"ticket_batch_id"`
	BuyerID        string     `json:"buyer_id"`
	Quantity       int        `json:"quantity"`
	UnitPrice      int64      `json:"unit_price_cents"`
	TotalPrice     int64      `json:"total_price_cents"`
	PlatformFee    int64      `json:"platform_fee_cents"`
	GatewayFee     int64      `json:"gateway_fee_cents"`
	ProducerAmount int64      `json:"producer_amount_cents"`
	PaymentStatus  string     `json:"payment_status"`
	QRToken        string     `json:"qr_token"`
	UtmLinkID      *string    `json:"utm_link_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ValidatedAt    *time.Time `json:"validated_at,omitempty"`
}

func saleResponseFrom(sale domain.Sale) saleResponse {
	return saleResponse{
		ID:             sale.ID,
		EventID:        sale.EventID,
		TicketBatchID:  sale.TicketBatchID,
		BuyerID:        sale.BuyerID,
		Quantity:       sale.Quantity,
		UnitPrice:      int64(sale.UnitPrice),
		TotalPrice:     int64(sale.TotalPrice),
		PlatformFee:    int64(sale.PlatformFee),
		GatewayFee:     int64(sale.GatewayFee),
		ProducerAmount: int64(sale.ProducerAmount),
		PaymentStatus:  string(sale.PaymentStatus),
		QRToken:        sale.QRToken,
		UtmLinkID:      sale.UtmLinkID,
		CreatedAt:      sale.CreatedAt,
		ValidatedAt:    sale.ValidatedAt,
	}
}

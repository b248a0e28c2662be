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

type Withdrawer interface {
	AvailableBalance(ctx context.Context, producerID string) (domain.Money, error)
	RequestWithdrawal(ctx context.Context, in app.WithdrawalInput) (domain.WithdrawalRequest, error)
	TransitionWithdrawal(ctx context.Context, id string, next domain.WithdrawalStatus, actor domain.Actor) (domain.WithdrawalRequest, error)
}

// HandleRequestWithdrawal opens a withdrawal request for the calling
// producer. The balance check runs serialized per producer in the service.
func HandleRequestWithdrawal(svc Withdrawer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		if actor.Role != domain.RoleProducer {
			writeError(w, http.StatusForbidden, codeForbidden, "only producers can request withdrawals")
			return
		}

		var req withdrawalRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		result, err := svc.RequestWithdrawal(r.Context(), app.WithdrawalInput{
			ProducerID: actor.ID,
			Amount:     domain.Money(req.AmountCents),
			Document:   req.ProducerDocument,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, withdrawalResponseFrom(result))
	}
}

// HandleBalance reports the producer's available balance.
func HandleBalance(svc Withdrawer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		producerID := mux.Vars(r)["id"]
		if !actor.IsAdmin() && actor.ID != producerID {
			writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
			return
		}

		balance, err := svc.AvailableBalance(r.Context(), producerID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, balanceResponse{ProducerID: producerID, AvailableCents: int64(balance)})
	}
}

// HandleWithdrawalTransition is the admin seam where triage decisions and
// external payout results land.
func HandleWithdrawalTransition(svc Withdrawer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req withdrawalTransitionRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		next := domain.WithdrawalStatus(req.Status)
		switch next {
		case domain.WithdrawalApproved, domain.WithdrawalProcessing, domain.WithdrawalCompleted, domain.WithdrawalRejected, domain.WithdrawalFailed:
		default:
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid withdrawal status")
			return
		}

		result, err := svc.TransitionWithdrawal(r.Context(), mux.Vars(r)["id"], next, actor)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, withdrawalResponseFrom(result))
	}
}

type withdrawalRequest struct {
	AmountCents      int64  `json:"amount_cents"`
	ProducerDocument string `json:"producer_document,omitempty"`
}

type withdrawalTransitionRequest struct {
	Status string `json:"status"`
}

type withdrawalResponse struct {
	ID          string     `json:"id"`
	ProducerID  string     `json:"producer_id"`
	AmountCents int64      `json:"amount_cents"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
}

func withdrawalResponseFrom(req domain.WithdrawalRequest) withdrawalResponse {
	return withdrawalResponse{
		ID:          req.ID,
		ProducerID:  req.ProducerID,
		AmountCents: int64(req.Amount),
		Status:      string(req.Status),
		CreatedAt:   req.CreatedAt,
		ApprovedAt:  req.ApprovedAt,
	}
}

type balanceResponse struct {
	ProducerID     string `json:"producer_id"`
	AvailableCents int64  `json:"available_cents"`
}

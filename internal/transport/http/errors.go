package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nodebridgetech/misterticket-sub000/internal/app"
	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

const (
	codeNotFound              = "not_found"
	codeInvalidRequestBody    = "invalid_request_body"
	codeInvalidID             = "invalid_id"
	codeInvalidQuantity       = "invalid_quantity"
	codeInvalidAmount         = "invalid_amount"
	codeInvalidEventType      = "invalid_event_type"
	codeSoldOut               = "sold_out"
	codeOutOfWindow           = "out_of_window"
	codeTokenNotFound         = "token_not_found"
	codeAlreadyValidated      = "already_validated"
	codeForbidden             = "forbidden"
	codeInsufficientBalance   = "insufficient_balance"
	codeBelowMinimum          = "below_minimum"
	codeMissingPayoutDocument = "missing_payout_document"
	codeInvalidFeeConfig      = "invalid_fee_config"
	codeBatchNotFound         = "batch_not_found"
	codeSaleNotFound          = "sale_not_found"
	codeEventNotFound         = "event_not_found"
	codeProducerNotFound      = "producer_not_found"
	codeUtmLinkNotFound       = "utm_link_not_found"
	codeWithdrawalNotFound    = "withdrawal_not_found"
	codeInvalidTransition     = "invalid_status_transition"
	codeSaleNotPaid           = "sale_not_paid"
	codeDuplicateUtmCode      = "duplicate_utm_code"
	codeInternalError         = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	// Set only for already_validated so the gate can show who admitted the
	// ticket and when.
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
	ValidatedBy string     `json:"validated_by,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")

	body, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeDomainError maps a service error onto a status code and machine code.
func writeDomainError(w http.ResponseWriter, err error) {
	var validated *app.AlreadyValidatedError
	if errors.As(err, &validated) {
		resp := errorResponse{
			Error:       domain.ErrAlreadyValidated.Error(),
			Code:        codeAlreadyValidated,
			ValidatedBy: validated.ValidatedBy,
		}
		if !validated.ValidatedAt.IsZero() {
			at := validated.ValidatedAt
			resp.ValidatedAt = &at
		}
		writeJSON(w, http.StatusConflict, resp)
		return
	}

	status, code := http.StatusInternalServerError, codeInternalError
	switch {
	case errors.Is(err, domain.ErrSoldOut):
		status, code = http.StatusConflict, codeSoldOut
	case errors.Is(err, domain.ErrOutOfWindow):
		status, code = http.StatusUnprocessableEntity, codeOutOfWindow
	case errors.Is(err, domain.ErrTokenNotFound):
		status, code = http.StatusNotFound, codeTokenNotFound
	case errors.Is(err, domain.ErrAlreadyValidated):
		status, code = http.StatusConflict, codeAlreadyValidated
	case errors.Is(err, domain.ErrForbidden):
		status, code = http.StatusForbidden, codeForbidden
	case errors.Is(err, domain.ErrInsufficientBalance):
		status, code = http.StatusConflict, codeInsufficientBalance
	case errors.Is(err, domain.ErrBelowMinimum):
		status, code = http.StatusUnprocessableEntity, codeBelowMinimum
	case errors.Is(err, domain.ErrMissingPayoutDocument):
		status, code = http.StatusUnprocessableEntity, codeMissingPayoutDocument
	case errors.Is(err, domain.ErrInvalidFeeConfig):
		status, code = http.StatusInternalServerError, codeInvalidFeeConfig
	case errors.Is(err, domain.ErrBatchNotFound):
		status, code = http.StatusNotFound, codeBatchNotFound
	case errors.Is(err, domain.ErrSaleNotFound):
		status, code = http.StatusNotFound, codeSaleNotFound
	case errors.Is(err, domain.ErrEventNotFound):
		status, code = http.StatusNotFound, codeEventNotFound
	case errors.Is(err, domain.ErrProducerNotFound):
		status, code = http.StatusNotFound, codeProducerNotFound
	case errors.Is(err, domain.ErrUtmLinkNotFound):
		status, code = http.StatusNotFound, codeUtmLinkNotFound
	case errors.Is(err, domain.ErrWithdrawalNotFound):
		status, code = http.StatusNotFound, codeWithdrawalNotFound
	case errors.Is(err, domain.ErrInvalidQuantity):
		status, code = http.StatusBadRequest, codeInvalidQuantity
	case errors.Is(err, domain.ErrInvalidEventType):
		status, code = http.StatusBadRequest, codeInvalidEventType
	case errors.Is(err, domain.ErrInvalidAmount):
		status, code = http.StatusBadRequest, codeInvalidAmount
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		status, code = http.StatusConflict, codeInvalidTransition
	case errors.Is(err, domain.ErrSaleNotPaid):
		status, code = http.StatusConflict, codeSaleNotPaid
	case errors.Is(err, domain.ErrInvalidID):
		status, code = http.StatusBadRequest, codeInvalidID
	case errors.Is(err, domain.ErrDuplicateUtmCode):
		status, code = http.StatusConflict, codeDuplicateUtmCode
	}

	msg := err.Error()
	if status == http.StatusInternalServerError && code == codeInternalError {
		msg = "internal error"
	}
	writeError(w, status, code, msg)
}

package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nodebridgetech/misterticket-sub000/internal/app"
	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

type Redeemer interface {
	Validate(ctx context.Context, token string, actor domain.Actor) (app.Admission, error)
}

const maxRedeemBody = 4 << 10

// HandleRedeem admits the ticket behind a QR token exactly once. For
// backward compatibility with older scanner builds the body is either the
// raw token string or a {"token": "..."} envelope.
func HandleRedeem(svc Redeemer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxRedeemBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		token := parseRedeemToken(body)
		if token == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "missing token")
			return
		}

		admission, err := svc.Validate(r.Context(), token, actor)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, admissionResponse{
			SaleID:      admission.Sale.ID,
			BuyerID:     admission.Sale.BuyerID,
			Quantity:    admission.Sale.Quantity,
			BatchName:   admission.BatchName,
			EventName:   admission.EventName,
			ValidatedAt: admission.Sale.ValidatedAt,
			ValidatedBy: admission.Sale.ValidatedBy,
		})
	}
}

func parseRedeemToken(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "{") {
		var envelope struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return ""
		}
		return strings.TrimSpace(envelope.Token)
	}
	// Raw string bodies may arrive JSON-quoted.
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(body, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}
	return trimmed
}

type admissionResponse struct {
	SaleID      string     `json:"sale_id"`
	BuyerID     string     `json:"buyer_id"`
	Quantity    int        `json:"quantity"`
	BatchName   string     `json:"batch_name"`
	EventName   string     `json:"event_name"`
	ValidatedAt *time.Time `json:"validated_at"`
	ValidatedBy *string    `json:"validated_by"`
}

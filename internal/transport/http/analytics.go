package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nodebridgetech/misterticket-sub000/internal/app"
	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

type Attributor interface {
	RecordEvent(ctx context.Context, in app.RecordEventInput) (domain.AnalyticsEvent, error)
	ResolveCode(ctx context.Context, code string) (domain.UtmLink, error)
	AttributedCommission(ctx context.Context, utmLinkID string, actor domain.Actor) (domain.Money, error)
}

// HandleRecordEvent appends one analytics fact row.
func HandleRecordEvent(svc Attributor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		ev, err := svc.RecordEvent(r.Context(), app.RecordEventInput{
			EventID:       req.EventID,
			EventType:     domain.AnalyticsEventType(req.EventType),
			TicketBatchID: req.TicketBatchID,
			UtmLinkID:     req.UtmLinkID,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, recordEventResponse{ID: ev.ID})
	}
}

// HandleResolveUtm resolves the referral query parameter code appended to
// browse URLs, so checkout can thread the link through to the sale.
func HandleResolveUtm(svc Attributor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link, err := svc.ResolveCode(r.Context(), mux.Vars(r)["code"])
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, utmLinkResponse{
			ID:                link.ID,
			UtmCode:           link.UtmCode,
			AppliesToAllEvent: link.AppliesToAllEvent,
			CommissionType:    string(link.CommissionType),
			CommissionValue:   link.CommissionValue.String(),
			EventIDs:          link.EventIDs,
		})
	}
}

// HandleCommission reports the commission attributed to a UTM link.
func HandleCommission(svc Attributor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		commission, err := svc.AttributedCommission(r.Context(), mux.Vars(r)["id"], actor)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, commissionResponse{
			UtmLinkID:       mux.Vars(r)["id"],
			CommissionCents: int64(commission),
		})
	}
}

type recordEventRequest struct {
	EventID       string  `json:"event_id"`
	EventType     string  `json:"event_type"`
	TicketBatchID *string `json:"ticket_batch_id,omitempty"`
	UtmLinkID     *string `json:"utm_link_id,omitempty"`
}

type recordEventResponse struct {
	ID string `json:"id"`
}

type utmLinkResponse struct {
	ID                string   `json:"id"`
	UtmCode           string   `json:"utm_code"`
	AppliesToAllEvent bool     `json:"applies_to_all_events"`
	CommissionType    string   `json:"commission_type"`
	CommissionValue   string   `json:"commission_value"`
	EventIDs          []string `json:"event_ids,omitempty"`
}

type commissionResponse struct {
	UtmLinkID       string `json:"utm_link_id"`
	CommissionCents int64  `json:"commission_cents"`
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/nodebridgetech/misterticket-sub000/internal/app"
	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

type Administrator interface {
	CreateProducer(ctx context.Context, in app.CreateProducerInput, actor domain.Actor) (domain.Producer, error)
	CreateEvent(ctx context.Context, in app.CreateEventInput, actor domain.Actor) (domain.Event, error)
	CreateBatch(ctx context.Context, in app.CreateBatchInput, actor domain.Actor) (domain.TicketBatch, error)
	ListBatches(ctx context.Context, eventID string) ([]domain.TicketBatch, error)
	UpdateBatch(ctx context.Context, in app.UpdateBatchInput, actor domain.Actor) error
	CreateUtmLink(ctx context.Context, in app.CreateUtmLinkInput, actor domain.Actor) (domain.UtmLink, error)
	SetFeeConfig(ctx context.Context, in app.SetFeeConfigInput, actor domain.Actor) (domain.FeeConfig, error)
}

func HandleCreateProducer(svc Administrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req createProducerRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		p, err := svc.CreateProducer(r.Context(), app.CreateProducerInput{Name: req.Name, Document: req.Document}, actor)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, producerResponse{ID: p.ID, Name: p.Name, Document: p.Document})
	}
}

func HandleCreateEvent(svc Administrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req createEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		e, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
			ProducerID: req.ProducerID,
			Name:       req.Name,
			StartsAt:   req.StartsAt,
		}, actor)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, eventResponse{ID: e.ID, ProducerID: e.ProducerID, Name: e.Name, StartsAt: e.StartsAt})
	}
}

func HandleCreateBatch(svc Administrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req createBatchRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		b, err := svc.CreateBatch(r.Context(), app.CreateBatchInput{
			EventID:       mux.Vars(r)["id"],
			Sector:        req.Sector,
			Name:          req.Name,
			Price:         domain.Money(req.PriceCents),
			QuantityTotal: req.QuantityTotal,
			SaleStart:     req.SaleStart,
			SaleEnd:       req.SaleEnd,
			Position:      req.Position,
		}, actor)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, batchResponseFrom(b))
	}
}

func HandleListBatches(svc Administrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batches, err := svc.ListBatches(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]batchResponse, 0, len(batches))
		for _, b := range batches {
			out = append(out, batchResponseFrom(b))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func HandleUpdateBatch(svc Administrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req updateBatchRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		vars := mux.Vars(r)
		err := svc.UpdateBatch(r.Context(), app.UpdateBatchInput{
			EventID:   vars["id"],
			BatchID:   vars["batchID"],
			Name:      req.Name,
			SaleStart: req.SaleStart,
			SaleEnd:   req.SaleEnd,
		}, actor)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func HandleCreateUtmLink(svc Administrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req createUtmLinkRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		commissionValue, err := decimal.NewFromString(req.CommissionValue)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidAmount, "invalid commission value")
			return
		}

		link, err := svc.CreateUtmLink(r.Context(), app.CreateUtmLinkInput{
			ProducerID:        req.ProducerID,
			UtmCode:           req.UtmCode,
			AppliesToAllEvent: req.AppliesToAllEvents,
			CommissionType:    domain.CommissionType(req.CommissionType),
			CommissionValue:   commissionValue,
			EventIDs:          req.EventIDs,
		}, actor)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, utmLinkResponse{
			ID:                link.ID,
			UtmCode:           link.UtmCode,
			AppliesToAllEvent: link.AppliesToAllEvent,
			CommissionType:    string(link.CommissionType),
			CommissionValue:   link.CommissionValue.String(),
			EventIDs:          link.EventIDs,
		})
	}
}

func HandleSetFeeConfig(svc Administrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}

		var req setFeeConfigRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		platform, err := decimal.NewFromString(req.PlatformFeePercentage)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidAmount, "invalid platform fee percentage")
			return
		}
		gateway, err := decimal.NewFromString(req.GatewayFeePercentage)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidAmount, "invalid gateway fee percentage")
			return
		}

		cfg, err := svc.SetFeeConfig(r.Context(), app.SetFeeConfigInput{
			PlatformFeePercent:  platform,
			GatewayFeePercent:   gateway,
			MinWithdrawalAmount: domain.Money(req.MinWithdrawalCents),
		}, actor)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, feeConfigResponse{
			ID:                    cfg.ID,
			PlatformFeePercentage: cfg.PlatformFeePercent.String(),
			GatewayFeePercentage:  cfg.GatewayFeePercent.String(),
			MinWithdrawalCents:    int64(cfg.MinWithdrawalAmount),
		})
	}
}

type createProducerRequest struct {
	Name     string  `json:"name"`
	Document *string `json:"document,omitempty"`
}

type producerResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Document *string `json:"document,omitempty"`
}

type createEventRequest struct {
	ProducerID string    `json:"producer_id"`
	Name       string    `json:"name"`
	StartsAt   time.Time `json:"starts_at"`
}

type eventResponse struct {
	ID         string    `json:"id"`
	ProducerID string    `json:"producer_id"`
	Name       string    `json:"name"`
	StartsAt   time.Time `json:"starts_at"`
}

type createBatchRequest struct {
	Sector        *string    `json:"sector,omitempty"`
	Name          string     `json:"name"`
	PriceCents    int64      `json:"price_cents"`
	QuantityTotal int        `json:"quantity_total"`
	SaleStart     *time.Time `json:"sale_start,omitempty"`
	SaleEnd       *time.Time `json:"sale_end,omitempty"`
	Position      int        `json:"position"`
}

type updateBatchRequest struct {
	Name      string     `json:"name"`
	SaleStart *time.Time `json:"sale_start,omitempty"`
	SaleEnd   *time.Time `json:"sale_end,omitempty"`
}

type batchResponse struct {
	ID            string     `json:"id"`
	EventID       string     `json:"event_id"`
	Sector        *string    `json:"sector,omitempty"`
	Name          string     `json:"name"`
	PriceCents    int64      `json:"price_cents"`
	QuantityTotal int        `json:"quantity_total"`
	QuantitySold  int        `json:"quantity_sold"`
	SaleStart     *time.Time `json:"sale_start,omitempty"`
	SaleEnd       *time.Time `json:"sale_end,omitempty"`
	Position      int        `json:"position"`
}

func batchResponseFrom(b domain.TicketBatch) batchResponse {
	return batchResponse{
		ID:            b.ID,
		EventID:       b.EventID,
		Sector:        b.Sector,
		Name:          b.Name,
		PriceCents:    int64(b.Price),
		QuantityTotal: b.QuantityTotal,
		QuantitySold:  b.QuantitySold,
		SaleStart:     b.SaleStart,
		SaleEnd:       b.SaleEnd,
		Position:      b.Position,
	}
}

type createUtmLinkRequest struct {
	ProducerID         string   `json:"producer_id"`
	UtmCode            string   `json:"utm_code"`
	AppliesToAllEvents bool     `json:"applies_to_all_events"`
	CommissionType     string   `json:"commission_type"`
	CommissionValue    string   `json:"commission_value"`
	EventIDs           []string `json:"event_ids,omitempty"`
}

type setFeeConfigRequest struct {
	PlatformFeePercentage string `json:"platform_fee_percentage"`
	GatewayFeePercentage  string `json:"gateway_fee_percentage"`
	MinWithdrawalCents    int64  `json:"min_withdrawal_cents"`
}

type feeConfigResponse struct {
	ID                    string `json:"id"`
	PlatformFeePercentage string `json:"platform_fee_percentage"`
	GatewayFeePercentage  string `json:"gateway_fee_percentage"`
	MinWithdrawalCents    int64  `json:"min_withdrawal_cents"`
}

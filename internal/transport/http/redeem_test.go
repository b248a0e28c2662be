package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nodebridgetech/misterticket-sub000/internal/app"
	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

func TestParseRedeemToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "raw token", body: "abc123", want: "abc123"},
		{name: "raw token with whitespace", body: "  abc123\n", want: "abc123"},
		{name: "json quoted", body: `"abc123"`, want: "abc123"},
		{name: "envelope", body: `{"token":"abc123"}`, want: "abc123"},
		{name: "envelope with spaces", body: `{"token":" abc123 "}`, want: "abc123"},
		{name: "empty body", body: "", want: ""},
		{name: "empty envelope", body: `{}`, want: ""},
		{name: "broken json object", body: `{"token":`, want: ""},
		{name: "broken quoted string", body: `"abc`, want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := parseRedeemToken([]byte(tt.body)); got != tt.want {
				t.Fatalf("parseRedeemToken(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestHandleRedeem(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	by := "producer-1"
	admission := app.Admission{
		Sale: domain.Sale{
			ID:          "sale-1",
			BuyerID:     "buyer-1",
			Quantity:    2,
			ValidatedAt: &now,
			ValidatedBy: &by,
		},
		BatchName: "Lote 1",
		EventName: "Festival",
	}

	post := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/redemptions", strings.NewReader(body))
		return asProducer(req, "producer-1")
	}

	t.Run("admits a valid token", func(t *testing.T) {
		svc := &stubRedeemer{admission: admission}
		rec := httptest.NewRecorder()
		HandleRedeem(svc).ServeHTTP(rec, post(`{"token":"tok-1"}`))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.gotToken != "tok-1" {
			t.Fatalf("expected token forwarded, got %q", svc.gotToken)
		}
		if svc.gotActor.ID != "producer-1" || svc.gotActor.Role != domain.RoleProducer {
			t.Fatalf("expected actor from headers, got %+v", svc.gotActor)
		}
		body := rec.Body.String()
		for _, substr := range []string{`"sale_id":"sale-1"`, `"batch_name":"Lote 1"`, `"event_name":"Festival"`} {
			if !strings.Contains(body, substr) {
				t.Fatalf("expected response to contain %q, got %q", substr, body)
			}
		}
	})

	t.Run("missing actor headers", func(t *testing.T) {
		svc := &stubRedeemer{admission: admission}
		req := httptest.NewRequest(http.MethodPost, "/redemptions", strings.NewReader(`{"token":"tok-1"}`))
		rec := httptest.NewRecorder()
		HandleRedeem(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		svc := &stubRedeemer{admission: admission}
		rec := httptest.NewRecorder()
		HandleRedeem(svc).ServeHTTP(rec, post(``))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("already validated carries the original validation", func(t *testing.T) {
		svc := &stubRedeemer{err: &app.AlreadyValidatedError{ValidatedAt: now, ValidatedBy: "gate-1"}}
		rec := httptest.NewRecorder()
		HandleRedeem(svc).ServeHTTP(rec, post(`{"token":"tok-1"}`))

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `"code":"already_validated"`) {
			t.Fatalf("expected already_validated code, got %q", body)
		}
		if !strings.Contains(body, `"validated_by":"gate-1"`) {
			t.Fatalf("expected validator in payload, got %q", body)
		}
	})

	t.Run("domain errors map to statuses", func(t *testing.T) {
		cases := []struct {
			err    error
			status int
		}{
			{domain.ErrTokenNotFound, http.StatusNotFound},
			{domain.ErrSaleNotPaid, http.StatusConflict},
			{domain.ErrForbidden, http.StatusForbidden},
		}
		for _, tc := range cases {
			svc := &stubRedeemer{err: tc.err}
			rec := httptest.NewRecorder()
			HandleRedeem(svc).ServeHTTP(rec, post(`{"token":"tok-1"}`))
			if rec.Code != tc.status {
				t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, rec.Code)
			}
		}
	})
}

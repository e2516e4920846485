package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/sitebeam/construction-system/internal/core/domain"
	"github.com/sitebeam/construction-system/internal/core/ports"
)

type stubPaymentService struct {
	createFn    func(ctx context.Context, actor *domain.Principal, in ports.CreatePaymentInput) (*domain.Payment, error)
	setStatusFn func(ctx context.Context, actor *domain.Principal, id string, status domain.PaymentStatus) (*domain.Payment, error)
	remindFn    func(ctx context.Context, actor *domain.Principal, id string) (*ports.RemindResult, error)
}

func (s *stubPaymentService) CreatePayment(ctx context.Context, actor *domain.Principal, in ports.CreatePaymentInput) (*domain.Payment, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubPaymentService) GetPayment(context.Context, *domain.Principal, string) (*domain.Payment, error) {
	return nil, domain.ErrPaymentNotFound
}

func (s *stubPaymentService) ListPayments(context.Context, *domain.Principal, string) ([]*domain.Payment, error) {
	return nil, nil
}

func (s *stubPaymentService) MarkPaid(context.Context, *domain.Principal, string) (*domain.Payment, error) {
	return nil, domain.ErrPaymentNotFound
}

func (s *stubPaymentService) SetStatus(ctx context.Context, actor *domain.Principal, id string, status domain.PaymentStatus) (*domain.Payment, error) {
	return s.setStatusFn(ctx, actor, id, status)
}

func (s *stubPaymentService) Remind(ctx context.Context, actor *domain.Principal, id string) (*ports.RemindResult, error) {
	return s.remindFn(ctx, actor, id)
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("principal", &domain.Principal{ID: "u1", CompanyName: "acme", Role: domain.RoleAdmin})
	c.Set("role", "admin")
	return c
}

func TestPaymentHandler_Create_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	stub := &stubPaymentService{
		createFn: func(_ context.Context, _ *domain.Principal, in ports.CreatePaymentInput) (*domain.Payment, error) {
			if in.SiteID != "s1" || in.Title != "Foundation" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if !in.Amount.Equal(decimal.RequireFromString("250000.50")) {
				t.Fatalf("amount parsed wrong: %s", in.Amount)
			}
			return &domain.Payment{
				ID: "p1", SiteID: in.SiteID, CompanyName: "acme", Title: in.Title,
				Amount: in.Amount, DueDate: in.DueDate, Status: domain.PaymentDue,
				CreatedAt: time.Now().UTC(),
			}, nil
		},
	}
	h := NewPaymentHandler(stub)

	body := strings.NewReader(`{"title":"Foundation","amount":"250000.50","due_date":"2026-10-01"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/sites/s1/payments", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues("s1")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["amount"] != "250000.50" {
		t.Errorf("amount must round-trip as a decimal string, got %v", resp["amount"])
	}
	if resp["due_date"] != "2026-10-01" {
		t.Errorf("due_date = %v", resp["due_date"])
	}
}

func TestPaymentHandler_Create_BadAmount(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	h := NewPaymentHandler(&stubPaymentService{
		createFn: func(context.Context, *domain.Principal, ports.CreatePaymentInput) (*domain.Payment, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	})

	body := strings.NewReader(`{"title":"X","amount":"not-a-number","due_date":"2026-10-01"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/sites/s1/payments", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues("s1")

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestPaymentHandler_SetStatus_RejectsUnknownValue(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	h := NewPaymentHandler(&stubPaymentService{
		setStatusFn: func(context.Context, *domain.Principal, string, domain.PaymentStatus) (*domain.Payment, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	})

	body := strings.NewReader(`{"status":"cancelled"}`)
	req := httptest.NewRequest(http.MethodPatch, "/v1/payments/p1/status", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	err := h.SetStatus(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestPaymentHandler_Remind_ReportsCounts(t *testing.T) {
	e := echo.New()

	h := NewPaymentHandler(&stubPaymentService{
		remindFn: func(_ context.Context, _ *domain.Principal, id string) (*ports.RemindResult, error) {
			if id != "p1" {
				t.Fatalf("unexpected id %q", id)
			}
			return &ports.RemindResult{Reminded: 2, Total: 3}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/p1/remind", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := h.Remind(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["reminded"] != float64(2) || resp["total"] != float64(3) {
		t.Errorf("unexpected counts: %v", resp)
	}
}

func TestPaymentHandler_MissingPrincipal(t *testing.T) {
	e := echo.New()
	h := NewPaymentHandler(&stubPaymentService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/payments/p1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %v", err)
	}
}

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/sitebeam/construction-system/internal/core/domain"
	"github.com/sitebeam/construction-system/internal/core/ports"
)

// PaymentHandler handles HTTP requests for payment operations.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Create handles POST /v1/sites/:id/payments.
//
// @Summary      Record a payment milestone on a site
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Site id"
// @Param        body  body      createPaymentRequest  true  "Payment details"
// @Success      201   {object}  paymentResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/sites/{id}/payments [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be a decimal number")
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "due_date must be YYYY-MM-DD")
	}

	p, err := h.service.CreatePayment(c.Request().Context(), actor, ports.CreatePaymentInput{
		SiteID:  c.Param("id"),
		Title:   req.Title,
		Amount:  amount,
		Mode:    req.Mode,
		DueDate: dueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPaymentResponse(p))
}

// List handles GET /v1/sites/:id/payments. Every row's status is reconciled
// before the response is assembled.
//
// @Summary      List a site's payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Site id"
// @Success      200 {object}  listPaymentsResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/sites/{id}/payments [get]
func (h *PaymentHandler) List(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	payments, err := h.service.ListPayments(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	items := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, toPaymentResponse(p))
	}
	return c.JSON(http.StatusOK, listPaymentsResponse{Data: items})
}

// Get handles GET /v1/payments/:id.
//
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Payment id"
// @Success      200 {object}  paymentResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/payments/{id} [get]
func (h *PaymentHandler) Get(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	p, err := h.service.GetPayment(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// MarkPaid handles PATCH /v1/payments/:id/paid. Admin only; idempotent.
//
// @Summary      Mark a payment paid
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Payment id"
// @Success      200 {object}  paymentResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/payments/{id}/paid [patch]
func (h *PaymentHandler) MarkPaid(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	p, err := h.service.MarkPaid(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// SetStatus handles PATCH /v1/payments/:id/status, the admin override.
//
// @Summary      Force-set a payment status
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Payment id"
// @Param        body  body      setPaymentStatusRequest true  "New status"
// @Success      200   {object}  paymentResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/payments/{id}/status [patch]
func (h *PaymentHandler) SetStatus(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req setPaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	p, err := h.service.SetStatus(c.Request().Context(), actor, c.Param("id"), domain.PaymentStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// Remind handles POST /v1/payments/:id/remind.
//
// @Summary      Send payment reminders to granted clients
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Payment id"
// @Success      200 {object}  remindResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/payments/{id}/remind [post]
func (h *PaymentHandler) Remind(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	res, err := h.service.Remind(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, remindResponse{Reminded: res.Reminded, Total: res.Total})
}

package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/sitebeam/construction-system/internal/core/domain"
	"github.com/sitebeam/construction-system/internal/core/ports"
)

// ExpenseHandler handles HTTP requests for expense operations. Create and
// AttachInvoice accept multipart forms so an invoice file can ride along.
type ExpenseHandler struct {
	service ports.ExpenseService
}

func NewExpenseHandler(service ports.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// Create handles POST /v1/sites/:id/expenses (multipart/form-data).
//
// @Summary      Record an expense on a site
// @Tags         expenses
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true   "Site id"
// @Param        description  formData  string  true   "Description"
// @Param        amount       formData  string  true   "Amount (decimal)"
// @Param        date         formData  string  true   "Date (YYYY-MM-DD)"
// @Param        invoice      formData  file    false  "Invoice file"
// @Success      201          {object}  expenseResponse
// @Failure      400          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Router       /v1/sites/{id}/expenses [post]
func (h *ExpenseHandler) Create(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	description := c.FormValue("description")
	if description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "description is required")
	}
	amount, err := decimal.NewFromString(c.FormValue("amount"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be a decimal number")
	}
	date, err := time.Parse("2006-01-02", c.FormValue("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	in := ports.CreateExpenseInput{
		SiteID:      c.Param("id"),
		Description: description,
		Amount:      amount,
		Date:        date,
	}

	if fh, err := c.FormFile("invoice"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "cannot read invoice file")
		}
		defer f.Close()
		in.Invoice = &ports.UploadInput{Filename: fh.Filename, Content: f}
	}

	e, err := h.service.CreateExpense(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toExpenseResponse(e))
}

// List handles GET /v1/sites/:id/expenses.
//
// @Summary      List a site's expenses
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Site id"
// @Success      200 {object}  listExpensesResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/sites/{id}/expenses [get]
func (h *ExpenseHandler) List(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	expenses, err := h.service.ListExpenses(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	items := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		items = append(items, toExpenseResponse(e))
	}
	return c.JSON(http.StatusOK, listExpensesResponse{Data: items})
}

// Get handles GET /v1/expenses/:id.
//
// @Summary      Get an expense
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Expense id"
// @Success      200 {object}  expenseResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	e, err := h.service.GetExpense(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toExpenseResponse(e))
}

// SetStatus handles PATCH /v1/expenses/:id/status. Admin only.
//
// @Summary      Set an expense's approval status
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Expense id"
// @Param        body  body      setExpenseStatusRequest  true  "New status"
// @Success      200   {object}  expenseResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/expenses/{id}/status [patch]
func (h *ExpenseHandler) SetStatus(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req setExpenseStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	e, err := h.service.SetStatus(c.Request().Context(), actor, c.Param("id"), domain.ExpenseStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toExpenseResponse(e))
}

// SetPaymentStatus handles PATCH /v1/expenses/:id/payment-status. Admin only.
//
// @Summary      Set an expense's payment status
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                          true  "Expense id"
// @Param        body  body      setExpensePaymentStatusRequest  true  "New payment status"
// @Success      200   {object}  expenseResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/expenses/{id}/payment-status [patch]
func (h *ExpenseHandler) SetPaymentStatus(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req setExpensePaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	e, err := h.service.SetPaymentStatus(c.Request().Context(), actor, c.Param("id"), domain.ExpensePaymentStatus(req.PaymentStatus))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toExpenseResponse(e))
}

// AttachInvoice handles POST /v1/expenses/:id/invoice (multipart/form-data).
//
// @Summary      Attach an invoice file to an expense
// @Tags         expenses
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Expense id"
// @Param        invoice  formData  file    true  "Invoice file"
// @Success      200      {object}  expenseResponse
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/expenses/{id}/invoice [post]
func (h *ExpenseHandler) AttachInvoice(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("invoice")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invoice file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read invoice file")
	}
	defer f.Close()

	e, err := h.service.AttachInvoice(c.Request().Context(), actor, c.Param("id"),
		ports.UploadInput{Filename: fh.Filename, Content: f})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toExpenseResponse(e))
}

// DownloadInvoice handles GET /v1/expenses/:id/invoice. Client principals get
// the attachment only for approved expenses.
//
// @Summary      Download an expense's invoice
// @Tags         expenses
// @Produce      application/octet-stream
// @Security     BearerAuth
// @Param        id  path  string  true  "Expense id"
// @Success      200 {file} binary
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/expenses/{id}/invoice [get]
func (h *ExpenseHandler) DownloadInvoice(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	rc, ref, err := h.service.DownloadInvoice(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+ref.Filename+`"`)
	c.Response().Header().Set(echo.HeaderContentType, "application/octet-stream")
	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response(), rc)
	return err
}

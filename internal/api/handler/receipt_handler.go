package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// ReceiptRenderer is the slice of the receipt service the handler needs.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, actor *domain.Principal, paymentID string) ([]byte, string, error)
}

// ReceiptHandler serves payment receipts as PDF downloads.
type ReceiptHandler struct {
	renderer ReceiptRenderer
}

func NewReceiptHandler(renderer ReceiptRenderer) *ReceiptHandler {
	return &ReceiptHandler{renderer: renderer}
}

// Download handles GET /v1/payments/:id/receipt.
//
// @Summary      Download a payment receipt (PDF)
// @Tags         payments
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  string  true  "Payment id"
// @Success      200 {file} binary
// @Failure      404 {object}  errorResponse
// @Router       /v1/payments/{id}/receipt [get]
func (h *ReceiptHandler) Download(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	pdf, filename, err := h.renderer.RenderReceipt(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

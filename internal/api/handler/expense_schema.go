package handler

import (
	"time"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

type setExpenseStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

type setExpensePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=paid unpaid"`
}

type invoiceRefResponse struct {
	Filename string `json:"filename"`
}

type expenseResponse struct {
	ID            string              `json:"id"`
	SiteID        string              `json:"site_id"`
	CompanyName   string              `json:"company_name"`
	CreatedBy     string              `json:"created_by"`
	Description   string              `json:"description"`
	Amount        string              `json:"amount"`
	Date          string              `json:"date"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	PaidDate      *time.Time          `json:"paid_date,omitempty"`
	Invoice       *invoiceRefResponse `json:"invoice,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

type listExpensesResponse struct {
	Data []expenseResponse `json:"data"`
}

func toExpenseResponse(e *domain.Expense) expenseResponse {
	resp := expenseResponse{
		ID:            e.ID,
		SiteID:        e.SiteID,
		CompanyName:   e.CompanyName,
		CreatedBy:     e.CreatedBy,
		Description:   e.Description,
		Amount:        e.Amount.StringFixed(2),
		Date:          e.Date.UTC().Format("2006-01-02"),
		Status:        string(e.Status),
		PaymentStatus: string(e.PaymentStatus),
		PaidDate:      e.PaidDate,
		CreatedAt:     e.CreatedAt,
	}
	if e.Invoice != nil {
		resp.Invoice = &invoiceRefResponse{Filename: e.Invoice.Filename}
	}
	return resp
}

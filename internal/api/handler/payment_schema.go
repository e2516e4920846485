package handler

import (
	"time"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

type createPaymentRequest struct {
	Title   string `json:"title"    validate:"required"`
	Amount  string `json:"amount"   validate:"required"`
	Mode    string `json:"mode"`
	DueDate string `json:"due_date" validate:"required"`
}

type setPaymentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=due overdue paid"`
}

type paymentResponse struct {
	ID          string     `json:"id"`
	SiteID      string     `json:"site_id"`
	CompanyName string     `json:"company_name"`
	CreatedBy   string     `json:"created_by"`
	Title       string     `json:"title"`
	Amount      string     `json:"amount"`
	Mode        string     `json:"mode,omitempty"`
	DueDate     string     `json:"due_date"`
	Status      string     `json:"status"`
	PaidDate    *time.Time `json:"paid_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type listPaymentsResponse struct {
	Data []paymentResponse `json:"data"`
}

type remindResponse struct {
	Reminded int `json:"reminded"`
	Total    int `json:"total"`
}

func toPaymentResponse(p *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:          p.ID,
		SiteID:      p.SiteID,
		CompanyName: p.CompanyName,
		CreatedBy:   p.CreatedBy,
		Title:       p.Title,
		Amount:      p.Amount.StringFixed(2),
		Mode:        p.Mode,
		DueDate:     p.DueDate.UTC().Format("2006-01-02"),
		Status:      string(p.Status),
		PaidDate:    p.PaidDate,
		CreatedAt:   p.CreatedAt,
	}
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentDue     PaymentStatus = "due"
	PaymentOverdue PaymentStatus = "overdue"
	PaymentPaid    PaymentStatus = "paid"
)

// ParsePaymentStatus validates a raw status string from the boundary.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentDue, PaymentOverdue, PaymentPaid:
		return PaymentStatus(s), nil
	}
	return "", ErrInvalidTransition
}

// FileRef points at an attached document in the blob store.
type FileRef struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
}

// Payment is a receivable milestone on a site.
//
// CompanyName is denormalized from the owning site for fast tenant filtering
// and must never diverge from it; the write path asserts equality at
// creation. PaidDate is set iff Status == paid. StatusManual marks a payment
// whose status was force-set by an admin; reconciliation leaves such rows
// alone unless the service is configured to re-derive overrides.
type Payment struct {
	ID           string          `json:"id"`
	SiteID       string          `json:"site_id"`
	CompanyName  string          `json:"company_name"`
	CreatedBy    string          `json:"created_by"`
	Title        string          `json:"title"`
	Amount       decimal.Decimal `json:"amount"`
	Mode         string          `json:"mode,omitempty"`
	DueDate      time.Time       `json:"due_date"`
	Status       PaymentStatus   `json:"status"`
	StatusManual bool            `json:"status_manual,omitempty"`
	PaidDate     *time.Time      `json:"paid_date,omitempty"`
	Invoice      *FileRef        `json:"invoice,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// truncateToDay drops the time-of-day component in UTC so that overdue
// derivation is stable across timezones and times of day.
func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DerivedStatus computes the status the payment should carry at the given
// instant. Paid is sticky and never auto-reverts; otherwise the due date,
// truncated to day, is compared against "today". Idempotent: applying it
// twice without field changes yields the same value.
func (p *Payment) DerivedStatus(now time.Time) PaymentStatus {
	if p.Status == PaymentPaid {
		return PaymentPaid
	}
	if truncateToDay(p.DueDate).Before(truncateToDay(now)) {
		return PaymentOverdue
	}
	return PaymentDue
}

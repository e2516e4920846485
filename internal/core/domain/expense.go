package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus is the approval dimension of an expense.
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
	ExpenseRejected ExpenseStatus = "rejected"
)

// ParseExpenseStatus validates a raw approval status string.
func ParseExpenseStatus(s string) (ExpenseStatus, error) {
	switch ExpenseStatus(s) {
	case ExpensePending, ExpenseApproved, ExpenseRejected:
		return ExpenseStatus(s), nil
	}
	return "", ErrInvalidTransition
}

// ExpensePaymentStatus is the settlement dimension, independent of approval.
type ExpensePaymentStatus string

const (
	ExpenseUnpaid ExpensePaymentStatus = "unpaid"
	ExpensePaid   ExpensePaymentStatus = "paid"
)

// ParseExpensePaymentStatus validates a raw payment status string.
func ParseExpensePaymentStatus(s string) (ExpensePaymentStatus, error) {
	switch ExpensePaymentStatus(s) {
	case ExpenseUnpaid, ExpensePaid:
		return ExpensePaymentStatus(s), nil
	}
	return "", ErrInvalidTransition
}

// Expense is a payable cost recorded against a site. Approval status and
// payment status move independently. PaidDate is set iff PaymentStatus ==
// paid. CompanyName carries the same denormalization invariant as Payment.
type Expense struct {
	ID            string               `json:"id"`
	SiteID        string               `json:"site_id"`
	CompanyName   string               `json:"company_name"`
	CreatedBy     string               `json:"created_by"`
	Description   string               `json:"description"`
	Amount        decimal.Decimal      `json:"amount"`
	Date          time.Time            `json:"date"`
	Status        ExpenseStatus        `json:"status"`
	PaymentStatus ExpensePaymentStatus `json:"payment_status"`
	PaidDate      *time.Time           `json:"paid_date,omitempty"`
	Invoice       *FileRef             `json:"invoice,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// InitialExpenseStatus applies the auto-approval rule: expenses created by an
// admin are born approved, everyone else's start pending.
func InitialExpenseStatus(creator Role) ExpenseStatus {
	if creator == RoleAdmin {
		return ExpenseApproved
	}
	return ExpensePending
}

// CanDownloadInvoice gates attachment retrieval. Client principals may fetch
// the invoice only once the expense is approved and an attachment exists;
// staff roles only need the tenant to match.
func (e *Expense) CanDownloadInvoice(p *Principal) error {
	if e.Invoice == nil {
		return ErrNoAttachment
	}
	if p.Role == RoleClient {
		if e.Status != ExpenseApproved {
			return ErrForbidden
		}
		return nil
	}
	if e.CompanyName != p.CompanyName {
		return ErrSiteAccessDenied
	}
	return nil
}

package ports

import (
	"context"
	"time"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// ExpenseRepository defines persistence for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, e *domain.Expense) (*domain.Expense, error)
	FindByID(ctx context.Context, id string) (*domain.Expense, error)
	ListBySite(ctx context.Context, siteID string) ([]*domain.Expense, error)

	// SetStatus force-sets the approval status.
	SetStatus(ctx context.Context, id string, status domain.ExpenseStatus) (*domain.Expense, error)

	// SetPaymentStatus sets the settlement axis, stamping paidDate when paid
	// and clearing it when unpaid.
	SetPaymentStatus(ctx context.Context, id string, status domain.ExpensePaymentStatus, paidAt *time.Time) (*domain.Expense, error)

	// AttachInvoice stores the file reference on the expense.
	AttachInvoice(ctx context.Context, id string, ref domain.FileRef) (*domain.Expense, error)
}

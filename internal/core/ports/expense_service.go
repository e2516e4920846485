package ports

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// CreateExpenseInput carries the data needed to record an expense. Invoice is
// an optional attachment uploaded at creation time.
type CreateExpenseInput struct {
	SiteID      string
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Invoice     *UploadInput
}

// UploadInput is an opaque file handed to the blob store.
type UploadInput struct {
	Filename string
	Content  io.Reader
}

// ExpenseService defines use-case operations for expenses.
type ExpenseService interface {
	CreateExpense(ctx context.Context, actor *domain.Principal, in CreateExpenseInput) (*domain.Expense, error)
	GetExpense(ctx context.Context, actor *domain.Principal, id string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, actor *domain.Principal, siteID string) ([]*domain.Expense, error)
	// SetStatus is the admin-only explicit approval-status set.
	SetStatus(ctx context.Context, actor *domain.Principal, id string, status domain.ExpenseStatus) (*domain.Expense, error)
	// SetPaymentStatus is the admin-only settlement toggle.
	SetPaymentStatus(ctx context.Context, actor *domain.Principal, id string, status domain.ExpensePaymentStatus) (*domain.Expense, error)
	// AttachInvoice stores the blob and records the reference; it changes
	// neither approval nor payment state.
	AttachInvoice(ctx context.Context, actor *domain.Principal, id string, upload UploadInput) (*domain.Expense, error)
	// DownloadInvoice applies the role-dependent gating before returning the
	// attachment stream.
	DownloadInvoice(ctx context.Context, actor *domain.Principal, id string) (io.ReadCloser, *domain.FileRef, error)
}

package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// CreatePaymentInput carries the data needed to record a payment milestone.
type CreatePaymentInput struct {
	SiteID  string
	Title   string
	Amount  decimal.Decimal
	Mode    string
	DueDate time.Time
}

// RemindResult reports the outcome of a reminder fan-out. Zero recipients is
// a valid, reportable outcome, not an error.
type RemindResult struct {
	Reminded int
	Total    int
}

// PaymentService defines use-case operations for payments. Every read path
// reconciles the derived status (due/overdue) before responding; paid is
// sticky and manual overrides are left alone unless the service is
// configured to re-derive them.
type PaymentService interface {
	CreatePayment(ctx context.Context, actor *domain.Principal, in CreatePaymentInput) (*domain.Payment, error)
	GetPayment(ctx context.Context, actor *domain.Principal, id string) (*domain.Payment, error)
	ListPayments(ctx context.Context, actor *domain.Principal, siteID string) ([]*domain.Payment, error)
	// MarkPaid is admin-only and idempotent.
	MarkPaid(ctx context.Context, actor *domain.Principal, id string) (*domain.Payment, error)
	// SetStatus is the admin-only manual override escape hatch.
	SetStatus(ctx context.Context, actor *domain.Principal, id string, status domain.PaymentStatus) (*domain.Payment, error)
	// Remind fans out one notification per client principal granted the
	// payment's site. Per-recipient failures are non-fatal.
	Remind(ctx context.Context, actor *domain.Principal, id string) (*RemindResult, error)
}

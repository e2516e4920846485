package ports

import (
	"context"
	"time"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// PaymentRepository defines persistence for payments. The status mutators are
// atomic conditional updates so concurrent reconciliation and admin actions
// against the same document cannot lose writes.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	ListBySite(ctx context.Context, siteID string) ([]*domain.Payment, error)

	// UpdateStatusIf sets status to "to" only when the stored status still
	// equals "from". Manually overridden rows are excluded unless
	// includeManual is set; re-deriving an overridden row consumes the
	// override flag. Returns false without error when the condition did not
	// match.
	UpdateStatusIf(ctx context.Context, id string, from, to domain.PaymentStatus, includeManual bool) (bool, error)

	// SetPaid atomically marks the payment paid and stamps paidDate.
	// Idempotent: marking an already-paid payment succeeds unchanged.
	SetPaid(ctx context.Context, id string, paidAt time.Time) (*domain.Payment, error)

	// SetStatusOverride force-sets the status, stamping paidDate when the
	// new status is paid and clearing it otherwise, and marks the row as
	// manually overridden.
	SetStatusOverride(ctx context.Context, id string, status domain.PaymentStatus, paidAt *time.Time) (*domain.Payment, error)
}

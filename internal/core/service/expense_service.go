package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/sitebeam/construction-system/internal/api/metrics"
	"github.com/sitebeam/construction-system/internal/core/domain"
	"github.com/sitebeam/construction-system/internal/core/ports"
)

// ExpenseService implements the expense lifecycle: creation with the
// auto-approval rule, the two independent status axes, and invoice
// attachment/download gating.
type ExpenseService struct {
	expenses ports.ExpenseRepository
	sites    ports.SiteRepository
	blobs    ports.BlobStore
	feed     FeedRecorder
	logger   zerolog.Logger
}

func NewExpenseService(
	expenses ports.ExpenseRepository,
	sites ports.SiteRepository,
	blobs ports.BlobStore,
	feed FeedRecorder,
	logger zerolog.Logger,
) *ExpenseService {
	return &ExpenseService{expenses: expenses, sites: sites, blobs: blobs, feed: feed, logger: logger}
}

func (s *ExpenseService) authorizeSite(ctx context.Context, actor *domain.Principal, siteID string) (*domain.Site, error) {
	site, err := s.sites.FindByID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccess(actor, site) {
		return nil, domain.ErrSiteAccessDenied
	}
	return site, nil
}

// CreateExpense records a cost on a site. Expenses created by an admin are
// born approved; everyone else's start pending. An invoice may be attached
// at creation time.
func (s *ExpenseService) CreateExpense(ctx context.Context, actor *domain.Principal, in ports.CreateExpenseInput) (*domain.Expense, error) {
	if !actor.Role.CanManageDocuments() {
		return nil, fmt.Errorf("create expense: %w", domain.ErrForbidden)
	}
	site, err := s.authorizeSite(ctx, actor, in.SiteID)
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	if in.Description == "" {
		return nil, fmt.Errorf("create expense: description: %w", domain.ErrValidation)
	}
	if in.Amount.IsNegative() {
		return nil, fmt.Errorf("create expense: amount: %w", domain.ErrValidation)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("create expense: date: %w", domain.ErrValidation)
	}

	var invoice *domain.FileRef
	if in.Invoice != nil {
		ref, err := s.blobs.Save(ctx, in.Invoice.Filename, in.Invoice.Content)
		if err != nil {
			return nil, fmt.Errorf("create expense: store invoice: %w", err)
		}
		invoice = &ref
	}

	now := time.Now().UTC()
	e := &domain.Expense{
		SiteID:        site.ID,
		CompanyName:   site.CompanyName,
		CreatedBy:     actor.ID,
		Description:   in.Description,
		Amount:        in.Amount,
		Date:          in.Date,
		Status:        domain.InitialExpenseStatus(actor.Role),
		PaymentStatus: domain.ExpenseUnpaid,
		Invoice:       invoice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.expenses.Create(ctx, e)
	if err != nil {
		s.logger.Error().Err(err).Str("site_id", site.ID).Msg("failed to create expense")
		return nil, err
	}

	metrics.DocumentsCreatedTotal.WithLabelValues("expense").Inc()
	s.feed.Enqueue(domain.ActivityEvent{
		SiteID:      site.ID,
		CompanyName: site.CompanyName,
		ActorID:     actor.ID,
		Kind:        domain.ActivityExpenseCreated,
		Message:     fmt.Sprintf("expense %q recorded (%s)", created.Description, created.Status),
		CreatedAt:   now,
	})

	s.logger.Info().Str("expense_id", created.ID).Str("site_id", site.ID).Str("status", string(created.Status)).Msg("expense created")
	return created, nil
}

// GetExpense returns a single expense after site authorization.
func (s *ExpenseService) GetExpense(ctx context.Context, actor *domain.Principal, id string) (*domain.Expense, error) {
	e, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	if _, err := s.authorizeSite(ctx, actor, e.SiteID); err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns a site's expenses.
func (s *ExpenseService) ListExpenses(ctx context.Context, actor *domain.Principal, siteID string) ([]*domain.Expense, error) {
	if _, err := s.authorizeSite(ctx, actor, siteID); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return s.expenses.ListBySite(ctx, siteID)
}

// SetStatus force-sets the approval status. Admin only; the status value is
// validated against the closed enum.
func (s *ExpenseService) SetStatus(ctx context.Context, actor *domain.Principal, id string, status domain.ExpenseStatus) (*domain.Expense, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("set expense status: %w", domain.ErrForbidden)
	}
	if _, err := domain.ParseExpenseStatus(string(status)); err != nil {
		return nil, fmt.Errorf("set expense status: %w", domain.ErrInvalidTransition)
	}
	e, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("set expense status: %w", err)
	}
	site, err := s.authorizeSite(ctx, actor, e.SiteID)
	if err != nil {
		return nil, fmt.Errorf("set expense status: %w", err)
	}

	updated, err := s.expenses.SetStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("set expense status: %w", err)
	}

	now := time.Now().UTC()
	s.feed.Enqueue(domain.ActivityEvent{
		SiteID:      site.ID,
		CompanyName: site.CompanyName,
		ActorID:     actor.ID,
		Kind:        domain.ActivityExpenseStatus,
		Message:     fmt.Sprintf("expense %q %s", updated.Description, status),
		CreatedAt:   now,
	})

	s.logger.Info().Str("expense_id", id).Str("status", string(status)).Msg("expense status set")
	return updated, nil
}

// SetPaymentStatus toggles the settlement axis. Admin only. Paid stamps the
// paid date; unpaid clears it. Approval status is untouched.
func (s *ExpenseService) SetPaymentStatus(ctx context.Context, actor *domain.Principal, id string, status domain.ExpensePaymentStatus) (*domain.Expense, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("set expense payment status: %w", domain.ErrForbidden)
	}
	if _, err := domain.ParseExpensePaymentStatus(string(status)); err != nil {
		return nil, fmt.Errorf("set expense payment status: %w", domain.ErrInvalidTransition)
	}
	e, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("set expense payment status: %w", err)
	}
	if _, err := s.authorizeSite(ctx, actor, e.SiteID); err != nil {
		return nil, fmt.Errorf("set expense payment status: %w", err)
	}

	var paidAt *time.Time
	if status == domain.ExpensePaid {
		now := time.Now().UTC()
		paidAt = &now
	}

	updated, err := s.expenses.SetPaymentStatus(ctx, id, status, paidAt)
	if err != nil {
		return nil, fmt.Errorf("set expense payment status: %w", err)
	}

	s.logger.Info().Str("expense_id", id).Str("payment_status", string(status)).Msg("expense payment status set")
	return updated, nil
}

// AttachInvoice stores the uploaded blob and records the reference. Any
// principal with site access may attach; neither status axis changes.
func (s *ExpenseService) AttachInvoice(ctx context.Context, actor *domain.Principal, id string, upload ports.UploadInput) (*domain.Expense, error) {
	e, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("attach invoice: %w", err)
	}
	if _, err := s.authorizeSite(ctx, actor, e.SiteID); err != nil {
		return nil, fmt.Errorf("attach invoice: %w", err)
	}
	if upload.Filename == "" || upload.Content == nil {
		return nil, fmt.Errorf("attach invoice: file: %w", domain.ErrValidation)
	}

	ref, err := s.blobs.Save(ctx, upload.Filename, upload.Content)
	if err != nil {
		return nil, fmt.Errorf("attach invoice: store: %w", err)
	}

	updated, err := s.expenses.AttachInvoice(ctx, id, ref)
	if err != nil {
		return nil, fmt.Errorf("attach invoice: %w", err)
	}

	s.logger.Info().Str("expense_id", id).Str("filename", ref.Filename).Msg("invoice attached")
	return updated, nil
}

// DownloadInvoice returns the attachment stream after the role-dependent
// gate: clients need an approved expense with an attachment, staff need only
// the tenant to match.
func (s *ExpenseService) DownloadInvoice(ctx context.Context, actor *domain.Principal, id string) (io.ReadCloser, *domain.FileRef, error) {
	e, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("download invoice: %w", err)
	}
	if _, err := s.authorizeSite(ctx, actor, e.SiteID); err != nil {
		return nil, nil, fmt.Errorf("download invoice: %w", err)
	}
	if err := e.CanDownloadInvoice(actor); err != nil {
		return nil, nil, fmt.Errorf("download invoice: %w", err)
	}

	rc, err := s.blobs.Open(ctx, e.Invoice.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("download invoice: open blob: %w", err)
	}
	return rc, e.Invoice, nil
}

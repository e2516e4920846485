package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sitebeam/construction-system/internal/api/metrics"
	"github.com/sitebeam/construction-system/internal/core/domain"
	"github.com/sitebeam/construction-system/internal/core/ports"
)

// maxReminderConcurrency bounds the parallel reminder fan-out.
const maxReminderConcurrency = 8

// PaymentService implements the payment lifecycle: creation, status
// derivation and reconciliation, admin transitions, and reminder fan-out.
type PaymentService struct {
	payments   ports.PaymentRepository
	sites      ports.SiteRepository
	principals ports.PrincipalRepository
	notifier   ports.Notifier
	throttle   ports.ReminderThrottle
	feed       FeedRecorder
	// rederiveOverride controls whether reconciliation may rewrite a status
	// an admin force-set. Off by default: the override is an intentional
	// escape hatch and persists until the next admin action.
	rederiveOverride bool
	logger           zerolog.Logger
}

func NewPaymentService(
	payments ports.PaymentRepository,
	sites ports.SiteRepository,
	principals ports.PrincipalRepository,
	notifier ports.Notifier,
	throttle ports.ReminderThrottle,
	feed FeedRecorder,
	rederiveOverride bool,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		payments:         payments,
		sites:            sites,
		principals:       principals,
		notifier:         notifier,
		throttle:         throttle,
		feed:             feed,
		rederiveOverride: rederiveOverride,
		logger:           logger,
	}
}

// authorizeSite loads the site and runs the access evaluator. The site is the
// authority for tenant checks; the denormalized company on documents is never
// trusted for authorization.
func (s *PaymentService) authorizeSite(ctx context.Context, actor *domain.Principal, siteID string) (*domain.Site, error) {
	site, err := s.sites.FindByID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccess(actor, site) {
		return nil, domain.ErrSiteAccessDenied
	}
	return site, nil
}

// CreatePayment records a milestone on a site. Client principals cannot
// create documents. The payment's company is copied from the owning site so
// the denormalized field can never diverge at the write path.
func (s *PaymentService) CreatePayment(ctx context.Context, actor *domain.Principal, in ports.CreatePaymentInput) (*domain.Payment, error) {
	if !actor.Role.CanManageDocuments() {
		return nil, fmt.Errorf("create payment: %w", domain.ErrForbidden)
	}
	site, err := s.authorizeSite(ctx, actor, in.SiteID)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	if in.Title == "" {
		return nil, fmt.Errorf("create payment: title: %w", domain.ErrValidation)
	}
	if in.Amount.IsNegative() {
		return nil, fmt.Errorf("create payment: amount: %w", domain.ErrValidation)
	}
	if in.DueDate.IsZero() {
		return nil, fmt.Errorf("create payment: due date: %w", domain.ErrValidation)
	}

	now := time.Now().UTC()
	p := &domain.Payment{
		SiteID:      site.ID,
		CompanyName: site.CompanyName,
		CreatedBy:   actor.ID,
		Title:       in.Title,
		Amount:      in.Amount,
		Mode:        in.Mode,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.Status = p.DerivedStatus(now)

	created, err := s.payments.Create(ctx, p)
	if err != nil {
		s.logger.Error().Err(err).Str("site_id", site.ID).Msg("failed to create payment")
		return nil, err
	}

	metrics.DocumentsCreatedTotal.WithLabelValues("payment").Inc()
	s.feed.Enqueue(domain.ActivityEvent{
		SiteID:      site.ID,
		CompanyName: site.CompanyName,
		ActorID:     actor.ID,
		Kind:        domain.ActivityPaymentCreated,
		Message:     fmt.Sprintf("payment %q recorded", created.Title),
		CreatedAt:   now,
	})

	s.logger.Info().Str("payment_id", created.ID).Str("site_id", site.ID).Msg("payment created")
	return created, nil
}

// reconcile applies the derivation rule and persists the result through a
// conditional update, so concurrent reconciliations of the same row cannot
// clobber each other. Paid rows and manual overrides are left alone (unless
// override re-derivation is configured on).
func (s *PaymentService) reconcile(ctx context.Context, p *domain.Payment, now time.Time) (*domain.Payment, error) {
	derived := p.DerivedStatus(now)
	if derived == p.Status {
		return p, nil
	}
	if p.StatusManual && !s.rederiveOverride {
		return p, nil
	}

	ok, err := s.payments.UpdateStatusIf(ctx, p.ID, p.Status, derived, s.rederiveOverride)
	if err != nil {
		return nil, fmt.Errorf("reconcile payment %s: %w", p.ID, err)
	}
	if ok {
		p.Status = derived
		p.StatusManual = false
		metrics.PaymentsReconciledTotal.Inc()
	}
	// A lost race means another reconciler already persisted the same
	// derivation; the stored row is authoritative either way.
	return p, nil
}

// GetPayment returns a single payment with its status reconciled.
func (s *PaymentService) GetPayment(ctx context.Context, actor *domain.Principal, id string) (*domain.Payment, error) {
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if _, err := s.authorizeSite(ctx, actor, p.SiteID); err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return s.reconcile(ctx, p, time.Now().UTC())
}

// ListPayments returns a site's payments, reconciling every row before the
// response is assembled.
func (s *PaymentService) ListPayments(ctx context.Context, actor *domain.Principal, siteID string) ([]*domain.Payment, error) {
	if _, err := s.authorizeSite(ctx, actor, siteID); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	rows, err := s.payments.ListBySite(ctx, siteID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	now := time.Now().UTC()
	out := make([]*domain.Payment, 0, len(rows))
	for _, p := range rows {
		rp, err := s.reconcile(ctx, p, now)
		if err != nil {
			return nil, err
		}
		out = append(out, rp)
	}
	return out, nil
}

// MarkPaid marks a payment paid and stamps the paid date. Admin only.
// Idempotent: marking an already-paid payment again is a no-op.
func (s *PaymentService) MarkPaid(ctx context.Context, actor *domain.Principal, id string) (*domain.Payment, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("mark paid: %w", domain.ErrForbidden)
	}
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mark paid: %w", err)
	}
	site, err := s.authorizeSite(ctx, actor, p.SiteID)
	if err != nil {
		return nil, fmt.Errorf("mark paid: %w", err)
	}

	if p.Status == domain.PaymentPaid {
		return p, nil
	}

	now := time.Now().UTC()
	updated, err := s.payments.SetPaid(ctx, id, now)
	if err != nil {
		return nil, fmt.Errorf("mark paid: %w", err)
	}

	s.feed.Enqueue(domain.ActivityEvent{
		SiteID:      site.ID,
		CompanyName: site.CompanyName,
		ActorID:     actor.ID,
		Kind:        domain.ActivityPaymentPaid,
		Message:     fmt.Sprintf("payment %q marked paid", updated.Title),
		CreatedAt:   now,
	})

	s.logger.Info().Str("payment_id", id).Msg("payment marked paid")
	return updated, nil
}

// SetStatus is the admin-only manual override: the status is force-set,
// bypassing derivation, and the row is flagged so reconciliation does not
// immediately rewrite it. Setting paid stamps the paid date; anything else
// clears it.
func (s *PaymentService) SetStatus(ctx context.Context, actor *domain.Principal, id string, status domain.PaymentStatus) (*domain.Payment, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("set payment status: %w", domain.ErrForbidden)
	}
	if _, err := domain.ParsePaymentStatus(string(status)); err != nil {
		return nil, fmt.Errorf("set payment status: %w", domain.ErrInvalidTransition)
	}
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("set payment status: %w", err)
	}
	if _, err := s.authorizeSite(ctx, actor, p.SiteID); err != nil {
		return nil, fmt.Errorf("set payment status: %w", err)
	}

	var paidAt *time.Time
	if status == domain.PaymentPaid {
		now := time.Now().UTC()
		paidAt = &now
	}

	updated, err := s.payments.SetStatusOverride(ctx, id, status, paidAt)
	if err != nil {
		return nil, fmt.Errorf("set payment status: %w", err)
	}

	s.logger.Info().Str("payment_id", id).Str("status", string(status)).Msg("payment status overridden")
	return updated, nil
}

// Remind notifies every client principal of the payment's company whose site
// access includes the payment's site. Admin and manager only. Delivery runs
// in parallel; per-recipient failures are logged and counted, never fatal.
// Zero matching recipients is a valid outcome.
func (s *PaymentService) Remind(ctx context.Context, actor *domain.Principal, id string) (*ports.RemindResult, error) {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleManager {
		return nil, fmt.Errorf("remind: %w", domain.ErrForbidden)
	}
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("remind: %w", err)
	}
	site, err := s.authorizeSite(ctx, actor, p.SiteID)
	if err != nil {
		return nil, fmt.Errorf("remind: %w", err)
	}

	recipients, err := s.principals.ListClientsWithSiteGrant(ctx, site.CompanyName, site.ID)
	if err != nil {
		return nil, fmt.Errorf("remind: %w", err)
	}

	subject := fmt.Sprintf("Payment reminder: %s", p.Title)
	text := fmt.Sprintf("Payment %q of %s for site %q is %s (due %s).",
		p.Title, p.Amount.StringFixed(2), site.Name, p.Status, p.DueDate.Format("02 Jan 2006"))
	html := fmt.Sprintf("<p>%s</p>", text)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		reminded int
	)
	sem := make(chan struct{}, maxReminderConcurrency)

	for _, r := range recipients {
		wg.Add(1)
		sem <- struct{}{}
		go func(r *domain.Principal) {
			defer wg.Done()
			defer func() { <-sem }()

			allowed, err := s.throttle.Allow(ctx, p.ID, r.Email)
			if err != nil {
				// Throttle store down: send anyway, duplicates beat silence.
				s.logger.Warn().Err(err).Str("recipient", r.Email).Msg("reminder throttle check failed")
			} else if !allowed {
				s.logger.Debug().Str("recipient", r.Email).Str("payment_id", p.ID).Msg("reminder throttled")
				return
			}

			if err := s.notifier.Send(ctx, r.Email, subject, html, text); err != nil {
				metrics.RemindersFailedTotal.Inc()
				s.logger.Warn().Err(err).Str("recipient", r.Email).Str("payment_id", p.ID).Msg("reminder delivery failed")
				return
			}
			metrics.RemindersSentTotal.Inc()
			mu.Lock()
			reminded++
			mu.Unlock()
		}(r)
	}
	wg.Wait()

	now := time.Now().UTC()
	s.feed.Enqueue(domain.ActivityEvent{
		SiteID:      site.ID,
		CompanyName: site.CompanyName,
		ActorID:     actor.ID,
		Kind:        domain.ActivityReminderSent,
		Message:     fmt.Sprintf("reminder for %q sent to %d of %d recipients", p.Title, reminded, len(recipients)),
		CreatedAt:   now,
	})

	s.logger.Info().Str("payment_id", p.ID).Int("reminded", reminded).Int("total", len(recipients)).Msg("reminder fan-out complete")
	return &ports.RemindResult{Reminded: reminded, Total: len(recipients)}, nil
}

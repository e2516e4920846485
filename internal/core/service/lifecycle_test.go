package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitebeam/construction-system/internal/core/domain"
	"github.com/sitebeam/construction-system/internal/core/ports"
)

// End-to-end milestone lifecycle across the real services, with in-memory
// stores: register a tenant, create a site, invite staff, grant a client,
// watch a milestone go due -> overdue -> paid, and verify paid sticks.
func TestMilestoneLifecycle(t *testing.T) {
	ctx := context.Background()

	principals := newStubPrincipalRepo()
	sites := newStubSiteRepo()
	payments := newStubPaymentRepo()
	notifier := newStubNotifier()
	throttle := newStubThrottle()
	feed := &recordingFeed{}

	auth := NewAuthService(principals, sites, "secret", time.Hour)
	siteSvc := NewSiteService(sites, feed, discardLogger)
	paySvc := NewPaymentService(payments, sites, principals, notifier, throttle, feed, false, discardLogger)

	// Tenant root registers and creates a site.
	admin, err := auth.Register(ctx, ports.RegisterInput{
		Email: "owner@acme.com", Name: "Asha", Password: "s3cret-pass", CompanyName: "Acme Builders",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	site, err := siteSvc.CreateSite(ctx, admin, ports.CreateSiteInput{
		Name: "Tower A", ContractValue: decimal.NewFromInt(5000000), ClientName: "Sharma Residence",
	})
	if err != nil {
		t.Fatalf("create site: %v", err)
	}

	// Invited manager sees the site through the hierarchy.
	mgr, err := auth.Invite(ctx, admin, ports.InviteInput{
		Email: "mgr@acme.com", Name: "Ravi", Password: "pass-word", Role: domain.RoleManager,
	})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	visible, err := siteSvc.ListSites(ctx, mgr)
	if err != nil || len(visible) != 1 {
		t.Fatalf("manager must see 1 site, got %d (%v)", len(visible), err)
	}

	// Client gets an explicit grant.
	client, err := auth.Invite(ctx, admin, ports.InviteInput{
		Email: "client@sharma.com", Name: "Sharma", Password: "pass-word", Role: domain.RoleClient,
	})
	if err != nil {
		t.Fatalf("invite client: %v", err)
	}
	if err := auth.GrantSiteAccess(ctx, admin, client.ID, site.ID); err != nil {
		t.Fatalf("grant: %v", err)
	}
	client, _ = principals.FindByID(ctx, client.ID)

	// Milestone due in the past is born overdue.
	p, err := paySvc.CreatePayment(ctx, mgr, ports.CreatePaymentInput{
		SiteID: site.ID, Title: "Foundation", Amount: decimal.NewFromInt(250000),
		DueDate: time.Now().UTC().AddDate(0, 0, -7),
	})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if p.Status != domain.PaymentOverdue {
		t.Fatalf("expected overdue, got %q", p.Status)
	}

	// The granted client reads the same payment.
	seen, err := paySvc.GetPayment(ctx, client, p.ID)
	if err != nil {
		t.Fatalf("client read: %v", err)
	}
	if seen.Status != domain.PaymentOverdue {
		t.Fatalf("client must see overdue, got %q", seen.Status)
	}

	// A reminder goes out to the granted client.
	res, err := paySvc.Remind(ctx, mgr, p.ID)
	if err != nil {
		t.Fatalf("remind: %v", err)
	}
	if res.Total != 1 || res.Reminded != 1 {
		t.Fatalf("expected 1/1 reminded, got %d/%d", res.Reminded, res.Total)
	}

	// Admin settles it; paid sticks on every later read.
	if _, err := paySvc.MarkPaid(ctx, admin, p.ID); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	final, err := paySvc.GetPayment(ctx, admin, p.ID)
	if err != nil {
		t.Fatalf("read after paid: %v", err)
	}
	if final.Status != domain.PaymentPaid || final.PaidDate == nil {
		t.Fatalf("paid must stick with a paid date, got %q", final.Status)
	}

	// An outsider admin never learns the payment exists.
	outsider := adminOf("rival")
	if _, err := paySvc.GetPayment(ctx, outsider, p.ID); !errors.Is(err, domain.ErrSiteAccessDenied) {
		t.Fatalf("outsider must be denied, got %v", err)
	}
}

package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

func newReceiptHarness() (*ReceiptService, *stubPaymentRepo, *stubSiteRepo) {
	payments := newStubPaymentRepo()
	sites := newStubSiteRepo()
	svc := NewReceiptService(payments, sites, discardLogger)
	return svc, payments, sites
}

func TestReceiptService_RenderReceipt(t *testing.T) {
	svc, payments, sites := newReceiptHarness()
	sites.add(&domain.Site{ID: "s1", CompanyName: "acme", Name: "Tower A", ClientName: "Sharma Residence"})

	paid := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	payments.add(&domain.Payment{
		ID: "p-0001", SiteID: "s1", CompanyName: "acme", Title: "Foundation",
		Amount: decimal.NewFromInt(250000), DueDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Status: domain.PaymentPaid, PaidDate: &paid,
	})

	pdf, filename, err := svc.RenderReceipt(context.Background(), adminOf("acme"), "p-0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("output must be a PDF")
	}
	if filename != "RCP-00P-0001.pdf" {
		t.Errorf("filename = %q", filename)
	}
}

func TestReceiptService_RenderReceipt_Deterministic(t *testing.T) {
	svc, payments, sites := newReceiptHarness()
	sites.add(&domain.Site{ID: "s1", CompanyName: "acme", Name: "Tower A"})

	paid := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	payments.add(&domain.Payment{
		ID: "p1", SiteID: "s1", CompanyName: "acme", Title: "Foundation",
		Amount: decimal.NewFromInt(1000), DueDate: paid, Status: domain.PaymentPaid, PaidDate: &paid,
	})

	first, _, err := svc.RenderReceipt(context.Background(), adminOf("acme"), "p1")
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	second, _, err := svc.RenderReceipt(context.Background(), adminOf("acme"), "p1")
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("same payment must render identical bytes")
	}
}

func TestReceiptService_RenderReceipt_CrossTenantMasked(t *testing.T) {
	svc, payments, sites := newReceiptHarness()
	sites.add(&domain.Site{ID: "s1", CompanyName: "acme"})
	payments.add(&domain.Payment{ID: "p1", SiteID: "s1", CompanyName: "acme", Status: domain.PaymentDue})

	_, _, err := svc.RenderReceipt(context.Background(), adminOf("rival"), "p1")
	if !errors.Is(err, domain.ErrSiteAccessDenied) {
		t.Fatalf("cross-tenant render must surface ErrSiteAccessDenied, got %v", err)
	}
}

func TestReceiptService_RenderReceipt_GrantedClientAllowed(t *testing.T) {
	svc, payments, sites := newReceiptHarness()
	sites.add(&domain.Site{ID: "s1", CompanyName: "acme", Name: "Tower A"})
	payments.add(&domain.Payment{
		ID: "p1", SiteID: "s1", CompanyName: "acme", Title: "Foundation",
		Amount: decimal.NewFromInt(1000), DueDate: time.Now().UTC(), Status: domain.PaymentDue,
	})

	client := clientWithGrant("clientco", "s1")
	pdf, _, err := svc.RenderReceipt(context.Background(), client, "p1")
	if err != nil {
		t.Fatalf("granted client must render receipts: %v", err)
	}
	if len(pdf) == 0 {
		t.Error("empty receipt")
	}
}

package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sitebeam/construction-system/internal/api/metrics"
	"github.com/sitebeam/construction-system/internal/core/domain"
	"github.com/sitebeam/construction-system/internal/core/ports"
	"github.com/sitebeam/construction-system/internal/receipt"
)

// ReceiptService assembles payment snapshots and renders them. Rendering
// itself is pure; this service only does the authorized loads.
type ReceiptService struct {
	payments ports.PaymentRepository
	sites    ports.SiteRepository
	logger   zerolog.Logger
}

func NewReceiptService(payments ports.PaymentRepository, sites ports.SiteRepository, logger zerolog.Logger) *ReceiptService {
	return &ReceiptService{payments: payments, sites: sites, logger: logger}
}

// RenderReceipt loads the payment and its site, authorizes the actor, and
// returns the PDF bytes together with a download filename.
func (s *ReceiptService) RenderReceipt(ctx context.Context, actor *domain.Principal, paymentID string) ([]byte, string, error) {
	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, "", fmt.Errorf("render receipt: %w", err)
	}

	site, err := s.sites.FindByID(ctx, p.SiteID)
	if err != nil {
		return nil, "", fmt.Errorf("render receipt: %w", err)
	}
	if !domain.CanAccess(actor, site) {
		return nil, "", fmt.Errorf("render receipt: %w", domain.ErrSiteAccessDenied)
	}

	payer := site.ClientName
	if payer == "" {
		payer = site.Name
	}

	snap := receipt.Snapshot{
		PaymentID:  p.ID,
		TenantName: site.CompanyName,
		PayerName:  payer,
		Title:      p.Title,
		Amount:     p.Amount,
		Mode:       p.Mode,
		DueDate:    p.DueDate,
		Status:     string(p.Status),
		PaidDate:   p.PaidDate,
	}

	out, err := receipt.Render(snap)
	if err != nil {
		return nil, "", err
	}

	metrics.ReceiptsRenderedTotal.Inc()
	filename := receipt.ReferenceNumber(p.ID) + ".pdf"
	return out, filename, nil
}

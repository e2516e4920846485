package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// CreateSiteInput carries the data needed to create a site.
type CreateSiteInput struct {
	Name          string
	Address       string
	ContractValue decimal.Decimal
	ClientName    string
	ClientEmail   string
	ClientPhone   string
}

// SiteService defines use-case operations for sites.
type SiteService interface {
	CreateSite(ctx context.Context, actor *domain.Principal, in CreateSiteInput) (*domain.Site, error)
	// GetSite authorizes via the access evaluator; cross-tenant denials are
	// returned as domain.ErrSiteAccessDenied.
	GetSite(ctx context.Context, actor *domain.Principal, siteID string) (*domain.Site, error)
	// ListSites applies the scope predicate (owner id within the actor's
	// resolved scope; explicit grants for client principals).
	ListSites(ctx context.Context, actor *domain.Principal) ([]*domain.Site, error)
}

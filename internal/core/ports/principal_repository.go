package ports

import (
	"context"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// PrincipalRepository defines persistence for principals.
type PrincipalRepository interface {
	Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
	FindByID(ctx context.Context, id string) (*domain.Principal, error)
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
	// ListClientsWithSiteGrant returns the client principals of a company
	// whose explicit site access contains the given site id. Used by the
	// payment reminder fan-out.
	ListClientsWithSiteGrant(ctx context.Context, companyName, siteID string) ([]*domain.Principal, error)
	// AddSiteGrant appends a site id to a principal's explicit access list
	// (no-op when already present).
	AddSiteGrant(ctx context.Context, principalID, siteID string) error
}

package ports

import (
	"context"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// SiteRepository defines persistence for sites.
type SiteRepository interface {
	Create(ctx context.Context, s *domain.Site) (*domain.Site, error)
	FindByID(ctx context.Context, id string) (*domain.Site, error)
	// ListByOwners returns sites whose owner id is in ownerIDs, newest first.
	ListByOwners(ctx context.Context, ownerIDs []string) ([]*domain.Site, error)
	// ListByIDs returns the sites matching the given ids (for client
	// principals listing their granted sites).
	ListByIDs(ctx context.Context, ids []string) ([]*domain.Site, error)
}

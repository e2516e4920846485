package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sitebeam/construction-system/internal/core/domain"
	"github.com/sitebeam/construction-system/internal/core/ports"
)

// SiteService implements site creation, lookup, and scoped listing.
type SiteService struct {
	sites  ports.SiteRepository
	feed   FeedRecorder
	logger zerolog.Logger
}

func NewSiteService(sites ports.SiteRepository, feed FeedRecorder, logger zerolog.Logger) *SiteService {
	return &SiteService{sites: sites, feed: feed, logger: logger}
}

// CreateSite creates a project under the actor's tenant. Admin only.
func (s *SiteService) CreateSite(ctx context.Context, actor *domain.Principal, in ports.CreateSiteInput) (*domain.Site, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("create site: %w", domain.ErrForbidden)
	}
	if in.Name == "" {
		return nil, fmt.Errorf("create site: name: %w", domain.ErrValidation)
	}
	if in.ContractValue.IsNegative() {
		return nil, fmt.Errorf("create site: contract value: %w", domain.ErrValidation)
	}

	now := time.Now().UTC()
	site := &domain.Site{
		CompanyName:   actor.CompanyName,
		OwnerUserID:   actor.ID,
		Name:          in.Name,
		Address:       in.Address,
		ContractValue: in.ContractValue,
		ClientName:    in.ClientName,
		ClientEmail:   in.ClientEmail,
		ClientPhone:   in.ClientPhone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.sites.Create(ctx, site)
	if err != nil {
		s.logger.Error().Err(err).Str("company", actor.CompanyName).Msg("failed to create site")
		return nil, err
	}

	s.feed.Enqueue(domain.ActivityEvent{
		SiteID:      created.ID,
		CompanyName: created.CompanyName,
		ActorID:     actor.ID,
		Kind:        domain.ActivitySiteCreated,
		Message:     fmt.Sprintf("site %q created", created.Name),
		CreatedAt:   now,
	})

	s.logger.Info().Str("site_id", created.ID).Str("company", created.CompanyName).Msg("site created")
	return created, nil
}

// GetSite authorizes via the access evaluator. Cross-tenant lookups surface
// as ErrSiteAccessDenied, which the transport layer masks as not-found.
func (s *SiteService) GetSite(ctx context.Context, actor *domain.Principal, siteID string) (*domain.Site, error) {
	site, err := s.sites.FindByID(ctx, siteID)
	if err != nil {
		return nil, fmt.Errorf("get site: %w", err)
	}
	if !domain.CanAccess(actor, site) {
		return nil, fmt.Errorf("get site: %w", domain.ErrSiteAccessDenied)
	}
	return site, nil
}

// ListSites returns the sites visible to the actor. Client principals list
// their explicitly granted sites; everyone else lists by resolved scope.
func (s *SiteService) ListSites(ctx context.Context, actor *domain.Principal) ([]*domain.Site, error) {
	if actor.Role == domain.RoleClient {
		if len(actor.SiteAccess) == 0 {
			return []*domain.Site{}, nil
		}
		return s.sites.ListByIDs(ctx, actor.SiteAccess)
	}

	scope := domain.ResolveScope(actor)
	return s.sites.ListByOwners(ctx, scope.OwnedUserIDs)
}

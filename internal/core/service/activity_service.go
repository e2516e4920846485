package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sitebeam/construction-system/internal/core/domain"
	"github.com/sitebeam/construction-system/internal/core/ports"
)

const defaultFeedLimit = 50

// ActivityService persists and lists activity feed entries.
type ActivityService struct {
	events ports.ActivityRepository
	logger zerolog.Logger
}

func NewActivityService(events ports.ActivityRepository, logger zerolog.Logger) *ActivityService {
	return &ActivityService{events: events, logger: logger}
}

// ListFeed returns the newest entries visible to the actor. Feed entries are
// keyed by actor id, so visibility uses the resolved scope, the same
// predicate as site listings.
func (s *ActivityService) ListFeed(ctx context.Context, actor *domain.Principal, limit int) ([]*domain.ActivityEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultFeedLimit
	}
	scope := domain.ResolveScope(actor)
	entries, err := s.events.ListByActors(ctx, scope.OwnedUserIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}
	return entries, nil
}

// Record persists one feed entry. Called from the dispatcher workers, off the
// request path; failures are logged by the caller.
func (s *ActivityService) Record(ctx context.Context, e *domain.ActivityEvent) error {
	return s.events.Insert(ctx, e)
}

package ports

import (
	"context"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// ActivityRepository defines persistence for the activity feed.
type ActivityRepository interface {
	Insert(ctx context.Context, e *domain.ActivityEvent) error
	// ListByActors returns feed entries whose actor id is in actorIDs,
	// newest first, capped at limit.
	ListByActors(ctx context.Context, actorIDs []string, limit int) ([]*domain.ActivityEvent, error)
}

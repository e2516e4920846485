package ports

import (
	"context"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// ActivityService exposes the activity feed.
type ActivityService interface {
	// ListFeed returns the newest entries whose actor falls inside the
	// actor's resolved scope.
	ListFeed(ctx context.Context, actor *domain.Principal, limit int) ([]*domain.ActivityEvent, error)
	// Record persists one feed entry; called by the dispatcher workers.
	Record(ctx context.Context, e *domain.ActivityEvent) error
}

package service

import "github.com/sitebeam/construction-system/internal/core/domain"

// FeedRecorder abstracts the activity-feed pipeline (the sharded dispatcher).
// Services enqueue events without blocking the request path.
type FeedRecorder interface {
	Enqueue(e domain.ActivityEvent)
}

// NopFeed discards feed events. Used in tests.
type NopFeed struct{}

func (NopFeed) Enqueue(domain.ActivityEvent) {}

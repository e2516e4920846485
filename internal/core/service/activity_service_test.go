package service

import (
	"context"
	"testing"
	"time"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

func TestActivityService_ListFeed_ScopedToActorHierarchy(t *testing.T) {
	repo := &stubActivityRepo{}
	svc := NewActivityService(repo, discardLogger)

	now := time.Now().UTC()
	repo.entries = []*domain.ActivityEvent{
		{ID: "f1", ActorID: "admin-acme", Kind: domain.ActivitySiteCreated, CreatedAt: now},
		{ID: "f2", ActorID: "mgr-acme", Kind: domain.ActivityPaymentCreated, CreatedAt: now},
		{ID: "f3", ActorID: "admin-rival", Kind: domain.ActivitySiteCreated, CreatedAt: now},
	}

	mgr := managerOf("acme", "admin-acme")
	entries, err := svc.ListFeed(context.Background(), mgr, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected self + parent entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.ActorID == "admin-rival" {
			t.Error("foreign tenant entries must never appear")
		}
	}
}

func TestActivityService_ListFeed_LimitDefaultsAndCaps(t *testing.T) {
	repo := &stubActivityRepo{}
	svc := NewActivityService(repo, discardLogger)
	actor := adminOf("acme")

	if _, err := svc.ListFeed(context.Background(), actor, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastListLimit != 50 {
		t.Errorf("zero limit must default to 50, got %d", repo.lastListLimit)
	}

	if _, err := svc.ListFeed(context.Background(), actor, 5000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastListLimit != 50 {
		t.Errorf("oversized limit must fall back to the default, got %d", repo.lastListLimit)
	}

	if _, err := svc.ListFeed(context.Background(), actor, 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastListLimit != 25 {
		t.Errorf("in-range limit must pass through, got %d", repo.lastListLimit)
	}
}

func TestActivityService_Record_Persists(t *testing.T) {
	repo := &stubActivityRepo{}
	svc := NewActivityService(repo, discardLogger)

	err := svc.Record(context.Background(), &domain.ActivityEvent{ActorID: "u1", Kind: domain.ActivityReminderSent})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 stored entry, got %d", len(repo.entries))
	}
}

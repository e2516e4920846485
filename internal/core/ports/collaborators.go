package ports

import (
	"context"
	"io"

	"github.com/sitebeam/construction-system/internal/core/domain"
)

// Notifier delivers a single notification. Fire-and-forget semantics are
// tolerated; callers treat per-recipient failures as non-fatal.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, htmlBody, textBody string) error
}

// BlobStore stores opaque byte buffers addressable by a returned relative
// path. Content is never interpreted by the core.
type BlobStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (domain.FileRef, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// ReminderThrottle suppresses duplicate reminder sends inside a time window.
type ReminderThrottle interface {
	// Allow reports whether a reminder for (paymentID, recipient) may be
	// sent now, and records the send when it is allowed.
	Allow(ctx context.Context, paymentID, recipient string) (bool, error)
}

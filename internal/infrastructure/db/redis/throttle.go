package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultReminderTTL = 6 * time.Hour

// ReminderThrottle suppresses duplicate reminder sends backed by Redis.
// Key format: remind:<payment_id>:<recipient>
type ReminderThrottle struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReminderThrottle creates a throttle with the given suppression window.
func NewReminderThrottle(client *redis.Client, ttl time.Duration) *ReminderThrottle {
	if ttl <= 0 {
		ttl = defaultReminderTTL
	}
	return &ReminderThrottle{client: client, ttl: ttl}
}

// Allow reports whether a reminder for (paymentID, recipient) may be sent
// now. SetNX both checks and records atomically, so two concurrent fan-outs
// cannot both win the same key.
func (t *ReminderThrottle) Allow(ctx context.Context, paymentID, recipient string) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.key(paymentID, recipient), "1", t.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reminder throttle: %w", err)
	}
	return ok, nil
}

func (t *ReminderThrottle) key(paymentID, recipient string) string {
	return fmt.Sprintf("remind:%s:%s", paymentID, recipient)
}

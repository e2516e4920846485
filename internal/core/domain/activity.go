package domain

import "time"

// ActivityKind classifies feed entries.
type ActivityKind string

const (
	ActivitySiteCreated    ActivityKind = "site_created"
	ActivityPaymentCreated ActivityKind = "payment_created"
	ActivityPaymentPaid    ActivityKind = "payment_paid"
	ActivityExpenseCreated ActivityKind = "expense_created"
	ActivityExpenseStatus  ActivityKind = "expense_status"
	ActivityReminderSent   ActivityKind = "reminder_sent"
)

// ActivityEvent is a single entry in a tenant's activity feed. Entries are
// keyed by actor id; feed visibility uses the same scope predicate as site
// listings.
type ActivityEvent struct {
	ID          string       `json:"id"`
	SiteID      string       `json:"site_id"`
	CompanyName string       `json:"company_name"`
	ActorID     string       `json:"actor_id"`
	Kind        ActivityKind `json:"kind"`
	Message     string       `json:"message"`
	CreatedAt   time.Time    `json:"created_at"`
}

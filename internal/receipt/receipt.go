// Package receipt renders payment receipts as PDF byte streams. Rendering is
// a pure function of a Snapshot: no storage access, no clock reads, so the
// same snapshot always produces identical bytes.
package receipt

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is the frozen view of a payment from which a receipt is rendered.
type Snapshot struct {
	PaymentID   string
	TenantName  string
	PayerName   string
	Title       string
	Amount      decimal.Decimal
	Mode        string
	DueDate     time.Time
	Status      string
	PaidDate    *time.Time
}

// Field is a single labeled value on the receipt. Tests assert on fields, not
// on pixel layout.
type Field struct {
	Label string
	Value string
}

const refWidth = 8

// ReferenceNumber derives a stable receipt reference from the persisted
// payment id: a fixed-width uppercase suffix, zero-padded for short ids. The
// same payment always yields the same reference.
func ReferenceNumber(paymentID string) string {
	suffix := paymentID
	if len(suffix) > refWidth {
		suffix = suffix[len(suffix)-refWidth:]
	}
	suffix = strings.ToUpper(suffix)
	if pad := refWidth - len(suffix); pad > 0 {
		suffix = strings.Repeat("0", pad) + suffix
	}
	return "RCP-" + suffix
}

// Initials reduces a tenant name to its uppercase initials, at most three.
func Initials(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(w[:1]))
		if b.Len() >= 3 {
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

// Fields assembles the labeled receipt content in render order.
func Fields(s Snapshot) []Field {
	paymentDate := "-"
	if s.PaidDate != nil {
		paymentDate = s.PaidDate.UTC().Format("02 Jan 2006")
	}

	rupees := s.Amount.IntPart()
	wordsLine := AmountInWords(rupees) + " Rupees Only"

	return []Field{
		{Label: "Tenant", Value: s.TenantName},
		{Label: "Initials", Value: Initials(s.TenantName)},
		{Label: "Receipt", Value: "Payment Receipt"},
		{Label: "Reference No", Value: ReferenceNumber(s.PaymentID)},
		{Label: "Payment Date", Value: paymentDate},
		{Label: "Payment Mode", Value: s.Mode},
		{Label: "Received From", Value: s.PayerName},
		{Label: "Towards", Value: s.Title},
		{Label: "Due Date", Value: s.DueDate.UTC().Format("02 Jan 2006")},
		{Label: "Status", Value: strings.ToUpper(s.Status)},
		{Label: "Amount", Value: FormatIndianAmount(s.Amount)},
		{Label: "Amount in Words", Value: wordsLine},
	}
}

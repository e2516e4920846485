package receipt

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func snapshotFixture() Snapshot {
	paid := time.Date(2026, 4, 2, 11, 30, 0, 0, time.UTC)
	return Snapshot{
		PaymentID:  "67f1a2b3c4d5e6f7a8b9c0d1",
		TenantName: "Acme Builders",
		PayerName:  "Sharma Residence",
		Title:      "Foundation milestone",
		Amount:     decimal.RequireFromString("1234567.50"),
		Mode:       "NEFT",
		DueDate:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:     "paid",
		PaidDate:   &paid,
	}
}

func TestReferenceNumber_Stable(t *testing.T) {
	first := ReferenceNumber("67f1a2b3c4d5e6f7a8b9c0d1")
	second := ReferenceNumber("67f1a2b3c4d5e6f7a8b9c0d1")
	if first != second {
		t.Errorf("reference must be stable: %q vs %q", first, second)
	}
	if first != "RCP-A8B9C0D1" {
		t.Errorf("reference = %q", first)
	}
}

func TestReferenceNumber_ShortIDZeroPadded(t *testing.T) {
	if got := ReferenceNumber("p42"); got != "RCP-00000P42" {
		t.Errorf("short id must be zero-padded, got %q", got)
	}
}

func TestInitials(t *testing.T) {
	cases := map[string]string{
		"Acme Builders":               "AB",
		"singleword":                  "S",
		"Three Word Name":             "TWN",
		"Four Word Name Overflowing":  "FWN",
		"":                            "?",
	}
	for in, want := range cases {
		if got := Initials(in); got != want {
			t.Errorf("Initials(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFields_LabeledContent(t *testing.T) {
	fields := Fields(snapshotFixture())

	byLabel := make(map[string]string, len(fields))
	for _, f := range fields {
		byLabel[f.Label] = f.Value
	}

	checks := map[string]string{
		"Tenant":          "Acme Builders",
		"Initials":        "AB",
		"Reference No":    "RCP-A8B9C0D1",
		"Payment Date":    "02 Apr 2026",
		"Payment Mode":    "NEFT",
		"Received From":   "Sharma Residence",
		"Towards":         "Foundation milestone",
		"Due Date":        "15 Mar 2026",
		"Status":          "PAID",
		"Amount":          "12,34,567.50",
		"Amount in Words": "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Rupees Only",
	}
	for label, want := range checks {
		if got, ok := byLabel[label]; !ok {
			t.Errorf("missing field %q", label)
		} else if got != want {
			t.Errorf("field %q = %q, want %q", label, got, want)
		}
	}
}

func TestFields_UnpaidHasNoPaymentDate(t *testing.T) {
	s := snapshotFixture()
	s.Status = "overdue"
	s.PaidDate = nil

	for _, f := range Fields(s) {
		if f.Label == "Payment Date" && f.Value != "-" {
			t.Errorf("unpaid receipt must show a dash for payment date, got %q", f.Value)
		}
	}
}

func TestRender_ProducesPDF(t *testing.T) {
	out, err := Render(snapshotFixture())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("output is not a PDF, starts with %q", out[:min(8, len(out))])
	}
}

func TestRender_Deterministic(t *testing.T) {
	s := snapshotFixture()

	first, err := Render(s)
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	second, err := Render(s)
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("same snapshot must render identical bytes")
	}
}

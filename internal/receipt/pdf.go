package receipt

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Render produces the PDF receipt for a snapshot. The document creation date
// is pinned to the snapshot (paid date, falling back to due date) so output
// bytes are stable across calls.
func Render(s Snapshot) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")

	created := s.DueDate
	if s.PaidDate != nil {
		created = *s.PaidDate
	}
	pdf.SetCreationDate(created.UTC())

	pdf.AddPage()

	// Header: tenant initials badge + name, then the receipt title.
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(24, 14, Initials(s.TenantName), "1", 0, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 14, s.TenantName, "", 1, "L", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Payment Receipt", "B", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, f := range Fields(s) {
		// Header fields already rendered above.
		if f.Label == "Tenant" || f.Label == "Initials" || f.Label == "Receipt" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 8, f.Label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, f.Value, "", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Reference %s - computer generated receipt, no signature required.",
		ReferenceNumber(s.PaymentID)), "T", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

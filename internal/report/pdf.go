package report

import (
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// WriteSummaryPDF renders the summary block as a one-page PDF. Layout is
// intentionally simple: a bold title, then the summary lines as body text.
func WriteSummaryPDF(s Summary, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "seoscan report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.Ln(2)

	for _, line := range s.Lines() {
		if strings.TrimSpace(line) == "" {
			pdf.Ln(5)
			continue
		}
		if strings.HasSuffix(line, ":") {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			continue
		}
		pdf.MultiCell(0, 5, line, "", "L", false)
	}

	return pdf.OutputFileAndClose(outPath)
}

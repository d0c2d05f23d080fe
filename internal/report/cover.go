package report

import (
	"fmt"

	"github.com/phpdave11/gofpdf"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// CoverInfo is the summary printed on the optional first page of the
// merged receipt document.
type CoverInfo struct {
	MonthYear string
	TripCount int
	Total     decimal.Decimal
}

// RenderCover writes a one-page summary PDF to path.
func RenderCover(path string, info CoverInfo) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Trip receipts "+info.MonthYear, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 14, "Trip receipts", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	lines := [][2]string{
		{"Month", info.MonthYear},
		{"Trips", fmt.Sprintf("%d", info.TripCount)},
		{"Total", info.Total.StringFixed(2)},
	}
	for _, l := range lines {
		pdf.CellFormat(40, 8, l[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, l[1], "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return eris.Wrapf(err, "report: write cover %s", path)
	}
	return nil
}

package report

import (
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/trip-claim/internal/model"
)

// DateFormat is the display format of the claim form date column.
const DateFormat = "dd/mm/yyyy"

// Claim form columns, zero-based (B..H).
const (
	colDate = iota + 1
	colPickup
	colDropoff
	colPrice
	colPurpose
	colPayment
	colNotes
)

// PurposeClassifier decides the purpose of a trip from its pickup.
type PurposeClassifier interface {
	Classify(pickup string) model.Purpose
}

// Labels maps classified purposes to the text written in the form.
type Labels struct {
	ReturnFromWork string
	GoingToWork    string
}

// For returns the label for p. Unknown purposes render as "".
func (l Labels) For(p model.Purpose) string {
	switch p {
	case model.PurposeReturnFromWork:
		return l.ReturnFromWork
	case model.PurposeGoingToWork:
		return l.GoingToWork
	default:
		return ""
	}
}

// ClaimRow is one line of the claim form.
type ClaimRow struct {
	TripID        string
	Date          TripTime
	Pickup        string
	Dropoff       string
	Price         decimal.Decimal
	Purpose       string
	PaymentMethod string
	Notes         string
}

// BuildClaimRows turns retained trips into form rows in batch order.
func BuildClaimRows(trips []model.Trip, classifier PurposeClassifier, labels Labels, paymentMethod string, now time.Time) []ClaimRow {
	rows := make([]ClaimRow, 0, len(trips))
	for _, t := range trips {
		date := ParseTripTime(t.OccurredAt, now)
		if err := date.Err(); err != nil {
			zap.L().Warn("keeping raw trip time in claim form",
				zap.String("trip_id", t.ID),
				zap.Error(err),
			)
		}
		rows = append(rows, ClaimRow{
			TripID:        t.ID,
			Date:          date,
			Pickup:        t.PickupLocation,
			Dropoff:       t.DropoffLocation,
			Price:         t.Price,
			Purpose:       labels.For(classifier.Classify(t.PickupLocation)),
			PaymentMethod: paymentMethod,
		})
	}
	return rows
}

// FormOptions locates the rows inside the template.
type FormOptions struct {
	Sheet    string
	StartRow int // 1-based
}

// ClaimFormName returns the month-prefixed file name for a template copy.
func ClaimFormName(label, templatePath string) string {
	return label + " " + filepath.Base(templatePath)
}

// FillClaimForm writes rows into a copy of the template saved at outPath.
// The template itself is never modified.
func FillClaimForm(templatePath, outPath string, rows []ClaimRow, opts FormOptions) error {
	if opts.StartRow < 1 {
		return eris.Errorf("report: start row %d must be >= 1", opts.StartRow)
	}

	f, err := xlsx.OpenFile(templatePath)
	if err != nil {
		return eris.Wrapf(err, "report: open template %s", templatePath)
	}

	sheet, ok := f.Sheet[opts.Sheet]
	if !ok {
		return eris.Errorf("report: sheet %q not found in %s", opts.Sheet, templatePath)
	}

	for i, row := range rows {
		writeClaimRow(sheet, opts.StartRow-1+i, row)
	}

	if err := f.Save(outPath); err != nil {
		return eris.Wrapf(err, "report: save claim form %s", outPath)
	}
	return nil
}

func writeClaimRow(sheet *xlsx.Sheet, r int, row ClaimRow) {
	dateCell := sheet.Cell(r, colDate)
	if row.Date.Parsed {
		dateCell.SetDateWithOptions(row.Date.At, xlsx.DateTimeOptions{
			Location:        row.Date.At.Location(),
			ExcelTimeFormat: DateFormat,
		})
	} else {
		dateCell.SetString(row.Date.Raw)
	}

	sheet.Cell(r, colPickup).SetString(row.Pickup)
	sheet.Cell(r, colDropoff).SetString(row.Dropoff)
	sheet.Cell(r, colPrice).SetFloat(row.Price.Round(2).InexactFloat64())
	sheet.Cell(r, colPurpose).SetString(row.Purpose)
	sheet.Cell(r, colPayment).SetString(row.PaymentMethod)
	sheet.Cell(r, colNotes).SetString(row.Notes)
}

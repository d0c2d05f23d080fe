package delivery

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Summary is the per-month figures substituted into email templates.
type Summary struct {
	MonthYear   string
	TotalAmount decimal.Decimal
	TripCount   int
}

// RenderTemplate replaces {month_year}, {total_amount} and {trip_count}
// in tmpl. Unknown placeholders are left as they are.
func RenderTemplate(tmpl string, s Summary) string {
	return strings.NewReplacer(
		"{month_year}", s.MonthYear,
		"{total_amount}", s.TotalAmount.StringFixed(2),
		"{trip_count}", strconv.Itoa(s.TripCount),
	).Replace(tmpl)
}

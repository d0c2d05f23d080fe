// Package report assembles the monthly artifacts: the trip record file,
// the merged receipt document and the filled claim form.
package report

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trip-claim/internal/model"
)

// TripTime is the result of parsing a trip's display time. Either Parsed
// is true and At is set, or Raw must be used verbatim.
type TripTime struct {
	Raw    string
	At     time.Time
	Parsed bool
}

// SortKey returns At, or the zero time for unparsed values so they order
// before every real date.
func (t TripTime) SortKey() time.Time {
	if !t.Parsed {
		return time.Time{}
	}
	return t.At
}

type timePattern struct {
	layout  string
	hasYear bool
}

// tripTimePatterns are tried in order against the normalized string.
var tripTimePatterns = []timePattern{
	{layout: "Jan 2 3:04 PM"},
	{layout: "Jan 2, 2006, 3:04 PM", hasYear: true},
	{layout: "Jan 2, 2006 3:04 PM", hasYear: true},
}

// normalizeTripTime strips the bullet separator, collapses the no-break and
// narrow spaces the web app uses between fields and upper-cases the
// meridiem.
func normalizeTripTime(raw string) string {
	s := strings.NewReplacer(
		"•", " ",
		"\u00a0", " ",
		"\u202f", " ",
	).Replace(raw)
	fields := strings.Fields(s)
	for i, f := range fields {
		if strings.EqualFold(f, "am") || strings.EqualFold(f, "pm") {
			fields[i] = strings.ToUpper(f)
		}
	}
	return strings.ReplaceAll(strings.Join(fields, " "), " ,", ",")
}

// ParseTripTime parses raw in now's location. Strings without a year get
// now's year.
func ParseTripTime(raw string, now time.Time) TripTime {
	s := normalizeTripTime(raw)
	loc := now.Location()

	for _, p := range tripTimePatterns {
		t, err := time.ParseInLocation(p.layout, s, loc)
		if err != nil {
			continue
		}
		if !p.hasYear {
			t = time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
		}
		return TripTime{Raw: raw, At: t, Parsed: true}
	}

	return TripTime{Raw: raw}
}

// Err returns ErrDateParse for unparsed values.
func (t TripTime) Err() error {
	if t.Parsed {
		return nil
	}
	return eris.Wrapf(model.ErrDateParse, "trip time %q", t.Raw)
}

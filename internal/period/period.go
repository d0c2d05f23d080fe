// Package period resolves the calendar month a run exports.
package period

import (
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trip-claim/internal/model"
)

// Resolve returns the window for month (1-12) in now's location. A zero
// month selects the calendar month before now.
//
// December always resolves to now.Year()-1, whether it was defaulted from a
// January run or requested explicitly. Any other explicit month resolves to
// the current year.
func Resolve(month int, now time.Time) (model.TimeWindow, error) {
	if month == 0 {
		month = int(now.Month()) - 1
		if month == 0 {
			month = 12
		}
	}
	if month < 1 || month > 12 {
		return model.TimeWindow{}, eris.Wrapf(model.ErrInvalidArgument, "month %d out of range 1-12", month)
	}

	year := now.Year()
	if month == 12 {
		year--
	}

	loc := now.Location()
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)

	return model.NewTimeWindow(start, end), nil
}

// ParseMonth validates a CLI month argument. Empty input means "absent" and
// returns 0.
func ParseMonth(arg string) (int, error) {
	if arg == "" {
		return 0, nil
	}
	month, err := strconv.Atoi(arg)
	if err != nil {
		return 0, eris.Wrapf(model.ErrInvalidArgument, "month %q is not an integer", arg)
	}
	if month < 1 || month > 12 {
		return 0, eris.Wrapf(model.ErrInvalidArgument, "month %d out of range 1-12", month)
	}
	return month, nil
}

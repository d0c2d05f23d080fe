package model

import "time"

// LabelLayout formats a month tag such as "2025-08".
const LabelLayout = "2006-01"

// TimeWindow is a calendar month expressed as an inclusive millisecond range.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"month_year"`
}

// NewTimeWindow builds a window and derives its label from start.
func NewTimeWindow(start, end time.Time) TimeWindow {
	return TimeWindow{
		Start: start,
		End:   end,
		Label: start.Format(LabelLayout),
	}
}

// StartMs returns the window start in Unix milliseconds.
func (w TimeWindow) StartMs() int64 {
	return w.Start.UnixMilli()
}

// EndMs returns the window end in Unix milliseconds.
func (w TimeWindow) EndMs() int64 {
	return w.End.UnixMilli()
}

package report

import (
	"slices"
	"time"

	"github.com/sells-group/trip-claim/internal/model"
)

// SortByTimeDesc returns a copy of trips ordered newest first. Trips whose
// time cannot be parsed go last, keeping their relative order.
func SortByTimeDesc(trips []model.Trip, now time.Time) []model.Trip {
	keys := make(map[string]time.Time, len(trips))
	for _, t := range trips {
		keys[t.ID] = ParseTripTime(t.OccurredAt, now).SortKey()
	}

	sorted := slices.Clone(trips)
	slices.SortStableFunc(sorted, func(a, b model.Trip) int {
		return keys[b.ID].Compare(keys[a.ID])
	})
	return sorted
}

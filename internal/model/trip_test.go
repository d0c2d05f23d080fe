package model

import (
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTripBatch_RetainedAmount(t *testing.T) {
	b := TripBatch{
		Trips: []Trip{
			{ID: "a", Price: decimal.RequireFromString("12.50")},
			{ID: "b", Price: decimal.RequireFromString("7.25")},
		},
		OverallAmount: decimal.RequireFromString("40"),
	}
	assert.True(t, decimal.RequireFromString("19.75").Equal(b.RetainedAmount()))
}

func TestTrip_HasLocations(t *testing.T) {
	assert.False(t, Trip{}.HasLocations())
	assert.False(t, Trip{PickupLocation: "A"}.HasLocations())
	assert.True(t, Trip{PickupLocation: "A", DropoffLocation: "B"}.HasLocations())
}

func TestReceiptRef_Downloaded(t *testing.T) {
	var nilRef *ReceiptRef
	assert.False(t, nilRef.Downloaded())
	assert.False(t, (&ReceiptRef{TripID: "a", Timestamp: "1"}).Downloaded())
	assert.True(t, (&ReceiptRef{TripID: "a", LocalPath: "/tmp/a.pdf"}).Downloaded())
}

func TestTimeWindow(t *testing.T) {
	start := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.August, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	w := NewTimeWindow(start, end)

	assert.Equal(t, "2025-08", w.Label)
	assert.Equal(t, start.UnixMilli(), w.StartMs())
	assert.Equal(t, end.UnixMilli(), w.EndMs())
	assert.False(t, w.End.Before(w.Start))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(eris.Wrap(ErrUpstream, "fetch trips")))
	assert.True(t, IsFatal(ErrAuthMissing))
	assert.False(t, IsFatal(eris.Wrap(ErrDownloadFailed, "trip abc")))
	assert.False(t, IsFatal(nil))
}

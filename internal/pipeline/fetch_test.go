package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trip-claim/internal/model"
	"github.com/sells-group/trip-claim/pkg/riders"
)

func augustWindow() model.TimeWindow {
	start := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	return model.NewTimeWindow(start, start.AddDate(0, 1, 0).Add(-time.Millisecond))
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		want string
	}{
		{"EGP 123.45", "123.45"},
		{"EGP 80", "80"},
		{"Canceled • EGP 15.00", "15"},
		{"no price here", "0"},
		{"", "0"},
		{"1,234.50", "1"},
	}
	for _, tt := range tests {
		got := ParsePrice(tt.desc)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "ParsePrice(%q) = %s", tt.desc, got)
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.TripStatusCanceled, ParseStatus("Canceled • EGP 15.00"))
	assert.Equal(t, model.TripStatusCanceled, ParseStatus("CANCELED"))
	assert.Equal(t, model.TripStatusCompleted, ParseStatus("EGP 40.00"))
}

func TestFetchTrips_ExcludesButAccumulates(t *testing.T) {
	t.Parallel()

	w := augustWindow()
	client := new(mockRidersClient)
	client.On("Activities", mock.Anything, testSession, riders.ActivitiesRequest{
		StartTimeMs: w.StartMs(),
		EndTimeMs:   w.EndMs(),
		Limit:       DefaultPageLimit,
	}).Return(&riders.ActivitiesPage{
		Activities: []riders.Activity{
			{UUID: "a", CardURL: "https://riders.uber.com/trips/a", Description: "EGP 100.50", Subtitle: "Aug 31 • 4:29 PM"},
			{UUID: "b", Description: "Canceled • EGP 20", Subtitle: "Aug 30 • 1:00 PM"},
			{UUID: "c", Description: "Unfulfilled", Subtitle: "Aug 29 • 1:00 PM"},
			{UUID: "d", Description: "EGP 49.50", Subtitle: "Aug 28 • 8:00 AM"},
		},
		NextPageToken: "next",
	}, nil)

	batch, err := NewFetcher(client, 0).FetchTrips(context.Background(), testSession, w)
	require.NoError(t, err)

	require.Len(t, batch.Trips, 2)
	assert.Equal(t, "a", batch.Trips[0].ID)
	assert.Equal(t, "https://riders.uber.com/trips/a", batch.Trips[0].SourceURL)
	assert.Equal(t, "Aug 31 • 4:29 PM", batch.Trips[0].OccurredAt)
	assert.Equal(t, model.TripStatusCompleted, batch.Trips[0].Status)
	assert.Equal(t, "d", batch.Trips[1].ID)

	// the canceled 20 still counts toward the total
	assert.True(t, decimal.RequireFromString("170").Equal(batch.OverallAmount), "got %s", batch.OverallAmount)
	assert.True(t, decimal.RequireFromString("150").Equal(batch.RetainedAmount()))
	assert.Equal(t, w, batch.Window)
	client.AssertExpectations(t)
}

func TestFetchTrips_UpstreamFailure(t *testing.T) {
	t.Parallel()

	client := new(mockRidersClient)
	client.On("Activities", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &riders.StatusError{Op: "Activities", StatusCode: 401, Body: "unauthorized"})

	batch, err := NewFetcher(client, 10).FetchTrips(context.Background(), testSession, augustWindow())
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrUpstream))
	assert.True(t, model.IsFatal(err))
	assert.Empty(t, batch.Trips)
	assert.True(t, batch.OverallAmount.IsZero())
}

func TestFetchTrips_EmptyPage(t *testing.T) {
	t.Parallel()

	client := new(mockRidersClient)
	client.On("Activities", mock.Anything, mock.Anything, mock.Anything).
		Return(&riders.ActivitiesPage{}, nil)

	batch, err := NewFetcher(client, 10).FetchTrips(context.Background(), testSession, augustWindow())
	require.NoError(t, err)
	assert.NotNil(t, batch.Trips)
	assert.Empty(t, batch.Trips)
}

// Package pipeline runs the monthly export: list the month's trips, enrich
// each one, then hand the batch to the report and delivery stages.
package pipeline

import (
	"context"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/trip-claim/internal/model"
	"github.com/sells-group/trip-claim/pkg/riders"
)

// DefaultPageLimit is the number of activities requested in one listing.
const DefaultPageLimit = 60

var priceRe = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// Fetcher lists the trips of a time window.
type Fetcher struct {
	client    riders.Client
	pageLimit int
}

// NewFetcher creates a Fetcher. A non-positive pageLimit uses
// DefaultPageLimit.
func NewFetcher(client riders.Client, pageLimit int) *Fetcher {
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}
	return &Fetcher{client: client, pageLimit: pageLimit}
}

// FetchTrips requests one page of activities for w. Every parsed price
// counts toward the batch total, including trips that are then dropped for
// being canceled or unfulfilled. A listing failure returns an empty batch
// and an error wrapping model.ErrUpstream.
func (f *Fetcher) FetchTrips(ctx context.Context, s riders.Session, w model.TimeWindow) (model.TripBatch, error) {
	batch := model.TripBatch{
		Window:        w,
		Trips:         []model.Trip{},
		OverallAmount: decimal.Zero,
	}

	page, err := f.client.Activities(ctx, s, riders.ActivitiesRequest{
		StartTimeMs: w.StartMs(),
		EndTimeMs:   w.EndMs(),
		Limit:       f.pageLimit,
	})
	if err != nil {
		return batch, eris.Wrapf(model.ErrUpstream, "list activities for %s: %v", w.Label, err)
	}
	if page == nil {
		return batch, eris.Wrapf(model.ErrUpstream, "list activities for %s: empty response", w.Label)
	}

	if page.NextPageToken != "" {
		zap.L().Info("more activities available, only the first page is exported",
			zap.String("month_year", w.Label),
			zap.String("next_page_token", page.NextPageToken),
		)
	}

	for _, a := range page.Activities {
		price := ParsePrice(a.Description)
		batch.OverallAmount = batch.OverallAmount.Add(price)

		status := ParseStatus(a.Description)
		if status == model.TripStatusCanceled || isUnfulfilled(a.Description) {
			zap.L().Debug("skipping activity",
				zap.String("trip_id", a.UUID),
				zap.String("description", a.Description),
			)
			continue
		}

		batch.Trips = append(batch.Trips, model.Trip{
			ID:         a.UUID,
			SourceURL:  a.CardURL,
			Status:     status,
			Price:      price,
			OccurredAt: a.Subtitle,
		})
	}

	zap.L().Info("fetched trips",
		zap.String("month_year", w.Label),
		zap.Int("activities", len(page.Activities)),
		zap.Int("retained", len(batch.Trips)),
		zap.String("overall_amount", batch.OverallAmount.StringFixed(2)),
	)
	return batch, nil
}

// ParsePrice returns the first decimal number in an activity description,
// or zero when there is none.
func ParsePrice(description string) decimal.Decimal {
	m := priceRe.FindString(description)
	if m == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseStatus derives the trip status from an activity description.
func ParseStatus(description string) model.TripStatus {
	if strings.Contains(strings.ToLower(description), "canceled") {
		return model.TripStatusCanceled
	}
	return model.TripStatusCompleted
}

func isUnfulfilled(description string) bool {
	return strings.Contains(strings.ToLower(description), "unfulfilled")
}

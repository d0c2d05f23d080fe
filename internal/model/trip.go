package model

import (
	"github.com/shopspring/decimal"
)

// TripStatus is the fulfilment state parsed from an activity description.
type TripStatus string

const (
	TripStatusCompleted TripStatus = "Completed"
	TripStatusCanceled  TripStatus = "Canceled"
)

// Trip is a single retained ride. It is created by the fetcher, receives
// its pickup and dropoff once during enrichment, and is read-only after.
type Trip struct {
	ID              string          `json:"uuid"`
	SourceURL       string          `json:"url"`
	Status          TripStatus      `json:"status"`
	Price           decimal.Decimal `json:"price"`
	OccurredAt      string          `json:"time"`
	PickupLocation  string          `json:"pickup_location"`
	DropoffLocation string          `json:"dropoff_location"`
}

// HasLocations reports whether enrichment filled both waypoints.
func (t Trip) HasLocations() bool {
	return t.PickupLocation != "" && t.DropoffLocation != ""
}

// ReceiptRef points at the receipt generated for a trip. A nil *ReceiptRef
// means the upstream had no receipt job for the trip. LocalPath is empty
// when the download did not succeed.
type ReceiptRef struct {
	TripID    string `json:"trip_id"`
	Timestamp string `json:"timestamp"`
	LocalPath string `json:"local_path,omitempty"`
}

// Downloaded reports whether the receipt document exists locally.
func (r *ReceiptRef) Downloaded() bool {
	return r != nil && r.LocalPath != ""
}

// KeywordSet holds the user-supplied address fragments used to decide the
// purpose of a trip. Order matters only for readability; home always wins.
type KeywordSet struct {
	Home []string `json:"home" yaml:"home_address_keywords"`
	Work []string `json:"work" yaml:"work_address_keywords"`
}

// TripBatch is the unit persisted to the trip record file.
//
// OverallAmount is accumulated before canceled and unfulfilled activities
// are dropped, so it can exceed the sum of Trips[i].Price.
type TripBatch struct {
	Window        TimeWindow      `json:"window"`
	Trips         []Trip          `json:"trips"`
	OverallAmount decimal.Decimal `json:"overall_amount"`
}

// RetainedAmount sums the prices of the retained trips only.
func (b TripBatch) RetainedAmount() decimal.Decimal {
	total := decimal.Zero
	for _, t := range b.Trips {
		total = total.Add(t.Price)
	}
	return total
}

// Purpose is the classified reason for a trip.
type Purpose string

const (
	PurposeReturnFromWork Purpose = "return_from_work"
	PurposeGoingToWork    Purpose = "going_to_work"
	PurposeUnknown        Purpose = ""
)

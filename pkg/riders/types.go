package riders

import (
	"encoding/json"
	"fmt"
)

// Session carries the pre-captured browser cookie used to authenticate
// every request. It is passed explicitly to each call.
type Session struct {
	Cookie string
}

// ActivitiesRequest selects one page of past activities.
type ActivitiesRequest struct {
	StartTimeMs   int64
	EndTimeMs     int64
	Limit         int
	NextPageToken string
}

// Activity is a trip summary from the activity listing.
type Activity struct {
	UUID        string `json:"uuid"`
	CardURL     string `json:"cardURL"`
	Description string `json:"description"`
	Subtitle    string `json:"subtitle"`
}

// ActivitiesPage is one page of the listing. NextPageToken is empty on the
// last page.
type ActivitiesPage struct {
	Activities    []Activity `json:"activities"`
	NextPageToken string     `json:"nextPageToken"`
}

// TripDetail holds the waypoints of a single trip. Entries are kept raw
// because the upstream mixes plain address strings and objects.
type TripDetail struct {
	UUID      string            `json:"uuid"`
	Waypoints []json.RawMessage `json:"waypoints"`
}

// Addresses returns the waypoint entries that are plain strings, in order.
func (d *TripDetail) Addresses() []string {
	if d == nil {
		return nil
	}
	var out []string
	for _, raw := range d.Waypoints {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

// ReceiptJob associates a trip with a receipt generation timestamp.
type ReceiptJob struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
}

// ReceiptInfo is the receipt metadata for a trip.
type ReceiptInfo struct {
	Jobs        []ReceiptJob    `json:"receiptsForJob"`
	ReceiptData json.RawMessage `json:"receiptData"`
}

// FirstTimestamp returns the first job's timestamp, or "" if there is none.
func (r *ReceiptInfo) FirstTimestamp() string {
	if r == nil {
		return ""
	}
	for _, j := range r.Jobs {
		if j.Timestamp != "" {
			return j.Timestamp
		}
	}
	return ""
}

// StatusError is returned for any non-200 response.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("riders: %s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

type graphQLRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse[T any] struct {
	Data   *T             `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type activitiesData struct {
	Activities *struct {
		Past *ActivitiesPage `json:"past"`
	} `json:"activities"`
}

type getTripData struct {
	GetTrip *struct {
		Trip *TripDetail `json:"trip"`
	} `json:"getTrip"`
}

type getReceiptData struct {
	GetReceipt *ReceiptInfo `json:"getReceipt"`
}

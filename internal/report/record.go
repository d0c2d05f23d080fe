package report

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/trip-claim/internal/model"
)

// Record is the on-disk shape of a trip batch.
type Record struct {
	OverallAmount float64      `json:"overall_amount"`
	Trips         []RecordTrip `json:"trips"`
	MonthYear     string       `json:"month_year"`
	DateRange     RecordWindow `json:"date_range"`
}

// RecordTrip is one retained trip in the record file.
type RecordTrip struct {
	UUID            string  `json:"uuid"`
	URL             string  `json:"url"`
	Status          string  `json:"status"`
	Price           float64 `json:"price"`
	Time            string  `json:"time"`
	PickupLocation  string  `json:"pickup_location"`
	DropoffLocation string  `json:"dropoff_location"`
}

// RecordWindow is the exported time range.
type RecordWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

const recordTimeLayout = "2006-01-02T15:04:05.000Z07:00"

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// NewRecord converts a batch to its file representation.
func NewRecord(batch model.TripBatch) Record {
	rec := Record{
		OverallAmount: money(batch.OverallAmount),
		Trips:         make([]RecordTrip, 0, len(batch.Trips)),
		MonthYear:     batch.Window.Label,
		DateRange: RecordWindow{
			Start: formatBound(batch.Window.Start),
			End:   formatBound(batch.Window.End),
		},
	}
	for _, t := range batch.Trips {
		rec.Trips = append(rec.Trips, RecordTrip{
			UUID:            t.ID,
			URL:             t.SourceURL,
			Status:          string(t.Status),
			Price:           money(t.Price),
			Time:            t.OccurredAt,
			PickupLocation:  t.PickupLocation,
			DropoffLocation: t.DropoffLocation,
		})
	}
	return rec
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(recordTimeLayout)
}

// WriteRecord writes batch as indented JSON to path.
func WriteRecord(path string, batch model.TripBatch) error {
	data, err := json.MarshalIndent(NewRecord(batch), "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal record")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "report: write record %s", path)
	}
	return nil
}

// ReadRecord loads a record file written by WriteRecord.
func ReadRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "report: read record %s", path)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, eris.Wrap(err, "report: unmarshal record")
	}
	return &rec, nil
}

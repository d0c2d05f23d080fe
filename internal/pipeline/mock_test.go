package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/phpdave11/gofpdf"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trip-claim/internal/delivery"
	"github.com/sells-group/trip-claim/pkg/riders"
)

// --- Riders Mock ---

type mockRidersClient struct {
	mock.Mock
}

func (m *mockRidersClient) Activities(ctx context.Context, s riders.Session, req riders.ActivitiesRequest) (*riders.ActivitiesPage, error) {
	args := m.Called(ctx, s, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*riders.ActivitiesPage), args.Error(1)
}

func (m *mockRidersClient) GetTrip(ctx context.Context, s riders.Session, tripUUID string) (*riders.TripDetail, error) {
	args := m.Called(ctx, s, tripUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*riders.TripDetail), args.Error(1)
}

func (m *mockRidersClient) GetReceipt(ctx context.Context, s riders.Session, tripUUID, timestamp string) (*riders.ReceiptInfo, error) {
	args := m.Called(ctx, s, tripUUID, timestamp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*riders.ReceiptInfo), args.Error(1)
}

func (m *mockRidersClient) DownloadReceipt(ctx context.Context, s riders.Session, tripUUID, timestamp string) ([]byte, error) {
	args := m.Called(ctx, s, tripUUID, timestamp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// --- Deliverer Mock ---

type mockDeliverer struct {
	mock.Mock
}

func (m *mockDeliverer) Deliver(ctx context.Context, folder string, s delivery.Summary) (delivery.Delivery, error) {
	args := m.Called(ctx, folder, s)
	return args.Get(0).(delivery.Delivery), args.Error(1)
}

// --- helpers ---

var testSession = riders.Session{Cookie: "sid=abc"}

func tripDetail(t *testing.T, waypoints ...any) *riders.TripDetail {
	t.Helper()
	d := &riders.TripDetail{}
	for _, w := range waypoints {
		raw, err := json.Marshal(w)
		require.NoError(t, err)
		d.Waypoints = append(d.Waypoints, raw)
	}
	return d
}

func receiptInfo(ts string) *riders.ReceiptInfo {
	return &riders.ReceiptInfo{Jobs: []riders.ReceiptJob{{Timestamp: ts, Type: "RECEIPT"}}}
}

func pdfBytes(t *testing.T, text string) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.Cell(40, 10, text)
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

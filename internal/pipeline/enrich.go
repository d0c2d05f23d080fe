package pipeline

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-claim/internal/model"
	"github.com/sells-group/trip-claim/internal/report"
	"github.com/sells-group/trip-claim/internal/resilience"
	"github.com/sells-group/trip-claim/pkg/riders"
)

// Enricher fills in trip waypoints and downloads receipts.
type Enricher struct {
	client     riders.Client
	receiptDir string
	retry      resilience.RetryConfig
}

// NewEnricher creates an Enricher that stores receipts in receiptDir.
func NewEnricher(client riders.Client, receiptDir string, retry resilience.RetryConfig) *Enricher {
	return &Enricher{client: client, receiptDir: receiptDir, retry: retry}
}

// Enrich sets the pickup and dropoff of trip from its waypoints: the first
// and last address. With fewer than two addresses both stay empty. A
// returned error wraps model.ErrDetailFetch and leaves trip untouched; it
// is informational and the caller should continue.
func (e *Enricher) Enrich(ctx context.Context, s riders.Session, trip *model.Trip) error {
	log := zap.L().With(zap.String("trip_id", trip.ID))

	detail, err := e.client.GetTrip(ctx, s, trip.ID)
	if err != nil {
		err = eris.Wrapf(model.ErrDetailFetch, "trip %s: %v", trip.ID, err)
		log.Warn("trip details unavailable", zap.Error(err))
		return err
	}

	addrs := detail.Addresses()
	if len(addrs) < 2 {
		log.Warn("trip has fewer than two waypoints", zap.Int("waypoints", len(addrs)))
		return nil
	}

	trip.PickupLocation = addrs[0]
	trip.DropoffLocation = addrs[len(addrs)-1]
	return nil
}

// FetchReceipt looks up the latest receipt of trip and downloads it. It
// returns nil when the trip has no receipt. When every download attempt
// fails the ref is returned without a LocalPath. Errors wrap
// model.ErrReceiptUnavailable or model.ErrDownloadFailed.
func (e *Enricher) FetchReceipt(ctx context.Context, s riders.Session, trip model.Trip) (*model.ReceiptRef, error) {
	log := zap.L().With(zap.String("trip_id", trip.ID))

	info, err := e.client.GetReceipt(ctx, s, trip.ID, "")
	if err != nil {
		err = eris.Wrapf(model.ErrReceiptUnavailable, "trip %s: %v", trip.ID, err)
		log.Warn("receipt lookup failed", zap.Error(err))
		return nil, err
	}

	ts := info.FirstTimestamp()
	if ts == "" {
		err = eris.Wrapf(model.ErrReceiptUnavailable, "trip %s has no receipt job", trip.ID)
		log.Warn("no receipt for trip", zap.Error(err))
		return nil, err
	}

	ref := &model.ReceiptRef{TripID: trip.ID, Timestamp: ts}

	retry := e.retry
	retry.OnRetry = resilience.RetryLogger("download_receipt", zap.String("trip_id", trip.ID))
	data, err := resilience.DoVal(ctx, retry, func(ctx context.Context) ([]byte, error) {
		return e.client.DownloadReceipt(ctx, s, trip.ID, ts)
	})
	if err != nil {
		err = eris.Wrapf(model.ErrDownloadFailed, "trip %s: %v", trip.ID, err)
		log.Warn("receipt download failed", zap.Error(err))
		return ref, err
	}

	if err := os.MkdirAll(e.receiptDir, 0o755); err != nil {
		return ref, eris.Wrapf(model.ErrDownloadFailed, "create %s: %v", e.receiptDir, err)
	}
	path := report.ReceiptPath(e.receiptDir, trip.ID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		err = eris.Wrapf(model.ErrDownloadFailed, "write %s: %v", path, err)
		log.Warn("receipt not saved", zap.Error(err))
		return ref, err
	}

	ref.LocalPath = path
	log.Debug("receipt saved", zap.String("path", path), zap.Int("bytes", len(data)))
	return ref, nil
}

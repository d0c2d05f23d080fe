package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/trip-claim/internal/config"
	"github.com/sells-group/trip-claim/internal/delivery"
	"github.com/sells-group/trip-claim/internal/model"
	"github.com/sells-group/trip-claim/internal/report"
	"github.com/sells-group/trip-claim/internal/resilience"
	"github.com/sells-group/trip-claim/pkg/riders"
)

// MinPause is the shortest allowed gap between two trips' upstream calls.
const MinPause = 500 * time.Millisecond

// Output file names inside the month folder.
const (
	RecordFile  = "trips.json"
	ReceiptsDir = "receipts"
)

// Deliverer packages a finished month folder.
type Deliverer interface {
	Deliver(ctx context.Context, folder string, s delivery.Summary) (delivery.Delivery, error)
}

// Result lists everything a run produced.
type Result struct {
	Batch         model.TripBatch
	Folder        string
	RecordPath    string
	Receipts      []*model.ReceiptRef
	Merge         report.MergeResult
	ClaimFormPath string
	Delivery      *delivery.Delivery
	// Warnings are the per-trip and delivery errors the run continued past.
	Warnings []error
}

// warn records err as a warning. Errors from the fatal taxonomy are handed
// back instead so the caller aborts.
func (r *Result) warn(err error) error {
	if err == nil {
		return nil
	}
	if model.IsFatal(err) {
		return err
	}
	r.Warnings = append(r.Warnings, err)
	return nil
}

// Pipeline runs one monthly export.
type Pipeline struct {
	cfg        *config.Config
	client     riders.Client
	fetcher    *Fetcher
	classifier *Classifier
	deliverer  Deliverer
	pacer      *pacer
	now        func() time.Time
}

// New creates a Pipeline. deliverer may be nil to skip packaging.
func New(cfg *config.Config, client riders.Client, deliverer Deliverer) *Pipeline {
	pause := time.Duration(cfg.Upstream.PauseMs) * time.Millisecond
	if pause < MinPause {
		pause = MinPause
	}
	return &Pipeline{
		cfg:        cfg,
		client:     client,
		fetcher:    NewFetcher(client, cfg.Upstream.PageLimit),
		classifier: NewClassifier(cfg.Keywords()),
		deliverer:  deliverer,
		pacer:      newPacer(rate.Every(pause)),
		now:        time.Now,
	}
}

// Run exports the trips of w into <output_dir>/<month>/. Only listing
// failures, context cancellation and artifact write errors abort the run;
// per-trip problems are logged and collected in Result.Warnings. Nothing is
// written when the listing fails. Receipts left in the month folder by an
// earlier run are removed first.
func (p *Pipeline) Run(ctx context.Context, s riders.Session, w model.TimeWindow) (*Result, error) {
	log := zap.L().With(zap.String("month_year", w.Label))
	log.Info("pipeline: starting export",
		zap.Time("start", w.Start),
		zap.Time("end", w.End),
	)

	batch, err := p.fetcher.FetchTrips(ctx, s, w)
	if err != nil {
		return nil, err
	}

	folder := filepath.Join(p.cfg.Paths.OutputDir, w.Label)
	receiptDir := filepath.Join(folder, ReceiptsDir)
	if err := os.RemoveAll(receiptDir); err != nil {
		return nil, eris.Wrapf(err, "pipeline: clear %s", receiptDir)
	}
	if err := os.MkdirAll(receiptDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "pipeline: create %s", receiptDir)
	}
	res := &Result{Folder: folder}

	enricher := NewEnricher(p.client, receiptDir,
		resilience.FromSettings(p.cfg.Download.MaxAttempts, p.cfg.Download.BackoffMs))

	for i := range batch.Trips {
		if err := p.pacer.wait(ctx); err != nil {
			return nil, eris.Wrap(err, "pipeline: interrupted")
		}

		trip := &batch.Trips[i]
		if err := res.warn(enricher.Enrich(ctx, s, trip)); err != nil {
			return nil, err
		}

		ref, err := enricher.FetchReceipt(ctx, s, *trip)
		if err := res.warn(err); err != nil {
			return nil, err
		}
		if ref != nil {
			res.Receipts = append(res.Receipts, ref)
		}
		p.pacer.done()

		log.Info("pipeline: trip processed",
			zap.String("trip_id", trip.ID),
			zap.Int("index", i+1),
			zap.Int("total", len(batch.Trips)),
			zap.Bool("locations", trip.HasLocations()),
			zap.Bool("receipt", ref.Downloaded()),
		)
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: interrupted")
	}
	res.Batch = batch

	if err := p.assemble(res, folder, receiptDir); err != nil {
		return nil, err
	}

	if p.deliverer != nil {
		d, err := p.deliverer.Deliver(ctx, folder, delivery.Summary{
			MonthYear:   w.Label,
			TotalAmount: batch.OverallAmount,
			TripCount:   len(batch.Trips),
		})
		if err != nil {
			return nil, err
		}
		res.Delivery = &d
		if err := res.warn(d.EmailErr); err != nil {
			return nil, err
		}
	}

	log.Info("pipeline: export complete",
		zap.Int("trips", len(batch.Trips)),
		zap.Int("receipts_merged", len(res.Merge.Included)),
		zap.String("overall_amount", batch.OverallAmount.StringFixed(2)),
		zap.String("retained_amount", batch.RetainedAmount().StringFixed(2)),
		zap.Int("warnings", len(res.Warnings)),
		zap.String("record", res.RecordPath),
		zap.String("receipts", res.Merge.Path),
		zap.String("claim_form", res.ClaimFormPath),
	)
	return res, nil
}

// assemble writes the record file, the merged receipts and the claim form.
func (p *Pipeline) assemble(res *Result, folder, receiptDir string) error {
	now := p.now()
	batch := res.Batch
	label := batch.Window.Label

	res.RecordPath = filepath.Join(folder, RecordFile)
	if err := report.WriteRecord(res.RecordPath, batch); err != nil {
		return err
	}

	var cover *report.CoverInfo
	if p.cfg.Report.CoverPage {
		cover = &report.CoverInfo{
			MonthYear: label,
			TripCount: len(batch.Trips),
			Total:     batch.OverallAmount,
		}
	}
	merged, err := report.MergeReceipts(batch.Trips, receiptDir,
		filepath.Join(folder, "receipts-"+label+".pdf"),
		report.MergeOptions{Cover: cover, Now: now})
	if err != nil {
		return err
	}
	res.Merge = merged

	labels := report.Labels{
		ReturnFromWork: p.cfg.Report.Labels.ReturnFromWork,
		GoingToWork:    p.cfg.Report.Labels.GoingToWork,
	}
	rows := report.BuildClaimRows(batch.Trips, p.classifier, labels, p.cfg.Report.PaymentMethod, now)

	res.ClaimFormPath = filepath.Join(folder, report.ClaimFormName(label, p.cfg.Paths.Template))
	return report.FillClaimForm(p.cfg.Paths.Template, res.ClaimFormPath, rows, report.FormOptions{
		Sheet:    p.cfg.Report.Sheet,
		StartRow: p.cfg.Report.StartRow,
	})
}

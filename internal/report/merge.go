package report

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-claim/internal/model"
)

var disablePDFConfigDir sync.Once

// MergeOptions controls the merged receipt document.
type MergeOptions struct {
	// Cover, when set, is rendered as a first summary page.
	Cover *CoverInfo
	// Now anchors year-less trip times. Defaults to time.Now().
	Now time.Time
}

// MergeResult describes what went into the merged document.
type MergeResult struct {
	Path     string
	Included []string
	Missing  []string
}

// ReceiptPath is where the receipt for tripID is stored inside dir.
func ReceiptPath(dir, tripID string) string {
	return filepath.Join(dir, tripID+".pdf")
}

// MergeReceipts concatenates the receipt of every trip, newest trip first,
// into outPath. Trips without a receipt file are logged and skipped. When
// no receipt exists at all, no file is written and Path is empty.
func MergeReceipts(trips []model.Trip, receiptDir, outPath string, opts MergeOptions) (MergeResult, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var res MergeResult
	var inFiles []string
	for _, t := range SortByTimeDesc(trips, now) {
		path := ReceiptPath(receiptDir, t.ID)
		if _, err := os.Stat(path); err != nil {
			zap.L().Warn("receipt missing, skipping in merge",
				zap.String("trip_id", t.ID),
				zap.String("time", t.OccurredAt),
			)
			res.Missing = append(res.Missing, t.ID)
			continue
		}
		inFiles = append(inFiles, path)
		res.Included = append(res.Included, t.ID)
	}

	if len(inFiles) == 0 {
		zap.L().Warn("no receipts available to merge")
		return res, nil
	}

	if opts.Cover != nil {
		coverPath := outPath + ".cover.pdf"
		if err := RenderCover(coverPath, *opts.Cover); err != nil {
			return res, err
		}
		defer os.Remove(coverPath) //nolint:errcheck
		inFiles = append([]string{coverPath}, inFiles...)
	}

	disablePDFConfigDir.Do(api.DisableConfigDir)
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	if err := api.MergeCreateFile(inFiles, outPath, false, conf); err != nil {
		return res, eris.Wrapf(err, "report: merge %d receipts", len(res.Included))
	}

	res.Path = outPath
	zap.L().Info("merged receipts",
		zap.Int("receipts", len(res.Included)),
		zap.Int("missing", len(res.Missing)),
		zap.String("path", outPath),
	)
	return res, nil
}

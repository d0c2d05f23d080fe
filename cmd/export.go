package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/trip-claim/internal/config"
	"github.com/sells-group/trip-claim/internal/delivery"
	"github.com/sells-group/trip-claim/internal/period"
	"github.com/sells-group/trip-claim/internal/pipeline"
	"github.com/sells-group/trip-claim/pkg/riders"
)

func runExport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var arg string
	if len(args) == 1 {
		arg = args[0]
	}
	month, err := period.ParseMonth(arg)
	if err != nil {
		return err
	}
	window, err := period.Resolve(month, time.Now())
	if err != nil {
		return err
	}

	token, err := config.LoadCredential(cfg.Paths.TokenFile)
	if err != nil {
		return err
	}

	client := riders.NewClient(
		riders.WithBaseURL(cfg.Upstream.BaseURL),
		riders.WithUserAgent(cfg.Upstream.UserAgent),
		riders.WithTimeout(time.Duration(cfg.Upstream.TimeoutSecs)*time.Second),
	)

	deliverer, err := newDeliverer(cfg)
	if err != nil {
		return err
	}

	res, err := pipeline.New(cfg, client, deliverer).Run(ctx, riders.Session{Cookie: token}, window)
	if err != nil {
		return err
	}

	printResult(cmd, res)
	return nil
}

// newDeliverer returns nil when neither the archive nor email is wanted.
func newDeliverer(c *config.Config) (pipeline.Deliverer, error) {
	if !c.Delivery.Zip && !c.Email.Enabled {
		return nil, nil
	}

	var sender delivery.EmailSender
	if c.Email.Enabled {
		sender = delivery.NewSMTPSender(c.Email)
	}

	p, err := delivery.NewPackager(c.Delivery.Zip, c.Email, sender)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func printResult(cmd *cobra.Command, res *pipeline.Result) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Month:\t%s\n", res.Batch.Window.Label)
	_, _ = fmt.Fprintf(w, "Trips:\t%d\n", len(res.Batch.Trips))
	_, _ = fmt.Fprintf(w, "Overall amount:\t%s\n", res.Batch.OverallAmount.StringFixed(2))
	_, _ = fmt.Fprintf(w, "Retained amount:\t%s\n", res.Batch.RetainedAmount().StringFixed(2))
	_, _ = fmt.Fprintf(w, "Receipts merged:\t%d (%d missing)\n", len(res.Merge.Included), len(res.Merge.Missing))
	_, _ = fmt.Fprintf(w, "Record:\t%s\n", res.RecordPath)
	if res.Merge.Path != "" {
		_, _ = fmt.Fprintf(w, "Receipts:\t%s\n", res.Merge.Path)
	}
	_, _ = fmt.Fprintf(w, "Claim form:\t%s\n", res.ClaimFormPath)
	if d := res.Delivery; d != nil {
		if d.ZipPath != "" {
			_, _ = fmt.Fprintf(w, "Archive:\t%s\n", d.ZipPath)
		}
		switch {
		case d.Emailed:
			_, _ = fmt.Fprintf(w, "Email:\tsent\n")
		case d.EmailErr != nil:
			_, _ = fmt.Fprintf(w, "Email:\tfailed: %v\n", d.EmailErr)
		}
	}
	if len(res.Warnings) > 0 {
		_, _ = fmt.Fprintf(w, "Warnings:\t%d (see log)\n", len(res.Warnings))
	}
	_ = w.Flush()
}

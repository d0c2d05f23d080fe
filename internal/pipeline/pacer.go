package pipeline

import (
	"context"

	"golang.org/x/time/rate"
)

// pacer holds the run back for a full pause after each trip completes, so
// a slow trip does not eat into the gap before the next one.
type pacer struct {
	every   rate.Limit
	limiter *rate.Limiter
}

func newPacer(every rate.Limit) *pacer {
	return &pacer{every: every}
}

// done starts a pause at the current instant.
func (p *pacer) done() {
	p.limiter = rate.NewLimiter(p.every, 1)
	p.limiter.Allow()
}

// wait blocks until the pause started by the last done has elapsed. Before
// the first done it returns at once.
func (p *pacer) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

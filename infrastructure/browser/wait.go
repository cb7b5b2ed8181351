package browser

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"ecommerce_automation/domain/errs"
)

const (
	defaultTimeout      = 5 * time.Second
	defaultPollInterval = 100 * time.Millisecond
)

// poller retries an attempt until it succeeds or the timeout elapses
type poller struct {
	clock    clock.Clock
	interval time.Duration
}

// until calls attempt until it returns nil or a non-transient error.
// A transient error is returned only once the whole timeout has elapsed.
func (p poller) until(ctx context.Context, timeout time.Duration, attempt func() error) error {
	deadline := p.clock.Now().Add(timeout)

	for {
		err := attempt()
		if err == nil || !errs.IsTransient(err) {
			return err
		}

		now := p.clock.Now()
		if !now.Before(deadline) {
			return err
		}

		wait := p.interval
		if remaining := deadline.Sub(now); remaining < wait {
			wait = remaining
		}

		timer := p.clock.Timer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

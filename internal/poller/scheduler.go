package poller

import (
	"context"
	"time"
)

// PollFunc performs one poll attempt. attempt starts at 1.
// It returns true when polling should stop.
type PollFunc func(ctx context.Context, attempt int) (done bool)

// Scheduler drives a single poll function at a fixed interval.
//
// Unlike a ticker, the interval is measured from the end of one attempt to
// the start of the next, so a slow request never causes attempts to overlap
// or bunch up. Exactly one attempt is in flight at any time.
type Scheduler struct {
	interval time.Duration
}

// NewScheduler creates a [Scheduler] that waits interval between attempts.
// A non-positive interval polls back to back.
func NewScheduler(interval time.Duration) *Scheduler {
	return &Scheduler{interval: interval}
}

// Interval returns the wait between attempts.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run calls poll immediately, then again after each interval, until poll
// returns true or ctx is cancelled.
//
// Run returns the number of attempts made. The error is nil when poll ended
// the loop and ctx.Err() when the context was cancelled; a cancellation that
// arrives while poll is running is reported after poll returns.
func (s *Scheduler) Run(ctx context.Context, poll PollFunc) (int, error) {
	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return attempts, err
		}

		attempts++
		if poll(ctx, attempts) {
			return attempts, nil
		}

		if err := s.wait(ctx); err != nil {
			return attempts, err
		}
	}
}

// wait blocks for the interval or until ctx is done.
func (s *Scheduler) wait(ctx context.Context) error {
	if s.interval <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

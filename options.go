package initwait

import (
	"errors"
	"log/slog"
	"time"
)

// pollerConfig holds mutable state during Poller construction.
type pollerConfig struct {
	pollInterval     time.Duration
	requestTimeout   time.Duration
	logger           *slog.Logger
	fetcher          Fetcher
	outcomeCallbacks []func(Outcome, Decision)
}

// Option is a function that configures a [Poller] during construction.
//
// Options return an error if validation fails. Built-in options:
// [WithPollInterval], [WithRequestTimeout], [WithLogger], [WithFetcher],
// [WithOutcomeCallback].
type Option func(*pollerConfig) error

// WithPollInterval sets the wait between the end of one fetch and the start
// of the next. Defaults to 10 seconds.
//
// Returns an error if the duration is zero or negative.
func WithPollInterval(d time.Duration) Option {
	return func(cfg *pollerConfig) error {
		if d <= 0 {
			return errors.New("poll interval must be positive")
		}
		cfg.pollInterval = d
		return nil
	}
}

// WithRequestTimeout bounds each fetch, including reading the body. A request
// that exceeds it counts as a transport failure and polling continues.
// Zero disables the timeout. Defaults to 100 seconds.
//
// Returns an error if the duration is negative.
func WithRequestTimeout(d time.Duration) Option {
	return func(cfg *pollerConfig) error {
		if d < 0 {
			return errors.New("request timeout cannot be negative")
		}
		cfg.requestTimeout = d
		return nil
	}
}

// WithLogger sets the [slog.Logger] used for per-attempt diagnostics.
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *pollerConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithFetcher replaces the HTTP fetcher. This is mainly useful for tests
// that inject outcomes without a network. When set, [WithRequestTimeout]
// has no effect.
//
// Returns an error if the fetcher is nil.
func WithFetcher(f Fetcher) Option {
	return func(cfg *pollerConfig) error {
		if f == nil {
			return errors.New("fetcher cannot be nil")
		}
		cfg.fetcher = f
		return nil
	}
}

// WithOutcomeCallback registers a function called after every attempt with
// the fetch outcome and its classification.
//
// Callbacks run synchronously on the polling goroutine in registration
// order, so they must not block. Panics are recovered and logged.
// Nil callbacks are ignored.
//
// Example:
//
//	p, err := initwait.New(url,
//	    initwait.WithOutcomeCallback(func(o initwait.Outcome, d initwait.Decision) {
//	        attempts.Add(1)
//	    }),
//	)
func WithOutcomeCallback(cb func(Outcome, Decision)) Option {
	return func(cfg *pollerConfig) error {
		if cb == nil {
			return nil
		}
		cfg.outcomeCallbacks = append(cfg.outcomeCallbacks, cb)
		return nil
	}
}

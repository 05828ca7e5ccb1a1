package initwait

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/initwait/internal/poller"
)

const (
	// DefaultPollInterval is used when no interval is configured.
	DefaultPollInterval = 10 * time.Second

	// DefaultRequestTimeout bounds a single fetch when none is configured.
	DefaultRequestTimeout = 100 * time.Second
)

// Fetcher performs a single GET of the remote URL.
//
// Implementations must report transport failures through
// [Outcome.TransportSucceeded] and [Outcome.Err] rather than panicking.
type Fetcher interface {
	Fetch(ctx context.Context, url string) Outcome
}

// httpFetcher adapts the internal poller client to [Fetcher].
type httpFetcher struct {
	client  *poller.Client
	timeout time.Duration
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) Outcome {
	resp := f.client.Fetch(ctx, url, f.timeout)
	return Outcome{
		TransportSucceeded: resp.Error == nil,
		StatusCode:         resp.StatusCode,
		Body:               resp.Body,
		Err:                resp.Error,
		Latency:            resp.Latency,
	}
}

// Poller repeatedly fetches a remote status URL until the remote service
// reports a terminal InitiateStatus.
//
// A Poller is created with [New] and driven with [Poller.Run]. It holds no
// state between attempts other than its immutable configuration.
type Poller struct {
	url              string
	logger           *slog.Logger
	fetcher          Fetcher
	client           *poller.Client // nil when a custom fetcher is used
	scheduler        *poller.Scheduler
	outcomeCallbacks []func(Outcome, Decision)
}

// New creates a [Poller] for remoteURL.
//
// remoteURL must be an absolute http or https URL. Defaults:
//   - Poll interval: 10 seconds
//   - Request timeout: 100 seconds
//   - Logger: [slog.Default]
//
// Returns an error if the URL is invalid or any option is invalid.
//
// Example:
//
//	p, err := initwait.New("http://provisioner:8080/status",
//	    initwait.WithPollInterval(5*time.Second),
//	)
func New(remoteURL string, opts ...Option) (*Poller, error) {
	if err := ValidateURL(remoteURL); err != nil {
		return nil, err
	}

	cfg := &pollerConfig{
		pollInterval:   DefaultPollInterval,
		requestTimeout: DefaultRequestTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &Poller{
		url:              remoteURL,
		logger:           logger,
		fetcher:          cfg.fetcher,
		scheduler:        poller.NewScheduler(cfg.pollInterval),
		outcomeCallbacks: cfg.outcomeCallbacks,
	}
	if p.fetcher == nil {
		p.client = poller.NewClient()
		p.fetcher = &httpFetcher{client: p.client, timeout: cfg.requestTimeout}
	}

	return p, nil
}

// ValidateURL reports whether rawURL is an absolute http or https URL.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("remote URL cannot be empty")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid remote URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("remote URL scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("remote URL must have a host")
	}
	return nil
}

// URL returns the polled URL.
func (p *Poller) URL() string {
	return p.url
}

// PollInterval returns the wait between attempts.
func (p *Poller) PollInterval() time.Duration {
	return p.scheduler.Interval()
}

// Run polls until a terminal decision is reached or ctx is cancelled.
//
// The first fetch happens immediately. After every non-terminal decision
// Run waits the poll interval, measured from the end of the attempt.
// Transport failures and 4xx/5xx responses never end polling; there is no
// retry ceiling.
//
// On a terminal decision Run returns a [Result] with a terminal Action and a
// nil error. If ctx is cancelled first, Result.Action is [ContinuePolling]
// and the error is ctx.Err(). Run never exits the process; map
// [Action.ExitCode] to an exit status in main.
func (p *Poller) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	logger := p.logger.With("run_id", uuid.NewString())

	logger.Info("polling started",
		"url", p.url,
		"poll_interval", p.scheduler.Interval().String(),
	)

	var last Decision
	attempts, err := p.scheduler.Run(ctx, func(ctx context.Context, attempt int) bool {
		outcome := p.fetch(ctx, logger, attempt)
		decision := Classify(outcome)
		p.logDecision(logger, decision, outcome)
		p.notify(logger, outcome, decision)
		last = decision
		return decision.Action.Terminal()
	})

	result := Result{
		Action:   last.Action,
		Decision: last,
		Attempts: attempts,
		Elapsed:  time.Since(start),
	}
	if err != nil {
		result.Action = ContinuePolling
		logger.Info("polling cancelled", "attempts", attempts, "error", err)
		return result, err
	}

	logger.Info("polling finished",
		"action", result.Action.String(),
		"attempts", attempts,
		"elapsed", result.Elapsed.Round(time.Millisecond).String(),
	)
	return result, nil
}

// Close releases idle connections held by the default fetcher.
// Safe to call multiple times.
func (p *Poller) Close() {
	if p == nil {
		return
	}
	p.client.Close()
}

// fetch performs one request and logs either the status code or the
// transport failure.
func (p *Poller) fetch(ctx context.Context, logger *slog.Logger, attempt int) Outcome {
	outcome := p.fetcher.Fetch(ctx, p.url)
	if !outcome.TransportSucceeded {
		logger.Warn("request failed, continuing to check",
			"attempt", attempt,
			"error", outcome.Err,
		)
		return outcome
	}

	logger.Info("response received",
		"attempt", attempt,
		"status_code", outcome.StatusCode,
		"latency", outcome.Latency.Round(time.Millisecond).String(),
	)
	return outcome
}

// logDecision writes the classification line for an attempt. Transport
// errors were already logged by fetch and unhandled status codes are
// deliberately silent.
func (p *Poller) logDecision(logger *slog.Logger, d Decision, o Outcome) {
	switch d.Reason {
	case ReasonFailed:
		logger.Error("init process has failed", "initiate_status", d.Status.String())
	case ReasonInProgress:
		logger.Info("init process is in progress, continuing to check")
	case ReasonNotTriggered:
		logger.Info("no change has been applied", "initiate_status", d.Status.String())
	case ReasonSucceeded:
		logger.Info("init process completed successfully", "initiate_status", d.Status.String())
	case ReasonUnknownStatus:
		logger.Error("unknown InitiateStatus", "initiate_status", d.Status.String())
	case ReasonMalformedResponse:
		logger.Error("malformed response body", "status_code", o.StatusCode, "error", d.Err)
	case ReasonServerUnavailable:
		logger.Warn("server is not available, continuing to check",
			"url", p.url,
			"status_code", o.StatusCode,
		)
	}
}

// notify invokes outcome callbacks with panic recovery. A panicking
// callback is logged with a correlation ID and does not stop polling.
func (p *Poller) notify(logger *slog.Logger, o Outcome, d Decision) {
	for _, cb := range p.outcomeCallbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("outcome callback panic",
						"correlation_id", uuid.NewString(),
						"panic", fmt.Sprintf("%v", r),
						"stack", string(debug.Stack()),
					)
				}
			}()
			cb(o, d)
		}()
	}
}

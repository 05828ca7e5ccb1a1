package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jpalmerr/initwait"
)

var (
	// ErrNotConfigured means a required setting is absent from both the
	// environment and the config file. The command treats this as a clean
	// exit, not a failure.
	ErrNotConfigured = errors.New("required configuration is not set")

	// ErrInvalidConfig means a setting is present but unusable.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config is the resolved, immutable configuration for one run.
type Config struct {
	// RemoteURL is the absolute http or https URL to poll.
	RemoteURL string

	// PollInterval is the wait between polls.
	PollInterval time.Duration

	// RequestTimeout bounds each request. Zero means no timeout.
	RequestTimeout time.Duration

	// LogLevel is the minimum level for diagnostic output.
	LogLevel slog.Level
}

// Resolve merges the optional config file with the environment.
//
// Environment variables override file values. A remote URL and a poll
// interval must each be present in at least one source; otherwise the
// returned error wraps [ErrNotConfigured]. A SLEEP_TIME that is present but
// not a positive integer falls back to the default interval rather than
// counting as missing. A remote URL that is present but not an absolute
// http or https URL wraps [ErrInvalidConfig].
func Resolve(file *File, env Env) (*Config, error) {
	cfg := &Config{
		PollInterval:   initwait.DefaultPollInterval,
		RequestTimeout: initwait.DefaultRequestTimeout,
		LogLevel:       env.LogLevel.Level,
	}

	var haveURL, haveInterval bool

	if file != nil {
		if file.RemoteURL != "" {
			cfg.RemoteURL = file.RemoteURL
			haveURL = true
		}
		if file.PollInterval != nil {
			cfg.PollInterval = file.PollInterval.Duration()
			haveInterval = true
		}
		if file.RequestTimeout != nil {
			cfg.RequestTimeout = file.RequestTimeout.Duration()
		}
	}

	if env.RemoteURL != nil {
		cfg.RemoteURL = *env.RemoteURL
		haveURL = true
	}
	if env.SleepTime.Set {
		cfg.PollInterval = env.SleepTime.Or(initwait.DefaultPollInterval)
		haveInterval = true
	}
	if env.RequestTimeout.Set {
		cfg.RequestTimeout = env.RequestTimeout.Or(initwait.DefaultRequestTimeout)
	}

	var missing []string
	if !haveURL {
		missing = append(missing, "REMOTE_URL")
	}
	if !haveInterval {
		missing = append(missing, "SLEEP_TIME")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, strings.Join(missing, ", "))
	}

	// validated after merging so REMOTE_URL can replace a bad file value
	if err := initwait.ValidateURL(cfg.RemoteURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// BuildPoller creates an [initwait.Poller] from a resolved configuration.
func BuildPoller(cfg *Config, logger *slog.Logger, opts ...initwait.Option) (*initwait.Poller, error) {
	base := []initwait.Option{
		initwait.WithPollInterval(cfg.PollInterval),
		initwait.WithRequestTimeout(cfg.RequestTimeout),
	}
	if logger != nil {
		base = append(base, initwait.WithLogger(logger))
	}

	p, err := initwait.New(cfg.RemoteURL, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create poller: %w", err)
	}
	return p, nil
}

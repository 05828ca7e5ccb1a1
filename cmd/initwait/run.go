package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jpalmerr/initwait/config"
)

const (
	logFormatText = "text"
	logFormatJSON = "json"
)

// addGlobalFlags registers flags shared by the root command and validate.
func addGlobalFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "path to an optional YAML config file; environment variables override it")
	fs.String("log-format", logFormatText, "log output format: text or json")
}

// newLogger creates the CLI logger writing to w.
func newLogger(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case logFormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case logFormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (expected %q or %q)", format, logFormatText, logFormatJSON)
	}
}

// loadConfig reads the environment and the optional config file and
// resolves them. The returned error wraps config.ErrNotConfigured when a
// required setting is missing.
func loadConfig(cmd *cobra.Command) (*config.Config, config.Env, error) {
	env, err := config.FromEnv()
	if err != nil {
		return nil, env, err
	}

	var file *config.File
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		file, err = config.Load(path)
		if err != nil {
			return nil, env, fmt.Errorf("failed to load config: %w", err)
		}
	}

	cfg, err := config.Resolve(file, env)
	return cfg, env, err
}

// runWait polls until the remote service reports a terminal status.
func runWait(cmd *cobra.Command, args []string) error {
	cfg, env, err := loadConfig(cmd)

	format, _ := cmd.Flags().GetString("log-format")
	logger, logErr := newLogger(cmd.ErrOrStderr(), format, env.LogLevel.Level)
	if logErr != nil {
		return logErr
	}

	if env.LogLevel.Set && !env.LogLevel.Valid {
		logger.Warn("LOG_LEVEL is not a known level, using info", "value", env.LogLevel.Raw)
	}

	switch {
	case errors.Is(err, config.ErrNotConfigured):
		// missing configuration is a clean exit so the pod still starts
		logger.Warn("REMOTE_URL or SLEEP_TIME environment variable is not set, skipping wait",
			"error", err,
		)
		return nil
	case err != nil:
		logger.Error("invalid configuration", "error", err)
		return &exitError{code: 1, err: err}
	}

	p, err := config.BuildPoller(cfg, logger)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return &exitError{code: 1, err: err}
	}
	defer p.Close()

	// Run only fails on context cancellation, which the CLI never triggers
	// itself; the container runtime ends the process instead.
	result, err := p.Run(cmd.Context())
	if err != nil {
		logger.Error("polling stopped", "error", err)
		return &exitError{code: 1, err: fmt.Errorf("polling stopped: %w", err)}
	}

	if code := result.Action.ExitCode(); code != 0 {
		return &exitError{
			code: code,
			err:  fmt.Errorf("init process did not succeed: %s", result.Decision.Reason),
		}
	}
	return nil
}

// Package config resolves initwait's configuration.
//
// Configuration normally comes from the environment (REMOTE_URL and
// SLEEP_TIME, see [FromEnv]). An optional YAML file can supply the same
// settings; environment variables take precedence over the file.
//
// Example configuration file:
//
//	remote_url: http://${PROVISIONER_HOST:-provisioner}:8080/status
//	poll_interval: 10s
//	request_timeout: 30s
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the structure of the optional YAML configuration file.
//
// Pointer fields are nil when the key is absent, so an explicit zero can be
// told apart from a missing value.
type File struct {
	// RemoteURL is the status URL to poll.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	RemoteURL string `yaml:"remote_url"`

	// PollInterval is the wait between polls, as a duration string like
	// "10s" or "500ms". Must be positive if present.
	PollInterval *Duration `yaml:"poll_interval"`

	// RequestTimeout bounds each request. "0s" disables the timeout.
	RequestTimeout *Duration `yaml:"request_timeout"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		varName := submatches[1]
		hasDefault := submatches[2] != ""

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return submatches[3]
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in remote_url. All fields are
// optional; missing values are filled from the environment or defaults by
// [Resolve].
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := f.expandAndValidate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// expandAndValidate expands environment variables and validates the file.
// remote_url is checked by [Resolve] once REMOTE_URL has had a chance to
// replace it.
func (f *File) expandAndValidate() error {
	if f.RemoteURL != "" {
		expanded, err := expandEnvVars(f.RemoteURL)
		if err != nil {
			return fmt.Errorf("remote_url: %w", err)
		}
		f.RemoteURL = expanded
	}

	if f.PollInterval != nil && f.PollInterval.Duration() <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", f.PollInterval.Duration())
	}

	if f.RequestTimeout != nil && f.RequestTimeout.Duration() < 0 {
		return errors.New("request_timeout cannot be negative")
	}

	return nil
}

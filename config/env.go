package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Env holds the raw settings read from environment variables.
//
// Required settings are recorded as present or absent rather than rejected,
// because a missing variable is reported by [Resolve], not here.
type Env struct {
	// RemoteURL is nil when REMOTE_URL is unset. An empty value still counts
	// as set.
	RemoteURL *string `envconfig:"REMOTE_URL"`

	// SleepTime is the poll interval in milliseconds.
	SleepTime Millis `envconfig:"SLEEP_TIME"`

	// RequestTimeout is the per-request timeout in milliseconds.
	RequestTimeout Millis `envconfig:"REQUEST_TIMEOUT"`

	// LogLevel accepts debug, info, warn or error, case-insensitively.
	LogLevel LogLevel `envconfig:"LOG_LEVEL"`
}

// Millis is an environment value holding a whole number of milliseconds.
//
// Decoding never fails: a value that is not a 32-bit integer, or is not
// positive, is recorded as set but not valid so the caller can substitute a
// default.
type Millis struct {
	// Raw is the unparsed value.
	Raw string

	// Value is the parsed duration, meaningful only when Valid is true.
	Value time.Duration

	// Set reports whether the variable was present in the environment.
	Set bool

	// Valid reports whether Raw parsed to a positive number.
	Valid bool
}

// Decode implements envconfig.Decoder.
func (m *Millis) Decode(value string) error {
	*m = Millis{Raw: value, Set: true}

	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	if err != nil || n <= 0 {
		return nil
	}

	m.Value = time.Duration(n) * time.Millisecond
	m.Valid = true
	return nil
}

// Or returns the parsed duration, or def when the value is unset or invalid.
func (m Millis) Or(def time.Duration) time.Duration {
	if m.Valid {
		return m.Value
	}
	return def
}

// LogLevel is an environment value naming a slog level.
//
// Like [Millis], decoding never fails. An unrecognised name leaves Level at
// info and Valid false, so a typo cannot stop the wait from running.
type LogLevel struct {
	// Raw is the unparsed value.
	Raw string

	// Level is the parsed level, or info when unset or invalid.
	Level slog.Level

	// Set reports whether the variable was present in the environment.
	Set bool

	// Valid reports whether Raw named a known level.
	Valid bool
}

// Decode implements envconfig.Decoder.
func (l *LogLevel) Decode(value string) error {
	*l = LogLevel{Raw: value, Set: true, Level: slog.LevelInfo}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return nil
	}

	l.Level = level
	l.Valid = true
	return nil
}

// FromEnv reads REMOTE_URL, SLEEP_TIME, REQUEST_TIMEOUT and LOG_LEVEL.
//
// Values are carried through unjudged for [Resolve]; malformed numbers and
// level names are recorded rather than rejected.
func FromEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return env, nil
}

package config

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jpalmerr/initwait"
)

func strPtr(s string) *string { return &s }

func millis(raw string) Millis {
	var m Millis
	_ = m.Decode(raw)
	return m
}

func durPtr(d time.Duration) *Duration {
	v := Duration(d)
	return &v
}

func TestResolve_FromEnv(t *testing.T) {
	cfg, err := Resolve(nil, Env{
		RemoteURL: strPtr("http://provisioner/status"),
		SleepTime: millis("2000"),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.RemoteURL != "http://provisioner/status" {
		t.Errorf("RemoteURL = %q", cfg.RemoteURL)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", cfg.PollInterval)
	}
	if cfg.RequestTimeout != initwait.DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v, want %v", cfg.RequestTimeout, initwait.DefaultRequestTimeout)
	}
}

// TestResolve_InvalidSleepTimeUsesDefault verifies that a present but
// unusable SLEEP_TIME falls back to 10 seconds.
func TestResolve_InvalidSleepTimeUsesDefault(t *testing.T) {
	for _, raw := range []string{"-5", "notanumber", "0", ""} {
		t.Run(raw, func(t *testing.T) {
			cfg, err := Resolve(nil, Env{
				RemoteURL: strPtr("http://provisioner/status"),
				SleepTime: millis(raw),
			})
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if cfg.PollInterval != 10000*time.Millisecond {
				t.Errorf("PollInterval = %v, want 10s", cfg.PollInterval)
			}
		})
	}
}

func TestResolve_InvalidRequestTimeoutUsesDefault(t *testing.T) {
	cfg, err := Resolve(nil, Env{
		RemoteURL:      strPtr("http://provisioner/status"),
		SleepTime:      millis("1000"),
		RequestTimeout: millis("never"),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.RequestTimeout != initwait.DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v, want %v", cfg.RequestTimeout, initwait.DefaultRequestTimeout)
	}
}

func TestResolve_NotConfigured(t *testing.T) {
	tests := []struct {
		name        string
		file        *File
		env         Env
		wantMissing string
	}{
		{"nothing set", nil, Env{}, "REMOTE_URL, SLEEP_TIME"},
		{"url unset", nil, Env{SleepTime: millis("1000")}, "REMOTE_URL"},
		{"sleep unset", nil, Env{RemoteURL: strPtr("http://provisioner/status")}, "SLEEP_TIME"},
		{"file without interval", &File{RemoteURL: "http://provisioner/status"}, Env{}, "SLEEP_TIME"},
		{"file without url", &File{PollInterval: durPtr(time.Second)}, Env{}, "REMOTE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.file, tt.env)
			if !errors.Is(err, ErrNotConfigured) {
				t.Fatalf("Resolve() error = %v, want ErrNotConfigured", err)
			}
			if !strings.HasSuffix(err.Error(), tt.wantMissing) {
				t.Errorf("Resolve() error = %q, want to name %q", err, tt.wantMissing)
			}
		})
	}
}

// TestResolve_InvalidSleepTimeIsNotMissing verifies that only an unset
// SLEEP_TIME counts as missing configuration.
func TestResolve_InvalidSleepTimeIsNotMissing(t *testing.T) {
	_, err := Resolve(nil, Env{
		RemoteURL: strPtr("http://provisioner/status"),
		SleepTime: millis("garbage"),
	})
	if err != nil {
		t.Errorf("Resolve() error = %v, want nil", err)
	}
}

func TestResolve_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "provisioner/status", "ftp://provisioner/status"} {
		t.Run(raw, func(t *testing.T) {
			_, err := Resolve(nil, Env{RemoteURL: strPtr(raw), SleepTime: millis("1000")})
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Resolve() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestResolve_InvalidFileURL(t *testing.T) {
	file := &File{RemoteURL: "ftp://from-file/status", PollInterval: durPtr(time.Second)}

	_, err := Resolve(file, Env{})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Resolve() error = %v, want ErrInvalidConfig", err)
	}
	if !strings.Contains(err.Error(), "scheme must be http or https") {
		t.Errorf("Resolve() error = %q, want scheme explanation", err)
	}
}

func TestResolve_EnvURLReplacesInvalidFileURL(t *testing.T) {
	file := &File{RemoteURL: "ftp://from-file/status", PollInterval: durPtr(time.Second)}

	cfg, err := Resolve(file, Env{RemoteURL: strPtr("http://from-env/status")})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.RemoteURL != "http://from-env/status" {
		t.Errorf("RemoteURL = %q, want http://from-env/status", cfg.RemoteURL)
	}
}

func TestResolve_EnvOverridesFile(t *testing.T) {
	file := &File{
		RemoteURL:      "http://from-file/status",
		PollInterval:   durPtr(30 * time.Second),
		RequestTimeout: durPtr(5 * time.Second),
	}

	cfg, err := Resolve(file, Env{
		RemoteURL: strPtr("http://from-env/status"),
		SleepTime: millis("1500"),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.RemoteURL != "http://from-env/status" {
		t.Errorf("RemoteURL = %q, want env value", cfg.RemoteURL)
	}
	if cfg.PollInterval != 1500*time.Millisecond {
		t.Errorf("PollInterval = %v, want 1.5s", cfg.PollInterval)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want file value 5s", cfg.RequestTimeout)
	}
}

func TestResolve_FileOnly(t *testing.T) {
	file := &File{
		RemoteURL:      "http://from-file/status",
		PollInterval:   durPtr(3 * time.Second),
		RequestTimeout: durPtr(0),
	}

	cfg, err := Resolve(file, Env{LogLevel: LogLevel{Level: slog.LevelWarn, Set: true, Valid: true}})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.PollInterval != 3*time.Second {
		t.Errorf("PollInterval = %v, want 3s", cfg.PollInterval)
	}
	if cfg.RequestTimeout != 0 {
		t.Errorf("RequestTimeout = %v, want 0", cfg.RequestTimeout)
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Errorf("LogLevel = %v, want WARN", cfg.LogLevel)
	}
}

func TestBuildPoller(t *testing.T) {
	cfg := &Config{
		RemoteURL:      "http://provisioner/status",
		PollInterval:   4 * time.Second,
		RequestTimeout: time.Second,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := BuildPoller(cfg, logger)
	if err != nil {
		t.Fatalf("BuildPoller() error = %v", err)
	}
	defer p.Close()

	if p.URL() != cfg.RemoteURL {
		t.Errorf("URL() = %q, want %q", p.URL(), cfg.RemoteURL)
	}
	if p.PollInterval() != 4*time.Second {
		t.Errorf("PollInterval() = %v, want 4s", p.PollInterval())
	}
}

func TestBuildPoller_InvalidConfig(t *testing.T) {
	_, err := BuildPoller(&Config{RemoteURL: "http://provisioner/status"}, nil)
	if err == nil {
		t.Fatal("BuildPoller() error = nil, want error for zero poll interval")
	}
	if !strings.Contains(err.Error(), "failed to create poller") {
		t.Errorf("BuildPoller() error = %q", err)
	}
}

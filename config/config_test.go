package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_Full(t *testing.T) {
	yaml := `
remote_url: https://provisioner.example.com/status
poll_interval: 5s
request_timeout: 30s
`
	f, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if f.RemoteURL != "https://provisioner.example.com/status" {
		t.Errorf("RemoteURL = %q", f.RemoteURL)
	}
	if f.PollInterval == nil || f.PollInterval.Duration() != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", f.PollInterval)
	}
	if f.RequestTimeout == nil || f.RequestTimeout.Duration() != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", f.RequestTimeout)
	}
}

func TestParse_EmptyFile(t *testing.T) {
	f, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.RemoteURL != "" || f.PollInterval != nil || f.RequestTimeout != nil {
		t.Errorf("Parse(\"\") = %+v, want zero File", f)
	}
}

func TestParse_ZeroRequestTimeoutDisables(t *testing.T) {
	f, err := Parse([]byte("request_timeout: 0s\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.RequestTimeout == nil || f.RequestTimeout.Duration() != 0 {
		t.Errorf("RequestTimeout = %v, want explicit 0", f.RequestTimeout)
	}
}

func TestParse_EnvVarExpansion(t *testing.T) {
	t.Setenv("PROVISIONER_HOST", "prov.internal")

	f, err := Parse([]byte(`remote_url: "http://${PROVISIONER_HOST}:${PROVISIONER_PORT:-8080}/status"`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.RemoteURL != "http://prov.internal:8080/status" {
		t.Errorf("RemoteURL = %q, want http://prov.internal:8080/status", f.RemoteURL)
	}
}

func TestParse_Errors(t *testing.T) {
	unsetEnv(t, "INITWAIT_TEST_MISSING")

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"invalid yaml", "remote_url: [unclosed", "failed to parse YAML"},
		{"bad duration", "poll_interval: soon", "invalid duration"},
		{"zero interval", "poll_interval: 0s", "poll_interval must be positive"},
		{"negative interval", "poll_interval: -1s", "poll_interval must be positive"},
		{"negative timeout", "request_timeout: -5s", "request_timeout cannot be negative"},
		{"missing env var", "remote_url: http://${INITWAIT_TEST_MISSING}/status", `"INITWAIT_TEST_MISSING" is not set`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %q, want to contain %q", err, tt.wantErr)
			}
		})
	}
}

// TestParse_DefersURLValidation verifies that an unusable remote_url is
// kept as written; Resolve rejects it only if REMOTE_URL does not replace it.
func TestParse_DefersURLValidation(t *testing.T) {
	f, err := Parse([]byte("remote_url: ftp://host/status\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.RemoteURL != "ftp://host/status" {
		t.Errorf("RemoteURL = %q, want ftp://host/status", f.RemoteURL)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "initwait.yaml")
	if err := os.WriteFile(path, []byte("remote_url: http://localhost:9999/status\npoll_interval: 1s\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.RemoteURL != "http://localhost:9999/status" {
		t.Errorf("RemoteURL = %q", f.RemoteURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/initwait.yaml")
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Load() error = %q, want to contain 'failed to read config file'", err)
	}
}

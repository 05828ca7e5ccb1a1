package main

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// mockProvisioner simulates a remote provisioning service. It reports
// InProgress until readyAt, then the final status.
type mockProvisioner struct {
	mu      sync.Mutex
	readyAt time.Time
	final   string
}

// StartMockProvisioner runs a mock status endpoint on addr that reports
// InProgress for the given duration and then final.
// Call this in a goroutine before creating the poller.
func StartMockProvisioner(addr string, inProgressFor time.Duration, final string) {
	m := &mockProvisioner{
		readyAt: time.Now().Add(inProgressFor),
		final:   final,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		// simulate small latency variance
		time.Sleep(time.Duration(50+rand.Intn(150)) * time.Millisecond)

		// fail roughly one request in five to exercise retries
		if rand.Intn(5) == 0 {
			http.Error(w, "provisioner busy", http.StatusServiceUnavailable)
			return
		}

		m.mu.Lock()
		status := "InProgress"
		if time.Now().After(m.readyAt) {
			status = m.final
		}
		m.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"InitiateStatus": status}); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock server error", "error", err)
	}
}

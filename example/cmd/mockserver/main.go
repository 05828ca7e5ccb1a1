// Standalone mock provisioning service for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver -in-progress 20s -final Success
//
// Then in another terminal:
//
//	REMOTE_URL=http://localhost:9999/status SLEEP_TIME=2000 go run ./cmd/initwait
//
// POST /status?value=Fail (or any InitiateStatus) overrides the reported
// status immediately; POST /status?code=503 makes it answer with that
// HTTP status code instead.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/pflag"
)

func main() {
	addr := pflag.String("addr", ":9999", "listen address")
	inProgress := pflag.Duration("in-progress", 20*time.Second, "how long to report InProgress")
	final := pflag.String("final", "Success", "InitiateStatus reported after the in-progress period")
	pflag.Parse()

	fmt.Printf("Mock provisioner starting on %s\n", *addr)
	fmt.Printf("Reports InProgress for %s, then %s\n", *inProgress, *final)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	var (
		mu       sync.Mutex
		readyAt  = time.Now().Add(*inProgress)
		override string
		code     int
	)

	http.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			mu.Lock()
			if v := r.URL.Query().Get("value"); v != "" {
				override = v
			}
			if c, err := strconv.Atoi(r.URL.Query().Get("code")); err == nil {
				code = c
			}
			mu.Unlock()
			slog.Info("state changed", "value", r.URL.Query().Get("value"), "code", r.URL.Query().Get("code"))
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mu.Lock()
		status := "InProgress"
		switch {
		case override != "":
			status = override
		case time.Now().After(readyAt):
			status = *final
		}
		statusCode := code
		mu.Unlock()

		if statusCode != 0 && statusCode != http.StatusOK {
			http.Error(w, http.StatusText(statusCode), statusCode)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"InitiateStatus": status})
	})

	if err := http.ListenAndServe(*addr, nil); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

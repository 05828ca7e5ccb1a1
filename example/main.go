package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jpalmerr/initwait"
)

func main() {
	// start mock provisioner (see mock_server.go)
	go StartMockProvisioner(":9999", 5*time.Second, string(initwait.StatusSuccess))
	time.Sleep(100 * time.Millisecond)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	p, err := initwait.New("http://localhost:9999/status",
		initwait.WithPollInterval(time.Second),
		initwait.WithRequestTimeout(5*time.Second),
		initwait.WithLogger(logger),
		initwait.WithOutcomeCallback(func(o initwait.Outcome, d initwait.Decision) {
			fmt.Printf("  attempt -> %-20s %s\n", d.Reason, d.Action)
		}),
	)
	if err != nil {
		slog.Error("failed to create poller", "error", err)
		os.Exit(1)
	}
	defer p.Close()

	fmt.Println()
	fmt.Println("  initwait demo: the mock provisioner reports InProgress for 5s,")
	fmt.Println("  answers 503 about one time in five, then reports Success.")
	fmt.Println()

	result, err := p.Run(context.Background())
	if err != nil {
		slog.Error("polling stopped", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\n  finished after %d attempts in %s, exit code %d\n\n",
		result.Attempts, result.Elapsed.Round(time.Millisecond), result.Action.ExitCode())
	os.Exit(result.Action.ExitCode())
}

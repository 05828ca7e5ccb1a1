// Package initwait blocks until a remote provisioning process reports that
// it has finished.
//
// It is built to run as a container init step: a [Poller] fetches a status
// URL at a fixed interval, classifies each response, and returns once the
// remote service reports a terminal state. The caller turns the final
// [Action] into a process exit code.
//
// # Quick Start
//
//	p, err := initwait.New("http://provisioner:8080/status",
//	    initwait.WithPollInterval(10*time.Second),
//	)
//	if err != nil {
//	    slog.Error("invalid configuration", "error", err)
//	    os.Exit(1)
//	}
//	defer p.Close()
//
//	result, _ := p.Run(context.Background())
//	os.Exit(result.Action.ExitCode())
//
// # Response Contract
//
// The remote service answers GET requests with a JSON object carrying a
// string InitiateStatus field:
//
//	{"InitiateStatus": "InProgress"}
//
// [Classify] maps each fetch to a [Decision]:
//
//   - Transport failure: keep polling
//   - 200-399 with Success or NotTriggered: [ExitSuccess]
//   - 200-399 with InProgress: keep polling
//   - 200-399 with Fail, any other value, or a malformed body: [ExitFailure]
//   - 400-599: keep polling
//   - Any other status code: keep polling, silently
//
// There is no retry ceiling and no backoff. Transient conditions are retried
// every poll interval until the process is terminated.
//
// # Architecture
//
//   - internal/poller: HTTP fetch client and the fixed-interval scheduler
//   - config: environment and YAML configuration resolution
//   - cmd/initwait: the command-line entry point
package initwait

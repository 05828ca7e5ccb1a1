// Package main is the entry point for the initwait CLI.
//
// initwait is meant to run as a container init step. It polls REMOTE_URL
// every SLEEP_TIME milliseconds until the remote provisioning service
// reports a terminal InitiateStatus, then exits 0 on success and 1 on
// failure.
//
// Usage:
//
//	initwait                      # wait using REMOTE_URL and SLEEP_TIME
//	initwait -c initwait.yaml     # wait using a config file (env overrides)
//	initwait validate             # check configuration without polling
//	initwait version              # show version info
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd runs the wait when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "initwait",
	Short: "Block until a remote provisioning process completes",
	Long: `initwait polls a remote status endpoint until it reports that
provisioning has finished, then exits with a code reflecting the outcome.

The endpoint must answer GET requests with a JSON object such as:
  {"InitiateStatus": "InProgress"}

InitiateStatus values:
  Success, NotTriggered   exit 0
  Fail, anything else     exit 1
  InProgress              keep polling

Connection failures and 4xx/5xx responses are retried every poll
interval without limit. If REMOTE_URL or SLEEP_TIME is unset, initwait
exits 0 without polling.

Environment:
  REMOTE_URL       URL to poll (required)
  SLEEP_TIME       poll interval in milliseconds (required; invalid values use 10000)
  REQUEST_TIMEOUT  per-request timeout in milliseconds (default 100000)
  LOG_LEVEL        debug, info, warn or error (default info)`,
	Args:          cobra.NoArgs,
	RunE:          runWait,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a specific process exit code out of a command.
// The failure has already been logged when it is returned.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	return 1
}

func main() {
	os.Exit(Execute())
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this initwait binary.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "initwait %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(versionCmd)
}

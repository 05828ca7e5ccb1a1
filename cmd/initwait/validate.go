package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCmd resolves configuration without polling.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Resolve initwait's configuration from the environment and the optional
config file without contacting the remote service.

Unlike a normal run, missing REMOTE_URL or SLEEP_TIME is reported as an
error here, so this command is useful in CI/CD pipelines or pre-deployment
checks.

Exit codes:
  0 - Configuration is complete and valid
  1 - Configuration is missing or invalid (details printed to stderr)

Example:
  REMOTE_URL=http://provisioner/status SLEEP_TIME=5000 initwait validate
  initwait validate -c /etc/initwait/initwait.yaml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	timeout := "none"
	if cfg.RequestTimeout > 0 {
		timeout = cfg.RequestTimeout.String()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Remote URL:      %s\n", cfg.RemoteURL)
	fmt.Fprintf(out, "  Poll interval:   %s\n", cfg.PollInterval)
	fmt.Fprintf(out, "  Request timeout: %s\n", timeout)
	fmt.Fprintf(out, "  Log level:       %s\n", cfg.LogLevel)

	return nil
}

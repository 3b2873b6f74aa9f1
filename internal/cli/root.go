// Package cli provides the command-line interface for the provision tool.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/signbay/provision/internal/adapters/logging"
)

var rootCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provisioning-profile lifecycle management CLI",
	Long: `Provisioning-profile lifecycle management CLI.

provision manages provisioning profiles on a signing-authority portal:
listing them, creating new ones, repairing profiles whose certificates went
stale, deleting them and downloading their signing payloads.`,
}

// Execute runs the root command. Errors are printed redacted so a portal
// session token embedded in a failed request never reaches the terminal.
func Execute() error {
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", RedactError(err))
		return err
	}
	return nil
}

var (
	configPath string
	verbose    bool
	dryRun     bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Run against an in-memory portal instead of the real one")
	_ = rootCmd.MarkPersistentFlagFilename("config", "yaml", "yml")
}

// newLogger builds the CLI's logger with sensitive-field redaction, so the
// portal session token never reaches stderr even at debug level.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return logging.NewSecureSlogLogger(handler)
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download <profile-name>",
	Short: "Download a provisioning profile's signing payload",
	Long: `Download the binary signing payload of a provisioning profile.

The payload is written as-is; it is never parsed or modified.

Examples:
  provision download "com.example.app AppStore" --out app.mobileprovision
  provision download "com.example.app AppStore" > app.mobileprovision`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringP("out", "o", "", "Destination file (defaults to stdout)")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	name := args[0]
	out, _ := cmd.Flags().GetString("out")

	logger := newLogger()
	service, err := newService(logger)
	if err != nil {
		return err
	}

	profile, err := findProfileByName(cmd, service, name)
	if err != nil {
		return err
	}

	payload, err := service.Download(cmd.Context(), profile)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRuntime, err)
	}

	if out == "" {
		if _, err := os.Stdout.Write(payload); err != nil {
			return fmt.Errorf("%w: failed to write payload: %v", ErrInternal, err)
		}
		return nil
	}

	if err := os.WriteFile(out, payload, 0o600); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", ErrInternal, out, err)
	}
	logger.Info("profile downloaded", "name", profile.Name, "bytes", len(payload), "out", out)
	fmt.Printf("Wrote %d bytes to %s\n", len(payload), out)
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <profile-name>",
	Short: "Delete a provisioning profile",
	Long: `Delete a provisioning profile by name.

Examples:
  provision delete "com.example.app Development"`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	logger := newLogger()
	service, err := newService(logger)
	if err != nil {
		return err
	}

	profile, err := findProfileByName(cmd, service, name)
	if err != nil {
		return err
	}

	if err := service.Delete(cmd.Context(), profile); err != nil {
		return fmt.Errorf("%w: %v", ErrRuntime, err)
	}

	logger.Info("profile deleted", "name", profile.Name, "profile_id", profile.ID)
	fmt.Printf("Deleted %q (%s)\n", profile.Name, profile.ID)
	return nil
}

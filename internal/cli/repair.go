package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signbay/provision/internal/core/domain"
	"github.com/signbay/provision/internal/core/services"
)

var repairCmd = &cobra.Command{
	Use:   "repair <profile-name>",
	Short: "Repair a provisioning profile",
	Long: `Repair a provisioning profile by name.

Repair regenerates the profile's signing payload on the portal. When the
profile's certificates are no longer valid, a substitute certificate of the
appropriate kind is attached first. The portal assigns the repaired profile
a new identifier; the new identifier is printed on success.

Examples:
  provision repair "com.example.app AppStore"`,
	Args: cobra.ExactArgs(1),
	RunE: runRepair,
}

func init() {
	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, args []string) error {
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

	repaired, err := service.Repair(cmd.Context(), profile)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRuntime, err)
	}

	logger.Info("profile repaired",
		"name", repaired.Name,
		"old_profile_id", profile.ID,
		"new_profile_id", repaired.ID,
	)
	fmt.Printf("Repaired %q: %s -> %s\n", repaired.Name, profile.ID, repaired.ID)
	return nil
}

// findProfileByName locates a profile by its name. Names are unique per
// account and survive repairs, unlike profile ids.
func findProfileByName(cmd *cobra.Command, service *services.ProfileService, name string) (*domain.Profile, error) {
	profiles, err := service.ListAll(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRuntime, err)
	}
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: no profile named %q", ErrUsage, name)
}

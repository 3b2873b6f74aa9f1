package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signbay/provision/internal/core/domain"
	"github.com/signbay/provision/internal/core/services"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a provisioning profile",
	Long: `Create a provisioning profile for an app.

When no certificate ids are given, every currently valid certificate of the
kind-appropriate type is attached. When no device ids are given for a
development or adhoc profile, every device on the account is included.
AppStore and InHouse profiles never carry devices, whatever is passed.

Examples:
  provision create --bundle-id com.example.app --kind development
  provision create --bundle-id com.example.app --kind appstore --name "Example Store"
  provision create --bundle-id com.example.app --kind adhoc --certificate CERTID1 --device DEVID1`,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringP("bundle-id", "b", "", "Bundle id of the app (required)")
	createCmd.Flags().StringP("kind", "k", "", "Profile kind: development, appstore, adhoc or inhouse (required)")
	createCmd.Flags().StringP("name", "n", "", "Profile name (defaults to \"<bundle-id> <Kind>\")")
	createCmd.Flags().StringArray("certificate", nil, "Certificate id to attach (repeatable)")
	createCmd.Flags().StringArray("device", nil, "Device id to include (repeatable)")
	_ = createCmd.MarkFlagRequired("bundle-id")
	_ = createCmd.MarkFlagRequired("kind")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	bundleID, _ := cmd.Flags().GetString("bundle-id")
	kindFlag, _ := cmd.Flags().GetString("kind")
	name, _ := cmd.Flags().GetString("name")
	certificateIDs, _ := cmd.Flags().GetStringArray("certificate")
	deviceIDs, _ := cmd.Flags().GetStringArray("device")

	kind, err := domain.ParseProfileKind(kindFlag)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	logger := newLogger()
	service, err := newService(logger)
	if err != nil {
		return err
	}

	certificates, err := resolveCertificates(cmd, service, kind, certificateIDs)
	if err != nil {
		return err
	}
	devices, err := resolveDevices(cmd, service, deviceIDs)
	if err != nil {
		return err
	}

	profile, err := service.Create(cmd.Context(), services.CreateRequest{
		Kind:         kind,
		Name:         name,
		BundleID:     bundleID,
		Certificates: certificates,
		Devices:      devices,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRuntime, err)
	}

	logger.Info("profile created",
		"name", profile.Name,
		"kind", profile.Kind().String(),
		"profile_id", profile.ID,
		"uuid", profile.UUID,
	)
	fmt.Printf("Created %s profile %q (%s)\n", profile.Kind().PrettyName(), profile.Name, profile.ID)
	return nil
}

// resolveCertificates turns certificate-id flags into typed certificates,
// defaulting to every valid certificate of the kind-appropriate type.
func resolveCertificates(cmd *cobra.Command, service *services.ProfileService, kind domain.ProfileKind, ids []string) ([]domain.Certificate, error) {
	available, err := service.AvailableCertificates(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRuntime, err)
	}

	if len(ids) == 0 {
		needed := domain.CertificateProduction
		switch kind {
		case domain.KindDevelopment:
			needed = domain.CertificateDevelopment
		case domain.KindInHouse:
			needed = domain.CertificateInHouse
		}
		var matched []domain.Certificate
		for _, cert := range available {
			if cert.Kind == needed {
				matched = append(matched, cert)
			}
		}
		return matched, nil
	}

	byID := make(map[string]domain.Certificate, len(available))
	for _, cert := range available {
		byID[cert.ID] = cert
	}

	certificates := make([]domain.Certificate, 0, len(ids))
	for _, id := range ids {
		cert, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: no valid certificate with id %q", ErrUsage, id)
		}
		certificates = append(certificates, cert)
	}
	return certificates, nil
}

// resolveDevices turns device-id flags into typed devices. An empty flag
// list stays empty here; the service applies the kind's device policy.
func resolveDevices(cmd *cobra.Command, service *services.ProfileService, ids []string) ([]domain.Device, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	available, err := service.AvailableDevices(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRuntime, err)
	}

	byID := make(map[string]domain.Device, len(available))
	for _, device := range available {
		byID[device.ID] = device
	}

	devices := make([]domain.Device, 0, len(ids))
	for _, id := range ids {
		device, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: no device with id %q", ErrUsage, id)
		}
		devices = append(devices, device)
	}
	return devices, nil
}

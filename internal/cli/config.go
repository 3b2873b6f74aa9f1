package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/signbay/provision/internal/adapters/secondary/memportal"
	"github.com/signbay/provision/internal/adapters/secondary/portalapi"
	"github.com/signbay/provision/internal/core/domain"
	"github.com/signbay/provision/internal/core/ports"
	"github.com/signbay/provision/internal/core/services"
)

// loadConfiguration reads the portal configuration with viper: an explicit
// --config path when given, otherwise a provision.yaml in the working
// directory or under $HOME/.provision. PROVISION_* environment variables
// override file values either way.
func loadConfiguration() (*ports.Configuration, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("provision")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.provision")
	}

	v.SetEnvPrefix("PROVISION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: failed to read configuration: %v", ErrConfig, err)
		}
		// No config file found; environment variables may still be enough.
	}

	var config ports.Configuration
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		domain.ProfileKindDecodeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&config, decodeHook); err != nil {
		return nil, fmt.Errorf("%w: failed to decode configuration: %v", ErrConfig, err)
	}

	if err := config.MergeWithEnvironment(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return &config, nil
}

// newService wires a ProfileService against the real portal, or against a
// seeded in-memory portal when --dry-run is set.
func newService(logger *slog.Logger) (*services.ProfileService, error) {
	if dryRun {
		portal := seededDryRunPortal()
		service, err := services.NewProfileService(portal, portal)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return service, nil
	}

	config, err := loadConfiguration()
	if err != nil {
		return nil, err
	}

	client, err := portalapi.New(config, portalapi.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	service, err := services.NewProfileService(client, client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return service, nil
}

// seededDryRunPortal builds a memportal carrying a small sample account so
// dry runs have something to list, create against and repair.
func seededDryRunPortal() *memportal.Portal {
	portal := memportal.New()
	portal.SeedApp(domain.App{ID: "APP001", BundleID: "com.example.sample", Name: "Sample", Platform: "ios"})
	portal.SeedDevice(domain.Device{ID: "DEV001", Name: "Test iPhone", UDID: "00008030-000000000000001E", Platform: "ios", Status: "ENABLED"})
	portal.SeedCertificate(domain.Certificate{
		ID:      "CERT001",
		Name:    "Sample Development",
		Kind:    domain.CertificateDevelopment,
		Expires: time.Now().AddDate(1, 0, 0),
	})
	portal.SeedCertificate(domain.Certificate{
		ID:      "CERT002",
		Name:    "Sample Distribution",
		Kind:    domain.CertificateProduction,
		Expires: time.Now().AddDate(1, 0, 0),
	})
	return portal
}

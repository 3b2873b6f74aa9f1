// Package provision manages provisioning profiles on a signing-authority
// portal. It wraps the profile lifecycle — list, create, repair, delete,
// download — behind a small Manager facade so callers never touch the
// portal's wire format or its quirks (identifier reassignment on repair,
// AdHoc/AppStore ambiguity) directly.
package provision

import (
	"context"
	"fmt"

	"github.com/signbay/provision/internal/adapters/metrics"
	"github.com/signbay/provision/internal/adapters/secondary/config"
	"github.com/signbay/provision/internal/adapters/secondary/portalapi"
	"github.com/signbay/provision/internal/core/ports"
	"github.com/signbay/provision/internal/core/services"
)

// Manager is the public entry point for profile lifecycle management.
//
// A Manager is safe for concurrent use across distinct profiles. Two
// concurrent repairs of the same named profile race on the portal itself;
// the loser's post-repair lookup may observe the winner's result. That race
// is the portal's, not resolved here.
type Manager struct {
	service *services.ProfileService
}

// ManagerOption configures a Manager.
type ManagerOption func(*managerSettings)

type managerSettings struct {
	reporter services.MetricsReporter
}

func newManagerSettings(opts []ManagerOption) *managerSettings {
	settings := &managerSettings{}
	for _, opt := range opts {
		opt(settings)
	}
	return settings
}

// WithPrometheusMetrics wires lifecycle, validity-check and retry counters
// into the default Prometheus registry.
func WithPrometheusMetrics() ManagerOption {
	return func(s *managerSettings) {
		s.reporter = metrics.NewPrometheusMetrics()
	}
}

// NewManager creates a Manager from a YAML configuration file. PROVISION_*
// environment variables override file values.
func NewManager(ctx context.Context, configPath string, opts ...ManagerOption) (*Manager, error) {
	provider := config.NewFileProvider()
	cfg, err := provider.LoadConfiguration(ctx, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewManagerFromConfig(cfg, opts...)
}

// NewManagerFromConfig creates a Manager from an already-validated
// configuration, connecting to the portal over HTTP. With metrics enabled
// the client's retry attempts feed the same reporter as the lifecycle
// operations.
func NewManagerFromConfig(cfg *ports.Configuration, opts ...ManagerOption) (*Manager, error) {
	settings := newManagerSettings(opts)

	var clientOpts []portalapi.ClientOption
	if settings.reporter != nil {
		clientOpts = append(clientOpts, portalapi.WithRetryNotify(settings.reporter.RecordRetry))
	}
	client, err := portalapi.New(cfg, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create portal client: %w", err)
	}
	return newManager(client, client, settings)
}

// NewManagerWithPortal creates a Manager on top of explicit port
// implementations. Tests use this with an in-memory portal.
func NewManagerWithPortal(portal ports.PortalClient, directory ports.Directory, opts ...ManagerOption) (*Manager, error) {
	return newManager(portal, directory, newManagerSettings(opts))
}

func newManager(portal ports.PortalClient, directory ports.Directory, settings *managerSettings) (*Manager, error) {
	var serviceOpts []services.Option
	if settings.reporter != nil {
		serviceOpts = append(serviceOpts, services.WithMetrics(settings.reporter))
	}

	service, err := services.NewProfileService(portal, directory, serviceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile service: %w", err)
	}
	return &Manager{service: service}, nil
}

// ListProfiles returns every profile on the account, excluding
// Xcode-managed ones, optionally filtered by kind.
func (m *Manager) ListProfiles(ctx context.Context, kinds ...ProfileKind) ([]*Profile, error) {
	return m.service.ListAll(ctx, kinds...)
}

// FindProfilesByBundleID returns the profiles owned by the app with the
// given bundle id. An empty result is not an error.
func (m *Manager) FindProfilesByBundleID(ctx context.Context, bundleID string) ([]*Profile, error) {
	return m.service.FindByBundleID(ctx, bundleID)
}

// CreateProfile registers a new provisioning profile.
func (m *Manager) CreateProfile(ctx context.Context, req CreateRequest) (*Profile, error) {
	return m.service.Create(ctx, req)
}

// RepairProfile regenerates a profile's signing payload and returns the
// repaired profile. The result carries a new identifier; match follow-up
// work on Name, not on the old ID.
func (m *Manager) RepairProfile(ctx context.Context, profile *Profile) (*Profile, error) {
	return m.service.Repair(ctx, profile)
}

// UpdateProfile is an alias for RepairProfile.
func (m *Manager) UpdateProfile(ctx context.Context, profile *Profile) (*Profile, error) {
	return m.service.Update(ctx, profile)
}

// DeleteProfile removes the profile from the portal.
func (m *Manager) DeleteProfile(ctx context.Context, profile *Profile) error {
	return m.service.Delete(ctx, profile)
}

// DownloadProfile returns the profile's binary signing payload.
func (m *Manager) DownloadProfile(ctx context.Context, profile *Profile) ([]byte, error) {
	return m.service.Download(ctx, profile)
}

// ProfileIsValid reports whether the profile is Active and still backed by
// at least one currently valid certificate. It never fails; problems
// degrade to false.
func (m *Manager) ProfileIsValid(ctx context.Context, profile *Profile) bool {
	return m.service.IsValid(ctx, profile)
}

// ProfileCertificateValid reports whether at least one of the profile's
// certificates is still in the account's valid set.
func (m *Manager) ProfileCertificateValid(ctx context.Context, profile *Profile) bool {
	return m.service.CertificateValid(ctx, profile)
}

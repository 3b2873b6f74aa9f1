// Package services provides core business logic services.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/signbay/provision/internal/core/domain"
	"github.com/signbay/provision/internal/core/errors"
	"github.com/signbay/provision/internal/core/ports"
)

// ProfileService orchestrates the provisioning-profile lifecycle against the
// portal: listing, validity checks, create, repair, delete and download.
//
// The service holds no state between calls. Every listing and validity check
// re-fetches current portal state, because profile status and certificate
// validity change out of band; freshness wins over performance here. All
// retry behavior lives behind the PortalClient's WithRetry; the service
// never retries on its own, so non-idempotent calls are not retried more
// aggressively than the client already does.
type ProfileService struct {
	portal    ports.PortalClient
	directory ports.Directory
	metrics   MetricsReporter
	validate  *domain.Validator
}

// Option configures a ProfileService.
type Option func(*ProfileService)

// WithMetrics installs a metrics reporter. Without it metrics are no-ops.
func WithMetrics(reporter MetricsReporter) Option {
	return func(s *ProfileService) {
		if reporter != nil {
			s.metrics = reporter
		}
	}
}

// NewProfileService creates a ProfileService bound to the given portal
// client and entity directory.
func NewProfileService(portal ports.PortalClient, directory ports.Directory, opts ...Option) (*ProfileService, error) {
	if portal == nil {
		return nil, &errors.ValidationError{
			Field:   "portal",
			Value:   nil,
			Message: "portal client cannot be nil",
		}
	}
	if directory == nil {
		return nil, &errors.ValidationError{
			Field:   "directory",
			Value:   nil,
			Message: "entity directory cannot be nil",
		}
	}

	s := &ProfileService{
		portal:    portal,
		directory: directory,
		metrics:   &NoOpMetrics{},
		validate:  domain.NewValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ListAll fetches every profile on the account and returns it as a typed
// Profile. Profiles managed by the IDE toolchain are never returned. When a
// kind filter is given, only profiles of those kinds are retained.
func (s *ProfileService) ListAll(ctx context.Context, kinds ...domain.ProfileKind) ([]*domain.Profile, error) {
	records, err := s.portal.ListProvisioningProfiles(ctx)
	if err != nil {
		s.metrics.RecordOperation(OpList, ResultFailure)
		return nil, fmt.Errorf("failed to list provisioning profiles: %w", err)
	}

	profiles := make([]*domain.Profile, 0, len(records))
	for _, rec := range records {
		profile, err := domain.Build(rec)
		if err != nil {
			s.metrics.RecordOperation(OpList, ResultFailure)
			return nil, fmt.Errorf("failed to build profile %q: %w", rec.Name, err)
		}
		if profile.Managed() {
			continue
		}
		if len(kinds) > 0 && !kindMatches(profile.Kind(), kinds) {
			continue
		}
		profiles = append(profiles, profile)
	}

	s.metrics.RecordOperation(OpList, ResultSuccess)
	return profiles, nil
}

// FindByBundleID returns every profile owned by the app with the given
// bundle id. An empty result is not an error.
func (s *ProfileService) FindByBundleID(ctx context.Context, bundleID string) ([]*domain.Profile, error) {
	profiles, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.App.BundleID == bundleID {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// CreateRequest describes a profile to create. Name is optional and
// defaults to "<bundle id> <kind pretty name>". Devices are optional: for
// Development and AdHoc kinds an empty device list means every device on
// the account; for AppStore and InHouse kinds devices are always forced
// empty regardless of input.
type CreateRequest struct {
	Kind         domain.ProfileKind `validate:"required,profile_kind"`
	Name         string
	BundleID     string `validate:"required,bundle_id"`
	Certificates []domain.Certificate
	Devices      []domain.Device
}

// Create registers a new provisioning profile and returns it as a typed
// Profile built from the portal's response.
//
// Fails with ErrMissingParameter when the bundle id is empty or no
// certificate is supplied, and with ErrAppNotFound when the bundle id does
// not resolve to a registered app.
func (s *ProfileService) Create(ctx context.Context, req CreateRequest) (*domain.Profile, error) {
	if strings.TrimSpace(req.BundleID) == "" {
		s.metrics.RecordOperation(OpCreate, ResultFailure)
		return nil, errors.NewDomainError(errors.ErrMissingParameter,
			fmt.Errorf("bundle_id is required"))
	}
	if len(req.Certificates) == 0 {
		s.metrics.RecordOperation(OpCreate, ResultFailure)
		return nil, errors.NewDomainError(errors.ErrMissingParameter,
			fmt.Errorf("at least one certificate is required"))
	}

	if err := s.validate.Validate(req); err != nil {
		s.metrics.RecordOperation(OpCreate, ResultFailure)
		return nil, fmt.Errorf("invalid create request: %w", err)
	}

	app, err := s.directory.FindApp(ctx, req.BundleID)
	if err != nil {
		s.metrics.RecordOperation(OpCreate, ResultFailure)
		return nil, errors.NewDomainError(errors.ErrAppNotFound,
			fmt.Errorf("bundle id %q: %w", req.BundleID, err))
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("%s %s", req.BundleID, req.Kind.PrettyName())
	}

	deviceIDs, err := s.resolveCreateDevices(ctx, req.Kind, req.Devices)
	if err != nil {
		s.metrics.RecordOperation(OpCreate, ResultFailure)
		return nil, err
	}

	certificateIDs := make([]string, 0, len(req.Certificates))
	for _, cert := range req.Certificates {
		certificateIDs = append(certificateIDs, cert.ID)
	}

	var rec domain.ProfileRecord
	err = s.portal.WithRetry(ctx, func(ctx context.Context) error {
		var callErr error
		rec, callErr = s.portal.CreateProvisioningProfile(ctx, ports.CreateProfileRequest{
			Name:           name,
			TypeCode:       req.Kind.DistributionMethod(),
			AppID:          app.ID,
			CertificateIDs: certificateIDs,
			DeviceIDs:      deviceIDs,
		})
		return callErr
	})
	if err != nil {
		s.metrics.RecordOperation(OpCreate, ResultFailure)
		return nil, fmt.Errorf("failed to create profile %q: %w", name, err)
	}

	profile, err := domain.Build(rec)
	if err != nil {
		s.metrics.RecordOperation(OpCreate, ResultFailure)
		return nil, fmt.Errorf("failed to build created profile %q: %w", name, err)
	}

	s.metrics.RecordOperation(OpCreate, ResultSuccess)
	return profile, nil
}

// resolveCreateDevices applies the kind's device-inclusion policy.
func (s *ProfileService) resolveCreateDevices(ctx context.Context, kind domain.ProfileKind, requested []domain.Device) ([]string, error) {
	if !kind.SupportsDevices() {
		// AppStore and InHouse profiles carry no devices by policy, even
		// when the caller supplies some.
		return nil, nil
	}

	devices := requested
	if len(devices) == 0 {
		all, err := s.directory.ListDevices(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list devices: %w", err)
		}
		devices = all
	}

	ids := make([]string, 0, len(devices))
	for _, d := range devices {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// AvailableCertificates returns the account-wide set of currently valid
// signing certificates, fetched fresh.
func (s *ProfileService) AvailableCertificates(ctx context.Context) ([]domain.Certificate, error) {
	return s.directory.ListCertificates(ctx)
}

// AvailableDevices returns every device registered on the account.
func (s *ProfileService) AvailableDevices(ctx context.Context) ([]domain.Device, error) {
	return s.directory.ListDevices(ctx)
}

// Delete removes the profile's portal record. Deleting an already-deleted
// profile is the portal's concern; no idempotency is asserted here.
func (s *ProfileService) Delete(ctx context.Context, profile *domain.Profile) error {
	err := s.portal.WithRetry(ctx, func(ctx context.Context) error {
		return s.portal.DeleteProvisioningProfile(ctx, profile.ID)
	})
	if err != nil {
		s.metrics.RecordOperation(OpDelete, ResultFailure)
		return fmt.Errorf("failed to delete profile %q: %w", profile.Name, err)
	}
	s.metrics.RecordOperation(OpDelete, ResultSuccess)
	return nil
}

// Download returns the profile's binary signing bundle as an opaque blob.
// The payload is never parsed or written to storage here.
func (s *ProfileService) Download(ctx context.Context, profile *domain.Profile) ([]byte, error) {
	var payload []byte
	err := s.portal.WithRetry(ctx, func(ctx context.Context) error {
		var callErr error
		payload, callErr = s.portal.DownloadProvisioningProfile(ctx, profile.ID)
		return callErr
	})
	if err != nil {
		s.metrics.RecordOperation(OpDownload, ResultFailure)
		return nil, fmt.Errorf("failed to download profile %q: %w", profile.Name, err)
	}
	s.metrics.RecordOperation(OpDownload, ResultSuccess)
	return payload, nil
}

func kindMatches(kind domain.ProfileKind, filter []domain.ProfileKind) bool {
	for _, k := range filter {
		if k == kind {
			return true
		}
	}
	return false
}

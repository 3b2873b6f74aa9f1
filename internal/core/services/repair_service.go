package services

import (
	"context"
	"fmt"

	"github.com/signbay/provision/internal/core/domain"
	"github.com/signbay/provision/internal/core/errors"
	"github.com/signbay/provision/internal/core/ports"
)

// Repair regenerates the profile's signing payload server-side and returns
// the resulting profile as a new instance.
//
// If the profile's certificate set is no longer valid, the repair call is
// issued with a single substitute certificate of the kind-appropriate type:
// a development certificate for Development profiles, an in-house
// certificate for InHouse profiles, and a production certificate otherwise.
// Fails with ErrNoCertificateAvailable when no substitute of the needed
// kind exists.
//
// A successful repair assigns the profile a new identifier, so the result
// is located by re-listing and matching on name (unique per account) rather
// than on the old identifier. Fails with ErrProfileNotFoundAfterRepair when
// the post-repair lookup finds no match; that is a detectable inconsistency
// and is surfaced, never swallowed.
func (s *ProfileService) Repair(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	certificateIDs := profile.CertificateIDs()
	if !s.CertificateValid(ctx, profile) {
		substitute, err := s.substituteCertificate(ctx, profile.Kind())
		if err != nil {
			s.metrics.RecordOperation(OpRepair, ResultFailure)
			return nil, err
		}
		certificateIDs = []string{substitute.ID}
	}

	err := s.portal.WithRetry(ctx, func(ctx context.Context) error {
		_, callErr := s.portal.RepairProvisioningProfile(ctx, ports.RepairProfileRequest{
			ID:                 profile.ID,
			Name:               profile.Name,
			DistributionMethod: profile.Kind().DistributionMethod(),
			AppID:              profile.App.ID,
			CertificateIDs:     certificateIDs,
			DeviceIDs:          profile.DeviceIDs(),
		})
		return callErr
	})
	if err != nil {
		s.metrics.RecordOperation(OpRepair, ResultFailure)
		return nil, fmt.Errorf("failed to repair profile %q: %w", profile.Name, err)
	}

	// The repair response carries the new record, but the authoritative
	// state is whatever a fresh listing returns; re-fetch and match by
	// name instead of trusting the old identifier.
	repaired, err := s.findByName(ctx, profile.Name)
	if err != nil {
		s.metrics.RecordOperation(OpRepair, ResultFailure)
		return nil, err
	}

	s.metrics.RecordOperation(OpRepair, ResultSuccess)
	return repaired, nil
}

// Update is an alias for Repair kept for callers that think of the
// operation as an update.
func (s *ProfileService) Update(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	return s.Repair(ctx, profile)
}

// substituteCertificate picks the first available certificate of the kind a
// repaired profile of the given kind needs.
func (s *ProfileService) substituteCertificate(ctx context.Context, kind domain.ProfileKind) (domain.Certificate, error) {
	needed := domain.CertificateProduction
	switch kind {
	case domain.KindDevelopment:
		needed = domain.CertificateDevelopment
	case domain.KindInHouse:
		needed = domain.CertificateInHouse
	}

	certs, err := s.directory.ListCertificates(ctx)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("failed to list certificates: %w", err)
	}

	for _, cert := range certs {
		if cert.Kind == needed {
			return cert, nil
		}
	}
	return domain.Certificate{}, errors.NewDomainError(errors.ErrNoCertificateAvailable,
		fmt.Errorf("no %s certificate on the account", needed))
}

// findByName locates a profile by its name after a repair reassigned its
// identifier.
func (s *ProfileService) findByName(ctx context.Context, name string) (*domain.Profile, error) {
	profiles, err := s.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("post-repair listing failed: %w", err)
	}
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, errors.NewDomainError(errors.ErrProfileNotFoundAfterRepair,
		fmt.Errorf("profile %q", name))
}

package services

import (
	"context"

	"github.com/signbay/provision/internal/core/domain"
)

// CertificateValid reports whether at least one of the profile's
// certificates is still in the account-wide set of currently valid signing
// certificates. The valid set is fetched fresh on every call; certificate
// revocation happens out of band, so nothing is cached across calls.
//
// Validity checks never fail: an empty certificate set, or any problem
// fetching the current set, degrades to false. "Not valid" is a legitimate
// steady state, not an exceptional one.
func (s *ProfileService) CertificateValid(ctx context.Context, profile *domain.Profile) bool {
	valid := s.certificateValid(ctx, profile)
	s.metrics.RecordValidityCheck(valid)
	return valid
}

func (s *ProfileService) certificateValid(ctx context.Context, profile *domain.Profile) bool {
	if len(profile.Certificates) == 0 {
		return false
	}

	current, err := s.directory.ListCertificates(ctx)
	if err != nil {
		return false
	}

	validIDs := make(map[string]struct{}, len(current))
	for _, cert := range current {
		validIDs[cert.ID] = struct{}{}
	}

	for _, cert := range profile.Certificates {
		if _, ok := validIDs[cert.ID]; ok {
			return true
		}
	}
	return false
}

// IsValid reports whether the profile is usable: its portal status is
// Active and its certificate set is still trusted. Like CertificateValid it
// never fails, degrading to false instead.
func (s *ProfileService) IsValid(ctx context.Context, profile *domain.Profile) bool {
	if profile.Status != domain.StatusActive {
		s.metrics.RecordValidityCheck(false)
		return false
	}
	return s.CertificateValid(ctx, profile)
}

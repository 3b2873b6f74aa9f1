// Package ports defines interfaces for core services and domain boundaries.
package ports

import (
	"context"

	"github.com/signbay/provision/internal/core/domain"
)

// CreateProfileRequest is the wire-level create call payload. TypeCode is
// the distribution-method tag (limited, store, adhoc or inhouse).
//
// Implementations must preserve the portal's certificate-parameter quirk:
// when exactly one certificate id is given, the parameter is encoded as a
// single id rather than a list, because singleton vs. list affects server
// parsing.
type CreateProfileRequest struct {
	Name           string
	TypeCode       string
	AppID          string
	CertificateIDs []string
	DeviceIDs      []string
}

// RepairProfileRequest is the wire-level repair call payload. A successful
// repair regenerates the profile server-side and assigns it a new
// identifier; the id given here is only valid for addressing the call.
type RepairProfileRequest struct {
	ID                 string
	Name               string
	DistributionMethod string
	AppID              string
	CertificateIDs     []string
	DeviceIDs          []string
}

// PortalClient is the outbound port to the signing-authority portal. The
// transport, session and authentication behind it are outside the core.
//
// Individual calls do not retry. Transient-failure retry is the client's
// responsibility and is applied only when an operation is invoked through
// WithRetry; the core never layers its own retry on top, so non-idempotent
// calls (create, repair) are retried exactly as aggressively as the client
// decides and no more.
type PortalClient interface {
	// ListProvisioningProfiles returns every profile record on the account.
	ListProvisioningProfiles(ctx context.Context) ([]domain.ProfileRecord, error)

	// CreateProvisioningProfile registers a new profile and returns its record.
	CreateProvisioningProfile(ctx context.Context, req CreateProfileRequest) (domain.ProfileRecord, error)

	// RepairProvisioningProfile regenerates a profile's signing payload.
	// The returned record carries the profile's new identifier.
	RepairProvisioningProfile(ctx context.Context, req RepairProfileRequest) (domain.ProfileRecord, error)

	// DeleteProvisioningProfile removes the profile record. Idempotency is
	// the portal's concern, not asserted here.
	DeleteProvisioningProfile(ctx context.Context, id string) error

	// DownloadProvisioningProfile returns the profile's binary signing
	// bundle as an opaque blob. The core never parses it.
	DownloadProvisioningProfile(ctx context.Context, id string) ([]byte, error)

	// WithRetry runs op under the client's transient-failure retry policy.
	WithRetry(ctx context.Context, op func(ctx context.Context) error) error
}

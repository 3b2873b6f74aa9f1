package ports

import (
	"context"

	"github.com/signbay/provision/internal/core/domain"
)

// Directory is the outbound port to the sibling portal entity models: apps,
// devices and signing certificates. The core consumes these as
// already-parsed typed values; it never sees their raw records.
type Directory interface {
	// FindApp resolves a bundle id to its registered app. Implementations
	// return an error wrapping errors.ErrAppNotFound when no app matches.
	FindApp(ctx context.Context, bundleID string) (domain.App, error)

	// ListDevices returns every device registered on the account.
	ListDevices(ctx context.Context) ([]domain.Device, error)

	// ListCertificates returns the account-wide set of currently valid
	// signing certificates. Callers must fetch fresh per check; revocation
	// happens out of band, so this result must never be cached.
	ListCertificates(ctx context.Context) ([]domain.Certificate, error)
}

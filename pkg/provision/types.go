package provision

import (
	"github.com/signbay/provision/internal/core/domain"
	"github.com/signbay/provision/internal/core/errors"
	"github.com/signbay/provision/internal/core/services"
)

// Domain types re-exported for public use.
type (
	// Profile is a typed provisioning profile of exactly one kind.
	Profile = domain.Profile

	// ProfileKind identifies one of the four profile variants.
	ProfileKind = domain.ProfileKind

	// ProfileStatus is the portal-reported profile status.
	ProfileStatus = domain.ProfileStatus

	// App is a registered application.
	App = domain.App

	// Device is a registered test device.
	Device = domain.Device

	// Certificate is a signing certificate record.
	Certificate = domain.Certificate

	// CertificateKind classifies a signing certificate.
	CertificateKind = domain.CertificateKind

	// CreateRequest describes a profile to create.
	CreateRequest = services.CreateRequest
)

// Profile kinds.
const (
	KindDevelopment = domain.KindDevelopment
	KindAppStore    = domain.KindAppStore
	KindAdHoc       = domain.KindAdHoc
	KindInHouse     = domain.KindInHouse
)

// Profile statuses.
const (
	StatusActive  = domain.StatusActive
	StatusExpired = domain.StatusExpired
	StatusInvalid = domain.StatusInvalid
)

// Certificate kinds.
const (
	CertificateDevelopment = domain.CertificateDevelopment
	CertificateProduction  = domain.CertificateProduction
	CertificateInHouse     = domain.CertificateInHouse
)

// ParseProfileKind converts a kind name to a ProfileKind.
var ParseProfileKind = domain.ParseProfileKind

// Domain errors surfaced by Manager operations; match with errors.Is.
var (
	ErrMissingParameter           = errors.ErrMissingParameter
	ErrAppNotFound                = errors.ErrAppNotFound
	ErrUnknownDistributionMethod  = errors.ErrUnknownDistributionMethod
	ErrNoCertificateAvailable     = errors.ErrNoCertificateAvailable
	ErrProfileNotFoundAfterRepair = errors.ErrProfileNotFoundAfterRepair
)

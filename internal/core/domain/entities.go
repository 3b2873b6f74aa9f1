package domain

import "time"

// App is a registered application on the portal, resolved from its raw
// record. Profiles reference apps by bundle id.
type App struct {
	ID       string
	BundleID string
	Name     string
	Platform string
}

// Device is a registered test device.
type Device struct {
	ID       string
	Name     string
	UDID     string
	Platform string
	Status   string
}

// CertificateKind classifies a signing certificate by its intended use.
// Repair uses the kind to pick a substitute certificate when a profile's
// certificate set is no longer valid.
type CertificateKind string

const (
	CertificateDevelopment CertificateKind = "development"
	CertificateProduction  CertificateKind = "production"
	CertificateInHouse     CertificateKind = "inhouse"
)

// Certificate is a signing certificate record held by the portal. The core
// never touches key material; a certificate here is an identifier plus
// metadata.
type Certificate struct {
	ID           string
	Name         string
	Kind         CertificateKind
	SerialNumber string
	Expires      time.Time
}

// Expired reports whether the certificate's expiration timestamp has passed.
func (c Certificate) Expired() bool {
	if c.Expires.IsZero() {
		return false
	}
	return time.Now().After(c.Expires)
}

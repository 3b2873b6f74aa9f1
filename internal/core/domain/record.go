package domain

import "time"

// ProfileRecord is the raw provisioning-profile attribute record as returned
// by the portal from a list, create or repair call. Records are transient:
// they exist only to be converted into a typed Profile through Build.
type ProfileRecord struct {
	ID                 string
	UUID               string
	Name               string
	Status             string
	Expires            time.Time
	DistributionMethod string
	Type               string
	Version            string
	Platform           string
	ManagingApp        string

	App          AppRecord
	Certificates []CertificateRecord
	Devices      []DeviceRecord
}

// AppRecord is the raw owning-app reference nested in a profile record.
type AppRecord struct {
	ID       string
	BundleID string
	Name     string
	Platform string
}

// CertificateRecord is a raw certificate reference nested in a profile
// record or returned by a certificate listing.
type CertificateRecord struct {
	ID           string
	Name         string
	Kind         string
	SerialNumber string
	Expires      time.Time
}

// DeviceRecord is a raw device reference nested in a profile record or
// returned by a device listing.
type DeviceRecord struct {
	ID       string
	Name     string
	UDID     string
	Platform string
	Status   string
}

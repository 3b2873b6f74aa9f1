// Package domain provides the provisioning-profile domain model and entities.
package domain

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// ProfileKind identifies one of the four concrete provisioning-profile
// variants. The kind is fixed at construction time; profiles are built
// through Build and never change kind afterwards.
type ProfileKind string

const (
	KindDevelopment ProfileKind = "development"
	KindAppStore    ProfileKind = "appstore"
	KindAdHoc       ProfileKind = "adhoc"
	KindInHouse     ProfileKind = "inhouse"
)

// Distribution-method tags used on the portal wire. These are the external
// contract and must be interpreted exactly as given.
const (
	MethodLimited = "limited"
	MethodStore   = "store"
	MethodAdHoc   = "adhoc"
	MethodInHouse = "inhouse"
)

// DistributionMethod returns the wire-level type code used when creating a
// profile of this kind.
func (k ProfileKind) DistributionMethod() string {
	switch k {
	case KindDevelopment:
		return MethodLimited
	case KindAppStore:
		return MethodStore
	case KindAdHoc:
		return MethodAdHoc
	case KindInHouse:
		return MethodInHouse
	}
	return ""
}

// PrettyName returns the human-readable variant name, used when defaulting
// a profile name from a bundle id.
func (k ProfileKind) PrettyName() string {
	switch k {
	case KindDevelopment:
		return "Development"
	case KindAppStore:
		return "AppStore"
	case KindAdHoc:
		return "AdHoc"
	case KindInHouse:
		return "InHouse"
	}
	return "Unknown"
}

// SupportsDevices reports whether profiles of this kind may carry a device
// set. AppStore and InHouse profiles must have an empty device set on
// creation even if a caller supplies devices.
func (k ProfileKind) SupportsDevices() bool {
	return k == KindDevelopment || k == KindAdHoc
}

func (k ProfileKind) String() string {
	return string(k)
}

// ParseProfileKind converts a user-supplied kind name to a ProfileKind.
// It accepts the canonical names plus common spellings ("app-store",
// "ad-hoc", "in-house").
func ParseProfileKind(s string) (ProfileKind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "")
	switch normalized {
	case "development", "dev":
		return KindDevelopment, nil
	case "appstore":
		return KindAppStore, nil
	case "adhoc":
		return KindAdHoc, nil
	case "inhouse", "enterprise":
		return KindInHouse, nil
	}
	return "", fmt.Errorf("unknown profile kind %q (want development, appstore, adhoc or inhouse)", s)
}

// ProfileKindDecodeHook provides a mapstructure decode hook for ProfileKind.
// This allows automatic conversion from string to ProfileKind during
// configuration unmarshalling.
func ProfileKindDecodeHook() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(ProfileKind("")) {
			return data, nil
		}

		str, ok := data.(string)
		if !ok {
			return data, nil
		}

		kind, err := ParseProfileKind(str)
		if err != nil {
			return nil, err
		}
		return kind, nil
	}
}

// ProfileStatus is the portal-reported lifecycle status of a profile.
type ProfileStatus string

const (
	StatusActive  ProfileStatus = "Active"
	StatusExpired ProfileStatus = "Expired"
	StatusInvalid ProfileStatus = "Invalid"
)

// ManagedByXcode is the managing-app tag the portal sets on profiles that
// are maintained by the IDE toolchain. Those profiles are never under this
// system's control and are excluded from every listing.
const ManagedByXcode = "Xcode"

// Profile is a typed provisioning profile of exactly one kind. Profiles are
// constructed only through Build; they hold no open resources and are
// discarded after a caller's workflow completes.
//
// A profile's ID is not stable across a repair: a successful repair yields a
// new identifier server-side, so re-lookup must match on Name (unique per
// account), never on ID equality.
type Profile struct {
	kind ProfileKind

	ID          string
	UUID        string
	Name        string
	Status      ProfileStatus
	Expires     time.Time
	Type        string
	Version     string
	Platform    string
	ManagingApp string

	App          App
	Certificates []Certificate
	Devices      []Device
}

// Kind returns the profile's variant kind.
func (p *Profile) Kind() ProfileKind {
	return p.kind
}

// Managed reports whether the profile is maintained by the IDE toolchain
// rather than this system.
func (p *Profile) Managed() bool {
	return p.ManagingApp == ManagedByXcode
}

// Expired reports whether the profile's expiration timestamp has passed.
func (p *Profile) Expired() bool {
	if p.Expires.IsZero() {
		return false
	}
	return time.Now().After(p.Expires)
}

// ExpiresWithin reports whether the profile expires within the given window.
func (p *Profile) ExpiresWithin(window time.Duration) bool {
	if p.Expires.IsZero() {
		return false
	}
	return time.Until(p.Expires) <= window
}

// CertificateIDs returns the identifiers of the profile's certificate set.
func (p *Profile) CertificateIDs() []string {
	ids := make([]string, 0, len(p.Certificates))
	for _, c := range p.Certificates {
		ids = append(ids, c.ID)
	}
	return ids
}

// DeviceIDs returns the identifiers of the profile's device set.
func (p *Profile) DeviceIDs() []string {
	ids := make([]string, 0, len(p.Devices))
	for _, d := range p.Devices {
		ids = append(ids, d.ID)
	}
	return ids
}

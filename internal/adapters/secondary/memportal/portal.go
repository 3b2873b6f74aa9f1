// Package memportal provides an in-memory fake of the signing portal for
// testing and offline use.
package memportal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/signbay/provision/internal/core/domain"
	"github.com/signbay/provision/internal/core/errors"
	"github.com/signbay/provision/internal/core/ports"
)

// Portal is a fake in-memory PortalClient and Directory. It mimics the real
// portal's quirks: repair reassigns the profile identifier, and created
// profiles get fresh uuid-formatted identifiers.
type Portal struct {
	mu           sync.RWMutex
	apps         []domain.App
	devices      []domain.Device
	certificates []domain.Certificate
	profiles     map[string]domain.ProfileRecord
	payloads     map[string][]byte
}

// New creates an empty in-memory portal.
func New() *Portal {
	return &Portal{
		profiles: make(map[string]domain.ProfileRecord),
		payloads: make(map[string][]byte),
	}
}

// SeedApp registers an app on the fake account.
func (p *Portal) SeedApp(app domain.App) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.apps = append(p.apps, app)
}

// SeedDevice registers a device on the fake account.
func (p *Portal) SeedDevice(device domain.Device) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.devices = append(p.devices, device)
}

// SeedCertificate adds a certificate to the account's currently valid set.
func (p *Portal) SeedCertificate(cert domain.Certificate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.certificates = append(p.certificates, cert)
}

// RevokeCertificate removes a certificate from the currently valid set,
// simulating out-of-band revocation.
func (p *Portal) RevokeCertificate(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.certificates[:0]
	for _, cert := range p.certificates {
		if cert.ID != id {
			kept = append(kept, cert)
		}
	}
	p.certificates = kept
}

// SeedProfile installs a raw profile record directly, for listing tests.
func (p *Portal) SeedProfile(rec domain.ProfileRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profiles[rec.ID] = rec
}

// ListProvisioningProfiles implements ports.PortalClient.
func (p *Portal) ListProvisioningProfiles(ctx context.Context) ([]domain.ProfileRecord, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	records := make([]domain.ProfileRecord, 0, len(p.profiles))
	for _, rec := range p.profiles {
		records = append(records, rec)
	}
	return records, nil
}

// CreateProvisioningProfile implements ports.PortalClient.
func (p *Portal) CreateProvisioningProfile(ctx context.Context, req ports.CreateProfileRequest) (domain.ProfileRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	app, ok := p.appByID(req.AppID)
	if !ok {
		return domain.ProfileRecord{}, fmt.Errorf("memportal: no app with id %q", req.AppID)
	}

	rec := domain.ProfileRecord{
		ID:                 uuid.NewString(),
		UUID:               uuid.NewString(),
		Name:               req.Name,
		Status:             string(domain.StatusActive),
		Expires:            time.Now().AddDate(1, 0, 0),
		DistributionMethod: wireMethod(req.TypeCode),
		Version:            "1",
		Platform:           app.Platform,
		App:                domain.AppRecord{ID: app.ID, BundleID: app.BundleID, Name: app.Name, Platform: app.Platform},
		Certificates:       p.certificateRecords(req.CertificateIDs),
		Devices:            p.deviceRecords(req.DeviceIDs),
	}

	p.profiles[rec.ID] = rec
	p.payloads[rec.ID] = []byte("memportal-profile-" + rec.UUID)
	return rec, nil
}

// RepairProvisioningProfile implements ports.PortalClient. Like the real
// portal, a repaired profile comes back under a brand-new identifier and
// the old one disappears from the account.
func (p *Portal) RepairProvisioningProfile(ctx context.Context, req ports.RepairProfileRequest) (domain.ProfileRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	old, ok := p.profiles[req.ID]
	if !ok {
		return domain.ProfileRecord{}, fmt.Errorf("memportal: no profile with id %q", req.ID)
	}

	rec := old
	rec.ID = uuid.NewString()
	rec.UUID = uuid.NewString()
	rec.Name = req.Name
	rec.Status = string(domain.StatusActive)
	rec.DistributionMethod = wireMethod(req.DistributionMethod)
	rec.Certificates = p.certificateRecords(req.CertificateIDs)
	rec.Devices = p.deviceRecords(req.DeviceIDs)

	delete(p.profiles, req.ID)
	delete(p.payloads, req.ID)
	p.profiles[rec.ID] = rec
	p.payloads[rec.ID] = []byte("memportal-profile-" + rec.UUID)
	return rec, nil
}

// DeleteProvisioningProfile implements ports.PortalClient.
func (p *Portal) DeleteProvisioningProfile(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.profiles, id)
	delete(p.payloads, id)
	return nil
}

// DownloadProvisioningProfile implements ports.PortalClient.
func (p *Portal) DownloadProvisioningProfile(ctx context.Context, id string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	payload, ok := p.payloads[id]
	if !ok {
		return nil, fmt.Errorf("memportal: no profile with id %q", id)
	}
	return payload, nil
}

// WithRetry implements ports.PortalClient. The fake has no transient
// failures, so the operation runs exactly once.
func (p *Portal) WithRetry(ctx context.Context, op func(ctx context.Context) error) error {
	return op(ctx)
}

// FindApp implements ports.Directory.
func (p *Portal) FindApp(ctx context.Context, bundleID string) (domain.App, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, app := range p.apps {
		if app.BundleID == bundleID {
			return app, nil
		}
	}
	return domain.App{}, errors.NewDomainError(errors.ErrAppNotFound,
		fmt.Errorf("memportal: bundle id %q", bundleID))
}

// ListDevices implements ports.Directory.
func (p *Portal) ListDevices(ctx context.Context) ([]domain.Device, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	devices := make([]domain.Device, len(p.devices))
	copy(devices, p.devices)
	return devices, nil
}

// ListCertificates implements ports.Directory.
func (p *Portal) ListCertificates(ctx context.Context) ([]domain.Certificate, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	certs := make([]domain.Certificate, len(p.certificates))
	copy(certs, p.certificates)
	return certs, nil
}

func (p *Portal) appByID(id string) (domain.App, bool) {
	for _, app := range p.apps {
		if app.ID == id {
			return app, true
		}
	}
	return domain.App{}, false
}

func (p *Portal) certificateRecords(ids []string) []domain.CertificateRecord {
	recs := make([]domain.CertificateRecord, 0, len(ids))
	for _, id := range ids {
		for _, cert := range p.certificates {
			if cert.ID == id {
				recs = append(recs, domain.CertificateRecord{
					ID:           cert.ID,
					Name:         cert.Name,
					Kind:         string(cert.Kind),
					SerialNumber: cert.SerialNumber,
					Expires:      cert.Expires,
				})
			}
		}
	}
	return recs
}

func (p *Portal) deviceRecords(ids []string) []domain.DeviceRecord {
	recs := make([]domain.DeviceRecord, 0, len(ids))
	for _, id := range ids {
		for _, device := range p.devices {
			if device.ID == id {
				recs = append(recs, domain.DeviceRecord{
					ID:       device.ID,
					Name:     device.Name,
					UDID:     device.UDID,
					Platform: device.Platform,
					Status:   device.Status,
				})
			}
		}
	}
	return recs
}

func wireMethod(typeCode string) string {
	// AdHoc profiles are stored under the "store" tag on the wire; their
	// device set is what distinguishes them on the way back out.
	if strings.ToLower(typeCode) == domain.MethodAdHoc {
		return domain.MethodStore
	}
	return strings.ToLower(typeCode)
}

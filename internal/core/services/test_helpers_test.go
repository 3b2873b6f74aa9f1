package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/signbay/provision/internal/core/domain"
	"github.com/signbay/provision/internal/core/ports"
)

// mockPortal is a scripted PortalClient for testing.
type mockPortal struct {
	records   []domain.ProfileRecord
	listErr   error
	listCalls int

	createRequests []ports.CreateProfileRequest
	createResult   domain.ProfileRecord
	createErr      error

	repairRequests []ports.RepairProfileRequest
	repairResult   domain.ProfileRecord
	repairErr      error
	onRepair       func(req ports.RepairProfileRequest)

	deletedIDs []string
	deleteErr  error

	payloads    map[string][]byte
	downloadErr error

	retryCalls int
}

func (m *mockPortal) ListProvisioningProfiles(ctx context.Context) ([]domain.ProfileRecord, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.records, nil
}

func (m *mockPortal) CreateProvisioningProfile(ctx context.Context, req ports.CreateProfileRequest) (domain.ProfileRecord, error) {
	m.createRequests = append(m.createRequests, req)
	if m.createErr != nil {
		return domain.ProfileRecord{}, m.createErr
	}
	return m.createResult, nil
}

func (m *mockPortal) RepairProvisioningProfile(ctx context.Context, req ports.RepairProfileRequest) (domain.ProfileRecord, error) {
	m.repairRequests = append(m.repairRequests, req)
	if m.repairErr != nil {
		return domain.ProfileRecord{}, m.repairErr
	}
	if m.onRepair != nil {
		m.onRepair(req)
	}
	return m.repairResult, nil
}

func (m *mockPortal) DeleteProvisioningProfile(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func (m *mockPortal) DownloadProvisioningProfile(ctx context.Context, id string) ([]byte, error) {
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	return m.payloads[id], nil
}

func (m *mockPortal) WithRetry(ctx context.Context, op func(ctx context.Context) error) error {
	m.retryCalls++
	return op(ctx)
}

var errAppMissing = errors.New("app not found in directory")

// mockDirectory is a scripted Directory for testing.
type mockDirectory struct {
	apps map[string]domain.App

	devices     []domain.Device
	deviceErr   error
	deviceCalls int

	certificates []domain.Certificate
	certErr      error
	certCalls    int
}

func (m *mockDirectory) FindApp(ctx context.Context, bundleID string) (domain.App, error) {
	app, ok := m.apps[bundleID]
	if !ok {
		return domain.App{}, errAppMissing
	}
	return app, nil
}

func (m *mockDirectory) ListDevices(ctx context.Context) ([]domain.Device, error) {
	m.deviceCalls++
	if m.deviceErr != nil {
		return nil, m.deviceErr
	}
	return m.devices, nil
}

func (m *mockDirectory) ListCertificates(ctx context.Context) ([]domain.Certificate, error) {
	m.certCalls++
	if m.certErr != nil {
		return nil, m.certErr
	}
	return m.certificates, nil
}

// newTestService builds a ProfileService over the given mocks.
func newTestService(t *testing.T, portal *mockPortal, directory *mockDirectory) *ProfileService {
	t.Helper()
	service, err := NewProfileService(portal, directory)
	require.NoError(t, err)
	return service
}

// record builds a plausible raw profile record for tests.
func record(id, name, method, managingApp string, certIDs []string, deviceIDs []string) domain.ProfileRecord {
	certs := make([]domain.CertificateRecord, 0, len(certIDs))
	for _, cid := range certIDs {
		certs = append(certs, domain.CertificateRecord{ID: cid, Kind: "production"})
	}
	devices := make([]domain.DeviceRecord, 0, len(deviceIDs))
	for _, did := range deviceIDs {
		devices = append(devices, domain.DeviceRecord{ID: did, UDID: "udid-" + did})
	}
	return domain.ProfileRecord{
		ID:                 id,
		UUID:               id + "-uuid",
		Name:               name,
		Status:             "Active",
		Expires:            time.Now().AddDate(1, 0, 0),
		DistributionMethod: method,
		ManagingApp:        managingApp,
		App: domain.AppRecord{
			ID:       "APPID1",
			BundleID: "com.example.app",
			Name:     "Example",
		},
		Certificates: certs,
		Devices:      devices,
	}
}

// builtProfile converts a record through the factory, failing the test on error.
func builtProfile(t *testing.T, rec domain.ProfileRecord) *domain.Profile {
	t.Helper()
	profile, err := domain.Build(rec)
	require.NoError(t, err)
	return profile
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signbay/provision/internal/core/domain"
	coreerrors "github.com/signbay/provision/internal/core/errors"
	"github.com/signbay/provision/internal/core/ports"
)

func TestRepairAssignsNewIdentifier(t *testing.T) {
	old := record("OLDID0", "MyApp AppStore", "store", "", []string{"CERTID1"}, nil)

	portal := &mockPortal{
		records:      []domain.ProfileRecord{old},
		repairResult: record("NEWID1", "MyApp AppStore", "store", "", []string{"CERTID1"}, nil),
	}
	// The portal retires the old identifier as part of the repair; the
	// follow-up listing only ever sees the new one.
	portal.onRepair = func(req ports.RepairProfileRequest) {
		portal.records = []domain.ProfileRecord{portal.repairResult}
	}
	directory := &mockDirectory{
		certificates: []domain.Certificate{{ID: "CERTID1", Kind: domain.CertificateProduction}},
	}
	service := newTestService(t, portal, directory)

	repaired, err := service.Repair(context.Background(), builtProfile(t, old))
	require.NoError(t, err)

	assert.Equal(t, "NEWID1", repaired.ID)
	assert.Equal(t, "MyApp AppStore", repaired.Name)

	require.Len(t, portal.repairRequests, 1)
	assert.Equal(t, "OLDID0", portal.repairRequests[0].ID)
	// The certificate set was still valid, so it is passed through as is.
	assert.Equal(t, []string{"CERTID1"}, portal.repairRequests[0].CertificateIDs)
}

func TestRepairSubstitutesCertificateByKind(t *testing.T) {
	account := []domain.Certificate{
		{ID: "CERTDEV1", Kind: domain.CertificateDevelopment},
		{ID: "CERTPROD1", Kind: domain.CertificateProduction},
		{ID: "CERTINH1", Kind: domain.CertificateInHouse},
	}

	tests := []struct {
		name     string
		method   string
		devices  []string
		wantCert string
	}{
		{name: "development gets development certificate", method: "limited", devices: []string{"DEVID1"}, wantCert: "CERTDEV1"},
		{name: "appstore gets production certificate", method: "store", wantCert: "CERTPROD1"},
		{name: "adhoc gets production certificate", method: "adhoc", devices: []string{"DEVID1"}, wantCert: "CERTPROD1"},
		{name: "inhouse gets inhouse certificate", method: "inhouse", wantCert: "CERTINH1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The profile references a certificate that is no longer on
			// the account, forcing substitution.
			old := record("OLDID0", "Stale", tt.method, "", []string{"CERTGONE"}, tt.devices)

			portal := &mockPortal{
				records:      []domain.ProfileRecord{old},
				repairResult: record("NEWID1", "Stale", tt.method, "", []string{tt.wantCert}, tt.devices),
			}
			portal.onRepair = func(req ports.RepairProfileRequest) {
				portal.records = []domain.ProfileRecord{portal.repairResult}
			}
			service := newTestService(t, portal, &mockDirectory{certificates: account})

			_, err := service.Repair(context.Background(), builtProfile(t, old))
			require.NoError(t, err)

			require.Len(t, portal.repairRequests, 1)
			assert.Equal(t, []string{tt.wantCert}, portal.repairRequests[0].CertificateIDs)
		})
	}
}

func TestRepairNoCertificateAvailable(t *testing.T) {
	old := record("OLDID0", "Stale", "inhouse", "", []string{"CERTGONE"}, nil)

	portal := &mockPortal{records: []domain.ProfileRecord{old}}
	directory := &mockDirectory{
		certificates: []domain.Certificate{{ID: "CERTPROD1", Kind: domain.CertificateProduction}},
	}
	service := newTestService(t, portal, directory)

	_, err := service.Repair(context.Background(), builtProfile(t, old))
	require.Error(t, err)
	assert.ErrorIs(t, err, coreerrors.ErrNoCertificateAvailable)
	assert.Empty(t, portal.repairRequests)
}

func TestRepairProfileNotFoundAfterRepair(t *testing.T) {
	old := record("OLDID0", "Vanishing", "store", "", []string{"CERTID1"}, nil)

	portal := &mockPortal{
		records:      []domain.ProfileRecord{old},
		repairResult: record("NEWID1", "Vanishing", "store", "", []string{"CERTID1"}, nil),
	}
	// The repaired profile never shows up in the follow-up listing.
	portal.onRepair = func(req ports.RepairProfileRequest) {
		portal.records = nil
	}
	directory := &mockDirectory{
		certificates: []domain.Certificate{{ID: "CERTID1", Kind: domain.CertificateProduction}},
	}
	service := newTestService(t, portal, directory)

	_, err := service.Repair(context.Background(), builtProfile(t, old))
	require.Error(t, err)
	assert.ErrorIs(t, err, coreerrors.ErrProfileNotFoundAfterRepair)
}

func TestRepairPortalFailure(t *testing.T) {
	old := record("OLDID0", "Broken", "store", "", []string{"CERTID1"}, nil)

	portal := &mockPortal{
		records:   []domain.ProfileRecord{old},
		repairErr: errors.New("portal returned 500"),
	}
	directory := &mockDirectory{
		certificates: []domain.Certificate{{ID: "CERTID1", Kind: domain.CertificateProduction}},
	}
	service := newTestService(t, portal, directory)

	_, err := service.Repair(context.Background(), builtProfile(t, old))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken")
	assert.Equal(t, 1, portal.retryCalls)
}

func TestUpdateIsRepair(t *testing.T) {
	old := record("OLDID0", "Aliased", "store", "", []string{"CERTID1"}, nil)

	portal := &mockPortal{
		records:      []domain.ProfileRecord{old},
		repairResult: record("NEWID1", "Aliased", "store", "", []string{"CERTID1"}, nil),
	}
	portal.onRepair = func(req ports.RepairProfileRequest) {
		portal.records = []domain.ProfileRecord{portal.repairResult}
	}
	directory := &mockDirectory{
		certificates: []domain.Certificate{{ID: "CERTID1", Kind: domain.CertificateProduction}},
	}
	service := newTestService(t, portal, directory)

	updated, err := service.Update(context.Background(), builtProfile(t, old))
	require.NoError(t, err)
	assert.Equal(t, "NEWID1", updated.ID)
	assert.Len(t, portal.repairRequests, 1)
}

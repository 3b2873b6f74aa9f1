package domain

import (
	"fmt"
	"strings"

	"github.com/signbay/provision/internal/core/errors"
)

// Build converts a raw profile record into the typed Profile of the correct
// kind. It is the only way a Profile comes into existence.
//
// AdHoc and AppStore records are indistinguishable at the wire level: both
// carry the method tag "store" once created. A "store" record that carries
// one or more devices can only be AdHoc, so it is reclassified during
// ingestion. A "store" record with an empty device set stays AppStore.
//
// Returns ErrUnknownDistributionMethod if the record's method tag is not one
// of the four known values; that indicates a portal contract change and is
// not recoverable locally.
func Build(rec ProfileRecord) (*Profile, error) {
	method := strings.ToLower(rec.DistributionMethod)
	if method == MethodStore && len(rec.Devices) > 0 {
		method = MethodAdHoc
	}

	kind, ok := kindForMethod(method)
	if !ok {
		return nil, errors.NewDomainError(errors.ErrUnknownDistributionMethod,
			fmt.Errorf("distribution method %q", rec.DistributionMethod))
	}

	return &Profile{
		kind:         kind,
		ID:           rec.ID,
		UUID:         rec.UUID,
		Name:         rec.Name,
		Status:       ProfileStatus(rec.Status),
		Expires:      rec.Expires,
		Type:         rec.Type,
		Version:      rec.Version,
		Platform:     rec.Platform,
		ManagingApp:  rec.ManagingApp,
		App:          resolveApp(rec.App),
		Certificates: resolveCertificates(rec.Certificates),
		Devices:      resolveDevices(rec.Devices),
	}, nil
}

func kindForMethod(method string) (ProfileKind, bool) {
	switch method {
	case MethodLimited:
		return KindDevelopment, true
	case MethodStore:
		return KindAppStore, true
	case MethodAdHoc:
		return KindAdHoc, true
	case MethodInHouse:
		return KindInHouse, true
	}
	return "", false
}

func resolveApp(rec AppRecord) App {
	return App{
		ID:       rec.ID,
		BundleID: rec.BundleID,
		Name:     rec.Name,
		Platform: rec.Platform,
	}
}

func resolveCertificates(recs []CertificateRecord) []Certificate {
	certs := make([]Certificate, 0, len(recs))
	for _, rec := range recs {
		certs = append(certs, Certificate{
			ID:           rec.ID,
			Name:         rec.Name,
			Kind:         CertificateKind(strings.ToLower(rec.Kind)),
			SerialNumber: rec.SerialNumber,
			Expires:      rec.Expires,
		})
	}
	return certs
}

func resolveDevices(recs []DeviceRecord) []Device {
	devices := make([]Device, 0, len(recs))
	for _, rec := range recs {
		devices = append(devices, Device{
			ID:       rec.ID,
			Name:     rec.Name,
			UDID:     rec.UDID,
			Platform: rec.Platform,
			Status:   rec.Status,
		})
	}
	return devices
}

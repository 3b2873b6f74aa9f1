package portalapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/signbay/provision/internal/core/domain"
	"github.com/signbay/provision/internal/core/errors"
)

// FindApp implements ports.Directory.
func (c *Client) FindApp(ctx context.Context, bundleID string) (domain.App, error) {
	query := url.Values{}
	query.Set("identifier", bundleID)

	var response struct {
		Apps []appPayload `json:"appIds"`
	}
	if err := c.do(ctx, http.MethodGet, "v1/apps", query, nil, &response); err != nil {
		return domain.App{}, fmt.Errorf("failed to look up app: %w", err)
	}

	for _, payload := range response.Apps {
		if payload.BundleID == bundleID {
			return domain.App{
				ID:       payload.ID,
				BundleID: payload.BundleID,
				Name:     payload.Name,
				Platform: payload.Platform,
			}, nil
		}
	}
	return domain.App{}, errors.NewDomainError(errors.ErrAppNotFound,
		fmt.Errorf("bundle id %q", bundleID))
}

// ListDevices implements ports.Directory.
func (c *Client) ListDevices(ctx context.Context) ([]domain.Device, error) {
	var response struct {
		Devices []devicePayload `json:"devices"`
	}
	if err := c.do(ctx, http.MethodGet, "v1/devices", nil, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	devices := make([]domain.Device, 0, len(response.Devices))
	for _, payload := range response.Devices {
		devices = append(devices, domain.Device{
			ID:       payload.ID,
			Name:     payload.Name,
			UDID:     payload.UDID,
			Platform: payload.Platform,
			Status:   payload.Status,
		})
	}
	return devices, nil
}

// ListCertificates implements ports.Directory. The portal only returns
// certificates that are currently valid; revoked and expired ones drop out
// of this listing, which is exactly what the validity engine needs.
func (c *Client) ListCertificates(ctx context.Context) ([]domain.Certificate, error) {
	var response struct {
		Certificates []certificatePayload `json:"certificates"`
	}
	if err := c.do(ctx, http.MethodGet, "v1/certificates", nil, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}

	certificates := make([]domain.Certificate, 0, len(response.Certificates))
	for _, payload := range response.Certificates {
		certificates = append(certificates, domain.Certificate{
			ID:           payload.ID,
			Name:         payload.Name,
			Kind:         domain.CertificateKind(strings.ToLower(payload.Kind)),
			SerialNumber: payload.SerialNumber,
			Expires:      payload.Expires,
		})
	}
	return certificates, nil
}

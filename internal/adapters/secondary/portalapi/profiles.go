package portalapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/signbay/provision/internal/core/domain"
	"github.com/signbay/provision/internal/core/ports"
)

// idList encodes an id collection the way the portal parses it: exactly one
// id is sent as a bare string, anything else as a JSON array. The server
// treats the two shapes differently, so the quirk must be preserved.
type idList []string

func (l idList) MarshalJSON() ([]byte, error) {
	switch len(l) {
	case 0:
		// An absent id set is an empty list on the wire, never null.
		return []byte("[]"), nil
	case 1:
		return json.Marshal(l[0])
	default:
		return json.Marshal([]string(l))
	}
}

func (l *idList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = idList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = idList(many)
	return nil
}

// profilePayload is the portal's profile record on the wire.
type profilePayload struct {
	ID                 string               `json:"provisioningProfileId"`
	UUID               string               `json:"uuid"`
	Name               string               `json:"name"`
	Status             string               `json:"status"`
	Expires            time.Time            `json:"dateExpire"`
	DistributionMethod string               `json:"distributionMethod"`
	Type               string               `json:"type"`
	Version            string               `json:"version"`
	Platform           string               `json:"proProPlatform"`
	ManagingApp        string               `json:"managingApp"`
	App                appPayload           `json:"appId"`
	Certificates       []certificatePayload `json:"certificates"`
	Devices            []devicePayload      `json:"devices"`
}

type appPayload struct {
	ID       string `json:"appIdId"`
	BundleID string `json:"identifier"`
	Name     string `json:"name"`
	Platform string `json:"appIdPlatform"`
}

type certificatePayload struct {
	ID           string    `json:"certificateId"`
	Name         string    `json:"name"`
	Kind         string    `json:"certificateType"`
	SerialNumber string    `json:"serialNumber"`
	Expires      time.Time `json:"expirationDate"`
}

type devicePayload struct {
	ID       string `json:"deviceId"`
	Name     string `json:"name"`
	UDID     string `json:"deviceNumber"`
	Platform string `json:"devicePlatform"`
	Status   string `json:"status"`
}

type createProfileBody struct {
	Name           string `json:"provisioningProfileName"`
	TypeCode       string `json:"distributionType"`
	AppID          string `json:"appIdId"`
	CertificateIDs idList `json:"certificateIds"`
	DeviceIDs      idList `json:"deviceIds"`
}

type repairProfileBody struct {
	ID                 string `json:"provisioningProfileId"`
	Name               string `json:"provisioningProfileName"`
	DistributionMethod string `json:"distributionMethod"`
	AppID              string `json:"appIdId"`
	CertificateIDs     idList `json:"certificateIds"`
	DeviceIDs          idList `json:"deviceIds"`
}

// ListProvisioningProfiles implements ports.PortalClient.
func (c *Client) ListProvisioningProfiles(ctx context.Context) ([]domain.ProfileRecord, error) {
	var response struct {
		Profiles []profilePayload `json:"provisioningProfiles"`
	}
	if err := c.do(ctx, http.MethodGet, "v1/profiles", nil, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to list provisioning profiles: %w", err)
	}

	records := make([]domain.ProfileRecord, 0, len(response.Profiles))
	for _, payload := range response.Profiles {
		records = append(records, payload.toRecord())
	}
	return records, nil
}

// CreateProvisioningProfile implements ports.PortalClient.
func (c *Client) CreateProvisioningProfile(ctx context.Context, req ports.CreateProfileRequest) (domain.ProfileRecord, error) {
	body := createProfileBody{
		Name:           req.Name,
		TypeCode:       req.TypeCode,
		AppID:          req.AppID,
		CertificateIDs: idList(req.CertificateIDs),
		DeviceIDs:      idList(req.DeviceIDs),
	}

	var response struct {
		Profile profilePayload `json:"provisioningProfile"`
	}
	if err := c.do(ctx, http.MethodPost, "v1/profiles", nil, body, &response); err != nil {
		return domain.ProfileRecord{}, fmt.Errorf("failed to create provisioning profile: %w", err)
	}
	return response.Profile.toRecord(), nil
}

// RepairProvisioningProfile implements ports.PortalClient.
func (c *Client) RepairProvisioningProfile(ctx context.Context, req ports.RepairProfileRequest) (domain.ProfileRecord, error) {
	body := repairProfileBody{
		ID:                 req.ID,
		Name:               req.Name,
		DistributionMethod: req.DistributionMethod,
		AppID:              req.AppID,
		CertificateIDs:     idList(req.CertificateIDs),
		DeviceIDs:          idList(req.DeviceIDs),
	}

	var response struct {
		Profile profilePayload `json:"provisioningProfile"`
	}
	if err := c.do(ctx, http.MethodPost, "v1/profiles/"+req.ID+"/repair", nil, body, &response); err != nil {
		return domain.ProfileRecord{}, fmt.Errorf("failed to repair provisioning profile: %w", err)
	}
	return response.Profile.toRecord(), nil
}

// DeleteProvisioningProfile implements ports.PortalClient.
func (c *Client) DeleteProvisioningProfile(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "v1/profiles/"+id, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete provisioning profile: %w", err)
	}
	return nil
}

// DownloadProvisioningProfile implements ports.PortalClient.
func (c *Client) DownloadProvisioningProfile(ctx context.Context, id string) ([]byte, error) {
	payload, err := c.download(ctx, "v1/profiles/"+id+"/download")
	if err != nil {
		return nil, fmt.Errorf("failed to download provisioning profile: %w", err)
	}
	return payload, nil
}

func (p profilePayload) toRecord() domain.ProfileRecord {
	certificates := make([]domain.CertificateRecord, 0, len(p.Certificates))
	for _, cert := range p.Certificates {
		certificates = append(certificates, domain.CertificateRecord{
			ID:           cert.ID,
			Name:         cert.Name,
			Kind:         cert.Kind,
			SerialNumber: cert.SerialNumber,
			Expires:      cert.Expires,
		})
	}

	devices := make([]domain.DeviceRecord, 0, len(p.Devices))
	for _, device := range p.Devices {
		devices = append(devices, domain.DeviceRecord{
			ID:       device.ID,
			Name:     device.Name,
			UDID:     device.UDID,
			Platform: device.Platform,
			Status:   device.Status,
		})
	}

	return domain.ProfileRecord{
		ID:                 p.ID,
		UUID:               p.UUID,
		Name:               p.Name,
		Status:             p.Status,
		Expires:            p.Expires,
		DistributionMethod: p.DistributionMethod,
		Type:               p.Type,
		Version:            p.Version,
		Platform:           p.Platform,
		ManagingApp:        p.ManagingApp,
		App: domain.AppRecord{
			ID:       p.App.ID,
			BundleID: p.App.BundleID,
			Name:     p.App.Name,
			Platform: p.App.Platform,
		},
		Certificates: certificates,
		Devices:      devices,
	}
}

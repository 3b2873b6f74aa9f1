package ports

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/signbay/provision/internal/core/errors"
)

// Environment variable names for portal configuration. Environment values
// take precedence over file values.
const (
	EnvPortalURL    = "PROVISION_PORTAL_URL"
	EnvTeamID       = "PROVISION_TEAM_ID"
	EnvSessionToken = "PROVISION_SESSION_TOKEN"
	EnvPlatform     = "PROVISION_PLATFORM"
)

// Default client behavior when the config file leaves it unset.
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRetries     = 3
)

// Configuration carries everything needed to reach the signing-authority
// portal. The session token is an already-issued credential; login flows
// are out of scope.
type Configuration struct {
	// Portal contains the connection settings for the signing portal.
	Portal PortalConfig `yaml:"portal" mapstructure:"portal"`

	// Platform is the default target platform for created profiles,
	// e.g. "ios". Optional.
	Platform string `yaml:"platform,omitempty" mapstructure:"platform"`
}

// PortalConfig contains connection settings for the signing portal.
type PortalConfig struct {
	// URL is the portal API base URL. Required.
	URL string `yaml:"url" mapstructure:"url"`

	// TeamID selects the developer team the session operates on. Required.
	TeamID string `yaml:"team_id" mapstructure:"team_id"`

	// SessionToken authenticates every request. Required. Never logged.
	SessionToken string `yaml:"session_token,omitempty" mapstructure:"session_token"`

	// RequestTimeout bounds a single portal call, not the whole retry
	// sequence. Zero means DefaultRequestTimeout.
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty" mapstructure:"request_timeout"`

	// MaxRetries caps transient-failure retries per WithRetry invocation.
	// Zero means DefaultMaxRetries.
	MaxRetries int `yaml:"max_retries,omitempty" mapstructure:"max_retries"`
}

// Validate checks the configuration for completeness and well-formed values.
func (c *Configuration) Validate() error {
	if strings.TrimSpace(c.Portal.URL) == "" {
		return &errors.ValidationError{
			Field:   "portal.url",
			Value:   c.Portal.URL,
			Message: "portal URL is required",
		}
	}

	parsed, err := url.Parse(c.Portal.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return &errors.ValidationError{
			Field:   "portal.url",
			Value:   c.Portal.URL,
			Message: "portal URL must be an absolute http(s) URL",
		}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &errors.ValidationError{
			Field:   "portal.url",
			Value:   c.Portal.URL,
			Message: fmt.Sprintf("unsupported scheme %q", parsed.Scheme),
		}
	}

	if strings.TrimSpace(c.Portal.TeamID) == "" {
		return &errors.ValidationError{
			Field:   "portal.team_id",
			Value:   c.Portal.TeamID,
			Message: "team id is required",
		}
	}

	if c.Portal.MaxRetries < 0 {
		return &errors.ValidationError{
			Field:   "portal.max_retries",
			Value:   c.Portal.MaxRetries,
			Message: "max retries cannot be negative",
		}
	}

	return nil
}

// Timeout returns the effective per-request timeout.
func (c *Configuration) Timeout() time.Duration {
	if c.Portal.RequestTimeout > 0 {
		return c.Portal.RequestTimeout
	}
	return DefaultRequestTimeout
}

// Retries returns the effective retry cap.
func (c *Configuration) Retries() int {
	if c.Portal.MaxRetries > 0 {
		return c.Portal.MaxRetries
	}
	return DefaultMaxRetries
}

// LoadFromEnvironment creates a configuration from environment variables
// alone. The session token stays out of config files this way.
func LoadFromEnvironment() (*Configuration, error) {
	config := &Configuration{
		Portal: PortalConfig{
			URL:          os.Getenv(EnvPortalURL),
			TeamID:       os.Getenv(EnvTeamID),
			SessionToken: os.Getenv(EnvSessionToken),
		},
		Platform: os.Getenv(EnvPlatform),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("environment configuration validation failed: %w", err)
	}
	return config, nil
}

// MergeWithEnvironment merges file-based configuration with environment
// variables. Environment variables take precedence over file values.
func (c *Configuration) MergeWithEnvironment() error {
	if v := os.Getenv(EnvPortalURL); v != "" {
		c.Portal.URL = v
	}
	if v := os.Getenv(EnvTeamID); v != "" {
		c.Portal.TeamID = v
	}
	if v := os.Getenv(EnvSessionToken); v != "" {
		c.Portal.SessionToken = v
	}
	if v := os.Getenv(EnvPlatform); v != "" {
		c.Platform = v
	}
	return c.Validate()
}

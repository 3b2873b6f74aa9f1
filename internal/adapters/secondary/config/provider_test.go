package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signbay/provision/internal/core/errors"
	"github.com/signbay/provision/internal/core/ports"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "provision.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfiguration(t *testing.T) {
	path := writeConfigFile(t, `
portal:
  url: https://portal.example.com
  team_id: TEAMID1
  session_token: file-token
  request_timeout: 10s
  max_retries: 5
platform: ios
`)

	provider := NewFileProvider()
	config, err := provider.LoadConfiguration(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "https://portal.example.com", config.Portal.URL)
	assert.Equal(t, "TEAMID1", config.Portal.TeamID)
	assert.Equal(t, "file-token", config.Portal.SessionToken)
	assert.Equal(t, 10*time.Second, config.Timeout())
	assert.Equal(t, 5, config.Retries())
	assert.Equal(t, "ios", config.Platform)
}

func TestLoadConfigurationEnvironmentWins(t *testing.T) {
	path := writeConfigFile(t, `
portal:
  url: https://portal.example.com
  team_id: TEAMID1
  session_token: file-token
`)

	t.Setenv(ports.EnvTeamID, "TEAMID2")
	t.Setenv(ports.EnvSessionToken, "env-token")

	provider := NewFileProvider()
	config, err := provider.LoadConfiguration(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "TEAMID2", config.Portal.TeamID)
	assert.Equal(t, "env-token", config.Portal.SessionToken)
	assert.Equal(t, "https://portal.example.com", config.Portal.URL)
}

func TestLoadConfigurationEmptyPath(t *testing.T) {
	provider := NewFileProvider()

	_, err := provider.LoadConfiguration(context.Background(), "")
	require.Error(t, err)

	var validationErr *errors.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = provider.LoadConfiguration(context.Background(), "   ")
	assert.Error(t, err)
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	provider := NewFileProvider()
	_, err := provider.LoadConfiguration(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigurationInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing url",
			content: "portal:\n  team_id: TEAMID1\n",
		},
		{
			name:    "relative url",
			content: "portal:\n  url: portal.example.com\n  team_id: TEAMID1\n",
		},
		{
			name:    "unsupported scheme",
			content: "portal:\n  url: ftp://portal.example.com\n  team_id: TEAMID1\n",
		},
		{
			name:    "missing team id",
			content: "portal:\n  url: https://portal.example.com\n",
		},
		{
			name:    "not yaml",
			content: "{{{",
		},
	}

	provider := NewFileProvider()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			_, err := provider.LoadConfiguration(context.Background(), path)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigurationCanceledContext(t *testing.T) {
	path := writeConfigFile(t, "portal:\n  url: https://portal.example.com\n  team_id: TEAMID1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := NewFileProvider()
	_, err := provider.LoadConfiguration(ctx, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

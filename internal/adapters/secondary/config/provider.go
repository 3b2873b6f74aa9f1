// Package config provides configuration loading for the provision library.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/signbay/provision/internal/core/errors"
	"github.com/signbay/provision/internal/core/ports"
)

// FileProvider provides configs from files.
type FileProvider struct{}

// NewFileProvider creates provider.
func NewFileProvider() *FileProvider {
	return &FileProvider{}
}

// LoadConfiguration loads a portal configuration from a YAML file, merges
// environment overrides on top and validates the result.
func (p *FileProvider) LoadConfiguration(ctx context.Context, path string) (*ports.Configuration, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &errors.ValidationError{
			Field:   "path",
			Value:   path,
			Message: "configuration file path cannot be empty or whitespace",
		}
	}

	cleanPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config file path: %w", err)
	}

	if ctx != nil {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("configuration loading canceled: %w", ctx.Err())
		default:
		}
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ports.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Environment wins over file values; this also runs validation.
	if err := config.MergeWithEnvironment(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	return &config, nil
}

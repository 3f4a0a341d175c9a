// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for vendor-treadmill
// with support for multiple configuration sources and a well-defined
// precedence order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults (the podman/buildah treadmill)
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from multiple sources and applies them in the
// correct precedence order. If configPath is provided, it loads from that
// specific file. Otherwise, it searches standard locations:
//   - .treadmill.yaml (current directory)
//   - .treadmill.yml (current directory)
//   - ~/.config/treadmill/config.yaml
//   - ~/.config/treadmill/config.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides. Returns an error if the specified config file cannot
// be loaded, but succeeds with defaults if no config file is found in
// standard locations.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".treadmill.yaml",
			".treadmill.yml",
			filepath.Join(os.Getenv("HOME"), ".config", "treadmill", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "treadmill", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// Token returns the GitHub API token from the configured environment
// variable. An empty string means no token is available; PR discovery
// cannot run unattended without one.
func (c *Config) Token() string {
	return os.Getenv(c.GitHub.TokenEnv)
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}
	if remote := os.Getenv("TREADMILL_UPSTREAM_REMOTE"); remote != "" {
		cfg.Project.UpstreamRemote = remote
	}
}

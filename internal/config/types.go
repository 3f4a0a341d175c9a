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

// Package config types define the configuration structures used throughout
// vendor-treadmill. These types represent settings that can be loaded from
// YAML configuration files or environment variables.
package config

import (
	"fmt"
	"strings"
)

// Config represents the complete configuration for vendor-treadmill.
// The defaults describe the podman/buildah treadmill; other host projects
// override the relevant fields in a config file.
type Config struct {
	Project    ProjectConfig    `yaml:"project"`
	Dependency DependencyConfig `yaml:"dependency"`
	Markers    MarkersConfig    `yaml:"markers"`
	Commands   CommandsConfig   `yaml:"commands"`
	GitHub     GitHubConfig     `yaml:"github"`
}

// ProjectConfig identifies the host project whose tree the tool rewrites.
type ProjectConfig struct {
	// Name is the short project name used in operator-facing reports.
	Name string `yaml:"name"`

	// Repo is the upstream GitHub repository in "owner/name" format,
	// used for treadmill pull request discovery.
	Repo string `yaml:"repo"`

	// Trunk is the shared mainline branch all contributors rebase onto.
	Trunk string `yaml:"trunk"`

	// UpstreamRemote is the git remote the trunk is pulled from.
	UpstreamRemote string `yaml:"upstream_remote"`

	// DocsURL is the operator-facing documentation page referenced in
	// every fatal error message.
	DocsURL string `yaml:"docs_url"`
}

// DependencyConfig identifies the vendored dependency the treadmill tracks.
type DependencyConfig struct {
	// Name is the short dependency name used in commit messages and reports.
	Name string `yaml:"name"`

	// Module is the dependency's module path as it appears in the manifest.
	Module string `yaml:"module"`

	// VendorDir is the checked-in vendor subtree for the dependency.
	// A dependency's changes may live outside it (e.g. nested test
	// fixtures), which is why classification also falls back to scanning
	// the manifest diff.
	VendorDir string `yaml:"vendor_dir"`

	// Manifest, LockFile and VendorIndex are the files a legitimate
	// vendor commit must touch.
	Manifest    string `yaml:"manifest"`
	LockFile    string `yaml:"lock_file"`
	VendorIndex string `yaml:"vendor_index"`
}

// MarkersConfig holds the commit-message markers and branch naming scheme.
// The checkpoint prefix is a durable recovery contract: operators locate
// interrupted-run snapshots by it, so it must stay stable across versions.
type MarkersConfig struct {
	// TreadmillTitle is the exact subject of the treadmill commit and the
	// exact title of the perpetually-open upstream pull request.
	TreadmillTitle string `yaml:"treadmill_title"`

	// CheckpointPrefix names checkpoint branches: <prefix>/YYYYMMDD-HHMMSS.
	CheckpointPrefix string `yaml:"checkpoint_prefix"`

	// ToolingConfig is the one file a benign no-op vendor commit may touch.
	ToolingConfig string `yaml:"tooling_config"`
}

// CommandsConfig holds the external build steps the tool sequences.
// Each entry is a single command line split on whitespace at exec time;
// none of them read stdin and all signal failure by exiting nonzero.
type CommandsConfig struct {
	// Vendor re-vendors the dependency and must leave the tree
	// vendor-consistent on success.
	Vendor string `yaml:"vendor"`

	// Verify commands run in order after a successful sync: local build,
	// man-page cross-check, and the patch-applicability probe.
	Verify []string `yaml:"verify"`
}

// GitHubConfig contains GitHub API settings. A custom GraphQL endpoint
// supports GitHub Enterprise deployments.
type GitHubConfig struct {
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
}

// VendorRoot returns the top-level checked-in vendor directory, derived
// from the vendor index path. Untracked files under it make the tree
// dirty; untracked files elsewhere are tolerated.
func (d *DependencyConfig) VendorRoot() string {
	if i := strings.IndexByte(d.VendorIndex, '/'); i > 0 {
		return d.VendorIndex[:i]
	}
	return "vendor"
}

// VendorSubjectPrefix returns the fixed prefix every vendor commit subject
// carries; the full subject appends the dependency version token.
func (c *Config) VendorSubjectPrefix() string {
	return fmt.Sprintf("DO NOT MERGE: vendor in %s @ ", c.Dependency.Name)
}

// VendorSubject returns the complete templated vendor commit subject for
// the given dependency version token.
func (c *Config) VendorSubject(version string) string {
	return c.VendorSubjectPrefix() + version
}

// DefaultConfig returns a Config preloaded with the podman/buildah
// treadmill settings. Everything can be overridden in a config file.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Name:           "podman",
			Repo:           "containers/podman",
			Trunk:          "main",
			UpstreamRemote: "upstream",
			DocsURL:        "https://github.com/containers/podman/wiki/Buildah-Vendor-Treadmill",
		},
		Dependency: DependencyConfig{
			Name:        "buildah",
			Module:      "github.com/containers/buildah",
			VendorDir:   "vendor/github.com/containers/buildah",
			Manifest:    "go.mod",
			LockFile:    "go.sum",
			VendorIndex: "vendor/modules.txt",
		},
		Markers: MarkersConfig{
			TreadmillTitle:   "DO NOT MERGE: buildah vendor treadmill",
			CheckpointPrefix: "__treadmill-checkpoint",
			ToolingConfig:    ".cirrus.yml",
		},
		Commands: CommandsConfig{
			Vendor: "make vendor",
			Verify: []string{
				"make podman",
				"hack/xref-helpmsgs-manpages",
				"test/buildah-bud/run-buildah-bud-tests --no-test",
			},
		},
		GitHub: GitHubConfig{
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
	}
}

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

package classify

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirseerhq/vendor-treadmill/internal/config"
	interrors "github.com/sirseerhq/vendor-treadmill/internal/errors"
	"github.com/sirseerhq/vendor-treadmill/internal/git"
)

func newTestClassifier(m *git.MockRunner) *Classifier {
	return &Classifier{
		Runner:        m,
		Dep:           config.DefaultConfig().Dependency,
		ToolingConfig: ".cirrus.yml",
	}
}

func TestLooksLikeVendorCommit(t *testing.T) {
	fullVendorDiff := []string{
		"go.mod",
		"go.sum",
		"vendor/modules.txt",
		"vendor/github.com/containers/buildah/buildah.go",
	}

	tests := []struct {
		name         string
		nameOnly     []string
		manifestDiff []string
		wantOK       bool
		wantMissing  []string
	}{
		{
			name:     "empty diff is a benign no-op",
			nameOnly: nil,
			wantOK:   true,
		},
		{
			name:     "tooling config only is benign",
			nameOnly: []string{".cirrus.yml"},
			wantOK:   true,
		},
		{
			name:     "full vendor bump",
			nameOnly: fullVendorDiff,
			wantOK:   true,
		},
		{
			name: "manifest line fallback when vendor subtree untouched",
			nameOnly: []string{
				"go.mod",
				"go.sum",
				"vendor/modules.txt",
			},
			manifestDiff: []string{
				"+++ b/go.mod",
				"--- a/go.mod",
				"-\tgithub.com/containers/buildah v1.2.0",
				"+\tgithub.com/containers/buildah v1.3.0",
			},
			wantOK: true,
		},
		{
			name: "missing manifest change",
			nameOnly: []string{
				"go.sum",
				"vendor/modules.txt",
				"vendor/github.com/containers/buildah/buildah.go",
			},
			wantMissing: []string{"go.mod changes"},
		},
		{
			name: "missing everything but a random file",
			nameOnly: []string{
				"libpod/runtime.go",
			},
			manifestDiff: nil,
			wantMissing: []string{
				"go.mod changes",
				"go.sum changes",
				"vendor/modules.txt changes",
				"changes under vendor/github.com/containers/buildah/ or a go.mod line naming github.com/containers/buildah",
			},
		},
		{
			name: "vendor subtree untouched and manifest silent",
			nameOnly: []string{
				"go.mod",
				"go.sum",
				"vendor/modules.txt",
			},
			manifestDiff: []string{
				"+\tgithub.com/containers/storage v1.50.0",
			},
			wantMissing: []string{
				"changes under vendor/github.com/containers/buildah/ or a go.mod line naming github.com/containers/buildah",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &git.MockRunner{Responses: map[string][]string{
				"diff --name-only HEAD^ HEAD":           tt.nameOnly,
				"diff --unified=0 HEAD^ HEAD -- go.mod": tt.manifestDiff,
			}}
			c := newTestClassifier(m)

			err := c.LooksLikeVendorCommit("HEAD")
			if tt.wantOK {
				if err != nil {
					t.Fatalf("LooksLikeVendorCommit = %v, want pass", err)
				}
				return
			}

			if !errors.Is(err, interrors.ErrNotVendorCommit) {
				t.Fatalf("LooksLikeVendorCommit = %v, want ErrNotVendorCommit", err)
			}
			var nvErr *interrors.NotVendorCommitError
			if !errors.As(err, &nvErr) {
				t.Fatal("error should carry the missing-item list")
			}
			if len(nvErr.Missing) != len(tt.wantMissing) {
				t.Fatalf("Missing = %v, want %v", nvErr.Missing, tt.wantMissing)
			}
			for i := range nvErr.Missing {
				if nvErr.Missing[i] != tt.wantMissing[i] {
					t.Errorf("Missing[%d] = %q, want %q", i, nvErr.Missing[i], tt.wantMissing[i])
				}
			}
		})
	}
}

func TestDependencyVersionFromWorkingTree(t *testing.T) {
	tempDir := t.TempDir()
	manifest := filepath.Join(tempDir, "go.mod")
	content := strings.Join([]string{
		"module github.com/containers/podman/v5",
		"",
		"go 1.23.0",
		"",
		"require (",
		"\tgithub.com/containers/buildah v1.33.0",
		"\tgithub.com/containers/storage v1.50.0",
		")",
	}, "\n")
	if err := os.WriteFile(manifest, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	c := newTestClassifier(&git.MockRunner{})
	c.Dep.Manifest = manifest

	got, err := c.DependencyVersion("")
	if err != nil {
		t.Fatalf("DependencyVersion failed: %v", err)
	}
	if got != "v1.33.0" {
		t.Errorf("DependencyVersion = %q, want v1.33.0", got)
	}
}

func TestDependencyVersionFromBranch(t *testing.T) {
	m := &git.MockRunner{Responses: map[string][]string{
		"show main:go.mod": {
			"module github.com/containers/podman/v5",
			"require (",
			"\tgithub.com/containers/buildah v1.2.0",
			")",
		},
	}}
	c := newTestClassifier(m)

	got, err := c.DependencyVersion("main")
	if err != nil {
		t.Fatalf("DependencyVersion failed: %v", err)
	}
	if got != "v1.2.0" {
		t.Errorf("DependencyVersion = %q, want v1.2.0", got)
	}
}

func TestDependencyVersionNotFound(t *testing.T) {
	m := &git.MockRunner{Responses: map[string][]string{
		"show main:go.mod": {
			"module github.com/containers/podman/v5",
			"require github.com/containers/storage v1.50.0",
		},
	}}
	c := newTestClassifier(m)

	_, err := c.DependencyVersion("main")
	if !errors.Is(err, interrors.ErrDependencyNotFound) {
		t.Fatalf("DependencyVersion = %v, want ErrDependencyNotFound", err)
	}
}

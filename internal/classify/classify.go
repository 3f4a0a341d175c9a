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

// Package classify decides whether a commit looks like a legitimate
// vendor-bump commit, and extracts the vendored dependency's version
// token from the manifest.
package classify

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirseerhq/vendor-treadmill/internal/config"
	interrors "github.com/sirseerhq/vendor-treadmill/internal/errors"
	"github.com/sirseerhq/vendor-treadmill/internal/git"
)

// Classifier inspects commits via the git runner. It never mutates the
// repository.
type Classifier struct {
	Runner git.Runner
	Dep    config.DependencyConfig

	// ToolingConfig is the one file a benign no-op commit may touch.
	ToolingConfig string
}

// LooksLikeVendorCommit inspects the file-level diff between ref^ and ref.
//
// The commit passes when the diff is empty or touches only the tooling
// config file. Otherwise it must change the manifest, the lock file and
// the vendor-modules index, and either touch the dependency's vendor
// subtree or add/remove a manifest line naming the dependency (the latter
// covers layouts where the dependency's files live only under nested test
// fixtures). Every unmet requirement is collected so the caller can report
// all violations at once.
func (c *Classifier) LooksLikeVendorCommit(ref string) error {
	files, err := c.Runner.Output("diff", "--name-only", ref+"^", ref)
	if err != nil {
		return fmt.Errorf("failed to diff %s against its parent: %w", ref, err)
	}

	// A no-op placeholder commit is permitted when the prior commit's
	// vendor state is unchanged.
	if len(files) == 0 {
		return nil
	}

	onlyTooling := true
	changed := make(map[string]bool, len(files))
	vendorTouched := false
	for _, f := range files {
		changed[f] = true
		if f != c.ToolingConfig {
			onlyTooling = false
		}
		if strings.HasPrefix(f, c.Dep.VendorDir+"/") {
			vendorTouched = true
		}
	}
	if onlyTooling {
		return nil
	}

	var missing []string
	for _, want := range []string{c.Dep.Manifest, c.Dep.LockFile, c.Dep.VendorIndex} {
		if !changed[want] {
			missing = append(missing, want+" changes")
		}
	}

	if !vendorTouched {
		mentioned, err := c.manifestDiffNamesDependency(ref)
		if err != nil {
			return err
		}
		if !mentioned {
			missing = append(missing, fmt.Sprintf("changes under %s/ or a %s line naming %s",
				c.Dep.VendorDir, c.Dep.Manifest, c.Dep.Module))
		}
	}

	if len(missing) > 0 {
		return &interrors.NotVendorCommitError{Ref: ref, Missing: missing}
	}
	return nil
}

// manifestDiffNamesDependency reports whether the manifest diff between
// ref^ and ref adds or removes a line naming the dependency's module path.
func (c *Classifier) manifestDiffNamesDependency(ref string) (bool, error) {
	lines, err := c.Runner.Output("diff", "--unified=0", ref+"^", ref, "--", c.Dep.Manifest)
	if err != nil {
		return false, fmt.Errorf("failed to diff %s in %s: %w", c.Dep.Manifest, ref, err)
	}
	for _, line := range lines {
		if strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---") {
			continue
		}
		if (strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-")) &&
			strings.Contains(line, c.Dep.Module) {
			return true, nil
		}
	}
	return false, nil
}

// DependencyVersion returns the dependency's version token from the
// manifest: the second field of the first line whose first field is the
// dependency's module path. With an empty branch the working-tree manifest
// is read; otherwise the branch's committed blob is. The token is used
// purely for before/after comparison and reporting, never parsed.
func (c *Classifier) DependencyVersion(branch string) (string, error) {
	var lines []string
	if branch == "" {
		data, err := os.ReadFile(c.Dep.Manifest)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", c.Dep.Manifest, err)
		}
		lines = strings.Split(string(data), "\n")
	} else {
		var err error
		lines, err = c.Runner.Output("show", branch+":"+c.Dep.Manifest)
		if err != nil {
			return "", fmt.Errorf("failed to read %s from %s: %w", c.Dep.Manifest, branch, err)
		}
	}

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == c.Dep.Module {
			return fields[1], nil
		}
	}

	return "", fmt.Errorf("%s has no line for %s: %w",
		c.Dep.Manifest, c.Dep.Module, interrors.ErrDependencyNotFound)
}

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

package git

import (
	"fmt"
	"strings"

	interrors "github.com/sirseerhq/vendor-treadmill/internal/errors"
)

// Guard validates repository preconditions before any workflow performs
// its first mutating step. Neither check is ever skipped silently.
type Guard struct {
	Runner Runner

	// VendorRoot is the top-level vendor directory. Untracked files under
	// it make the tree dirty; untracked files elsewhere are tolerated.
	VendorRoot string

	// CheckpointPrefix is the naming prefix of checkpoint branches.
	CheckpointPrefix string
}

// AssertClean fails with ErrDirtyRepository if any tracked file is
// modified or staged, or if any untracked file exists under the vendor
// subtree. The offending paths are all listed in the error.
func (g *Guard) AssertClean() error {
	lines, err := g.Runner.Output("status", "--porcelain")
	if err != nil {
		return fmt.Errorf("failed to read repository status: %w", err)
	}

	var offenders []string
	for _, line := range lines {
		if len(line) < 4 {
			continue
		}
		status := line[:2]
		path := strings.TrimSpace(line[3:])
		// Renames report "old -> new"; the new name is what matters.
		if idx := strings.Index(path, " -> "); idx >= 0 {
			path = path[idx+4:]
		}

		if status == "??" {
			if strings.HasPrefix(path, g.VendorRoot+"/") {
				offenders = append(offenders, path+" (untracked under "+g.VendorRoot+"/)")
			}
			continue
		}
		offenders = append(offenders, path)
	}

	if len(offenders) > 0 {
		return fmt.Errorf("%w: %s", interrors.ErrDirtyRepository, strings.Join(offenders, ", "))
	}
	return nil
}

// OrphanedCheckpoints lists leftover checkpoint branches from interrupted
// prior runs.
func (g *Guard) OrphanedCheckpoints() ([]string, error) {
	branches, err := g.Runner.Output("branch", "--list", g.CheckpointPrefix+"/*", "--format=%(refname:short)")
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoint branches: %w", err)
	}
	return branches, nil
}

// AssertNoOrphanedCheckpoint fails with OrphanedCheckpointError when any
// checkpoint branch already exists, unless force is set. Under force the
// orphan list is returned so the final report can remind the operator to
// delete the branches manually.
func (g *Guard) AssertNoOrphanedCheckpoint(force bool) ([]string, error) {
	orphans, err := g.OrphanedCheckpoints()
	if err != nil {
		return nil, err
	}
	if len(orphans) == 0 {
		return nil, nil
	}
	if !force {
		return nil, &interrors.OrphanedCheckpointError{Branches: orphans}
	}
	return orphans, nil
}

// UntrackedUnderVendor lists untracked files under the vendor subtree.
// Vendoring tools are allowed to leave new files untracked; the sync
// workflow stages these before committing the new vendor state.
func (g *Guard) UntrackedUnderVendor() ([]string, error) {
	files, err := g.Runner.Output("ls-files", "--others", "--exclude-standard", "--", g.VendorRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to list untracked vendor files: %w", err)
	}
	return files, nil
}

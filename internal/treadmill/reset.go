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

package treadmill

import (
	"fmt"

	interrors "github.com/sirseerhq/vendor-treadmill/internal/errors"
)

// Reset re-establishes the branch shape the sync precondition depends on:
// a placeholder vendor commit with the "[none]" token, topped by a fresh
// empty treadmill marker commit seeded with today's date. The working
// branch must carry no pending local patches (its tree must equal
// trunk's), which makes Reset idempotent.
func (w *Workflows) Reset() error {
	if err := w.Guard.AssertClean(); err != nil {
		return err
	}
	orphans, err := w.Guard.AssertNoOrphanedCheckpoint(w.Opts.ForceRetry)
	if err != nil {
		return err
	}
	w.remindOrphans(orphans)

	branch, err := w.currentBranch()
	if err != nil {
		return err
	}
	trunk := w.Config.Project.Trunk

	// Tree equality, not commit equality: a previous reset's empty
	// marker commits don't count as pending patches.
	pending, err := w.Runner.Output("diff", "--name-only", trunk, "HEAD")
	if err != nil {
		return fmt.Errorf("failed to diff %s against %s: %w", branch, trunk, err)
	}
	if len(pending) > 0 {
		return fmt.Errorf("%w: %s carries local changes relative to %s (%d files); reset requires an empty slate",
			interrors.ErrInvalidBranchShape, branch, trunk, len(pending))
	}

	st := syncState{branch: branch, orphans: orphans}
	if _, err := w.pullTrunk(st); err != nil {
		return err
	}

	// A no-op in the common case; moves the branch when trunk advanced.
	if err := w.Runner.Run("rebase", trunk); err != nil {
		return fmt.Errorf("failed to rebase %s onto %s: %w", branch, trunk, err)
	}

	if err := w.Runner.Run("commit", "--allow-empty", "-s",
		"-m", w.Config.VendorSubject("[none]")); err != nil {
		return fmt.Errorf("failed to create the placeholder vendor commit: %w", err)
	}

	message := fmt.Sprintf("%s\n\nAs of %s. Contains no local patches yet.",
		w.Config.Markers.TreadmillTitle, w.today().Format("2006-01-02"))
	if err := w.Runner.Run("commit", "--allow-empty", "-s", "-m", message); err != nil {
		return fmt.Errorf("failed to create the treadmill marker commit: %w", err)
	}

	w.Report.Infof("Reset %s: vendor token is now [none], fresh treadmill marker created.", branch)
	w.remindOrphans(orphans)
	return nil
}

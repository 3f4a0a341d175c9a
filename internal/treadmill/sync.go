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
	"errors"
	"fmt"
	"strings"

	interrors "github.com/sirseerhq/vendor-treadmill/internal/errors"
	"github.com/sirseerhq/vendor-treadmill/internal/git"
)

// Sync rebases the working branch onto a freshly pulled trunk, re-vendors
// the dependency, commits the new vendor state, and reapplies the
// treadmill commit on top. The rebase+vendor phase and the cherry-pick
// are each wrapped in their own checkpoint guard; both checkpoints are
// deleted only after the cherry-pick succeeds.
func (w *Workflows) Sync() error {
	st, err := w.validateBranchShape()
	if err != nil {
		return err
	}

	st, err = w.pullTrunk(st)
	if err != nil {
		return err
	}

	// Outer guard: the rebase+vendor phase.
	outer, err := w.Checkpoints.Guard(st.branch, func() error {
		var gerr error
		st, gerr = w.rebaseAndVendor(st)
		return gerr
	})
	if err != nil {
		return err
	}

	// Inner guard: the cherry-pick. It has the highest failure
	// probability and the clearest recovery story, so it gets its own
	// independently-scoped checkpoint.
	inner, err := w.Checkpoints.Guard(st.branch, func() error {
		return w.reapplyTreadmill(st)
	})
	if err != nil {
		return err
	}

	if err := inner.Release(); err != nil {
		return err
	}
	if err := outer.Release(); err != nil {
		return err
	}

	return w.reportAndVerify(st)
}

// validateBranchShape enforces the sync precondition: HEAD must be the
// treadmill commit and its parent a vendor commit. Mismatch is a hard
// stop with no auto-repair.
func (w *Workflows) validateBranchShape() (syncState, error) {
	var st syncState

	if err := w.Guard.AssertClean(); err != nil {
		return st, err
	}
	orphans, err := w.Guard.AssertNoOrphanedCheckpoint(w.Opts.ForceRetry)
	if err != nil {
		return st, err
	}
	st.orphans = orphans
	w.remindOrphans(orphans)

	st.branch, err = w.currentBranch()
	if err != nil {
		return st, err
	}

	headSubject, err := w.subject("HEAD")
	if err != nil {
		return st, err
	}
	if headSubject != w.Config.Markers.TreadmillTitle {
		return st, fmt.Errorf("%w: HEAD subject is %q, want the treadmill marker %q",
			interrors.ErrInvalidBranchShape, headSubject, w.Config.Markers.TreadmillTitle)
	}

	parentSubject, err := w.subject("HEAD^")
	if err != nil {
		return st, err
	}
	if !strings.HasPrefix(parentSubject, w.Config.VendorSubjectPrefix()) {
		return st, fmt.Errorf("%w: HEAD^ subject is %q, want the vendor marker prefix %q",
			interrors.ErrInvalidBranchShape, parentSubject, w.Config.VendorSubjectPrefix())
	}
	if err := w.Classifier.LooksLikeVendorCommit("HEAD^"); err != nil {
		return st, err
	}

	st.treadmillSHA, err = w.revParse("HEAD")
	if err != nil {
		return st, err
	}

	st.oldVersion, err = w.dependencyVersionOrNone()
	if err != nil {
		return st, err
	}
	w.Report.Verbosef("dependency %s currently at %s", w.Config.Dependency.Name, st.oldVersion)

	return st, nil
}

// pullTrunk refreshes trunk from the upstream remote, then returns to the
// working branch. Any git failure here is fatal.
func (w *Workflows) pullTrunk(st syncState) (syncState, error) {
	trunk := w.Config.Project.Trunk
	remote := w.Config.Project.UpstreamRemote

	if err := w.Runner.Run("checkout", trunk); err != nil {
		return st, fmt.Errorf("%w: %v", interrors.ErrTrunkPullFailed, err)
	}
	if err := w.Runner.Run("pull", "--rebase", remote, trunk); err != nil {
		return st, fmt.Errorf("%w: %v", interrors.ErrTrunkPullFailed, err)
	}
	if err := w.Runner.Run("checkout", st.branch); err != nil {
		return st, fmt.Errorf("%w: %v", interrors.ErrTrunkPullFailed, err)
	}
	return st, nil
}

// rebaseAndVendor detaches the treadmill commit, rebases onto trunk when
// the fork point has moved, re-vendors the dependency and commits the new
// vendor state. Runs inside the outer checkpoint guard.
func (w *Workflows) rebaseAndVendor(st syncState) (syncState, error) {
	trunk := w.Config.Project.Trunk

	// Drop the treadmill commit and the old vendor commit; both are
	// recreated on the new base.
	if err := w.Runner.Run("reset", "--hard", "HEAD~2"); err != nil {
		return st, fmt.Errorf("failed to detach the treadmill commit: %w", err)
	}

	forkPoint, err := git.FirstLine(w.Runner, "merge-base", trunk, "HEAD")
	if err != nil {
		return st, fmt.Errorf("failed to find the fork point from %s: %w", trunk, err)
	}
	trunkTip, err := w.revParse(trunk)
	if err != nil {
		return st, err
	}

	if forkPoint == trunkTip {
		w.Report.Verbosef("%s has not moved; skipping rebase", trunk)
	} else {
		if err := w.Runner.Run("rebase", trunk); err != nil {
			return st, fmt.Errorf("failed to rebase %s onto %s: %w", st.branch, trunk, err)
		}
		st.rebased = true
	}

	if err := w.Runner.RunExternal(w.Config.Commands.Vendor); err != nil {
		return st, fmt.Errorf("%w: %v", interrors.ErrVendorFailed, err)
	}

	// Vendoring tools may leave new files untracked.
	untracked, err := w.Guard.UntrackedUnderVendor()
	if err != nil {
		return st, err
	}
	if len(untracked) > 0 {
		args := append([]string{"add", "--"}, untracked...)
		if err := w.Runner.Run(args...); err != nil {
			return st, fmt.Errorf("failed to stage new vendor files: %w", err)
		}
	}

	st.newVersion, err = w.dependencyVersionOrNone()
	if err != nil {
		return st, err
	}

	// A no-op vendor state still gets its placeholder commit so the
	// branch shape invariant holds for the next sync.
	if err := w.Runner.Run("commit", "-a", "-s", "--allow-empty",
		"-m", w.Config.VendorSubject(st.newVersion)); err != nil {
		return st, fmt.Errorf("failed to commit the new vendor state: %w", err)
	}

	return st, nil
}

// reapplyTreadmill cherry-picks the original treadmill commit onto the
// new history. An empty result is allowed: upstream may already contain
// equivalent content. Runs inside the inner checkpoint guard.
func (w *Workflows) reapplyTreadmill(st syncState) error {
	if err := w.Runner.Run("cherry-pick", "--allow-empty", st.treadmillSHA); err != nil {
		return fmt.Errorf("failed to cherry-pick the treadmill commit %s: %w", st.treadmillSHA, err)
	}
	return nil
}

// reportAndVerify classifies the sync outcome, reports it, and runs the
// external verification commands unless nothing changed.
func (w *Workflows) reportAndVerify(st syncState) error {
	dep := w.Config.Dependency.Name
	project := w.Config.Project.Name

	switch {
	case !st.rebased && st.oldVersion == st.newVersion:
		w.Report.Infof("Nothing has changed (same %s, same %s).", dep, project)
		if !w.Opts.ForceTesting {
			w.Report.Infof("Nothing to push. Skipping verification; use --force-testing to run it anyway.")
			w.remindOrphans(st.orphans)
			return nil
		}
	case st.oldVersion == st.newVersion:
		w.Report.Infof("New %s, same %s.", project, dep)
	default:
		w.Report.Successf("New %s, new %s. Good candidate for pushing.", dep, project)
	}

	if err := w.verify(); err != nil {
		return err
	}
	w.remindOrphans(st.orphans)
	return nil
}

// verify runs the external verification commands in order: local build,
// man-page cross-check, patch-applicability probe. The sync commits
// already exist when this runs; a failure blocks publication only.
func (w *Workflows) verify() error {
	for _, cmd := range w.Config.Commands.Verify {
		w.Report.Infof("Running verification: %s", cmd)
		if err := w.Runner.RunExternal(cmd); err != nil {
			w.Report.Warnf("Verification failed. The commits on this branch are intact; only pushing is blocked. Fix the failure, then rerun %q by hand.", cmd)
			return fmt.Errorf("%w: %s: %v", interrors.ErrVerifyFailed, cmd, err)
		}
	}
	return nil
}

// dependencyVersionOrNone reads the dependency version token from the
// working tree, mapping an absent manifest line to the "[none]" token so
// outcome comparison and reporting still work on a freshly reset branch.
func (w *Workflows) dependencyVersionOrNone() (string, error) {
	v, err := w.Classifier.DependencyVersion("")
	if errors.Is(err, interrors.ErrDependencyNotFound) {
		return "[none]", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

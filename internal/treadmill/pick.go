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
	"context"
	"fmt"
	"time"

	"github.com/sirseerhq/vendor-treadmill/internal/git"
)

// resolveTimeout bounds the single GitHub search query; everything else
// in the pick workflow is local.
const resolveTimeout = 30 * time.Second

// Pick fetches the treadmill pull request and cherry-picks its treadmill
// commit onto the current branch. With prNumber 0 the pull request is
// discovered via the upstream search API.
func (w *Workflows) Pick(ctx context.Context, prNumber int) error {
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

	// HEAD must itself be a vendor commit: pick lands the treadmill
	// commit directly on top of the vendor state.
	if err := w.Classifier.LooksLikeVendorCommit("HEAD"); err != nil {
		return err
	}

	if prNumber == 0 {
		prNumber, err = w.resolveTreadmillPR(ctx)
		if err != nil {
			return err
		}
	}

	remote := w.Config.Project.UpstreamRemote
	// Deliberately outside the checkpoint namespace: a leftover pick
	// branch is junk, not a recovery anchor.
	fetchBranch := fmt.Sprintf("__treadmill-pick-%d", prNumber)

	if err := w.Runner.Run("fetch", remote, fmt.Sprintf("refs/pull/%d/head", prNumber)); err != nil {
		return fmt.Errorf("failed to fetch pull request #%d from %s: %w", prNumber, remote, err)
	}
	if err := w.Runner.Run("branch", fetchBranch, "FETCH_HEAD"); err != nil {
		return fmt.Errorf("failed to create fetch branch for pull request #%d: %w", prNumber, err)
	}
	// The fetch branch is disposable on every exit path, abort included.
	defer func() {
		if err := w.Runner.Run("branch", "-D", fetchBranch); err != nil {
			w.Report.Warnf("failed to delete disposable branch %s: %v", fetchBranch, err)
		}
	}()

	if err := w.compareForkPoints(branch, fetchBranch, prNumber); err != nil {
		return err
	}

	body, err := w.Runner.Output("log", "-1", "--format=%h %s", fetchBranch)
	if err != nil {
		return fmt.Errorf("failed to read pull request #%d's head commit: %w", prNumber, err)
	}
	picked := ""
	if len(body) > 0 {
		picked = body[0]
	}

	if err := w.Runner.Run("cherry-pick", "--allow-empty", fetchBranch); err != nil {
		return fmt.Errorf("failed to cherry-pick pull request #%d: %w", prNumber, err)
	}

	message := fmt.Sprintf("%s\n\nPicked from %s#%d (%s).",
		w.Config.Markers.TreadmillTitle, w.Config.Project.Repo, prNumber, picked)
	if err := w.Runner.Run("commit", "--amend", "-m", message); err != nil {
		return fmt.Errorf("failed to rewrite the picked commit message: %w", err)
	}

	w.Report.Infof("Picked pull request #%d onto %s.", prNumber, branch)
	if err := w.verify(); err != nil {
		return err
	}
	w.remindOrphans(orphans)
	return nil
}

// resolveTreadmillPR discovers the single open treadmill pull request via
// the upstream search API.
func (w *Workflows) resolveTreadmillPR(ctx context.Context) (int, error) {
	if w.Resolver == nil {
		return 0, fmt.Errorf("no pull request number given and no API token available; pass the number explicitly or set $%s",
			w.Config.GitHub.TokenEnv)
	}

	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	pr, err := w.Resolver.FindTreadmillPR(ctx, w.Config.Project.Repo, w.Config.Markers.TreadmillTitle)
	if err != nil {
		return 0, err
	}
	w.Report.Infof("Found treadmill pull request #%d.", pr.Number)
	return pr.Number, nil
}

// compareForkPoints aborts when the pull request forks from a strictly
// newer trunk than the local branch: blindly proceeding could discard
// newer upstream content. --force-old-main overrides.
func (w *Workflows) compareForkPoints(branch, fetchBranch string, prNumber int) error {
	trunk := w.Config.Project.Trunk

	mine, err := git.FirstLine(w.Runner, "merge-base", trunk, branch)
	if err != nil {
		return fmt.Errorf("failed to find %s's fork point from %s: %w", branch, trunk, err)
	}
	theirs, err := git.FirstLine(w.Runner, "merge-base", trunk, fetchBranch)
	if err != nil {
		return fmt.Errorf("failed to find pull request #%d's fork point from %s: %w", prNumber, trunk, err)
	}

	if mine == theirs {
		return nil
	}

	// Strictly newer means our fork point is an ancestor of theirs.
	theirsNewer := git.Probe(w.Runner, "merge-base", "--is-ancestor", mine, theirs)
	if !theirsNewer {
		return nil
	}
	if w.Opts.ForceOldMain {
		w.Report.Warnf("pull request #%d forks from a newer %s than this branch; proceeding anyway (--force-old-main)", prNumber, trunk)
		return nil
	}

	w.Report.Warnf("pull request #%d forks from a newer %s than this branch; picking it here could discard newer upstream content. Rebase this branch first, or pass --force-old-main to proceed.", prNumber, trunk)
	return fmt.Errorf("pick aborted: pull request #%d is based on a newer %s", prNumber, trunk)
}

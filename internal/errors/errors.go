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

// Package errors defines sentinel errors for consistent error handling across
// the application. Every fatal condition the tool can hit maps to exactly one
// sentinel, so callers can branch with errors.Is and the CLI can decide what
// remediation text to print.
package errors

import "errors"

// Sentinel errors for consistent error handling across workflows.
var (
	// ErrDirtyRepository indicates the working tree has modified or staged
	// tracked files, or untracked files under the vendor subtree.
	// No workflow performs any mutation once this is detected.
	ErrDirtyRepository = errors.New("repository working tree is not clean")

	// ErrOrphanedCheckpoint indicates a checkpoint branch from an earlier,
	// interrupted run still exists. Blocks new runs unless --force-retry.
	ErrOrphanedCheckpoint = errors.New("orphaned checkpoint branch exists")

	// ErrInvalidBranchShape indicates the working branch does not have the
	// expected treadmill-commit-on-top-of-vendor-commit shape.
	ErrInvalidBranchShape = errors.New("working branch has unexpected shape")

	// ErrNotVendorCommit indicates a commit failed vendor-commit classification.
	ErrNotVendorCommit = errors.New("commit does not look like a vendor commit")

	// ErrDependencyNotFound indicates the manifest has no line naming the
	// vendored dependency's module path.
	ErrDependencyNotFound = errors.New("dependency not found in manifest")

	// ErrTrunkPullFailed indicates pulling the trunk branch from the upstream
	// remote failed (network problem, rebase conflict, ...).
	ErrTrunkPullFailed = errors.New("failed to pull trunk from upstream")

	// ErrVendorFailed indicates the external vendoring build step exited
	// nonzero. The checkpoint branch preserves full recoverability.
	ErrVendorFailed = errors.New("vendoring build step failed")

	// ErrVerifyFailed indicates a post-sync verification command exited
	// nonzero. The commits already exist; only publication is blocked.
	ErrVerifyFailed = errors.New("verification step failed")

	// ErrNoTreadmillPR indicates no open pull request with the treadmill
	// title was found upstream.
	ErrNoTreadmillPR = errors.New("no open treadmill pull request found")

	// ErrAmbiguousTreadmillPR indicates more than one open pull request
	// matched the treadmill title. The tool never silently picks one.
	ErrAmbiguousTreadmillPR = errors.New("multiple open treadmill pull requests found")

	// ErrInvalidToken indicates GitHub authentication failed.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrNetworkFailure indicates a network connection problem.
	ErrNetworkFailure = errors.New("network connection failed")
)

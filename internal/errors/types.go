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

package errors

import (
	"fmt"
	"strings"
)

// CommandError describes an external command that exited nonzero.
// It carries the full command line and exit code so the operator can rerun
// the exact invocation by hand.
type CommandError struct {
	Command  string   // program name, e.g. "git"
	Args     []string // arguments as invoked
	ExitCode int
	Stderr   string // captured stderr, may be empty
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s: exit status %d", e.Command, strings.Join(e.Args, " "), e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}
	return msg
}

// NotVendorCommitError reports every expectation a commit failed to meet
// during vendor-commit classification. Misses are collected, not
// short-circuited, so the operator sees all violations at once.
type NotVendorCommitError struct {
	Ref     string
	Missing []string
}

func (e *NotVendorCommitError) Error() string {
	return fmt.Sprintf("%s does not look like a vendor commit: missing %s",
		e.Ref, strings.Join(e.Missing, "; "))
}

func (e *NotVendorCommitError) Unwrap() error { return ErrNotVendorCommit }

// OrphanedCheckpointError carries the list of leftover checkpoint branches
// found before a new run was allowed to start.
type OrphanedCheckpointError struct {
	Branches []string
}

func (e *OrphanedCheckpointError) Error() string {
	return fmt.Sprintf("found leftover checkpoint branch(es) from an interrupted run: %s",
		strings.Join(e.Branches, ", "))
}

func (e *OrphanedCheckpointError) Unwrap() error { return ErrOrphanedCheckpoint }

// AmbiguousTreadmillPRError reports every open pull request that matched the
// treadmill title when exactly one was required.
type AmbiguousTreadmillPRError struct {
	Title   string
	Numbers []int
}

func (e *AmbiguousTreadmillPRError) Error() string {
	nums := make([]string, len(e.Numbers))
	for i, n := range e.Numbers {
		nums[i] = fmt.Sprintf("#%d", n)
	}
	return fmt.Sprintf("found %d open pull requests titled %q: %s",
		len(e.Numbers), e.Title, strings.Join(nums, ", "))
}

func (e *AmbiguousTreadmillPRError) Unwrap() error { return ErrAmbiguousTreadmillPR }

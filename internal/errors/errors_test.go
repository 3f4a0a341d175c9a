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
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{
			name:     "direct dirty repository error",
			err:      ErrDirtyRepository,
			sentinel: ErrDirtyRepository,
			want:     true,
		},
		{
			name:     "wrapped vendor failure",
			err:      fmt.Errorf("make vendor: %w", ErrVendorFailed),
			sentinel: ErrVendorFailed,
			want:     true,
		},
		{
			name:     "different error type",
			err:      ErrTrunkPullFailed,
			sentinel: ErrVendorFailed,
			want:     false,
		},
		{
			name:     "wrapped network error",
			err:      fmt.Errorf("connection failed: %w", ErrNetworkFailure),
			sentinel: ErrNetworkFailure,
			want:     true,
		},
		{
			name:     "nil error",
			err:      nil,
			sentinel: ErrDirtyRepository,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.sentinel)
			if got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.sentinel, got, tt.want)
			}
		})
	}
}

func TestCommandError(t *testing.T) {
	err := &CommandError{
		Command:  "git",
		Args:     []string{"rebase", "main"},
		ExitCode: 128,
		Stderr:   "fatal: invalid upstream 'main'\n",
	}

	want := "git rebase main: exit status 128: fatal: invalid upstream 'main'"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var cmdErr *CommandError
	wrapped := fmt.Errorf("rebase step: %w", err)
	if !errors.As(wrapped, &cmdErr) {
		t.Error("errors.As should find CommandError in chain")
	}
	if cmdErr.ExitCode != 128 {
		t.Errorf("ExitCode = %d, want 128", cmdErr.ExitCode)
	}
}

func TestNotVendorCommitError(t *testing.T) {
	err := &NotVendorCommitError{
		Ref:     "HEAD^",
		Missing: []string{"go.mod changes", "go.sum changes"},
	}

	if !errors.Is(err, ErrNotVendorCommit) {
		t.Error("NotVendorCommitError should unwrap to ErrNotVendorCommit")
	}

	want := "HEAD^ does not look like a vendor commit: missing go.mod changes; go.sum changes"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestOrphanedCheckpointError(t *testing.T) {
	err := &OrphanedCheckpointError{
		Branches: []string{"__treadmill-checkpoint/20260115-093000"},
	}

	if !errors.Is(err, ErrOrphanedCheckpoint) {
		t.Error("OrphanedCheckpointError should unwrap to ErrOrphanedCheckpoint")
	}

	var ocErr *OrphanedCheckpointError
	wrapped := fmt.Errorf("precondition: %w", err)
	if !errors.As(wrapped, &ocErr) {
		t.Fatal("errors.As should find OrphanedCheckpointError in chain")
	}
	if len(ocErr.Branches) != 1 {
		t.Errorf("Branches = %v, want one entry", ocErr.Branches)
	}
}

func TestAmbiguousTreadmillPRError(t *testing.T) {
	err := &AmbiguousTreadmillPRError{
		Title:   "DO NOT MERGE: buildah vendor treadmill",
		Numbers: []int{101, 202},
	}

	if !errors.Is(err, ErrAmbiguousTreadmillPR) {
		t.Error("AmbiguousTreadmillPRError should unwrap to ErrAmbiguousTreadmillPR")
	}

	want := `found 2 open pull requests titled "DO NOT MERGE: buildah vendor treadmill": #101, #202`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

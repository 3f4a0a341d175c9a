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

// Package checkpoint creates and destroys the safety branches that bracket
// the two riskiest operations of a sync: the rebase+vendor phase and the
// cherry-pick. A checkpoint is deleted only after its guarded region (and
// everything downstream the caller chains to it) succeeds; under failure
// it is deliberately retained as the recovery anchor, and the exact manual
// recovery recipe is printed exactly once.
//
// The branch naming scheme <prefix>/YYYYMMDD-HHMMSS is a durable contract:
// operators locate interrupted-run snapshots by it, and the state guard
// refuses to start a new run while one exists.
package checkpoint

import (
	"fmt"
	"time"

	"github.com/sirseerhq/vendor-treadmill/internal/git"
	"github.com/sirseerhq/vendor-treadmill/internal/report"
)

// Manager creates checkpoints for a given repository.
type Manager struct {
	Runner git.Runner
	Report *report.Reporter

	// Prefix is the checkpoint branch namespace, e.g. "__treadmill-checkpoint".
	Prefix string

	// Trunk is named in the recovery recipe: the operator switches there
	// before force-moving the working branch back.
	Trunk string

	// Now is replaceable for tests. Defaults to time.Now.
	Now func() time.Time

	last string
	seq  int
}

// Checkpoint is a live safety branch snapshotting a working branch.
type Checkpoint struct {
	// Branch is the checkpoint branch name.
	Branch string

	// Target is the working branch the checkpoint snapshots.
	Target string

	mgr      *Manager
	released bool
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Begin creates a checkpoint branch pointing at the working branch's
// current commit.
func (m *Manager) Begin(target string) (*Checkpoint, error) {
	name := fmt.Sprintf("%s/%s", m.Prefix, m.now().Format("20060102-150405"))
	// Two guards can begin within the same second; keep the names unique.
	if name == m.last {
		m.seq++
		name = fmt.Sprintf("%s.%d", name, m.seq)
	} else {
		m.last = name
		m.seq = 0
	}
	if err := m.Runner.Run("branch", name, target); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint branch %s: %w", name, err)
	}
	m.Report.Verbosef("created checkpoint %s", name)
	return &Checkpoint{Branch: name, Target: target, mgr: m}, nil
}

// Guard creates a checkpoint for target and runs fn inside the guarded
// region. Any failure, no matter how deep inside nested git operations it
// originated, triggers emission of the recovery recipe; the checkpoint is
// retained and the error returned unchanged for the caller to abort the
// whole run. On success the live checkpoint is returned so the caller can
// Release it once everything downstream has also succeeded.
func (m *Manager) Guard(target string, fn func() error) (*Checkpoint, error) {
	cp, err := m.Begin(target)
	if err != nil {
		return nil, err
	}
	if err := fn(); err != nil {
		cp.emitRecovery()
		return cp, err
	}
	return cp, nil
}

// Release deletes the checkpoint branch. Call only after the entire
// guarded operation succeeded end-to-end. Releasing twice is a no-op.
func (cp *Checkpoint) Release() error {
	if cp.released {
		return nil
	}
	if err := cp.mgr.Runner.Run("branch", "-D", cp.Branch); err != nil {
		return fmt.Errorf("failed to delete checkpoint branch %s: %w", cp.Branch, err)
	}
	cp.released = true
	return nil
}

// emitRecovery prints the fixed two-command recipe restoring the
// pre-checkpoint state.
func (cp *Checkpoint) emitRecovery() {
	cp.mgr.Report.Recovery(
		fmt.Sprintf("A failure occurred. Branch %q is preserved at checkpoint %q.\nTo restore the pre-run state, run:", cp.Target, cp.Branch),
		[]string{
			fmt.Sprintf("git checkout %s", cp.mgr.Trunk),
			fmt.Sprintf("git branch -f %s %s", cp.Target, cp.Branch),
		},
	)
}

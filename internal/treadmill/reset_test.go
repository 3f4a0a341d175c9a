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
	"testing"

	interrors "github.com/sirseerhq/vendor-treadmill/internal/errors"
)

func (f *fixture) scriptResettableBranch() {
	f.runner.Responses["status --porcelain"] = nil
	f.runner.Responses["branch --list __treadmill-checkpoint/* --format=%(refname:short)"] = nil
	f.runner.Responses["rev-parse --abbrev-ref HEAD"] = []string{"b"}
	f.runner.Responses["diff --name-only main HEAD"] = nil
}

func TestResetCreatesPlaceholderAndMarker(t *testing.T) {
	f := newFixture(t, Options{})
	f.scriptResettableBranch()

	if err := f.w.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	wantCalls := []string{
		"checkout main",
		"pull --rebase upstream main",
		"checkout b",
		"rebase main",
		"commit --allow-empty -s -m DO NOT MERGE: vendor in buildah @ [none]",
		"commit --allow-empty -s -m DO NOT MERGE: buildah vendor treadmill\n\nAs of 2026-01-15. Contains no local patches yet.",
	}
	for _, call := range wantCalls {
		if !f.runner.CalledWith(call) {
			t.Errorf("missing invocation %q\ncalls: %v", call, f.runner.Calls)
		}
	}
}

// A second reset sees a branch whose tree still equals trunk's (the marker
// commits are empty), so it must succeed again rather than reporting
// pending changes.
func TestResetIsIdempotent(t *testing.T) {
	f := newFixture(t, Options{})
	f.scriptResettableBranch()

	if err := f.w.Reset(); err != nil {
		t.Fatalf("first Reset failed: %v", err)
	}
	f.runner.Calls = nil

	if err := f.w.Reset(); err != nil {
		t.Fatalf("second Reset failed: %v", err)
	}
	if !f.runner.CalledWith("commit --allow-empty -s -m DO NOT MERGE: vendor in buildah @ [none]") {
		t.Error("second reset should recreate the placeholder vendor commit")
	}
}

func TestResetRefusesPendingLocalChanges(t *testing.T) {
	f := newFixture(t, Options{})
	f.scriptResettableBranch()
	f.runner.Responses["diff --name-only main HEAD"] = []string{
		"libpod/runtime.go",
		"libpod/container.go",
	}

	err := f.w.Reset()
	if !errors.Is(err, interrors.ErrInvalidBranchShape) {
		t.Fatalf("Reset = %v, want ErrInvalidBranchShape", err)
	}
	if f.runner.CalledWith("checkout main") {
		t.Error("no mutation may happen when the branch carries local changes")
	}
}

func TestResetDirtyTreeBlocks(t *testing.T) {
	f := newFixture(t, Options{})
	f.runner.Responses["status --porcelain"] = []string{"M  go.mod"}

	err := f.w.Reset()
	if !errors.Is(err, interrors.ErrDirtyRepository) {
		t.Fatalf("Reset = %v, want ErrDirtyRepository", err)
	}
}

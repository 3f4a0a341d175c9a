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

// syncState is the state-transition record threaded through the sync
// workflow. Each step consumes a value and returns an updated one; no
// step communicates through ambient state.
type syncState struct {
	// branch is the working branch the sync rewrites.
	branch string

	// treadmillSHA is the original treadmill commit, recorded before the
	// branch is reset and reapplied by cherry-pick at the end.
	treadmillSHA string

	// oldVersion and newVersion are the dependency version tokens before
	// pulling trunk and after re-vendoring. Compared for equality only.
	oldVersion string
	newVersion string

	// rebased records whether a rebase actually occurred (the fork point
	// differed from trunk's tip).
	rebased bool

	// orphans are leftover checkpoint branches tolerated via
	// --force-retry, remembered so the final report can nag about them.
	orphans []string
}

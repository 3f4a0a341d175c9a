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

// Package main implements the vendor-treadmill command-line interface.
// The tool keeps a vendored dependency continuously up to date on a
// long-lived working branch while preserving in-flight local patches
// across repeated history rewrites.
//
// Exactly one mode is selected per invocation:
//   - --sync: rebase onto a fresh trunk, re-vendor, reapply the patches
//   - --pick [PR]: cherry-pick the treadmill pull request's commit here
//   - --reset: re-establish the canonical two-commit branch shape
//
// Usage:
//
//	treadmill --sync [flags]
//	treadmill --pick [PR-number] [flags]
//	treadmill --reset [flags]
//
// Example:
//
//	git checkout buildah-vendor-treadmill
//	treadmill --sync --verbose
//
// Exit codes:
//   - 0: Success
//   - 1: Any failure; the specifics are on stderr
package main

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

// Package github resolves the treadmill pull request: the single,
// perpetually-open upstream request tracking the rolling dependency bump.
// It issues one structured search query against GitHub's GraphQL API and
// requires exactly one open, exact-title match — zero matches, multiple
// matches, and transport/auth failures are all distinct fatal errors.
package github

import "context"

// PullRequest is the transient record of a remote pull request. It is
// fetched for comparison and reporting, never persisted.
type PullRequest struct {
	Number int
	Title  string
	State  string
}

// Client defines the interface for resolving the treadmill pull request.
// This interface allows for easy mocking in tests.
type Client interface {
	// FindTreadmillPR searches repo ("owner/name") for the single open
	// pull request whose title exactly matches title.
	FindTreadmillPR(ctx context.Context, repo, title string) (*PullRequest, error)
}

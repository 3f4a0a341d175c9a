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

package github

import (
	"context"
	"fmt"

	interrors "github.com/sirseerhq/vendor-treadmill/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	// PR to return on success.
	PR *PullRequest

	// Error to return.
	Error error

	// Behavior flags.
	ShouldFailAuth bool
	ShouldFailNone bool

	// Track calls for verification.
	CallCount int
	LastRepo  string
	LastTitle string
}

// FindTreadmillPR implements the Client interface.
func (m *MockClient) FindTreadmillPR(ctx context.Context, repo, title string) (*PullRequest, error) {
	m.CallCount++
	m.LastRepo = repo
	m.LastTitle = title

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", interrors.ErrInvalidToken)
	}
	if m.ShouldFailNone {
		return nil, fmt.Errorf("no open pull request titled %q in %s: %w",
			title, repo, interrors.ErrNoTreadmillPR)
	}
	if m.Error != nil {
		return nil, m.Error
	}
	if m.PR != nil {
		return m.PR, nil
	}
	return &PullRequest{Number: 12345, Title: title, State: "OPEN"}, nil
}

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
	"net/http"

	"github.com/shurcooL/graphql"

	interrors "github.com/sirseerhq/vendor-treadmill/internal/errors"
)

// searchPageSize caps the search result page. The treadmill PR query is
// expected to match exactly one result; anything beyond a handful already
// means the run must abort.
const searchPageSize = 20

// GraphQLClient implements the Client interface using GitHub's GraphQL
// search API.
type GraphQLClient struct {
	client    *graphql.Client
	inspector Inspector
}

// NewGraphQLClient creates a GitHub GraphQL client authenticating with the
// provided token against the given endpoint (custom endpoints support
// GitHub Enterprise deployments).
func NewGraphQLClient(token, endpoint string) *GraphQLClient {
	httpClient := &http.Client{
		Transport: &authTransport{
			token: token,
			base:  http.DefaultTransport,
		},
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		inspector: NewInspector(),
	}
}

// FindTreadmillPR issues a single search query for open pull requests in
// repo whose title contains the treadmill phrase, then filters to exact
// title match and open state. Exactly one survivor is required; the tool
// never silently picks the first of several.
func (c *GraphQLClient) FindTreadmillPR(ctx context.Context, repo, title string) (*PullRequest, error) {
	var query struct {
		Search struct {
			IssueCount graphql.Int
			Nodes      []struct {
				PullRequest struct {
					Number graphql.Int
					Title  graphql.String
					State  graphql.String
				} `graphql:"... on PullRequest"`
			}
		} `graphql:"search(query: $query, type: ISSUE, first: $first)"`
	}

	variables := map[string]interface{}{
		"query": graphql.String(fmt.Sprintf("repo:%s is:pr is:open in:title %q", repo, title)),
		"first": graphql.Int(searchPageSize),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err)
	}

	var matches []*PullRequest
	for _, node := range query.Search.Nodes {
		pr := &PullRequest{
			Number: int(node.PullRequest.Number),
			Title:  string(node.PullRequest.Title),
			State:  string(node.PullRequest.State),
		}
		if pr.Title == title && pr.State == "OPEN" {
			matches = append(matches, pr)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no open pull request titled %q in %s: %w",
			title, repo, interrors.ErrNoTreadmillPR)
	case 1:
		return matches[0], nil
	default:
		numbers := make([]int, len(matches))
		for i, pr := range matches {
			numbers[i] = pr.Number
		}
		return nil, &interrors.AmbiguousTreadmillPRError{Title: title, Numbers: numbers}
	}
}

// mapError converts raw GraphQL/transport errors into the application's
// sentinel errors so callers can print distinct, specific messages.
func (c *GraphQLClient) mapError(err error) error {
	switch {
	case c.inspector.IsAuthError(err):
		return fmt.Errorf("github authentication failed (check the API token): %w",
			interrors.ErrInvalidToken)
	case c.inspector.IsNetworkError(err):
		return fmt.Errorf("github search query failed: %w", interrors.ErrNetworkFailure)
	default:
		return fmt.Errorf("github search query failed: %w", err)
	}
}

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

import "strings"

// Inspector classifies raw GitHub API errors by category. The GraphQL
// library surfaces most failures as opaque strings, so classification is
// pattern-based.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication
	// or authorization error.
	IsAuthError(err error) bool

	// IsNetworkError returns true if the error represents a network
	// connectivity error.
	IsNetworkError(err error) bool
}

// apiErrorInspector implements Inspector for GitHub API errors.
type apiErrorInspector struct{}

// NewInspector creates the default pattern-based Inspector.
func NewInspector() Inspector {
	return &apiErrorInspector{}
}

// IsAuthError checks if the error is an authentication or authorization error.
func (i *apiErrorInspector) IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "forbidden") ||
		strings.Contains(errStr, "bad credentials") ||
		strings.Contains(errStr, "authentication")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *apiErrorInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "network is unreachable")
}

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

package git

import "strings"

// MockRunner is a scripted implementation of the Runner interface for
// testing. Invocations are keyed by their space-joined argument list
// ("status --porcelain", "make vendor", ...).
type MockRunner struct {
	// Responses maps an invocation key to the output lines it produces.
	Responses map[string][]string

	// Errors maps an invocation key to the error it fails with.
	Errors map[string]error

	// OnRun, when set, fires for every mutating invocation (Run and
	// RunExternal) that has no scripted error. It lets a test mutate
	// fixture state mid-workflow, e.g. rewriting the manifest when the
	// vendoring step "runs".
	OnRun func(invocation string) error

	// Calls records every invocation in order, for verification.
	Calls []string
}

func (m *MockRunner) record(key string) {
	m.Calls = append(m.Calls, key)
}

// Output implements Runner.
func (m *MockRunner) Output(args ...string) ([]string, error) {
	key := strings.Join(args, " ")
	m.record(key)
	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	return m.Responses[key], nil
}

// Run implements Runner.
func (m *MockRunner) Run(args ...string) error {
	return m.mutate(strings.Join(args, " "))
}

// RunExternal implements Runner.
func (m *MockRunner) RunExternal(command string) error {
	return m.mutate(command)
}

func (m *MockRunner) mutate(key string) error {
	m.record(key)
	if err, ok := m.Errors[key]; ok {
		return err
	}
	if m.OnRun != nil {
		return m.OnRun(key)
	}
	return nil
}

// CalledWith reports whether any recorded invocation equals key.
func (m *MockRunner) CalledWith(key string) bool {
	for _, c := range m.Calls {
		if c == key {
			return true
		}
	}
	return false
}

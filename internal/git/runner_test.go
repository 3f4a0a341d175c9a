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

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	interrors "github.com/sirseerhq/vendor-treadmill/internal/errors"
)

func TestCLIRunnerOutput(t *testing.T) {
	var transcript bytes.Buffer
	// "echo" stands in for git so the executor itself can be exercised
	// without a repository.
	r := &CLIRunner{Git: "echo", Transcript: &transcript}

	lines, err := r.Output("hello", "world")
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if len(lines) != 1 || lines[0] != "hello world" {
		t.Errorf("Output = %v, want [hello world]", lines)
	}
	if !strings.Contains(transcript.String(), "$ echo hello world") {
		t.Errorf("transcript missing echoed command: %q", transcript.String())
	}
}

func TestCLIRunnerDryRunSkipsMutations(t *testing.T) {
	var transcript bytes.Buffer
	// "false" would fail if it actually ran.
	r := &CLIRunner{Git: "false", DryRun: true, Transcript: &transcript}

	if err := r.Run("rebase", "main"); err != nil {
		t.Fatalf("dry-run Run should not execute: %v", err)
	}
	if err := r.RunExternal("false"); err != nil {
		t.Fatalf("dry-run RunExternal should not execute: %v", err)
	}
	if !strings.Contains(transcript.String(), "[dry-run] $ false rebase main") {
		t.Errorf("transcript missing dry-run marker: %q", transcript.String())
	}
}

func TestCLIRunnerExternalFailure(t *testing.T) {
	var transcript bytes.Buffer
	r := &CLIRunner{Transcript: &transcript}

	err := r.RunExternal("false")
	if err == nil {
		t.Fatal("RunExternal(false) should fail")
	}

	var cmdErr *interrors.CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("error should be a CommandError, got %T: %v", err, err)
	}
	if cmdErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", cmdErr.ExitCode)
	}
}

func TestCLIRunnerMissingBinary(t *testing.T) {
	var transcript bytes.Buffer
	r := &CLIRunner{Git: "definitely-not-a-real-binary-xyz", Transcript: &transcript}

	_, err := r.Output("status")
	if err == nil {
		t.Fatal("Output should fail for a missing binary")
	}
	var cmdErr *interrors.CommandError
	if errors.As(err, &cmdErr) {
		t.Error("a command that never ran should not produce a CommandError")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single trailing newline", "abc\n", []string{"abc"}},
		{"multiple lines", "a\nb\nc\n", []string{"a", "b", "c"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitLines(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	m := &MockRunner{Responses: map[string][]string{
		"rev-parse HEAD": {"abc123"},
		"log --oneline":  {"abc123 first", "def456 second"},
	}}

	got, err := FirstLine(m, "rev-parse", "HEAD")
	if err != nil {
		t.Fatalf("FirstLine failed: %v", err)
	}
	if got != "abc123" {
		t.Errorf("FirstLine = %q, want abc123", got)
	}

	got, err = FirstLine(m, "log", "--oneline")
	if err != nil {
		t.Fatalf("FirstLine failed: %v", err)
	}
	if got != "abc123 first" {
		t.Errorf("FirstLine = %q, want first line only", got)
	}

	got, err = FirstLine(m, "status", "--porcelain")
	if err != nil {
		t.Fatalf("FirstLine on empty output failed: %v", err)
	}
	if got != "" {
		t.Errorf("FirstLine on empty output = %q, want empty", got)
	}
}

func TestProbe(t *testing.T) {
	m := &MockRunner{
		Responses: map[string][]string{"merge-base --is-ancestor a b": nil},
		Errors: map[string]error{
			"merge-base --is-ancestor b a": &interrors.CommandError{Command: "git", ExitCode: 1},
		},
	}

	if !Probe(m, "merge-base", "--is-ancestor", "a", "b") {
		t.Error("Probe should succeed for a scripted success")
	}
	if Probe(m, "merge-base", "--is-ancestor", "b", "a") {
		t.Error("Probe should fail for a scripted failure")
	}
}

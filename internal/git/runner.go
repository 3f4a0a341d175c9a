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
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	interrors "github.com/sirseerhq/vendor-treadmill/internal/errors"
)

// Runner executes version-control and build commands on behalf of the
// workflows. It exists as an interface so tests can script command
// responses without a real repository.
//
// Output runs a read-only git command and always executes, even under
// --dry-run. Run performs a mutating git command and is skipped under
// --dry-run. RunExternal invokes a non-git build step (vendoring,
// verification) with the same dry-run behavior as Run.
//
// No method retries. A nonzero exit surfaces as *errors.CommandError and
// callers treat it as fatal unless explicitly wrapped in a tolerant probe.
type Runner interface {
	Output(args ...string) ([]string, error)
	Run(args ...string) error
	RunExternal(command string) error
}

// CLIRunner implements Runner over the external git binary. Every
// invocation is echoed to the transcript for audit before running,
// distinct from its captured result.
type CLIRunner struct {
	// Git is the version-control binary. Defaults to "git" when empty.
	Git string

	// DryRun skips mutating commands after echoing them.
	DryRun bool

	// Transcript receives the echoed command lines. Defaults to stderr.
	Transcript io.Writer
}

func (r *CLIRunner) git() string {
	if r.Git == "" {
		return "git"
	}
	return r.Git
}

func (r *CLIRunner) transcript() io.Writer {
	if r.Transcript == nil {
		return os.Stderr
	}
	return r.Transcript
}

func (r *CLIRunner) echo(skipped bool, name string, args []string) {
	prefix := "$"
	if skipped {
		prefix = "[dry-run] $"
	}
	fmt.Fprintf(r.transcript(), "%s %s %s\n", prefix, name, strings.Join(args, " "))
}

// Output runs a read-only git command and returns stdout as ordered lines
// with the trailing newline stripped. Empty output returns nil.
func (r *CLIRunner) Output(args ...string) ([]string, error) {
	r.echo(false, r.git(), args)

	cmd := exec.Command(r.git(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, commandError(r.git(), args, &stderr, err)
	}

	return splitLines(stdout.String()), nil
}

// Run executes a mutating git command. Under --dry-run the command is
// echoed with a marker and skipped.
func (r *CLIRunner) Run(args ...string) error {
	r.echo(r.DryRun, r.git(), args)
	if r.DryRun {
		return nil
	}

	cmd := exec.Command(r.git(), args...)
	var stderr bytes.Buffer
	cmd.Stdout = r.transcript()
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return commandError(r.git(), args, &stderr, err)
	}
	return nil
}

// RunExternal invokes a build step given as a whitespace-separated command
// line. The step inherits stdout/stderr so the operator sees its progress
// directly; only the exit status is interpreted.
func (r *CLIRunner) RunExternal(command string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return fmt.Errorf("empty external command")
	}
	name, args := fields[0], fields[1:]

	r.echo(r.DryRun, name, args)
	if r.DryRun {
		return nil
	}

	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return commandError(name, args, nil, err)
	}
	return nil
}

// FirstLine runs a read-only command via r and returns its first output
// line, or an empty string when the command printed nothing.
func FirstLine(r Runner, args ...string) (string, error) {
	lines, err := r.Output(args...)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", nil
	}
	return lines[0], nil
}

// Probe runs a read-only command and reports only whether it succeeded.
// Used for optional-capability checks where a nonzero exit is an answer,
// not a failure.
func Probe(r Runner, args ...string) bool {
	_, err := r.Output(args...)
	return err == nil
}

func commandError(name string, args []string, stderr *bytes.Buffer, err error) error {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	cmdErr := &interrors.CommandError{
		Command:  name,
		Args:     args,
		ExitCode: exitCode,
	}
	if stderr != nil {
		cmdErr.Stderr = stderr.String()
	}
	if exitCode == -1 {
		// The command never ran (binary missing, permission denied, ...).
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return cmdErr
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

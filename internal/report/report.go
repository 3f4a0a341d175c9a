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

// Package report renders operator-facing output: informational progress,
// highlighted warnings and fatal errors, and the manual recovery recipe
// emitted when a checkpointed region fails.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	fatalStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	recipeStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 1)
)

// Reporter writes operator-facing output. Informational lines go to Out,
// warnings and fatal errors to Err.
type Reporter struct {
	Out io.Writer
	Err io.Writer

	// Verbose enables extra progress detail.
	Verbose bool

	// Debug enables internal state traces.
	Debug bool
}

// New returns a Reporter bound to stdout/stderr.
func New() *Reporter {
	return &Reporter{Out: os.Stdout, Err: os.Stderr}
}

// Infof prints an informational line.
func (r *Reporter) Infof(format string, args ...any) {
	fmt.Fprintf(r.Out, format+"\n", args...)
}

// Successf prints a highlighted outcome line.
func (r *Reporter) Successf(format string, args ...any) {
	fmt.Fprintln(r.Out, successStyle.Render(fmt.Sprintf(format, args...)))
}

// Verbosef prints only when --verbose is set.
func (r *Reporter) Verbosef(format string, args ...any) {
	if r.Verbose {
		fmt.Fprintf(r.Out, format+"\n", args...)
	}
}

// Debugf prints only when --debug is set.
func (r *Reporter) Debugf(format string, args ...any) {
	if r.Debug {
		fmt.Fprintf(r.Err, "DEBUG: "+format+"\n", args...)
	}
}

// Warnf prints a highlighted warning to the error stream.
func (r *Reporter) Warnf(format string, args ...any) {
	fmt.Fprintln(r.Err, warnStyle.Render("WARNING: "+fmt.Sprintf(format, args...)))
}

// Fatal prints a highlighted fatal error with a pointer to the
// operator-facing documentation page.
func (r *Reporter) Fatal(err error, docsURL string) {
	fmt.Fprintln(r.Err, fatalStyle.Render("FATAL: "+err.Error()))
	if docsURL != "" {
		fmt.Fprintf(r.Err, "See %s for troubleshooting.\n", docsURL)
	}
}

// Recovery prints the boxed manual recovery recipe. The commands are
// literal: the operator pastes them verbatim to restore the pre-checkpoint
// state.
func (r *Reporter) Recovery(heading string, commands []string) {
	body := heading + "\n"
	for _, cmd := range commands {
		body += "\n    " + cmd
	}
	fmt.Fprintln(r.Err, recipeStyle.Render(body))
}

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

package main

import (
	"fmt"
	"os"

	"github.com/sirseerhq/vendor-treadmill/pkg/version"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := newRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Flag and argument errors never reach the reporter; everything
		// else was already printed with the documentation pointer.
		if _, silent := err.(*reportedError); !silent {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// reportedError marks an error already rendered by the reporter, so main
// doesn't print it a second time.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func newRootCommand() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "treadmill [--sync | --pick [PR] | --reset]",
		Short: "Keep a vendored dependency up to date while preserving local patches",
		Long: `vendor-treadmill automates the rolling maintenance of a long-lived
working branch that vendors an unreleased dependency into a host project.

The branch always carries exactly two marker commits on top of trunk: a
vendor commit holding the re-vendored dependency state, topped by a
treadmill commit holding the in-flight local patches. Each mode rewrites
that shape:

  --sync   rebase onto a freshly pulled trunk, re-vendor the dependency,
           and reapply the treadmill commit by cherry-pick
  --pick   fetch the upstream treadmill pull request and cherry-pick its
           treadmill commit onto the current branch
  --reset  re-establish the canonical branch shape with a placeholder
           vendor commit and a fresh, empty treadmill commit

Interrupted runs leave a checkpoint branch behind; the tool refuses to
start while one exists, and prints the exact recovery commands on every
failure inside a checkpointed region.`,
		Version:       version.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.sync, "sync", false, "Rebase, re-vendor and reapply the treadmill commit")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "Cherry-pick the treadmill pull request onto this branch")
	cmd.Flags().BoolVar(&opts.reset, "reset", false, "Re-establish the canonical branch shape")
	cmd.MarkFlagsOneRequired("sync", "pick", "reset")
	cmd.MarkFlagsMutuallyExclusive("sync", "pick", "reset")

	cmd.Flags().BoolVar(&opts.forceOldMain, "force-old-main", false, "Pick even when the pull request forks from a newer trunk")
	cmd.Flags().BoolVar(&opts.forceRetry, "force-retry", false, "Proceed despite leftover checkpoint branches")
	cmd.Flags().BoolVar(&opts.forceTesting, "force-testing", false, "Run verification even when a sync changed nothing")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Print mutating commands instead of running them")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print extra progress detail")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Print internal state traces")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file path (default: .treadmill.yaml, then ~/.config/treadmill/)")

	return cmd
}

type cliOptions struct {
	sync  bool
	pick  bool
	reset bool

	forceOldMain bool
	forceRetry   bool
	forceTesting bool
	dryRun       bool
	verbose      bool
	debug        bool
	configPath   string
}

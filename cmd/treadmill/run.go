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
	"strconv"

	"github.com/sirseerhq/vendor-treadmill/internal/config"
	"github.com/sirseerhq/vendor-treadmill/internal/git"
	"github.com/sirseerhq/vendor-treadmill/internal/github"
	"github.com/sirseerhq/vendor-treadmill/internal/report"
	"github.com/sirseerhq/vendor-treadmill/internal/treadmill"
	"github.com/spf13/cobra"
)

// run wires the collaborators from configuration and dispatches to the
// selected workflow.
func run(cmd *cobra.Command, args []string, opts cliOptions) error {
	prNumber, err := parsePRArg(args, opts)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	rep := report.New()
	rep.Verbose = opts.verbose
	rep.Debug = opts.debug

	runner := &git.CLIRunner{DryRun: opts.dryRun}
	if opts.dryRun {
		rep.Infof("Dry run: mutating commands are printed, not executed.")
	}

	// The resolver is needed only when pick must discover the pull
	// request number itself; missing credentials surface there, not here.
	var resolver github.Client
	if opts.pick && prNumber == 0 {
		if token := cfg.Token(); token != "" {
			resolver = github.NewGraphQLClient(token, cfg.GitHub.GraphQLEndpoint)
		}
	}

	w := treadmill.New(cfg, runner, rep, resolver, treadmill.Options{
		ForceOldMain: opts.forceOldMain,
		ForceRetry:   opts.forceRetry,
		ForceTesting: opts.forceTesting,
	})

	switch {
	case opts.sync:
		err = w.Sync()
	case opts.pick:
		err = w.Pick(cmd.Context(), prNumber)
	default:
		err = w.Reset()
	}

	if err != nil {
		rep.Fatal(err, cfg.Project.DocsURL)
		return &reportedError{err: err}
	}
	return nil
}

// parsePRArg accepts the optional positional pull request number, valid
// only with --pick.
func parsePRArg(args []string, opts cliOptions) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	if !opts.pick {
		return 0, fmt.Errorf("unexpected argument %q: a pull request number is only valid with --pick", args[0])
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid pull request number %q: expected a positive integer", args[0])
	}
	return n, nil
}

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

// Package treadmill implements the sync, pick and reset workflows that
// keep a vendored dependency continuously up to date while preserving a
// set of in-flight local patches across repeated history rewrites.
//
// Every workflow is a single linear pipeline of blocking external calls.
// Nothing is retried, no two mutating operations run concurrently, and
// the only recovery mechanism is post-hoc: the checkpoint branch plus the
// printed manual recipe.
package treadmill

import (
	"time"

	"github.com/sirseerhq/vendor-treadmill/internal/checkpoint"
	"github.com/sirseerhq/vendor-treadmill/internal/classify"
	"github.com/sirseerhq/vendor-treadmill/internal/config"
	"github.com/sirseerhq/vendor-treadmill/internal/git"
	"github.com/sirseerhq/vendor-treadmill/internal/github"
	"github.com/sirseerhq/vendor-treadmill/internal/report"
)

// Options are the --force-* modifiers. Each one exists for exactly one
// otherwise-fatal condition; nothing else is ever downgraded to a warning.
type Options struct {
	// ForceOldMain lets pick proceed when the pull request forks from a
	// newer trunk than the local branch.
	ForceOldMain bool

	// ForceRetry degrades the orphaned-checkpoint precondition to a
	// warning.
	ForceRetry bool

	// ForceTesting runs verification even when a sync changed nothing.
	ForceTesting bool
}

// Workflows bundles the collaborators the three workflows compose.
type Workflows struct {
	Config      *config.Config
	Runner      git.Runner
	Guard       *git.Guard
	Classifier  *classify.Classifier
	Checkpoints *checkpoint.Manager
	Report      *report.Reporter

	// Resolver discovers the treadmill pull request when pick is invoked
	// without an explicit number. May be nil when a number is given.
	Resolver github.Client

	Opts Options

	// Today is replaceable for tests. Defaults to time.Now.
	Today func() time.Time
}

// New wires the workflow collaborators from configuration.
func New(cfg *config.Config, runner git.Runner, rep *report.Reporter, resolver github.Client, opts Options) *Workflows {
	return &Workflows{
		Config: cfg,
		Runner: runner,
		Report: rep,
		Guard: &git.Guard{
			Runner:           runner,
			VendorRoot:       cfg.Dependency.VendorRoot(),
			CheckpointPrefix: cfg.Markers.CheckpointPrefix,
		},
		Classifier: &classify.Classifier{
			Runner:        runner,
			Dep:           cfg.Dependency,
			ToolingConfig: cfg.Markers.ToolingConfig,
		},
		Checkpoints: &checkpoint.Manager{
			Runner: runner,
			Report: rep,
			Prefix: cfg.Markers.CheckpointPrefix,
			Trunk:  cfg.Project.Trunk,
		},
		Resolver: resolver,
		Opts:     opts,
	}
}

func (w *Workflows) today() time.Time {
	if w.Today != nil {
		return w.Today()
	}
	return time.Now()
}

func (w *Workflows) currentBranch() (string, error) {
	return git.FirstLine(w.Runner, "rev-parse", "--abbrev-ref", "HEAD")
}

func (w *Workflows) revParse(ref string) (string, error) {
	return git.FirstLine(w.Runner, "rev-parse", ref)
}

func (w *Workflows) subject(ref string) (string, error) {
	return git.FirstLine(w.Runner, "log", "-1", "--format=%s", ref)
}

// remindOrphans nags about checkpoint branches the operator chose to keep
// running past with --force-retry.
func (w *Workflows) remindOrphans(orphans []string) {
	for _, o := range orphans {
		w.Report.Warnf("leftover checkpoint branch %s still exists; delete it once you no longer need it: git branch -D %s", o, o)
	}
}

/*
 * Copyright 2022 The Gremlins Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rustmutants/rustmutants/cmd/internal/flags"
	"github.com/rustmutants/rustmutants/configuration"
	"github.com/rustmutants/rustmutants/internal/cratemod"
	"github.com/rustmutants/rustmutants/internal/discovery"
	"github.com/rustmutants/rustmutants/internal/exclusion"
	"github.com/rustmutants/rustmutants/internal/lab"
	"github.com/rustmutants/rustmutants/internal/listing"
	"github.com/rustmutants/rustmutants/internal/procrunner"
	"github.com/rustmutants/rustmutants/internal/scratch"
	"github.com/rustmutants/rustmutants/internal/sourcetree"
	"github.com/rustmutants/rustmutants/pkg/log"
	"github.com/rustmutants/rustmutants/pkg/report"
)

type mutantsCmd struct {
	cmd *cobra.Command
}

const (
	commandName = "mutants"

	paramOutDir   = "output-dir"
	paramList     = "list"
	paramJSON     = "json"
	paramDiff     = "diff"
	paramAllLogs  = "all-logs"
	paramCheck    = "check"
	paramNoTimes  = "no-times"
	paramTimeoutX = "timeout-multiplier"
	paramExclude  = "exclude-globs"
)

func newMutantsCmd(ctx context.Context) (*mutantsCmd, error) {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s [path]", commandName),
		Args:  cobra.MaximumNArgs(1),
		Short: "Find inadequately-tested code that can be removed without any tests failing",
		Long:  longExplainer(),
		RunE:  runMutants(ctx),
	}

	if err := setFlagsOnCmd(cmd); err != nil {
		return nil, err
	}

	return &mutantsCmd{cmd: cmd}, nil
}

func longExplainer() string {
	return heredoc.Doc(`
		Finds inadequately-tested code in a Rust crate by mutating the source
		and checking that the test suite notices.

		It works by first verifying a clean baseline build and test run, then
		applying one mutation at a time to a scratch copy of the crate and
		rerunning the test suite. A surviving mutant (one the tests don't
		catch) is a sign of missing test coverage.

		In --list mode, it only prints the mutations it would try, without
		building or testing anything. In --check mode, it runs 'cargo check'
		instead of 'cargo test' against each mutant, for a much faster (but
		less meaningful) pass.
	`)
}

func runMutants(ctx context.Context) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}

		crate, err := cratemod.Init(path)
		if err != nil {
			return fmt.Errorf("not in a Cargo crate: %w", err)
		}

		tree, err := sourcetree.New(crate.Root)
		if err != nil {
			return err
		}

		rules, err := exclusion.New()
		if err != nil {
			return err
		}
		tree.Files = filterExcluded(tree.Files, rules)

		if configuration.Get[bool](configuration.MutantsListKey) {
			return runList(cmd.OutOrStdout(), tree)
		}

		log.Infof("Found crate %q at %s\n", crate.Name, crate.Root)

		return runLab(ctx, crate, tree)
	}
}

func filterExcluded(files []*sourcetree.SourceFile, rules exclusion.Rules) []*sourcetree.SourceFile {
	if len(rules) == 0 {
		return files
	}
	kept := files[:0]
	for _, f := range files {
		if !rules.IsFileExcluded(f.RelPath) {
			kept = append(kept, f)
		}
	}

	return kept
}

func runList(w io.Writer, tree *sourcetree.SourceTree) error {
	mutants := discovery.All(tree)
	opts := listing.Options{
		Diff: configuration.Get[bool](configuration.MutantsDiffKey),
		JSON: configuration.Get[bool](configuration.MutantsJSONKey),
	}

	return listing.List(w, mutants, opts)
}

func runLab(ctx context.Context, crate cratemod.Crate, tree *sourcetree.SourceTree) error {
	workDir, err := os.MkdirTemp(os.TempDir(), "cargo-mutants-")
	if err != nil {
		return fmt.Errorf("impossible to create the workdir: %w", err)
	}
	defer cleanUp(workDir)

	dealer := scratch.NewCachedDealer(workDir, crate.Root)
	defer dealer.Clean()

	l := lab.New(dealer, procrunner.New(), lab.WithCheckOnly(configuration.Get[bool](configuration.MutantsCheckKey)))

	wg := &sync.WaitGroup{}
	wg.Add(1)
	cancelled := false
	var result lab.Result
	go runWithCancel(ctx, wg, func(c context.Context) {
		result, err = l.Run(c, tree, report.Mutant)
	}, func() {
		cancelled = true
	})
	wg.Wait()
	if err != nil {
		return err
	}
	if cancelled {
		return nil
	}

	return report.Do(report.Results{
		Crate:     crate.Name,
		CrateRoot: crate.Root,
		Outcome:   result.Outcome,
		Mutants:   result.Mutants,
		Elapsed:   result.Elapsed,
	})
}

func runWithCancel(ctx context.Context, wg *sync.WaitGroup, runner func(c context.Context), onCancel func()) {
	c, cancel := context.WithCancel(ctx)
	go func() {
		<-ctx.Done()
		log.Infof("\nShutting down gracefully...\n")
		cancel()
		onCancel()
	}()
	runner(c)
	wg.Done()
}

func cleanUp(wd string) {
	if err := os.RemoveAll(wd); err != nil {
		log.Errorf("impossible to remove temporary folder: %s\n\t%s", err, wd)
	}
}

func setFlagsOnCmd(cmd *cobra.Command) error {
	cmd.Flags().SortFlags = false
	cmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		from := []string{".", "_"}
		to := "-"
		for _, sep := range from {
			name = strings.ReplaceAll(name, sep, to)
		}

		return pflag.NormalizedName(name)
	})

	fls := []*flags.Flag{
		{Name: paramOutDir, CfgKey: configuration.MutantsDirKey, DefaultV: "", Usage: "override the mutants.out results directory"},
		{Name: paramList, CfgKey: configuration.MutantsListKey, Shorthand: "l", DefaultV: false, Usage: "just list possible mutants, don't run them"},
		{Name: paramJSON, CfgKey: configuration.MutantsJSONKey, DefaultV: false, Usage: "output json (only for --list)"},
		{Name: paramDiff, CfgKey: configuration.MutantsDiffKey, DefaultV: false, Usage: "show the mutation diffs"},
		{Name: paramAllLogs, CfgKey: configuration.MutantsAllLogsKey, DefaultV: false, Usage: "show cargo output for all invocations (very verbose)"},
		{Name: paramCheck, CfgKey: configuration.MutantsCheckKey, DefaultV: false, Usage: "cargo check generated mutants, but don't run tests"},
		{Name: paramNoTimes, CfgKey: configuration.MutantsNoTimesKey, DefaultV: false, Usage: "don't print elapsed times, to make output deterministic"},
		{Name: paramTimeoutX, CfgKey: configuration.MutantsTimeoutMultiplier, DefaultV: 0, Usage: "multiplier applied to the baseline time for the per-mutant timeout"},
		{Name: paramExclude, CfgKey: configuration.MutantsExcludeGlobsKey, DefaultV: "", Usage: "comma-separated list of glob patterns to exclude from mutation"},
	}

	for _, f := range fls {
		if err := flags.Set(cmd, f); err != nil {
			return err
		}
	}

	return nil
}

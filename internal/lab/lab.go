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

// Package lab is the orchestrator: it snapshots a crate into scratch,
// establishes a baseline, then evaluates every discovered mutation
// sequentially against that same scratch copy, reverting between each.
package lab

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rustmutants/rustmutants/configuration"
	"github.com/rustmutants/rustmutants/internal/discovery"
	"github.com/rustmutants/rustmutants/internal/mutation"
	"github.com/rustmutants/rustmutants/internal/outcome"
	"github.com/rustmutants/rustmutants/internal/procrunner"
	"github.com/rustmutants/rustmutants/internal/scratch"
	"github.com/rustmutants/rustmutants/internal/sourcetree"
	"github.com/rustmutants/rustmutants/pkg/log"
)

// minTimeout is the floor of the per-mutant test timeout, used whenever the
// baseline run was fast enough that a multiple of it would be unreasonably
// short.
const minTimeout = 20 * time.Second

// defaultTimeoutMultiplier is how many multiples of the baseline's elapsed
// time a single mutant is given to run its test suite before being declared
// timed out, unless overridden by mutants.timeout-multiplier.
const defaultTimeoutMultiplier = 5

func timeoutMultiplierValue() time.Duration {
	if m := configuration.Get[int](configuration.MutantsTimeoutMultiplier); m > 0 {
		return time.Duration(m)
	}

	return defaultTimeoutMultiplier
}

// Mutant pairs a discovered Mutation with the outcome.Status it was given
// and how long that evaluation took.
type Mutant struct {
	Mutation *mutation.Mutation
	Status   outcome.Status
	Elapsed  time.Duration
}

// Result is everything a caller needs to report a completed run.
type Result struct {
	Outcome outcome.LabOutcome
	Mutants []Mutant
	Elapsed time.Duration
}

// Lab runs baseline and mutant evaluations for one crate.
type Lab struct {
	runner    *procrunner.Runner
	dealer    scratch.Dealer
	checkOnly bool
}

// Option configures a Lab at construction time.
type Option func(l *Lab) *Lab

// New builds a Lab over tree's crate, using dealer to obtain scratch
// copies and runner to invoke cargo.
func New(dealer scratch.Dealer, runner *procrunner.Runner, opts ...Option) *Lab {
	l := &Lab{
		runner: runner,
		dealer: dealer,
	}
	for _, opt := range opts {
		l = opt(l)
	}

	return l
}

// WithCheckOnly makes the lab run `cargo check --tests` instead of
// `cargo test`, for a fast syntax/type-check-only pass.
func WithCheckOnly(checkOnly bool) Option {
	return func(l *Lab) *Lab {
		l.checkOnly = checkOnly

		return l
	}
}

// Run first checks that the original tree builds on its own (BuildSource),
// then snapshots it into scratch and runs the baseline test suite there
// (Baseline); only once both pass does it evaluate every mutation
// discovered in tree sequentially, reporting each one via onMutant as soon
// as its status is known. A failure in either of the first two stages
// aborts the run before any mutant is tried, each with its own outcome.
func (l *Lab) Run(ctx context.Context, tree *sourcetree.SourceTree, onMutant func(Mutant)) (Result, error) {
	start := time.Now()
	if ctx.Err() != nil {
		return Result{Elapsed: time.Since(start)}, nil
	}
	multiplier := timeoutMultiplierValue()
	stageTimeout := minTimeout * multiplier

	buildStart := time.Now()
	buildLogPath, buildRes, err := l.runCheckTests(ctx, tree.Root, stageTimeout)
	if err != nil {
		return Result{}, err
	}
	if buildRes.Outcome == procrunner.Success {
		l.echoLog(buildLogPath, buildRes.Outcome)
	} else {
		l.echoBuildFailureLog(buildLogPath)
	}
	_ = os.Remove(buildLogPath)
	logPreamble("build source tree", buildRes.Outcome == procrunner.Success, time.Since(buildStart))

	if buildRes.Outcome != procrunner.Success {
		log.Errorln("check failed in source tree, not continuing")

		return Result{
			Outcome: outcome.LabOutcome{SourceTreeBuildFailed: true},
			Elapsed: time.Since(start),
		}, nil
	}

	copyStart := time.Now()
	crateDir, err := l.dealer.Get("lab")
	if err != nil {
		return Result{}, fmt.Errorf("lab: failed to snapshot crate: %w", err)
	}
	logCopyPreamble(crateDir, time.Since(copyStart))

	baselineStart := time.Now()
	baselineRes, err := l.runCargo(ctx, crateDir, stageTimeout)
	if err != nil {
		return Result{}, err
	}
	l.echoLog(filepath.Join(crateDir, "cargo-mutants-run.log"), baselineRes.Outcome)
	baselineElapsed := time.Since(baselineStart)
	logPreamble("baseline test with no mutations", baselineRes.Outcome == procrunner.Success, baselineElapsed)

	if baselineRes.Outcome != procrunner.Success {
		log.Errorln("baseline build/test failed; aborting before trying any mutants")

		return Result{
			Outcome: outcome.LabOutcome{BaselineFailed: true},
			Elapsed: time.Since(start),
		}, nil
	}

	perMutantTimeout := baselineElapsed * multiplier
	if perMutantTimeout < minTimeout {
		perMutantTimeout = minTimeout
	}

	var mutants []Mutant
	var statuses []outcome.Status
	for m := range discovery.Discover(tree) {
		select {
		case <-ctx.Done():
			return Result{
				Outcome: outcome.LabOutcome{Mutants: statuses},
				Mutants: mutants,
				Elapsed: time.Since(start),
			}, nil
		default:
		}

		mutantStart := time.Now()
		st, err := l.evaluate(ctx, m, crateDir, perMutantTimeout)
		if err != nil {
			log.Errorf("failed to evaluate mutation at %s:%d - %v\n", m.File.RelPath, m.Line, err)

			continue
		}

		mut := Mutant{Mutation: m, Status: st, Elapsed: time.Since(mutantStart)}
		mutants = append(mutants, mut)
		statuses = append(statuses, st)
		if onMutant != nil {
			onMutant(mut)
		}
	}

	return Result{
		Outcome: outcome.LabOutcome{Mutants: statuses},
		Mutants: mutants,
		Elapsed: time.Since(start),
	}, nil
}

func (l *Lab) evaluate(ctx context.Context, m *mutation.Mutation, crateDir string, timeout time.Duration) (outcome.Status, error) {
	m.SetWorkdir(crateDir)

	if err := m.Apply(); err != nil {
		return outcome.Unviable, err
	}
	defer func() {
		_ = m.Rollback()
	}()

	res, err := l.runCargo(ctx, crateDir, timeout)
	if err != nil {
		return outcome.Unviable, err
	}
	l.echoLog(filepath.Join(crateDir, "cargo-mutants-run.log"), res.Outcome)

	return statusFromResult(res), nil
}

// echoLog relays the cargo invocation's combined output at logPath to the
// log if it failed, or unconditionally when mutants.all-logs is set.
func (l *Lab) echoLog(logPath string, res procrunner.Outcome) {
	if res == procrunner.Success && !configuration.Get[bool](configuration.MutantsAllLogsKey) {
		return
	}
	data, err := os.ReadFile(logPath)
	if err != nil || len(data) == 0 {
		return
	}
	log.Infoln(string(data))
}

// echoBuildFailureLog unconditionally dumps the original tree's `cargo
// check` output, framed by the markers the spec's BaselineBuildFailed
// scenario assumes stdout carries.
func (l *Lab) echoBuildFailureLog(logPath string) {
	data, err := os.ReadFile(logPath)
	if err != nil || len(data) == 0 {
		return
	}
	log.Infof("*** build source ***\n%s\n*** build source ***\n", string(data))
}

func (l *Lab) runCargo(ctx context.Context, dir string, timeout time.Duration) (procrunner.Result, error) {
	args := []string{"test"}
	if l.checkOnly {
		args = []string{"check", "--tests"}
	}

	return l.runner.Run(ctx, procrunner.Spec{
		Args:    args,
		Dir:     dir,
		Timeout: timeout,
		LogFile: filepath.Join(dir, "cargo-mutants-run.log"),
	})
}

// runCheckTests runs `cargo check --tests` in dir, logging to a throwaway
// temp file rather than a file under dir: the BuildSource stage runs
// against the original, read-only source tree, which must not be written
// to. The caller is responsible for removing the returned path.
func (l *Lab) runCheckTests(ctx context.Context, dir string, timeout time.Duration) (string, procrunner.Result, error) {
	logFile, err := os.CreateTemp("", "cargo-mutants-build-*.log")
	if err != nil {
		return "", procrunner.Result{}, fmt.Errorf("lab: failed to create build log: %w", err)
	}
	path := logFile.Name()
	_ = logFile.Close()

	res, err := l.runner.Run(ctx, procrunner.Spec{
		Args:    []string{"check", "--tests"},
		Dir:     dir,
		Timeout: timeout,
		LogFile: path,
	})

	return path, res, err
}

func showTimes() bool {
	return !configuration.Get[bool](configuration.MutantsNoTimesKey)
}

// logPreamble prints one of the literal "{label} ... ok in N.NNNs" progress
// lines, omitting the elapsed fragment under mutants.no-times.
func logPreamble(label string, ok bool, elapsed time.Duration) {
	status := "ok"
	if !ok {
		status = "FAILED"
	}
	if showTimes() {
		log.Infof("%s ... %s in %.3fs\n", label, status, elapsed.Seconds())

		return
	}
	log.Infof("%s ... %s\n", label, status)
}

// logCopyPreamble prints the literal "copy source and build products to
// scratch directory ... NN MB in N.NNNs" progress line, omitting the size
// and elapsed fragments under mutants.no-times.
func logCopyPreamble(dir string, elapsed time.Duration) {
	const label = "copy source and build products to scratch directory"
	if !showTimes() {
		log.Infof("%s ...\n", label)

		return
	}
	log.Infof("%s ... %d MB in %.3fs\n", label, dirSizeMB(dir), elapsed.Seconds())
}

func dirSizeMB(dir string) int64 {
	var total int64
	_ = filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += info.Size()

		return nil
	})

	return total / (1024 * 1024)
}

func statusFromResult(res procrunner.Result) outcome.Status {
	switch res.Outcome {
	case procrunner.TimedOut:
		return outcome.TimedOut
	case procrunner.Success:
		return outcome.NotCaught
	default:
		if res.ExitCode == 101 {
			return outcome.Unviable
		}

		return outcome.Caught
	}
}


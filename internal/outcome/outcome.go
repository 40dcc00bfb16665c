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

// Package outcome classifies individual mutant results and aggregates a run
// into the exit-code contract.
package outcome

import "github.com/rustmutants/rustmutants/internal/execution"

// Status is the result of testing a single mutant.
//
//   - Caught means the mutated crate's test suite failed: the tests noticed
//     the mutation.
//   - NotCaught means the test suite passed on the mutated crate: the tests
//     did not notice the mutation ("the mutant lived").
//   - Unviable means the mutated crate failed to build: the mutation itself
//     is not syntactically/semantically valid Rust, so it is excluded from
//     scoring either way.
//   - TimedOut means the test run exceeded its per-mutant timeout: the
//     mutation likely caused an infinite loop or hang.
type Status int

const (
	Caught Status = iota
	NotCaught
	Unviable
	TimedOut
)

func (s Status) String() string {
	switch s {
	case Caught:
		return "caught"
	case NotCaught:
		return "not caught"
	case Unviable:
		return "unviable"
	case TimedOut:
		return "timeout"
	default:
		panic("this should not happen")
	}
}

// LabOutcome aggregates the outcome of an entire run. SourceTreeBuildFailed
// and BaselineFailed are distinct, mutually-exclusive ways the run can abort
// before any mutant is tried: the former means `cargo check --tests` failed
// against the original, unmodified tree (a USAGE-level problem — the crate
// itself doesn't build); the latter means the baseline `cargo test` failed
// in the scratch copy (the crate builds, but its own tests don't pass).
type LabOutcome struct {
	SourceTreeBuildFailed bool
	BaselineFailed        bool
	Mutants               []Status
}

// ExitCode maps the aggregated outcome to the process exit-code contract,
// applying the fixed precedence: a failed source build wins over a failed
// baseline, which wins over any surviving mutant, then any timeout, else
// success.
func (o LabOutcome) ExitCode() int {
	switch {
	case o.SourceTreeBuildFailed:
		return execution.NewExitErr(execution.Usage).ExitCode()
	case o.BaselineFailed:
		return execution.NewExitErr(execution.CleanTestsFailed).ExitCode()
	}

	sawTimeout := false
	for _, s := range o.Mutants {
		if s == NotCaught {
			return execution.NewExitErr(execution.FoundProblems).ExitCode()
		}
		if s == TimedOut {
			sawTimeout = true
		}
	}
	if sawTimeout {
		return execution.NewExitErr(execution.Timeout).ExitCode()
	}

	return 0
}

// Err turns ExitCode into an *execution.ExitError suitable for returning up
// to main, or nil when the run was fully successful.
func (o LabOutcome) Err() error {
	switch {
	case o.SourceTreeBuildFailed:
		return execution.NewExitErr(execution.Usage)
	case o.BaselineFailed:
		return execution.NewExitErr(execution.CleanTestsFailed)
	}
	for _, s := range o.Mutants {
		if s == NotCaught {
			return execution.NewExitErr(execution.FoundProblems)
		}
	}
	for _, s := range o.Mutants {
		if s == TimedOut {
			return execution.NewExitErr(execution.Timeout)
		}
	}

	return nil
}

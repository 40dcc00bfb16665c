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

// Package execution carries a process exit code through a normal Go error
// return, all the way up to main.
package execution

// ErrorType is the condition that determines a run's exit status.
type ErrorType int

// String produces the human readable sentence for the ErrorType.
func (e ErrorType) String() string {
	switch e {
	case Usage:
		return "usage error"
	case FoundProblems:
		return "mutants were not all caught by the tests"
	case Timeout:
		return "a mutant run timed out"
	case CleanTestsFailed:
		return "tests failed in a clean copy of the tree, so no mutants were tested"
	}
	panic("this should not happen")
}

const (
	// Usage is raised for a malformed invocation.
	Usage ErrorType = iota

	// FoundProblems is raised when at least one mutant was not caught by the
	// test suite and nothing worse happened.
	FoundProblems

	// Timeout is raised when a mutant run timed out and nothing worse
	// happened.
	Timeout

	// CleanTestsFailed is raised when the baseline build or test run failed
	// before any mutant was tried.
	CleanTestsFailed
)

// errorMapping mirrors the exit-code contract: 0 is reserved for a clean,
// error-free run and is never produced by NewExitErr.
var errorMapping = map[ErrorType]int{
	Usage:            1,
	FoundProblems:    2,
	Timeout:          3,
	CleanTestsFailed: 4,
}

// ExitError is raised when a condition requires the process to exit with a
// specific, non-zero status. If returned (or wrapped) up to main, the
// exitCode becomes the process exit code.
type ExitError struct {
	errorType ErrorType
	exitCode  int
}

// NewExitErr instantiates a new ExitError for the given condition.
func NewExitErr(et ErrorType) *ExitError {
	return &ExitError{exitCode: errorMapping[et], errorType: et}
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.errorType.String()
}

// ExitCode returns the process exit code associated with this condition.
func (e *ExitError) ExitCode() int {
	return e.exitCode
}

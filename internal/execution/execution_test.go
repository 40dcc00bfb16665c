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

package execution_test

import (
	"testing"

	"github.com/rustmutants/rustmutants/internal/execution"
)

func TestExitErr(t *testing.T) {
	testCases := []struct {
		name         string
		wantExitMsg  string
		errorType    execution.ErrorType
		wantExitCode int
	}{
		{
			name:         "usage",
			errorType:    execution.Usage,
			wantExitMsg:  "usage error",
			wantExitCode: 1,
		},
		{
			name:         "found-problems",
			errorType:    execution.FoundProblems,
			wantExitMsg:  "mutants were not all caught by the tests",
			wantExitCode: 2,
		},
		{
			name:         "timeout",
			errorType:    execution.Timeout,
			wantExitMsg:  "a mutant run timed out",
			wantExitCode: 3,
		},
		{
			name:         "clean-tests-failed",
			errorType:    execution.CleanTestsFailed,
			wantExitMsg:  "tests failed in a clean copy of the tree, so no mutants were tested",
			wantExitCode: 4,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := execution.NewExitErr(tc.errorType)

			exitCode := err.ExitCode()
			exitMessage := err.Error()

			if exitCode != tc.wantExitCode {
				t.Errorf("want %d, got %d", tc.wantExitCode, exitCode)
			}
			if exitMessage != tc.wantExitMsg {
				t.Errorf("want %q, got %q", tc.wantExitMsg, exitMessage)
			}
		})
	}
}

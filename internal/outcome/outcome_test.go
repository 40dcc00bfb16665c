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

package outcome_test

import (
	"testing"

	"github.com/rustmutants/rustmutants/internal/outcome"
)

func TestLabOutcome_ExitCode(t *testing.T) {
	testCases := []struct {
		name string
		o    outcome.LabOutcome
		want int
	}{
		{
			name: "all caught",
			o:    outcome.LabOutcome{Mutants: []outcome.Status{outcome.Caught, outcome.Caught}},
			want: 0,
		},
		{
			name: "baseline failed wins over everything",
			o: outcome.LabOutcome{
				BaselineFailed: true,
				Mutants:        []outcome.Status{outcome.NotCaught, outcome.TimedOut},
			},
			want: 4,
		},
		{
			name: "a surviving mutant wins over a timeout",
			o:    outcome.LabOutcome{Mutants: []outcome.Status{outcome.TimedOut, outcome.NotCaught}},
			want: 2,
		},
		{
			name: "a timeout alone",
			o:    outcome.LabOutcome{Mutants: []outcome.Status{outcome.Caught, outcome.TimedOut}},
			want: 3,
		},
		{
			name: "unviable mutants do not affect the exit code",
			o:    outcome.LabOutcome{Mutants: []outcome.Status{outcome.Unviable}},
			want: 0,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.o.ExitCode(); got != tc.want {
				t.Errorf("want %d, got %d", tc.want, got)
			}
		})
	}
}

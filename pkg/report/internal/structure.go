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

package internal

// OutputResult is the data structure persisted to mutants.out/mutants.json.
type OutputResult struct {
	Crate         string       `json:"crate"`
	Mutants       []OutputUnit `json:"mutants"`
	MutationScore float64      `json:"mutation_score"`
	MutantsTotal  int          `json:"mutants_total"`
	Caught        int          `json:"caught"`
	NotCaught     int          `json:"not_caught"`
	Unviable      int          `json:"unviable"`
	TimedOut      int          `json:"timed_out"`
	ElapsedTime   float64      `json:"elapsed_time"`
}

// OutputUnit represents a single mutant in OutputResult.
type OutputUnit struct {
	File        string `json:"file"`
	Function    string `json:"function"`
	Line        int    `json:"line"`
	Replacement string `json:"replacement"`
	Status      string `json:"status"`
}

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

// Package report prints run progress and a final summary, and persists the
// machine-readable mutants.json artifact alongside it.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/hako/durafmt"

	"github.com/rustmutants/rustmutants/configuration"
	"github.com/rustmutants/rustmutants/internal/lab"
	"github.com/rustmutants/rustmutants/internal/outcome"
	"github.com/rustmutants/rustmutants/pkg/log"
	"github.com/rustmutants/rustmutants/pkg/report/internal"
)

var (
	fgRed     = color.New(color.FgRed).SprintFunc()
	fgGreen   = color.New(color.FgGreen).SprintFunc()
	fgHiGreen = color.New(color.FgHiGreen).SprintFunc()
	fgHiBlack = color.New(color.FgHiBlack).SprintFunc()
)

const defaultOutDir = "mutants.out"

// Results contains the mutants evaluated by a Lab run, the run's aggregate
// Outcome (which may report a BuildSource or baseline failure even when
// Mutants is empty), and how long the whole run took.
type Results struct {
	Crate     string
	CrateRoot string
	Outcome   outcome.LabOutcome
	Mutants   []lab.Mutant
	Elapsed   time.Duration
}

type reportStatus struct {
	units []internal.OutputUnit

	crate     string
	crateRoot string
	elapsed   time.Duration

	caught    int
	notCaught int
	unviable  int
	timedOut  int
}

func newReport(results Results) (*reportStatus, bool) {
	if len(results.Mutants) == 0 {
		return nil, false
	}
	rep := &reportStatus{
		crate:     results.Crate,
		crateRoot: results.CrateRoot,
		elapsed:   results.Elapsed,
	}
	for _, m := range results.Mutants {
		rep.units = append(rep.units, internal.OutputUnit{
			File:        m.Mutation.File.RelPath,
			Function:    m.Mutation.FunctionName,
			Line:        m.Mutation.Line,
			Replacement: m.Mutation.Op.Replacement(m.Mutation.ReturnTypeStr),
			Status:      m.Status.String(),
		})

		switch m.Status {
		case outcome.Caught:
			rep.caught++
		case outcome.NotCaught:
			rep.notCaught++
		case outcome.Unviable:
			rep.unviable++
		case outcome.TimedOut:
			rep.timedOut++
		}
	}

	return rep, true
}

func showTimes() bool {
	return !configuration.Get[bool](configuration.MutantsNoTimesKey)
}

func (r *reportStatus) mutationScore() float64 {
	scored := r.caught + r.notCaught
	if scored == 0 {
		return 0
	}

	return float64(r.caught) / float64(scored) * 100
}

func (r *reportStatus) reportFindings() {
	log.Infoln("")
	if showTimes() {
		d := durafmt.Parse(r.elapsed).LimitFirstN(2)
		log.Infof("Mutation testing completed in %s\n", d.String())
	} else {
		log.Infoln("Mutation testing completed.")
	}
	log.Infof("Caught: %s, Not caught: %s\n", fgHiGreen(r.caught), fgRed(r.notCaught))
	log.Infof("Timed out: %s, Unviable: %s\n", fgGreen(r.timedOut), fgHiBlack(r.unviable))
	log.Infof("Mutation score: %.2f%%\n", r.mutationScore())

	r.persist()
}

func (r *reportStatus) persist() {
	dir := configuration.Get[string](configuration.MutantsDirKey)
	if dir == "" {
		dir = defaultOutDir
	}
	if !filepath.IsAbs(dir) && r.crateRoot != "" {
		dir = filepath.Join(r.crateRoot, dir)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		log.Errorf("impossible to create %s: %s\n", dir, err)

		return
	}

	result := internal.OutputResult{
		Crate:         r.crate,
		Mutants:       r.units,
		MutationScore: r.mutationScore(),
		MutantsTotal:  r.caught + r.notCaught + r.unviable + r.timedOut,
		Caught:        r.caught,
		NotCaught:     r.notCaught,
		Unviable:      r.unviable,
		TimedOut:      r.timedOut,
		ElapsedTime:   r.elapsed.Seconds(),
	}

	jsonResult, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Errorf("impossible to marshal results: %s\n", err)

		return
	}

	path := filepath.Join(dir, "mutants.json")
	if err := os.WriteFile(path, jsonResult, 0600); err != nil {
		log.Errorf("impossible to write file: %s\n", err)
	}
}

// Do reports a completed run: one-line-per-mutant progress has already been
// emitted via Mutant as the run went along, so Do only needs to print the
// summary and persist mutants.json. It returns the run's outcome.LabOutcome
// as an error per the exit-code contract, or nil on full success. When the
// run aborted before any mutant was tried (BuildSource or baseline failure),
// there is no per-mutant summary to print, so Do reports that directly.
func Do(results Results) error {
	rep, ok := newReport(results)
	if !ok {
		if results.Outcome.SourceTreeBuildFailed || results.Outcome.BaselineFailed {
			return results.Outcome.Err()
		}
		log.Infoln("\nNo mutants found.")

		return nil
	}
	rep.reportFindings()

	var statuses []outcome.Status
	for _, m := range results.Mutants {
		statuses = append(statuses, m.Status)
	}

	agg := outcome.LabOutcome{
		SourceTreeBuildFailed: results.Outcome.SourceTreeBuildFailed,
		BaselineFailed:        results.Outcome.BaselineFailed,
		Mutants:               statuses,
	}

	return agg.Err()
}

// statusLabel renders a Status the way the spec's per-mutant progress line
// wants it: upper-cased for NotCaught ("NOT CAUGHT"), lower-case otherwise.
func statusLabel(s outcome.Status) string {
	if s == outcome.NotCaught {
		return "NOT CAUGHT"
	}

	return s.String()
}

// Mutant logs a single lab.Mutant as soon as its status is known, in the
// literal "{describe} ... {STATUS}[ in {elapsed}]" form the spec mandates.
func Mutant(m lab.Mutant) {
	label := statusLabel(m.Status)
	switch m.Status {
	case outcome.Caught:
		label = fgHiGreen(label)
	case outcome.NotCaught:
		label = fgRed(label)
	case outcome.TimedOut:
		label = fgGreen(label)
	case outcome.Unviable:
		label = fgHiBlack(label)
	}

	describe := m.Mutation.Describe()

	if showTimes() {
		log.Infof("%s ... %s in %s\n", describe, label, durafmt.Parse(m.Elapsed).LimitFirstN(1))

		return
	}
	log.Infof("%s ... %s\n", describe, label)
}

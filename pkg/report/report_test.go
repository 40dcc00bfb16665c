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

package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hectane/go-acl"
	"github.com/spf13/viper"

	"github.com/rustmutants/rustmutants/configuration"
	"github.com/rustmutants/rustmutants/internal/execution"
	"github.com/rustmutants/rustmutants/internal/lab"
	"github.com/rustmutants/rustmutants/internal/mutation"
	"github.com/rustmutants/rustmutants/internal/outcome"
	"github.com/rustmutants/rustmutants/internal/sourcetree"
	"github.com/rustmutants/rustmutants/pkg/log"
	"github.com/rustmutants/rustmutants/pkg/report"
	"github.com/rustmutants/rustmutants/pkg/report/internal"
)

func fakeMutant(status outcome.Status, file string, line int) lab.Mutant {
	sf := &sourcetree.SourceFile{RelPath: file, Text: []byte("pub fn f() -> bool {\n    true\n}\n")}
	m := mutation.New(sf, mutation.True, "f", "bool", 21, 30, line)

	return lab.Mutant{Mutation: m, Status: status}
}

func TestReport(t *testing.T) {
	t.Run("it reports findings", func(t *testing.T) {
		dir := t.TempDir()
		cwd, _ := os.Getwd()
		_ = os.Chdir(dir)
		defer func() { _ = os.Chdir(cwd) }()

		out := &bytes.Buffer{}
		log.Init(out, &bytes.Buffer{})
		defer log.Reset()

		mutants := []lab.Mutant{
			fakeMutant(outcome.NotCaught, "aFolder/aFile.rs", 3),
			fakeMutant(outcome.Caught, "aFolder/aFile.rs", 3),
			fakeMutant(outcome.Unviable, "aFolder/aFile.rs", 3),
			fakeMutant(outcome.TimedOut, "aFolder/aFile.rs", 3),
		}
		data := report.Results{
			Crate:   "widgets",
			Mutants: mutants,
			Elapsed: (2 * time.Minute) + (22 * time.Second) + (123 * time.Millisecond),
		}

		_ = report.Do(data)

		got := out.String()

		want := "\n" +
			"Mutation testing completed in 2 minutes 22 seconds\n" +
			"Caught: 1, Not caught: 1\n" +
			"Timed out: 1, Unviable: 1\n" +
			"Mutation score: 50.00%\n"

		if !cmp.Equal(got, want) {
			t.Errorf(cmp.Diff(want, got))
		}
	})

	t.Run("it omits elapsed time when --no-times is set", func(t *testing.T) {
		dir := t.TempDir()
		cwd, _ := os.Getwd()
		_ = os.Chdir(dir)
		defer func() { _ = os.Chdir(cwd) }()

		viper.Set(configuration.MutantsNoTimesKey, true)
		defer viper.Reset()

		out := &bytes.Buffer{}
		log.Init(out, &bytes.Buffer{})
		defer log.Reset()

		mutants := []lab.Mutant{
			fakeMutant(outcome.Caught, "aFolder/aFile.rs", 3),
		}
		data := report.Results{Crate: "widgets", Mutants: mutants}

		_ = report.Do(data)

		got := out.String()
		want := "\n" +
			"Mutation testing completed.\n" +
			"Caught: 1, Not caught: 0\n" +
			"Timed out: 0, Unviable: 0\n" +
			"Mutation score: 100.00%\n"

		if !cmp.Equal(got, want) {
			t.Errorf(cmp.Diff(want, got))
		}
	})

	t.Run("it reports nothing if no result", func(t *testing.T) {
		out := &bytes.Buffer{}
		log.Init(out, &bytes.Buffer{})
		defer log.Reset()

		data := report.Results{}

		_ = report.Do(data)

		got := out.String()
		want := "\n" + "No mutants found.\n"

		if !cmp.Equal(got, want) {
			t.Errorf(cmp.Diff(want, got))
		}
	})
}

func TestExitCode(t *testing.T) {
	out := &bytes.Buffer{}
	log.Init(out, &bytes.Buffer{})
	defer log.Reset()

	dir := t.TempDir()
	cwd, _ := os.Getwd()
	_ = os.Chdir(dir)
	defer func() { _ = os.Chdir(cwd) }()

	data := report.Results{
		Crate: "widgets",
		Mutants: []lab.Mutant{
			fakeMutant(outcome.Caught, "a.rs", 1),
			fakeMutant(outcome.NotCaught, "a.rs", 2),
		},
	}

	err := report.Do(data)

	var exitErr *execution.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected an *execution.ExitError, got %v", err)
	}
	if exitErr.ExitCode() == 0 {
		t.Errorf("expected a non-zero exit code")
	}
}

func TestMutantLog(t *testing.T) {
	out := &bytes.Buffer{}
	defer out.Reset()
	log.Init(out, &bytes.Buffer{})
	defer log.Reset()

	viper.Set(configuration.MutantsNoTimesKey, true)
	defer viper.Reset()

	report.Mutant(fakeMutant(outcome.NotCaught, "aFolder/aFile.rs", 3))
	report.Mutant(fakeMutant(outcome.Caught, "aFolder/aFile.rs", 3))
	report.Mutant(fakeMutant(outcome.Unviable, "aFolder/aFile.rs", 3))
	report.Mutant(fakeMutant(outcome.TimedOut, "aFolder/aFile.rs", 3))

	got := out.String()

	want := "" +
		"aFolder/aFile.rs:3: replace f -> bool with true ... NOT CAUGHT\n" +
		"aFolder/aFile.rs:3: replace f -> bool with true ... caught\n" +
		"aFolder/aFile.rs:3: replace f -> bool with true ... unviable\n" +
		"aFolder/aFile.rs:3: replace f -> bool with true ... timeout\n"

	if !cmp.Equal(got, want) {
		t.Errorf(cmp.Diff(want, got))
	}
}

func TestReportPersistsMutantsJSON(t *testing.T) {
	mutants := []lab.Mutant{
		fakeMutant(outcome.Caught, "file1.rs", 3),
		fakeMutant(outcome.NotCaught, "file1.rs", 8),
		fakeMutant(outcome.Unviable, "file2.rs", 3),
	}
	data := report.Results{
		Crate:   "widgets",
		Mutants: mutants,
		Elapsed: (2 * time.Minute) + (22 * time.Second) + (123 * time.Millisecond),
	}

	t.Run("it writes mutants.json under the configured dir", func(t *testing.T) {
		outDir := t.TempDir()
		viper.Set(configuration.MutantsDirKey, filepath.Join(outDir, "mutants.out"))
		defer viper.Reset()

		_ = report.Do(data)

		file, err := os.ReadFile(filepath.Join(outDir, "mutants.out", "mutants.json"))
		if err != nil {
			t.Fatal("file not found")
		}

		var got internal.OutputResult
		if err := json.Unmarshal(file, &got); err != nil {
			t.Fatal("impossible to unmarshal results")
		}

		if got.Crate != "widgets" || got.MutantsTotal != 3 {
			t.Errorf("unexpected output: %+v", got)
		}
	})

	t.Run("it doesn't report an error when the output dir isn't writeable", func(t *testing.T) {
		outDir, cl := notWriteableDir(t)
		defer cl()
		viper.Set(configuration.MutantsDirKey, filepath.Join(outDir, "nested", "mutants.out"))
		defer viper.Reset()

		if err := report.Do(data); err != nil {
			var exitErr *execution.ExitError
			if !errors.As(err, &exitErr) {
				t.Fatal("error not expected")
			}
		}
	})
}

func notWriteableDir(t *testing.T) (string, func()) {
	t.Helper()
	tmp := t.TempDir()
	outPath, _ := os.MkdirTemp(tmp, "test-")
	_ = os.Chmod(outPath, 0000)
	clean := os.Chmod
	if runtime.GOOS == "windows" {
		_ = acl.Chmod(outPath, 0000)
		clean = acl.Chmod
	}

	return outPath, func() {
		_ = clean(outPath, 0700)
	}
}

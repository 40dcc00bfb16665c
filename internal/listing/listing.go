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

// Package listing renders discovered mutations without running anything,
// for --list and --list --diff.
package listing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rustmutants/rustmutants/internal/mutation"
)

// ErrListDiffJSON is returned when --list, --diff and --json are requested
// together: --diff prints a per-mutant unified diff, which has no place in
// a single JSON array.
var ErrListDiffJSON = errors.New("--list --diff --json is not (yet) supported")

// Entry is one line of JSON-mode listing output.
type Entry struct {
	File        string `json:"file"`
	Line        int    `json:"line"`
	Function    string `json:"function"`
	ReturnType  string `json:"return_type"`
	Replacement string `json:"replacement"`
}

// Options controls how List renders.
type Options struct {
	Diff bool
	JSON bool
}

// List writes mutants to w according to opts. Text mode prints one
// "file:line: replace function[ -> return_type] with replacement" line per
// mutant (the return type only when the function declares one), followed
// by a unified diff block when opts.Diff is set. JSON mode prints a single
// JSON array of Entry and rejects opts.Diff.
func List(w io.Writer, mutants []*mutation.Mutation, opts Options) error {
	if opts.JSON && opts.Diff {
		return ErrListDiffJSON
	}

	if opts.JSON {
		return listJSON(w, mutants)
	}

	return listText(w, mutants, opts.Diff)
}

func listText(w io.Writer, mutants []*mutation.Mutation, withDiff bool) error {
	for _, m := range mutants {
		if _, err := fmt.Fprintln(w, m.Describe()); err != nil {
			return err
		}
		if !withDiff {
			continue
		}
		diff, err := m.Diff()
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, diff); err != nil {
			return err
		}
		if !strings.HasSuffix(diff, "\n") {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}

	return nil
}

func listJSON(w io.Writer, mutants []*mutation.Mutation) error {
	entries := make([]Entry, 0, len(mutants))
	for _, m := range mutants {
		entries = append(entries, Entry{
			File:        m.File.RelPath,
			Line:        m.Line,
			Function:    m.FunctionName,
			ReturnType:  m.ReturnTypeStr,
			Replacement: m.Op.Replacement(m.ReturnTypeStr),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(entries)
}

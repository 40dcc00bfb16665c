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

package listing_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rustmutants/rustmutants/internal/listing"
	"github.com/rustmutants/rustmutants/internal/mutation"
	"github.com/rustmutants/rustmutants/internal/sourcetree"
)

func boolMutants() []*mutation.Mutation {
	file := &sourcetree.SourceFile{
		RelPath: "src/lib.rs",
		Text:    []byte("pub fn is_ready() -> bool {\n    true\n}\n"),
	}

	return []*mutation.Mutation{
		mutation.New(file, mutation.True, "is_ready", "bool", 28, 37, 1),
		mutation.New(file, mutation.False, "is_ready", "bool", 28, 37, 1),
	}
}

func TestList_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := listing.List(&buf, boolMutants(), listing.Options{}); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	if !strings.Contains(got, "src/lib.rs:1: replace is_ready -> bool with true") {
		t.Errorf("expected a line for the True mutation, got %q", got)
	}
	if !strings.Contains(got, "src/lib.rs:1: replace is_ready -> bool with false") {
		t.Errorf("expected a line for the False mutation, got %q", got)
	}
}

func TestList_TextWithDiff(t *testing.T) {
	var buf bytes.Buffer
	if err := listing.List(&buf, boolMutants(), listing.Options{Diff: true}); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	if !strings.Contains(got, "-    true") {
		t.Errorf("expected diff output to show the original line removed, got %q", got)
	}
}

func TestList_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := listing.List(&buf, boolMutants(), listing.Options{JSON: true}); err != nil {
		t.Fatal(err)
	}

	var entries []listing.Entry
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Function != "is_ready" || entries[0].ReturnType != "bool" {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
}

func TestList_RejectsDiffAndJSONTogether(t *testing.T) {
	var buf bytes.Buffer
	err := listing.List(&buf, boolMutants(), listing.Options{JSON: true, Diff: true})
	if !errors.Is(err, listing.ErrListDiffJSON) {
		t.Errorf("expected ErrListDiffJSON, got %v", err)
	}
	if err.Error() != "--list --diff --json is not (yet) supported" {
		t.Errorf("unexpected error text: %q", err.Error())
	}
}

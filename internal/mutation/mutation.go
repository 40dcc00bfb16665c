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

// Package mutation models a single candidate mutation of a Rust function
// body: where it applies, what it replaces the body with, and how to render
// or apply that replacement.
package mutation

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/rustmutants/rustmutants/internal/sourcetree"
	"github.com/rustmutants/rustmutants/internal/textedit"
)

// Status mirrors the coarse outcome of trying a Mutation, for display
// purposes; the authoritative scoring type is outcome.Status.
type Status int

const (
	Pending Status = iota
	Applied
)

// Mutation is one candidate replacement of a function body, discovered on
// the syntactic surface of a SourceFile.
type Mutation struct {
	File          *sourcetree.SourceFile
	Op            Op
	FunctionName  string // fully namespaced, e.g. "widgets::Gadget::spin"
	ReturnTypeStr string
	BodyStart     int // offset of the byte right after the opening '{'
	BodyEnd       int // offset of the byte at the closing '}'
	Line          int

	workDir  string
	origFile []byte

	mutex *sync.RWMutex
	locks map[string]*sync.Mutex
}

// New creates a Mutation over the function body [bodyStart, bodyEnd) of
// file, applying op.
func New(file *sourcetree.SourceFile, op Op, functionName, returnType string, bodyStart, bodyEnd, line int) *Mutation {
	return &Mutation{
		File:          file,
		Op:            op,
		FunctionName:  functionName,
		ReturnTypeStr: returnType,
		BodyStart:     bodyStart,
		BodyEnd:       bodyEnd,
		Line:          line,
		mutex:         &sync.RWMutex{},
		locks:         map[string]*sync.Mutex{},
	}
}

// replacement is the literal body text this Mutation installs, surrounded
// by a little whitespace so the braces don't collide with it.
func (m *Mutation) replacement() string {
	return " " + m.Op.Replacement(m.ReturnTypeStr) + " "
}

// RenderMutatedFile returns the full text of File with this Mutation's
// replacement spliced into its function body.
func (m *Mutation) RenderMutatedFile() ([]byte, error) {
	return textedit.ReplaceRegion(m.File.Text, m.BodyStart, m.BodyEnd, m.replacement())
}

// Describe renders a short, single-line human description of the mutation,
// in the style used for --list output and per-mutant progress lines:
// "{path}:{line}: replace {function}{ -> return_type} with {replacement}".
// The arrow is omitted entirely for a unit-returning function.
func (m *Mutation) Describe() string {
	arrow := ""
	if m.ReturnTypeStr != "" {
		arrow = " -> " + m.ReturnTypeStr
	}

	return fmt.Sprintf("%s:%d: replace %s%s with %s", m.File.RelPath, m.Line, m.FunctionName, arrow, m.Op.Replacement(m.ReturnTypeStr))
}

// Diff renders a unified diff between the unmutated and mutated file text.
func (m *Mutation) Diff() (string, error) {
	mutated, err := m.RenderMutatedFile()
	if err != nil {
		return "", err
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(m.File.Text)),
		B:        difflib.SplitLines(string(mutated)),
		FromFile: m.File.RelPath,
		ToFile:   m.File.RelPath + " (mutated)",
		Context:  2,
	}

	return difflib.GetUnifiedDiffString(ud)
}

// SetWorkdir points Apply and Rollback at a scratch copy of the source tree,
// rather than the tree that was scanned to discover the mutation.
func (m *Mutation) SetWorkdir(path string) {
	m.workDir = path
}

// Apply overwrites the mutated file under the scratch workdir, saving the
// original bytes for Rollback.
//
// The file is removed before being rewritten because it may be a hard link
// to the file in the original source tree (see internal/scratch); rewriting
// in place would corrupt the original.
func (m *Mutation) Apply() error {
	lock := m.fileLock()
	lock.Lock()
	defer lock.Unlock()

	path := filepath.Join(m.workDir, filepath.FromSlash(m.File.RelPath))
	orig, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	m.origFile = orig

	mutated, err := m.RenderMutatedFile()
	if err != nil {
		return err
	}

	if err := os.RemoveAll(path); err != nil {
		return err
	}

	return os.WriteFile(path, mutated, 0600)
}

// Rollback restores the pre-mutation file contents under the scratch
// workdir. It is safe to call repeatedly; after the first call origFile is
// cleared and subsequent calls are no-ops.
func (m *Mutation) Rollback() error {
	lock := m.fileLock()
	lock.Lock()
	defer lock.Unlock()

	if m.origFile == nil {
		return nil
	}
	path := filepath.Join(m.workDir, filepath.FromSlash(m.File.RelPath))
	orig := m.origFile
	m.origFile = nil

	return os.WriteFile(path, orig, 0600)
}

func (m *Mutation) fileLock() *sync.Mutex {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	lock, ok := m.locks[m.File.RelPath]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[m.File.RelPath] = lock
	}

	return lock
}

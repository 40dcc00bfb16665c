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

// Package sourcetree models a Rust crate as a set of .rs source files rooted
// at the directory holding its Cargo.toml.
package sourcetree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceFile is one .rs file and its text. RelPath is slash-separated and relative
// to the tree's Root, matching the crate-internal module-path convention.
type SourceFile struct {
	RelPath string
	Text    []byte
}

// SourceTree is a Rust crate rooted at Root, which must directly contain a
// Cargo.toml (no parent-directory search, mirroring cratemod.Init).
type SourceTree struct {
	Root  string
	Files []*SourceFile
}

// New loads every .rs file under root/src, in deterministic lexicographic
// order by relative path, after validating that root/Cargo.toml exists.
func New(root string) (*SourceTree, error) {
	manifest := filepath.Join(root, "Cargo.toml")
	if _, err := os.Stat(manifest); err != nil {
		return nil, fmt.Errorf("sourcetree: %s has no Cargo.toml: %w", root, err)
	}

	srcDir := filepath.Join(root, "src")
	var relPaths []string
	err := filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".rs" {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPaths = append(relPaths, filepath.ToSlash(rel))

		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(relPaths)

	files := make([]*SourceFile, 0, len(relPaths))
	for _, rel := range relPaths {
		text, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		files = append(files, &SourceFile{RelPath: rel, Text: text})
	}

	return &SourceTree{Root: root, Files: files}, nil
}

// File returns the SourceFile for relPath, or nil if it isn't part of the
// tree.
func (t *SourceTree) File(relPath string) *SourceFile {
	relPath = strings.TrimPrefix(relPath, "./")
	for _, f := range t.Files {
		if f.RelPath == relPath {
			return f
		}
	}

	return nil
}

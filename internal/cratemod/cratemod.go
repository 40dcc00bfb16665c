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

// Package cratemod locates the Rust crate under test and reads the bits of
// its Cargo.toml needed to drive cargo subprocesses.
package cratemod

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Crate represents the current execution context.
//
//	Name is the package name declared in the crate's Cargo.toml.
//	Root is the directory holding that Cargo.toml.
//	CallingDir is the path passed to Init, or the current directory when
//	that path was empty.
type Crate struct {
	Name       string
	Root       string
	CallingDir string
}

var packageNameRe = regexp.MustCompile(`(?m)^\s*name\s*=\s*"([^"]+)"`)

// Init validates that path (the current directory, if empty) is the root of
// a Cargo crate. Unlike Go module lookup this does not walk up parent
// directories: the crate root is exactly the directory passed in, matching
// the tool's single-directory Cargo.toml invariant.
func Init(path string) (Crate, error) {
	callingDir := path
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return Crate{}, err
		}
		callingDir = path
	}
	path = filepath.Clean(path)

	manifest := filepath.Join(path, "Cargo.toml")
	data, err := os.ReadFile(manifest)
	if err != nil {
		return Crate{}, fmt.Errorf("%s is not the root of a Cargo crate: %w", path, err)
	}

	name := crateName(data)
	if name == "" {
		return Crate{}, fmt.Errorf("could not find package name in %s", manifest)
	}

	return Crate{
		Name:       name,
		Root:       path,
		CallingDir: callingDir,
	}, nil
}

func crateName(manifest []byte) string {
	m := packageNameRe.FindSubmatch(manifest)
	if m == nil {
		return ""
	}

	return string(m[1])
}

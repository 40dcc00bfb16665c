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

package cratemod_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rustmutants/rustmutants/internal/cratemod"
)

func TestInit(t *testing.T) {
	t.Run("does not return error if Cargo.toml declares a package name", func(t *testing.T) {
		const crateName = "widgets"
		root := t.TempDir()
		manifest := filepath.Join(root, "Cargo.toml")
		err := os.WriteFile(manifest, []byte("[package]\nname = \""+crateName+"\"\nversion = \"0.1.0\"\n"), 0600)
		if err != nil {
			t.Fatal(err)
		}

		crate, err := cratemod.Init(root)
		if err != nil {
			t.Fatal(err)
		}

		if crate.Name != crateName {
			t.Errorf("expected crate name to be %q, got %q", crateName, crate.Name)
		}
		if crate.Root != root {
			t.Errorf("expected crate root to be %q, got %q", root, crate.Root)
		}
	})

	t.Run("returns error if Cargo.toml has no package name", func(t *testing.T) {
		root := t.TempDir()
		manifest := filepath.Join(root, "Cargo.toml")
		if err := os.WriteFile(manifest, []byte("[workspace]\n"), 0600); err != nil {
			t.Fatal(err)
		}

		_, err := cratemod.Init(root)
		if err == nil {
			t.Errorf("expected an error")
		}
	})

	t.Run("returns error if there is no Cargo.toml", func(t *testing.T) {
		_, err := cratemod.Init(t.TempDir())
		if err == nil {
			t.Errorf("expected an error")
		}
	})

	t.Run("defaults to the current directory when path is empty", func(t *testing.T) {
		root := t.TempDir()
		manifest := filepath.Join(root, "Cargo.toml")
		if err := os.WriteFile(manifest, []byte("[package]\nname = \"widgets\"\n"), 0600); err != nil {
			t.Fatal(err)
		}
		cwd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		defer func() { _ = os.Chdir(cwd) }()
		if err := os.Chdir(root); err != nil {
			t.Fatal(err)
		}

		crate, err := cratemod.Init("")
		if err != nil {
			t.Fatal(err)
		}
		if crate.Name != "widgets" {
			t.Errorf("expected crate name %q, got %q", "widgets", crate.Name)
		}
	})
}

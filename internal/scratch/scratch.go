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

// Package scratch snapshots a crate into a disposable copy that mutation
// and test runs are free to rewrite without ever touching the original
// source tree.
package scratch

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rustmutants/rustmutants/pkg/log"
)

// excludedTopLevel lists the first path components never copied into a
// scratch tree: previous build output and previous run output, which would
// otherwise be needlessly duplicated (and, for mutants.out, could be
// mistaken for this run's own results).
var excludedTopLevel = map[string]bool{
	"target":          true,
	"mutants.out":     true,
	"mutants.out.old": true,
}

// Dealer hands out scratch directories and owns their cleanup.
type Dealer interface {
	Get(idf string) (string, error)
	Clean()
}

// CachedDealer is the Dealer implementation: the first Get for a given
// identifier copies srcDir into a fresh temp dir under workDir; later Gets
// with the same identifier return the same path.
type CachedDealer struct {
	mutex            *sync.RWMutex
	cache            map[string]string
	workDir          string
	srcDir           string
	dockerRootFolder string
	withinDocker     bool
}

// Option configures a CachedDealer at construction time.
type Option func(d *CachedDealer) *CachedDealer

// NewCachedDealer builds a Dealer rooted at srcDir, placing scratch copies
// under workDir. Files are hard-linked rather than copied unless running
// inside a Docker container (detected via /.dockerenv), where hard links
// across the container's overlay filesystem are unreliable.
func NewCachedDealer(workDir, srcDir string, opts ...Option) *CachedDealer {
	dealer := &CachedDealer{
		mutex:            &sync.RWMutex{},
		cache:            make(map[string]string),
		workDir:          workDir,
		srcDir:           srcDir,
		dockerRootFolder: "/",
	}
	for _, opt := range opts {
		dealer = opt(dealer)
	}
	if isRunningInDockerContainer(dealer.dockerRootFolder) {
		dealer.withinDocker = true
	}

	return dealer
}

// WithDockerRootFolder overrides where to look for .dockerenv, for tests.
func WithDockerRootFolder(rootFolder string) Option {
	return func(d *CachedDealer) *CachedDealer {
		d.dockerRootFolder = rootFolder

		return d
	}
}

// Get returns the scratch directory for idf, creating and populating it on
// first use.
func (cd *CachedDealer) Get(idf string) (string, error) {
	if dst, ok := cd.getFromCache(idf); ok {
		return dst, nil
	}

	dst, err := os.MkdirTemp(cd.workDir, "mutants-scratch-*")
	if err != nil {
		return "", err
	}
	if err := filepath.Walk(cd.srcDir, cd.copyTo(dst)); err != nil {
		return "", err
	}
	cd.setCache(idf, dst)

	return dst, nil
}

// Clean removes every scratch directory this dealer has created.
func (cd *CachedDealer) Clean() {
	for _, v := range cd.cache {
		if err := os.RemoveAll(v); err != nil {
			log.Errorf("impossible to remove scratch folder %s: %s\n", v, err)
		}
	}
	cd.cache = make(map[string]string)
}

func (cd *CachedDealer) getFromCache(idf string) (string, bool) {
	cd.mutex.RLock()
	defer cd.mutex.RUnlock()
	dst, ok := cd.cache[idf]

	return dst, ok
}

func (cd *CachedDealer) setCache(idf, dir string) {
	cd.mutex.Lock()
	defer cd.mutex.Unlock()
	cd.cache[idf] = dir
}

func (cd *CachedDealer) copyTo(dstDir string) filepath.WalkFunc {
	return func(srcPath string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(cd.srcDir, srcPath)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}
		if isExcluded(relPath) {
			if info.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		return cd.copyPath(srcPath, filepath.Join(dstDir, relPath), info)
	}
}

func isExcluded(relPath string) bool {
	first := strings.SplitN(filepath.ToSlash(relPath), "/", 2)[0]

	return excludedTopLevel[first]
}

func (cd *CachedDealer) copyPath(srcPath, dstPath string, info fs.FileInfo) error {
	switch mode := info.Mode(); {
	case mode.IsDir():
		if err := os.Mkdir(dstPath, mode); err != nil && !os.IsExist(err) {
			return err
		}
	case mode.IsRegular():
		if cd.withinDocker {
			return doCopy(srcPath, dstPath, mode)
		}

		return os.Link(srcPath, dstPath)
	}

	return nil
}

func doCopy(srcPath, dstPath string, mode fs.FileMode) error {
	s, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	d, err := os.OpenFile(dstPath, os.O_CREATE|os.O_RDWR, mode)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	_, err = io.Copy(d, s)

	return err
}

func isRunningInDockerContainer(dockerRootFolder string) bool {
	f := strings.TrimSuffix(dockerRootFolder, "/") + "/" + ".dockerenv"
	_, err := os.Stat(f)

	return err == nil
}

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

package main

import (
	"runtime"
	"strings"
	"testing"
)

func TestBuildVersion(t *testing.T) {
	got := buildVersion("1.2.3")
	want := "1.2.3 " + runtime.GOOS + "/" + runtime.GOARCH
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCtxDoneOnSignal(t *testing.T) {
	ctx := ctxDoneOnSignal()
	select {
	case <-ctx.Done():
		t.Fatal("context should not be done without a signal")
	default:
	}
}

func TestBuildVersionContainsPlatform(t *testing.T) {
	got := buildVersion("dev")
	if !strings.Contains(got, runtime.GOARCH) {
		t.Errorf("expected version string to contain GOARCH, got %q", got)
	}
}

//go:build windows

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

package procrunner

import (
	"os/exec"
	"syscall"
)

// setupProcessGroup configures the command to use a Windows process group.
// Windows process semantics differ from Unix; this is best-effort.
func setupProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags = syscall.CREATE_NEW_PROCESS_GROUP
}

// killProcessGroup kills the process. Windows has no direct equivalent of a
// Unix process-group signal, so this only reaches the immediate child
// regardless of which signal was requested.
func killProcessGroup(cmd *exec.Cmd, _ signal) error {
	if cmd.Process == nil {
		return nil
	}

	return cmd.Process.Kill()
}

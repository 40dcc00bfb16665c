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

// Package configuration wires flags, environment variables and a config
// file together through Viper, the way every command in this tool reads its
// settings.
package configuration

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// This is the list of the keys available in config files and as flags.
const (
	MutantsDirKey            = "mutants.dir"
	MutantsListKey           = "mutants.list"
	MutantsJSONKey           = "mutants.json"
	MutantsDiffKey           = "mutants.diff"
	MutantsCheckKey          = "mutants.check"
	MutantsAllLogsKey        = "mutants.all-logs"
	MutantsNoTimesKey        = "mutants.no-times"
	MutantsTimeoutMultiplier = "mutants.timeout-multiplier"
	MutantsExcludeGlobsKey   = "mutants.exclude-globs"
)

const (
	cfgName      = ".cargo-mutants"
	envVarPrefix = "CARGOMUTANTS"

	xdgConfigHomeKey = "XDG_CONFIG_HOME"

	windowsOs = "windows"
)

// Init initializes the Viper configuration.
//
// It sets the configuration file name to .cargo-mutants.yaml, adds cPaths
// as config search paths, and turns on automatic environment variable
// binding with the CARGOMUTANTS prefix. Environment variables take
// precedence over the configuration file and must be set in the format:
//
//	CARGOMUTANTS_<COMMAND NAME>_<FLAG NAME>
func Init(cPaths []string) error {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.SetEnvPrefix(envVarPrefix)
	viper.AutomaticEnv()
	viper.SetConfigName(cfgName)
	viper.SetConfigType("yaml")

	if isSpecificFile(cPaths) {
		viper.SetConfigFile(cPaths[0])
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
	} else if arePathsNotSet(cPaths) {
		cPaths = defaultConfigPaths()
	}

	for _, p := range cPaths {
		viper.AddConfigPath(p)
	}

	_ = viper.ReadInConfig() // ignoring error if file not present

	return nil
}

func isSpecificFile(cPaths []string) bool {
	return len(cPaths) == 1 && filepath.Ext(cPaths[0]) != ""
}

func arePathsNotSet(cPaths []string) bool {
	return len(cPaths) == 0 || len(cPaths) == 1 && cPaths[0] == ""
}

func defaultConfigPaths() []string {
	result := make([]string, 0, 4)

	if runtime.GOOS != windowsOs {
		result = append(result, "/etc/cargo-mutants")
	}

	xchLocation, _ := homedir.Expand("~/.config")
	if x := os.Getenv(xdgConfigHomeKey); x != "" {
		xchLocation = x
	}
	xchLocation = filepath.Join(xchLocation, "cargo-mutants", "cargo-mutants")
	result = append(result, xchLocation)

	if homeLocation, err := homedir.Expand("~/.cargo-mutants"); err == nil {
		result = append(result, homeLocation)
	}

	result = append(result, ".")

	return result
}

var mutex sync.RWMutex

// Set offers synchronised access to Viper.
func Set[T any](k string, v T) {
	mutex.Lock()
	defer mutex.Unlock()
	viper.Set(k, v)
}

// Get offers synchronised access to Viper.
func Get[T any](k string) T {
	var r T
	mutex.RLock()
	defer mutex.RUnlock()
	r, _ = viper.Get(k).(T)

	return r
}

// Reset is used mainly for testing purposes, to clean up the Viper
// instance.
func Reset() {
	mutex.Lock()
	defer mutex.Unlock()
	viper.Reset()
}

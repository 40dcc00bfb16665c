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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustmutants/rustmutants/configuration"
	"github.com/rustmutants/rustmutants/internal/execution"
	"github.com/rustmutants/rustmutants/pkg/log"
)

const paramConfigFile = "config"

// Execute parses os.Args the way a cargo subcommand plugin must: argv[1] is
// expected to be the literal "mutants", regardless of whether the binary was
// invoked as `cargo mutants ...` (cargo strips its own argv[0] and re-execs
// cargo-mutants with "mutants" prepended) or directly as
// `cargo-mutants mutants ...`. Only once that gate passes does cobra get a
// chance to parse the remaining flags.
func Execute(ctx context.Context, version string) error {
	return execute(ctx, version, os.Args[1:])
}

func execute(ctx context.Context, version string, args []string) error {
	if err := checkSubcommand(args); err != nil {
		return err
	}

	rootCmd, err := newRootCmd(ctx, version)
	if err != nil {
		return err
	}
	rootCmd.cmd.SetArgs(args[1:])

	return rootCmd.execute()
}

func checkSubcommand(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: cargo mutants <ARGS>\n   or: cargo-mutants mutants <ARGS>")

		return execution.NewExitErr(execution.Usage)
	}
	if args[0] != "mutants" {
		fmt.Fprintf(os.Stderr, "unrecognized cargo subcommand %q\n", args[0])

		return execution.NewExitErr(execution.Usage)
	}

	return nil
}

type rootCmd struct {
	cmd *cobra.Command
}

func (rc rootCmd) execute() error {
	var cfgFile string
	cobra.OnInitialize(func() {
		err := configuration.Init([]string{cfgFile})
		if err != nil {
			log.Errorf("initialization error: %s\n", err)
			os.Exit(1)
		}
	})
	rc.cmd.PersistentFlags().StringVar(&cfgFile, paramConfigFile, "", "override config file")

	return rc.cmd.Execute()
}

func newRootCmd(ctx context.Context, version string) (*rootCmd, error) {
	if version == "" {
		return nil, errors.New("expected a version string")
	}

	mc, err := newMutantsCmd(ctx)
	if err != nil {
		return nil, err
	}
	mc.cmd.Version = version

	return &rootCmd{cmd: mc.cmd}, nil
}

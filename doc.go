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

/*
cargo-mutants is a mutation testing tool for Rust crates.
It mutates function bodies on the syntactic surface of the source (no typed
IR), and checks that the crate's own test suite notices each change. A
surviving mutant — one the tests don't catch — usually means the code it
replaced wasn't really exercised by any test.

Usage

Installed as a cargo subcommand plugin, it can be invoked either as:

	  $ cargo mutants

or directly as:

	  $ cargo-mutants mutants

Both forms end up running the same binary with the same "mutants" gate.

To list the mutations that would be tried, without building or testing
anything:

  $ cargo mutants --list

To run a faster, less meaningful pass that only checks each mutant builds:

  $ cargo mutants --check


Each mutant is reported as one of:
 - caught: the test suite failed on the mutated crate, as desired.
 - not caught: the test suite passed despite the mutation; likely a coverage gap.
 - unviable: the mutated crate failed to build; excluded from scoring.
 - timeout: the mutated crate's test run exceeded its timeout.

Configuration

Configuration is layered through Viper (https://github.com/spf13/viper):

 - specific command flags
 - environment variables
 - configuration file

in which each item takes precedence over the following in the list.
The environment variables must be set with the following syntax:

  CARGOMUTANTS_<COMMAND NAME>_<FLAG NAME>

in which every dash or dot in the option name must be replaced with an underscore.

Example:

  $ CARGOMUTANTS_MUTANTS_CHECK=true cargo mutants


The configuration file must be named
 .cargo-mutants.yaml
and can be placed in one of the following locations (in search order)

 - /etc/cargo-mutants (not on Windows)
 - $XDG_CONFIG_HOME/cargo-mutants/cargo-mutants ($HOME/.config when unset)
 - $HOME/.cargo-mutants
 - the current folder
*/
package rustmutants

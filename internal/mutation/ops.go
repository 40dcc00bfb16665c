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

package mutation

import "strings"

// Op identifies the kind of replacement body a Mutation installs.
type Op int

const (
	Unit Op = iota
	True
	False
	EmptyString
	Xyzzy
	OkDefault
	Default
)

func (o Op) String() string {
	switch o {
	case Unit:
		return "unit"
	case True:
		return "true"
	case False:
		return "false"
	case EmptyString:
		return "empty_string"
	case Xyzzy:
		return "xyzzy"
	case OkDefault:
		return "ok_default"
	case Default:
		return "default"
	default:
		panic("this should not happen")
	}
}

// opReplacement is, for each Op, the literal Rust expression substituted as
// the entire function body. EmptyString and Xyzzy are further specialized
// by the exact return-type spelling, since String and &str need different
// literal forms for the same intent.
var opReplacement = map[Op]string{
	Unit:      "()",
	True:      "true",
	False:     "false",
	OkDefault: "Ok(Default::default())",
	Default:   "Default::default()",
}

// Replacement returns the literal body text this Op installs for a function
// whose return type renders as returnType.
func (o Op) Replacement(returnType string) string {
	rt := strings.TrimSpace(returnType)
	switch o {
	case EmptyString:
		if rt == "String" {
			return "String::new()"
		}
		return `""`
	case Xyzzy:
		if rt == "String" {
			return `"xyzzy".into()`
		}
		return `"xyzzy"`
	default:
		return opReplacement[o]
	}
}

// lastPathSegment returns the final ::-separated component of a (possibly
// generic) Rust path type, e.g. "std::io::Result<T>" -> "Result",
// "Gadget" -> "Gadget". Operator selection only ever looks at this segment,
// never the fully qualified path.
func lastPathSegment(rt string) string {
	if i := strings.IndexByte(rt, '<'); i >= 0 {
		rt = rt[:i]
	}
	rt = strings.TrimSpace(rt)
	if i := strings.LastIndex(rt, "::"); i >= 0 {
		rt = rt[i+2:]
	}

	return rt
}

// OpsForReturnType returns, in a fixed order, every Op applicable to a
// function whose return type renders as returnType ("" for a function with
// no -> clause, i.e. unit).
//
// This mirrors ops_for_return_type in the upstream tool this package's
// behavior is modeled on: dispatch is driven entirely by the textual shape
// of the return type, never by resolving it against a type system. String
// and Xyzzy/EmptyString only match the exact path "String" (not "&str" or
// any reference type); Result is matched by its last path segment, so a
// qualified path like "std::io::Result<T>" still gets OkDefault.
func OpsForReturnType(returnType string) []Op {
	rt := strings.TrimSpace(returnType)
	switch {
	case rt == "":
		return []Op{Unit}
	case rt == "bool":
		return []Op{True, False}
	case rt == "String":
		return []Op{EmptyString, Xyzzy}
	case lastPathSegment(rt) == "Result":
		return []Op{OkDefault}
	default:
		return []Op{Default}
	}
}

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

// Package discovery walks a SourceTree's syntactic token stream to find
// every mutable function body and the mutations applicable to it, skipping
// anything excluded by a #[test], #[cfg(test)] or #[mutants::skip]
// attribute.
package discovery

import (
	"strings"

	"github.com/rustmutants/rustmutants/internal/mutation"
	"github.com/rustmutants/rustmutants/internal/rustsyn"
	"github.com/rustmutants/rustmutants/internal/sourcetree"
)

// Discover streams every Mutation found across tree onto the returned
// channel, closing it once every file has been scanned. Discovery itself
// makes no concurrency guarantee about ordering beyond file order; it is the
// consumer (internal/lab) that evaluates mutants strictly sequentially.
func Discover(tree *sourcetree.SourceTree) <-chan *mutation.Mutation {
	out := make(chan *mutation.Mutation)
	go func() {
		defer close(out)
		for _, file := range tree.Files {
			for _, m := range discoverInFile(file) {
				out <- m
			}
		}
	}()

	return out
}

// All collects Discover's output into a slice, for callers (listing,
// tests) that want every mutation up front rather than streamed.
func All(tree *sourcetree.SourceTree) []*mutation.Mutation {
	var muts []*mutation.Mutation
	for m := range Discover(tree) {
		muts = append(muts, m)
	}

	return muts
}

type frame struct {
	name  string
	popAt int // token index of the matching '}'
}

func discoverInFile(file *sourcetree.SourceFile) []*mutation.Mutation {
	toks := rustsyn.Scan(file.Text)
	match := rustsyn.MatchDelims(toks)

	var muts []*mutation.Mutation
	var stack []frame
	var pendingAttrs []rustsyn.Token

	namespacePath := func() []string {
		names := make([]string, 0, len(stack))
		for _, f := range stack {
			if f.name != "" {
				names = append(names, f.name)
			}
		}

		return names
	}

	i := 0
	for i < len(toks) {
		for len(stack) > 0 && i == stack[len(stack)-1].popAt {
			stack = stack[:len(stack)-1]
			i++
		}
		if i >= len(toks) {
			break
		}
		tok := toks[i]

		switch {
		case tok.Kind == rustsyn.Attribute:
			pendingAttrs = append(pendingAttrs, tok)
			i++

		case tok.Kind == rustsyn.Keyword && tok.Text == "mod":
			attrs := pendingAttrs
			pendingAttrs = nil
			nameIdx := i + 1
			if nameIdx >= len(toks) {
				i++
				continue
			}
			name := toks[nameIdx].Text
			braceIdx := findToken(toks, nameIdx+1, "{")
			if braceIdx == -1 {
				// `mod foo;` declares an external file; nothing to descend into here.
				i = nameIdx + 1
				continue
			}
			if attrsExcluded(attrs) {
				i = match[braceIdx] + 1
				continue
			}
			stack = append(stack, frame{name: name, popAt: match[braceIdx]})
			i = braceIdx + 1

		case tok.Kind == rustsyn.Keyword && tok.Text == "impl":
			attrs := pendingAttrs
			pendingAttrs = nil
			braceIdx := findToken(toks, i+1, "{")
			if braceIdx == -1 {
				i++
				continue
			}
			name := typeNameString(toks[i+1 : braceIdx])
			if attrsExcluded(attrs) {
				i = match[braceIdx] + 1
				continue
			}
			stack = append(stack, frame{name: name, popAt: match[braceIdx]})
			i = braceIdx + 1

		case tok.Kind == rustsyn.Keyword && tok.Text == "fn":
			attrs := pendingAttrs
			pendingAttrs = nil
			fnMuts, next := discoverFn(file, toks, match, i, namespacePath(), attrs)
			muts = append(muts, fnMuts...)
			i = next

		default:
			i++
		}
	}

	return muts
}

// discoverFn parses one `fn ... { ... }` item starting at the `fn` keyword
// token index start, returning any mutations found (none, if the function
// is excluded) and the token index just past the closing '}' of its body.
func discoverFn(file *sourcetree.SourceFile, toks []rustsyn.Token, match []int, start int, namespace []string, attrs []rustsyn.Token) ([]*mutation.Mutation, int) {
	if start+1 >= len(toks) {
		return nil, len(toks)
	}
	name := toks[start+1].Text

	parenIdx := findToken(toks, start+2, "(")
	if parenIdx == -1 || match[parenIdx] == -1 {
		return nil, len(toks)
	}
	parenClose := match[parenIdx]

	j := parenClose + 1
	returnType := ""
	if j < len(toks) && toks[j].Text == "->" {
		j++
		retStart := j
		for j < len(toks) && toks[j].Text != "{" && toks[j].Text != "where" {
			j++
		}
		if j < len(toks) && j > retStart {
			returnType = sourceBetween(file.Text, toks[retStart].Start, toks[j-1].End)
		}
	}
	for j < len(toks) && toks[j].Text != "{" {
		j++
	}
	if j >= len(toks) {
		return nil, len(toks)
	}
	braceIdx := j
	bodyEnd := match[braceIdx]
	if bodyEnd == -1 {
		return nil, len(toks)
	}
	next := bodyEnd + 1

	if attrsExcluded(attrs) {
		return nil, next
	}

	fullName := strings.Join(append(append([]string{}, namespace...), name), "::")
	line := 1 + strings.Count(string(file.Text[:toks[start].Start]), "\n")

	var muts []*mutation.Mutation
	for _, op := range mutation.OpsForReturnType(returnType) {
		muts = append(muts, mutation.New(file, op, fullName, returnType, toks[braceIdx].End, toks[bodyEnd].Start, line))
	}

	return muts, next
}

func findToken(toks []rustsyn.Token, from int, text string) int {
	for i := from; i < len(toks); i++ {
		if toks[i].Text == text {
			return i
		}
	}

	return -1
}

func sourceBetween(src []byte, start, end int) string {
	return strings.TrimSpace(string(src[start:end]))
}

// typeNameString returns the bare identifier naming an impl's Self type, or
// "<??>" if it isn't a single bare path segment (generics, qualified paths,
// tuples, references, ...). For a trait impl ("impl Trait for Ty") it looks
// at Ty, the type after "for".
func typeNameString(tokens []rustsyn.Token) string {
	tokens = stripLeadingGenericParams(tokens)

	if forIdx := indexOfKeyword(tokens, "for"); forIdx != -1 {
		tokens = tokens[forIdx+1:]
	}

	if len(tokens) == 1 && tokens[0].Kind == rustsyn.Ident {
		return tokens[0].Text
	}

	return "<??>"
}

func stripLeadingGenericParams(tokens []rustsyn.Token) []rustsyn.Token {
	if len(tokens) == 0 || tokens[0].Text != "<" {
		return tokens
	}
	depth := 0
	for i, t := range tokens {
		switch t.Text {
		case "<":
			depth++
		case ">":
			depth--
			if depth == 0 {
				return tokens[i+1:]
			}
		}
	}

	return tokens
}

func indexOfKeyword(tokens []rustsyn.Token, text string) int {
	for i, t := range tokens {
		if t.Kind == rustsyn.Keyword && t.Text == text {
			return i
		}
	}

	return -1
}

func attrsExcluded(attrs []rustsyn.Token) bool {
	for _, a := range attrs {
		if attrIsTest(a.Text) || attrIsCfgTest(a.Text) || attrIsMutantsSkip(a.Text) {
			return true
		}
	}

	return false
}

func attrIsTest(text string) bool {
	return text == "#[test]"
}

// attrIsCfgTest reports whether text is an attribute whose path is `cfg` and
// whose meta-list contains a bare `test` path, e.g. `#[cfg(test)]` or
// `#[cfg(any(test, feature = "fuzzing"))]`. A substring match on "test" would
// also wrongly fire on `#[cfg(not(test))]` or `#[cfg(feature = "fastest")]`,
// so the parenthesized meta-list is parsed into its top-level comma-separated
// items instead.
func attrIsCfgTest(text string) bool {
	body := strings.TrimSpace(text)
	body = strings.TrimPrefix(body, "#[")
	body = strings.TrimSuffix(body, "]")
	body = strings.TrimSpace(body)

	if !strings.HasPrefix(body, "cfg") {
		return false
	}
	body = strings.TrimSpace(strings.TrimPrefix(body, "cfg"))
	if !strings.HasPrefix(body, "(") || !strings.HasSuffix(body, ")") {
		return false
	}
	meta := body[1 : len(body)-1]

	return cfgMetaContainsTest(meta)
}

// cfgMetaContainsTest reports whether any top-level item of a cfg(...)
// meta-list is the bare path `test`, recursing into any(...) and all(...)
// combinators (but not not(...)) so `#[cfg(any(test, ...))]` is also recognized, while
// `#[cfg(not(test))]` is not (its top-level item is `not(test)`, not `test`).
func cfgMetaContainsTest(meta string) bool {
	for _, item := range splitTopLevel(meta) {
		item = strings.TrimSpace(item)
		if item == "test" {
			return true
		}
		if rest, ok := stripCombinator(item, "any"); ok {
			if cfgMetaContainsTest(rest) {
				return true
			}
		}
		if rest, ok := stripCombinator(item, "all"); ok {
			if cfgMetaContainsTest(rest) {
				return true
			}
		}
	}

	return false
}

func stripCombinator(item, name string) (string, bool) {
	item = strings.TrimSpace(item)
	if !strings.HasPrefix(item, name+"(") || !strings.HasSuffix(item, ")") {
		return "", false
	}

	return item[len(name)+1 : len(item)-1], true
}

// splitTopLevel splits a comma-separated meta-list on commas that are not
// nested inside parentheses.
func splitTopLevel(s string) []string {
	var items []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				items = append(items, s[start:i])
				start = i + 1
			}
		}
	}
	items = append(items, s[start:])

	return items
}

func attrIsMutantsSkip(text string) bool {
	stripped := strings.ReplaceAll(text, " ", "")

	return strings.Contains(stripped, "mutants::skip")
}

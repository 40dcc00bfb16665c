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

package rustsyn

var closingOf = map[string]string{"{": "}", "(": ")", "[": "]"}

// MatchDelims returns, for every token index, the index of its matching
// delimiter: for an opener, the index of the closer; for a closer, the
// index of the opener. Indices with no delimiter role map to -1.
//
// This plays the role of go/parser's implicit bracket matching for a
// language we don't have a parser for: discovery walks tokens rather than
// an AST, and needs to jump over a function's parameter list or body
// without itself tracking nesting at every call site.
func MatchDelims(toks []Token) []int {
	match := make([]int, len(toks))
	for i := range match {
		match[i] = -1
	}

	type open struct {
		idx  int
		text string
	}
	var stack []open
	for i, tok := range toks {
		if tok.Kind != Punct {
			continue
		}
		if _, ok := closingOf[tok.Text]; ok {
			stack = append(stack, open{i, tok.Text})
			continue
		}
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if closingOf[top.text] == tok.Text {
				stack = stack[:len(stack)-1]
				match[top.idx] = i
				match[i] = top.idx
			}
		}
	}

	return match
}

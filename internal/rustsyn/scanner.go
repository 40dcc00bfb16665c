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

// Package rustsyn scans Rust source on its syntactic surface: just enough
// lexical structure (identifiers, keywords, punctuation, matched delimiters,
// attributes) for mutation discovery to walk -- no typed IR, no macro
// expansion, no semantic resolution. It plays the role go/scanner and
// go/token play for the engines in this family of tools, reimplemented for
// a language the standard library has no front end for.
package rustsyn

// Kind classifies a Token.
type Kind int

const (
	Ident Kind = iota
	Keyword
	Punct
	String
	Lifetime
	Attribute // the full #[...] text, including the brackets
	Other
)

// Token is one lexical unit together with its byte span in the source.
type Token struct {
	Kind  Kind
	Text  string
	Start int
	End   int
}

// keywords relevant to discovery; anything else lexes as Ident.
var keywords = map[string]bool{
	"fn": true, "mod": true, "impl": true, "for": true, "pub": true,
	"struct": true, "enum": true, "trait": true, "where": true,
	"let": true, "const": true, "static": true, "unsafe": true, "async": true,
	"return": true, "if": true, "else": true, "match": true, "use": true,
}

// Scan tokenizes src, skipping whitespace and comments.
func Scan(src []byte) []Token {
	var toks []Token
	i, n := 0, len(src)
	for i < n {
		c := src[i]
		switch {
		case isSpace(c):
			i++
		case c == '/' && i+1 < n && src[i+1] == '/':
			i = skipLineComment(src, i)
		case c == '/' && i+1 < n && src[i+1] == '*':
			i = skipBlockComment(src, i)
		case c == '#' && i+1 < n && src[i+1] == '[':
			start := i
			i = skipBracketed(src, i+1, '[', ']')
			toks = append(toks, Token{Kind: Attribute, Text: string(src[start:i]), Start: start, End: i})
		case c == '"':
			start := i
			i = skipString(src, i)
			toks = append(toks, Token{Kind: String, Text: string(src[start:i]), Start: start, End: i})
		case c == '\'' && isLifetimeStart(src, i):
			start := i
			i = skipLifetime(src, i)
			toks = append(toks, Token{Kind: Lifetime, Text: string(src[start:i]), Start: start, End: i})
		case c == '\'':
			start := i
			i = skipCharLiteral(src, i)
			toks = append(toks, Token{Kind: String, Text: string(src[start:i]), Start: start, End: i})
		case isIdentStart(c):
			start := i
			i = skipIdent(src, i)
			text := string(src[start:i])
			kind := Ident
			if keywords[text] {
				kind = Keyword
			}
			toks = append(toks, Token{Kind: kind, Text: text, Start: start, End: i})
		default:
			start := i
			i = skipPunct(src, i)
			toks = append(toks, Token{Kind: Punct, Text: string(src[start:i]), Start: start, End: i})
		}
	}

	return toks
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func skipIdent(src []byte, i int) int {
	for i < len(src) && isIdentCont(src[i]) {
		i++
	}

	return i
}

func skipLineComment(src []byte, i int) int {
	for i < len(src) && src[i] != '\n' {
		i++
	}

	return i
}

func skipBlockComment(src []byte, i int) int {
	i += 2
	depth := 1
	for i < len(src) && depth > 0 {
		switch {
		case i+1 < len(src) && src[i] == '/' && src[i+1] == '*':
			depth++
			i += 2
		case i+1 < len(src) && src[i] == '*' && src[i+1] == '/':
			depth--
			i += 2
		default:
			i++
		}
	}

	return i
}

// skipBracketed skips past a balanced open/close run starting at an open
// delimiter, returning the offset just past the matching close.
func skipBracketed(src []byte, i int, open, close byte) int {
	depth := 0
	for i < len(src) {
		switch src[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1
			}
		case '"':
			i = skipString(src, i)
			continue
		}
		i++
	}

	return i
}

func skipString(src []byte, i int) int {
	i++ // opening quote
	for i < len(src) {
		if src[i] == '\\' {
			i += 2
			continue
		}
		if src[i] == '"' {
			return i + 1
		}
		i++
	}

	return i
}

func skipCharLiteral(src []byte, i int) int {
	i++
	for i < len(src) {
		if src[i] == '\\' {
			i += 2
			continue
		}
		if src[i] == '\'' {
			return i + 1
		}
		i++
	}

	return i
}

// isLifetimeStart reports whether the ' at offset i begins a lifetime
// ('a, 'static, ...) rather than a char literal ('a', '\n').
func isLifetimeStart(src []byte, i int) bool {
	j := i + 1
	if j >= len(src) || !isIdentStart(src[j]) {
		return false
	}
	j = skipIdent(src, j)

	return j >= len(src) || src[j] != '\''
}

func skipLifetime(src []byte, i int) int {
	i++
	return skipIdent(src, i)
}

var multiCharPunct = []string{"->", "::", "=>", "..=", "...", "..", "==", "!=", "<=", ">=", "&&", "||"}

func skipPunct(src []byte, i int) int {
	for _, p := range multiCharPunct {
		if i+len(p) <= len(src) && string(src[i:i+len(p)]) == p {
			return i + len(p)
		}
	}

	return i + 1
}

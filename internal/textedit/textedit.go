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

// Package textedit performs the byte-accurate splice that replaces a single
// region of source text -- the common primitive under both mutation
// rendering and mutant application.
package textedit

import (
	"fmt"
	"unicode/utf8"
)

// ReplaceRegion returns a copy of text with the byte range [start, end)
// replaced by replacement. start and end must fall on UTF-8 rune
// boundaries and satisfy 0 <= start <= end <= len(text).
func ReplaceRegion(text []byte, start, end int, replacement string) ([]byte, error) {
	if start < 0 || end < start || end > len(text) {
		return nil, fmt.Errorf("textedit: invalid region [%d, %d) for %d-byte input", start, end, len(text))
	}
	if !onRuneBoundary(text, start) || !onRuneBoundary(text, end) {
		return nil, fmt.Errorf("textedit: region [%d, %d) does not fall on a UTF-8 boundary", start, end)
	}

	out := make([]byte, 0, len(text)-(end-start)+len(replacement))
	out = append(out, text[:start]...)
	out = append(out, replacement...)
	out = append(out, text[end:]...)

	return out, nil
}

func onRuneBoundary(text []byte, offset int) bool {
	if offset == 0 || offset == len(text) {
		return true
	}

	return utf8.RuneStart(text[offset])
}

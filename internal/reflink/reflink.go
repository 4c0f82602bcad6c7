// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package reflink scans link reference definitions: the
// `[label]: destination "title"` lines that populate a document's link
// table without emitting any visible token. It is grounded on the
// teacher (zombiezen.com/go/commonmark)'s parseLinkLabel, parseLinkDestination
// and parseLinkTitle helpers, generalized to the normalized-label API
// mistune's link table expects, and on golang.org/x/text/cases for the
// Unicode case folding CommonMark's label-matching rules require.
package reflink

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Definition is the destination and optional title half of a parsed link
// reference definition.
type Definition struct {
	URL          string
	Title        string
	TitlePresent bool
}

var caseFold = cases.Fold()

// NormalizeLabel applies CommonMark's link label matching rule: Unicode
// case fold, then collapse runs of whitespace to a single space, then trim.
// Two labels that normalize to the same string refer to the same link
// reference definition.
func NormalizeLabel(label string) string {
	folded := caseFold.String(label)
	var sb strings.Builder
	sb.Grow(len(folded))
	inSpace := false
	for _, r := range strings.TrimSpace(folded) {
		if unicode.IsSpace(r) {
			if !inSpace {
				sb.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// ParseDefinition attempts to parse a link reference definition starting at
// src[pos:], which must be the beginning of a line. It returns the parsed
// definition, the definition's normalized label, the offset just past the
// definition (including its trailing line ending), and whether parsing
// succeeded.
func ParseDefinition(src string, pos int) (def Definition, label string, end int, ok bool) {
	rest := src[pos:]
	n := indentLen(rest)
	if n > 3 {
		return Definition{}, "", 0, false
	}
	rest = rest[n:]
	if len(rest) == 0 || rest[0] != '[' {
		return Definition{}, "", 0, false
	}
	rawLabel, afterLabel, ok := scanLinkLabel(rest, 1)
	if !ok || strings.TrimSpace(rawLabel) == "" {
		return Definition{}, "", 0, false
	}
	if afterLabel >= len(rest) || rest[afterLabel] != ':' {
		return Definition{}, "", 0, false
	}
	cursor := afterLabel + 1
	cursor = skipLinkSpace(rest, cursor)
	dest, cursor, ok := scanLinkDestination(rest, cursor)
	if !ok {
		return Definition{}, "", 0, false
	}

	afterDest := cursor
	savedCursor := cursor
	hasSpace := skipLinkSpace(rest, cursor) > cursor
	cursor = skipLinkSpace(rest, cursor)
	title, titleEnd, titleOK := scanLinkTitle(rest, cursor)

	var result Definition
	result.URL = dest
	finalCursor := afterDest
	if titleOK && hasSpace {
		restLine := rest[titleEnd:]
		if i := strings.IndexByte(restLine, '\n'); i < 0 || strings.TrimSpace(restLine[:i]) == "" {
			result.Title = title
			result.TitlePresent = true
			finalCursor = titleEnd
		}
	}
	if !result.TitlePresent {
		finalCursor = savedCursor
		restLine := rest[finalCursor:]
		i := strings.IndexByte(restLine, '\n')
		lineTail := restLine
		if i >= 0 {
			lineTail = restLine[:i]
		}
		if strings.TrimSpace(lineTail) != "" {
			return Definition{}, "", 0, false
		}
	}

	if i := strings.IndexByte(rest[finalCursor:], '\n'); i >= 0 {
		finalCursor += i + 1
	} else {
		finalCursor = len(rest)
	}

	return result, NormalizeLabel(rawLabel), pos + n + finalCursor, true
}

func indentLen(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

func skipLinkSpace(s string, pos int) int {
	for pos < len(s) {
		switch s[pos] {
		case ' ', '\t':
			pos++
			continue
		case '\n':
			pos++
			for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t') {
				pos++
			}
			return pos
		}
		break
	}
	return pos
}

// scanLinkLabel scans a `[...]` label body starting just after the opening
// bracket at pos, honoring backslash escapes and rejecting unescaped nested
// `[`. It returns the raw body (backslash escapes left in place), the
// offset just past the closing `]`, and whether a closed label of at most
// 999 bytes was found. An empty body is accepted here; rejecting a blank
// label is left to the caller.
func scanLinkLabel(s string, pos int) (label string, end int, ok bool) {
	start := pos
	for pos < len(s) {
		switch s[pos] {
		case '\\':
			pos += 2
			continue
		case '[':
			return "", 0, false
		case ']':
			if pos-start > 999 {
				return "", 0, false
			}
			return s[start:pos], pos + 1, true
		}
		pos++
	}
	return "", 0, false
}

// scanLinkDestination scans either a `<...>`-bracketed or bare link
// destination starting at pos, per CommonMark's link destination grammar.
func scanLinkDestination(s string, pos int) (dest string, end int, ok bool) {
	if pos >= len(s) {
		return "", 0, false
	}
	if s[pos] == '<' {
		i := pos + 1
		for i < len(s) {
			switch s[i] {
			case '\\':
				i += 2
				continue
			case '\n', '<':
				return "", 0, false
			case '>':
				return s[pos+1 : i], i + 1, true
			}
			i++
		}
		return "", 0, false
	}
	i := pos
	depth := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\':
			i += 2
			continue
		case c == '(':
			depth++
		case c == ')':
			if depth == 0 {
				goto done
			}
			depth--
		case c <= ' ' || c == 0x7f:
			goto done
		}
		i++
	}
done:
	if i == pos || depth != 0 {
		return "", 0, false
	}
	return s[pos:i], i, true
}

// scanLinkTitle scans a `"..."`, `'...'`, or `(...)` link title starting at
// pos.
func scanLinkTitle(s string, pos int) (title string, end int, ok bool) {
	if pos >= len(s) {
		return "", 0, false
	}
	open := s[pos]
	var close byte
	switch open {
	case '"':
		close = '"'
	case '\'':
		close = '\''
	case '(':
		close = ')'
	default:
		return "", 0, false
	}
	i := pos + 1
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
			continue
		case close:
			return s[pos+1 : i], i + 1, true
		case '(':
			if close == ')' {
				return "", 0, false
			}
		}
		i++
	}
	return "", 0, false
}

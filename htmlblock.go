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

package block

import (
	"regexp"
	"strings"

	"golang.org/x/net/html/atom"
)

// htmlBlockCondition identifies one of the seven CommonMark HTML block
// start conditions. Grounded on the teacher's htmlBlockConditions table
// (built from golang.org/x/net/html/atom), generalized from the teacher's
// AST-walking renderer to a line-oriented raw-text scanner matching
// mistune's `parse_raw_html`/block_html treatment.
type htmlBlockCondition int

const (
	htmlCondScriptPreStyle htmlBlockCondition = iota + 1
	htmlCondComment
	htmlCondProcessingInstr
	htmlCondDeclaration
	htmlCondCDATA
	htmlCondKnownTag
	htmlCondAnyTag
)

// htmlRawTags are the tags whose start tag alone opens an HTML block whose
// end condition is simply a following blank line (condition 6). Grounded
// on the teacher's block-tag set, itself derived from
// golang.org/x/net/html/atom's block-level tag list, intersected with the
// specific name list CommonMark's condition 6 enumerates.
var htmlRawTags = buildHTMLRawTags()

func buildHTMLRawTags() map[string]bool {
	names := []atom.Atom{
		atom.Address, atom.Article, atom.Aside, atom.Base, atom.Basefont,
		atom.Blockquote, atom.Body, atom.Caption, atom.Center, atom.Col,
		atom.Colgroup, atom.Dd, atom.Details, atom.Dialog, atom.Dir,
		atom.Div, atom.Dl, atom.Dt, atom.Fieldset, atom.Figcaption,
		atom.Figure, atom.Footer, atom.Form, atom.Frame, atom.Frameset,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Head, atom.Header, atom.Hr, atom.Html, atom.Iframe,
		atom.Legend, atom.Li, atom.Link, atom.Main, atom.Menu,
		atom.Menuitem, atom.Nav, atom.Noframes, atom.Ol, atom.Optgroup,
		atom.Option, atom.P, atom.Param, atom.Section, atom.Summary,
		atom.Table, atom.Tbody, atom.Td, atom.Tfoot, atom.Th,
		atom.Thead, atom.Title, atom.Tr, atom.Track, atom.Ul,
	}
	m := make(map[string]bool, len(names))
	for _, a := range names {
		m[a.String()] = true
	}
	return m
}

var (
	htmlCond1OpenRE  = regexp.MustCompile(`(?i)^ {0,3}<(script|pre|style|textarea)(?:[ \t>]|$)`)
	htmlCond1CloseRE = regexp.MustCompile(`(?i)</(script|pre|style|textarea)>`)
	htmlCond2OpenRE  = regexp.MustCompile(`^ {0,3}<!--`)
	htmlCond3OpenRE  = regexp.MustCompile(`^ {0,3}<\?`)
	htmlCond4OpenRE  = regexp.MustCompile(`^ {0,3}<![A-Za-z]`)
	htmlCond5OpenRE  = regexp.MustCompile(`^ {0,3}<!\[CDATA\[`)
	htmlCond6OpenRE  = regexp.MustCompile(`(?i)^ {0,3}</?([a-z][a-z0-9-]*)(?:[ \t>]|/>|$)`)
	htmlCond7OpenRE  = regexp.MustCompile(`(?i)^ {0,3}(?:<[a-z][a-z0-9-]*(?:[ \t]+[a-z_:][a-zA-Z0-9_.:-]*(?:[ \t]*=[ \t]*(?:[^\s"'=<>` + "`" + `]+|'[^']*'|"[^"]*"))?)*[ \t]*/?>|</[a-z][a-z0-9-]*[ \t]*>)[ \t]*$`)
)

// htmlBlockRule matches the opening line of one of the seven HTML block
// start conditions and consumes lines up to (and, for most conditions,
// including) the matching end condition. Condition 7 (any complete tag
// alone on its line) may not interrupt an open paragraph; every other
// condition may.
func htmlBlockRule(ps *Parser, s *BlockState) (int, bool) {
	line := s.Src[s.cursor:nextLineEnd(s.Src, s.cursor)]
	cond, ok := classifyHTMLBlockStart(line)
	if !ok {
		return 0, false
	}
	if cond == htmlCondAnyTag {
		if end, ok := s.AppendParagraph(); ok {
			return end, true
		}
	}

	pos := s.cursor
	var raw strings.Builder
	for pos < len(s.Src) {
		lineEnd := nextLineEnd(s.Src, pos)
		l := s.Src[pos:lineEnd]
		raw.WriteString(l)
		pos = lineEnd
		if htmlBlockLineEnds(cond, l) {
			break
		}
		if pos < len(s.Src) && isBlankLine(s.Src[pos:nextLineEnd(s.Src, pos)]) && htmlBlockEndsOnBlank(cond) {
			break
		}
	}
	s.AddToken(&Token{Kind: BlockHTMLKind, Raw: raw.String()},
		strings.Count(s.Src[s.cursor:pos], "\n"))
	return pos, true
}

// isBlockHTMLBreak reports whether line opens an HTML block under
// conditions 1-6: the ones that may interrupt a paragraph and therefore
// also terminate a lazily-continued block quote or list item. Condition 7
// never interrupts anything.
func isBlockHTMLBreak(line string) bool {
	cond, ok := classifyHTMLBlockStart(line)
	return ok && cond != htmlCondAnyTag
}

func classifyHTMLBlockStart(line string) (htmlBlockCondition, bool) {
	// Without the m flag, Go's `$` matches only at the very end of the
	// text, so the line ending is dropped before the end-anchored patterns
	// are tried.
	line = strings.TrimSuffix(line, "\n")
	switch {
	case htmlCond1OpenRE.MatchString(line):
		return htmlCondScriptPreStyle, true
	case htmlCond2OpenRE.MatchString(line):
		return htmlCondComment, true
	case htmlCond3OpenRE.MatchString(line):
		return htmlCondProcessingInstr, true
	case htmlCond4OpenRE.MatchString(line):
		return htmlCondDeclaration, true
	case htmlCond5OpenRE.MatchString(line):
		return htmlCondCDATA, true
	}
	if m := htmlCond6OpenRE.FindStringSubmatch(line); m != nil {
		if htmlRawTags[strings.ToLower(m[1])] {
			return htmlCondKnownTag, true
		}
	}
	if htmlCond7OpenRE.MatchString(line) {
		return htmlCondAnyTag, true
	}
	return 0, false
}

// htmlBlockEndsOnBlank reports whether cond's HTML block is terminated by
// the next blank line (conditions 6 and 7), as opposed to an explicit
// closing delimiter (conditions 1-5).
func htmlBlockEndsOnBlank(cond htmlBlockCondition) bool {
	return cond == htmlCondKnownTag || cond == htmlCondAnyTag
}

func htmlBlockLineEnds(cond htmlBlockCondition, line string) bool {
	switch cond {
	case htmlCondScriptPreStyle:
		return htmlCond1CloseRE.MatchString(line)
	case htmlCondComment:
		return strings.Contains(line, "-->")
	case htmlCondProcessingInstr:
		return strings.Contains(line, "?>")
	case htmlCondDeclaration:
		return strings.Contains(line, ">")
	case htmlCondCDATA:
		return strings.Contains(line, "]]>")
	}
	return false
}

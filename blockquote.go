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
)

var (
	blockQuoteStartRE = regexp.MustCompile(`^ {0,3}>([^\n]*)(?:\n|$)`)
	strictQuoteRunRE  = regexp.MustCompile(`^(?: {0,3}>[^\n]*(?:\n|$))+`)
	quoteLeadingRE    = regexp.MustCompile(`(?m)^ *>`)
	quoteMarkerGapRE  = regexp.MustCompile(`(?m)^ ?`)
	lineBlankEndRE    = regexp.MustCompile(`\n[ \t]*\n$`)
)

// blockQuoteRule matches a block quote's opening line, accumulates a
// buffer of de-quoted text, and recursively parses it with a child state
// sharing the outer env.
//
// If the first line's de-quoted text would itself open an indented or
// fenced code block (or is blank), every continuation line must repeat the
// `>` marker: one contiguous strict run is taken and nothing more.
// Otherwise lazy continuation is on: a following line without `>` joins
// the quote's trailing paragraph unless it opens a blank line, thematic
// break, fenced code block, or HTML block — those rules run against the
// outer state and terminate the quote, whose token is then inserted
// before theirs with [BlockState.PrependToken] to keep source order. A
// blank line inside the quote switches lazy continuation off for the next
// line: without a marker there, the quote is over.
func blockQuoteRule(ps *Parser, s *BlockState) (int, bool) {
	m := s.Match(blockQuoteStartRE)
	if m == nil {
		return 0, false
	}
	if s.depth >= ps.maxNestedLevel {
		return 0, false
	}

	content := ""
	if m[2] >= 0 {
		content = s.Src[m[2]:m[3]]
	}
	text := trimQuoteMarkerGap(expandLeadingTab(content+"\n", 3))
	requireMarker := isBlankLine(text) ||
		indentCodeStartRE.MatchString(text) ||
		fencedCodeOpenRE.MatchString(text)

	quoteLine := s.line
	s.cursor = m[1]
	s.line++

	endPos := 0
	interrupted := false
	if requireMarker {
		if sm := s.Match(strictQuoteRunRE); sm != nil {
			run := s.Src[sm[0]:sm[1]]
			text += dequote(run)
			s.line += strings.Count(run, "\n")
			s.cursor = sm[1]
		}
	} else {
		prevBlank := false
		for s.cursor < s.cursorMax {
			if sm := s.Match(strictQuoteRunRE); sm != nil {
				run := s.Src[sm[0]:sm[1]]
				quote := dequote(run)
				text += quote
				s.line += strings.Count(run, "\n")
				s.cursor = sm[1]
				if strings.TrimSpace(quote) == "" {
					prevBlank = true
				} else {
					prevBlank = lineBlankEndRE.MatchString(quote)
				}
				continue
			}
			if prevBlank {
				break
			}
			lineEnd := s.FindLineEnd()
			line := s.Src[s.cursor:lineEnd]
			if end, ok := ps.quoteBreakRule(s, line); ok {
				endPos = end
				interrupted = true
				break
			}
			// Lazy continuation line.
			text += expandLeadingTab(line, 3)
			s.line++
			s.cursor = lineEnd
		}
	}

	// The second tab of a doubly-tabbed quote line counts as a full tab
	// stop (CommonMark example 6).
	text = expandTab(text)

	child := s.child(text, inBlockQuote)
	// Line numbers inside the quote count from its opening line, not from
	// wherever accumulation stopped.
	child.lineRoot = s.lineRoot + quoteLine - 1
	ps.parseBlocks(child)
	tok := &Token{Kind: BlockQuoteKind, Children: child.tokens}
	if interrupted {
		s.PrependToken(tok)
		return endPos, true
	}
	s.AppendToken(tok)
	return s.cursor, true
}

// quoteBreakRule checks line (the line at s's cursor) against the rules
// that terminate a lazily-continued block quote, and runs the matching
// handler against the outer state. ok reports whether a break rule fired
// and produced tokens.
func (ps *Parser) quoteBreakRule(s *BlockState, line string) (int, bool) {
	switch {
	case isBlankLine(line):
		return blankLineRule(ps, s)
	case thematicBreakRE.MatchString(line):
		return thematicBreakRule(ps, s)
	case fencedCodeOpenRE.MatchString(line):
		// A backtick fence with a backtick in its info string is refused
		// by the handler and continues the quote lazily instead.
		if end, ok := fencedCodeRule(ps, s); ok {
			return end, true
		}
		return 0, false
	case isBlockHTMLBreak(line):
		return htmlBlockRule(ps, s)
	}
	return 0, false
}

// dequote strips the quote markers from a strict run of `>` lines: the
// marker itself (with any indentation before it), then a tab directly
// after the marker expanded to three columns, then at most one space of
// separation per line.
func dequote(run string) string {
	q := quoteLeadingRE.ReplaceAllString(run, "")
	q = expandLeadingTab(q, 3)
	return trimQuoteMarkerGap(q)
}

// trimQuoteMarkerGap removes the single optional space separating a quote
// marker from its content on every line of text.
func trimQuoteMarkerGap(text string) string {
	return quoteMarkerGapRE.ReplaceAllString(text, "")
}

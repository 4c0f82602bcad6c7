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

// listMarker is one parsed list item marker: `-`, `+`, or `*` for bullet
// lists, or up to nine digits followed by `.` or `)` for ordered lists.
type listMarker struct {
	ordered    bool
	bullet     byte // bullet character, or 0 for ordered lists
	delim      byte // '.' or ')' for ordered lists
	start      int
	spaceWidth int    // leading spaces before the marker
	markerLen  int    // bytes of marker text, excluding indentation
	content    string // rest of the line after the marker, without newline
}

// scanListMarker reports the list marker (if any) beginning line, allowing
// at most maxIndent leading spaces. The marker must be followed by a
// space, a tab, or the end of the line.
func scanListMarker(line string, maxIndent int) (listMarker, bool) {
	var lm listMarker
	line = strings.TrimSuffix(line, "\n")
	i := 0
	for i < len(line) && line[i] == ' ' {
		i++
	}
	if i > maxIndent || i >= len(line) {
		return lm, false
	}
	lm.spaceWidth = i
	switch c := line[i]; c {
	case '-', '+', '*':
		lm.bullet = c
		lm.markerLen = 1
		i++
	default:
		if !isASCIIDigit(c) {
			return lm, false
		}
		j := i
		for j < len(line) && isASCIIDigit(line[j]) {
			j++
		}
		if j-i > 9 || j >= len(line) || (line[j] != '.' && line[j] != ')') {
			return lm, false
		}
		n := 0
		for _, d := range line[i:j] {
			n = n*10 + int(d-'0')
		}
		lm.ordered = true
		lm.start = n
		lm.delim = line[j]
		lm.markerLen = j - i + 1
		i = j + 1
	}
	if i < len(line) && line[i] != ' ' && line[i] != '\t' {
		return lm, false
	}
	lm.content = line[i:]
	return lm, true
}

func sameList(a, b listMarker) bool {
	if a.ordered != b.ordered {
		return false
	}
	if a.ordered {
		return a.delim == b.delim
	}
	return a.bullet == b.bullet
}

// itemContinueWidth derives an item's first-line text and continuation
// width from the raw content following its marker. A tab directly after
// the marker is worth three columns, later tabs four (CommonMark examples
// 6 and 7). Content indented five or more columns past the marker is
// indented code, so only one column of it belongs to the marker; an item
// with no first-line content likewise claims a single column.
func itemContinueWidth(content string, leadingWidth int) (text string, cw int) {
	t := expandTab(expandLeadingTab(content, 3))
	i := 0
	for i < len(t) && t[i] == ' ' {
		i++
	}
	if i >= len(t) {
		return "", leadingWidth + 1
	}
	sw := i
	if sw >= 5 {
		sw = 1
	}
	return t[sw:], leadingWidth + sw
}

// listItemEvent says how scanning an item's body ended.
type listItemEvent int

const (
	// listItemEnd means the item ran out of continuable lines: the cursor
	// is at end of input, at a run of trailing blank lines, or at a line
	// some other block rule will claim.
	listItemEnd listItemEvent = iota
	// listItemNext means the cursor is at another marker of the same list.
	listItemNext
)

// listRule matches the start of a list item and then greedily consumes
// every following item belonging to the same list (same bullet character,
// or same ordered-list delimiter), recursing into each item's de-indented
// body with a child state. The driver probes this rule whenever plain
// text is about to become paragraph material, rather than through the
// compiled alternation.
func listRule(ps *Parser, s *BlockState) (int, bool) {
	firstLine := s.Src[s.cursor:nextLineEnd(s.Src, s.cursor)]
	marker, ok := scanListMarker(firstLine, 3)
	if !ok {
		return 0, false
	}
	if last := s.LastToken(); last != nil && last.Kind == ParagraphKind {
		// Only a non-empty item may interrupt a paragraph, and an ordered
		// one only when its list starts at 1.
		if strings.TrimSpace(marker.content) == "" {
			return 0, false
		}
		if marker.ordered && marker.start != 1 {
			return 0, false
		}
	}
	if s.depth >= ps.maxNestedLevel {
		return 0, false
	}

	ordered := marker.ordered
	startNum := marker.start
	var items []*Token
	cursor := s.cursor
	for {
		lw := marker.spaceWidth + marker.markerLen
		effBound := lw
		if effBound > 3 {
			effBound = 3
		}
		firstText, cw := itemContinueWidth(marker.content, lw)
		emptyItem := strings.TrimSpace(firstText) == ""

		startLine := s.lineRoot + s.line
		afterFirst := nextLineEnd(s.Src, cursor)
		bodyEnd, event := scanListItemBody(s.Src, afterFirst, marker, effBound, cw, emptyItem)

		text := cleanListItemText(s.Src[afterFirst:bodyEnd], firstText, cw)
		if s.listTight && lineBlankEndRE.MatchString(text) {
			s.listTight = false
		}
		child := s.child(stripTrailingBlankLines(text), inListItem)
		ps.parseBlocks(child)
		if s.listTight {
			for _, tok := range child.tokens {
				if tok.Kind == BlankLineKind {
					s.listTight = false
					break
				}
			}
		}

		consumed := s.Src[cursor:bodyEnd]
		span := strings.Count(consumed, "\n")
		if !strings.HasSuffix(consumed, "\n") {
			span++
		}
		items = append(items, &Token{
			Kind:      ListItemKind,
			Children:  child.tokens,
			StartLine: startLine,
			EndLine:   startLine + span - 1,
		})
		s.line += strings.Count(consumed, "\n")
		cursor = bodyEnd
		if event != listItemNext {
			break
		}
		next, ok := scanListMarker(s.Src[cursor:nextLineEnd(s.Src, cursor)], effBound)
		if !ok || !sameList(marker, next) {
			break
		}
		marker = next
	}

	tight := s.listTight
	depth := s.depth
	for _, it := range items {
		it.Attrs = attrsWith("depth", depth, "tight", tight)
	}
	attrs := attrsWith("ordered", ordered, "depth", depth, "tight", tight)
	if ordered && startNum != 1 {
		attrs["start"] = startNum
	}
	s.AddToken(&Token{Kind: ListKind, Attrs: attrs, Children: items}, 0)
	s.listTight = true
	return cursor, true
}

// scanListItemBody walks the lines after an item's marker line and decides
// where the item stops. A line continues the item if its tab-expanded
// indentation reaches cw columns, or (directly below item text, with no
// blank line between) as a lazy paragraph continuation. A same-family
// marker within effBound columns starts the next item; a thematic break,
// fenced code fence, ATX heading, block quote, HTML block, or
// different-family marker within effBound columns ends the whole list. A
// run of blank lines stays inside the item only when item material
// follows it — trailing blanks before end of input or before a
// terminating construct are left for the outer state.
func scanListItemBody(src string, pos int, lm listMarker, effBound, cw int, emptyItem bool) (end int, event listItemEvent) {
	for pos < len(src) {
		lineEnd := nextLineEnd(src, pos)
		line := src[pos:lineEnd]

		if isBlankLine(line) {
			after := lineEnd
			for after < len(src) && isBlankLine(src[after:nextLineEnd(src, after)]) {
				after = nextLineEnd(src, after)
			}
			if after >= len(src) {
				return pos, listItemEnd
			}
			next := src[after:nextLineEnd(src, after)]
			if mk, ok := scanListMarker(next, effBound); ok && sameList(lm, mk) {
				pos = after
				continue
			}
			if !emptyItem && leadingSpaceLen(expandItemIndent(next)) >= cw {
				pos = after
				continue
			}
			return pos, listItemEnd
		}

		if leadingSpaceLen(line) <= effBound {
			if thematicBreakRE.MatchString(line) {
				return pos, listItemEnd
			}
			if mk, ok := scanListMarker(line, effBound); ok {
				if sameList(lm, mk) {
					return pos, listItemNext
				}
				return pos, listItemEnd
			}
			if fencedCodeOpenRE.MatchString(line) ||
				atxHeadingRE.MatchString(line) ||
				blockQuoteStartRE.MatchString(line) ||
				isBlockHTMLBreak(line) {
				return pos, listItemEnd
			}
		}
		pos = lineEnd
	}
	return len(src), listItemEnd
}

// cleanListItemText assembles an item's de-indented body: the first line's
// text (already stripped by [itemContinueWidth]), then every scanned line
// with cw columns of indentation removed. Lines too shallow to strip —
// lazy continuation text — are kept verbatim.
func cleanListItemText(src, firstText string, cw int) string {
	var rv []string
	if firstText != "" {
		rv = append(rv, firstText)
	}
	trimSpace := strings.Repeat(" ", cw)
	for _, line := range strings.Split(src, "\n") {
		expanded := expandItemIndent(line)
		if strings.HasPrefix(expanded, trimSpace) {
			rv = append(rv, expanded[cw:])
		} else {
			rv = append(rv, line)
		}
	}
	return strings.Join(rv, "\n")
}

var trailingBlankLinesRE = regexp.MustCompile(`\n(?:[ \t]*\n)+$`)

// stripTrailingBlankLines collapses a trailing run of blank lines in an
// item's body to a single blank line, so the child state records at most
// one blank_line token for it.
func stripTrailingBlankLines(text string) string {
	return trailingBlankLinesRE.ReplaceAllString(text, "\n\n")
}
